package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberPaymentStatus is the derived paid/unpaid view of one member
// against one contribution. It is computed per request, never stored.
// PaymentID is nil when no payment row exists yet; an absent row means
// unpaid, same as an explicit payer=false row.
type MemberPaymentStatus struct {
	Member      Member              `json:"member"`
	Paid        bool                `json:"paid"`
	PaymentID   *primitive.ObjectID `json:"payment_id"`
	PaymentDate *time.Time          `json:"payment_date"`
}

// PaymentSummary aggregates one contribution's payment state.
// TotalPaid+TotalUnpaid always equals TotalMembers.
type PaymentSummary struct {
	TotalMembers         int     `json:"total_members"`
	TotalPaid            int     `json:"total_paid"`
	TotalUnpaid          int     `json:"total_unpaid"`
	TotalAmountCollected float64 `json:"total_amount_collected"`
	TotalAmountDue       float64 `json:"total_amount_due"`
}

// GlobalReport is the cross-contribution rollup shown on the reports
// screen. PaymentRate is a percentage, 0 when there is nothing to rate.
type GlobalReport struct {
	TotalMembers       int     `json:"total_members"`
	TotalContributions int     `json:"total_contributions"`
	TotalCollected     float64 `json:"total_collected"`
	PaymentRate        float64 `json:"payment_rate"`
}
