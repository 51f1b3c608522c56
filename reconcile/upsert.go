package reconcile

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusChangeOp says whether a status toggle becomes an insert or an
// in-place update of the existing row.
type StatusChangeOp int

const (
	OpCreate StatusChangeOp = iota
	OpUpdate
)

// StatusChange is the planned write for one status toggle. PaymentID
// is only set for OpUpdate. DatePaiement is nil whenever Payer is
// false: reversing a payment always clears the date, even if the
// caller supplied one.
type StatusChange struct {
	Op           StatusChangeOp
	PaymentID    primitive.ObjectID
	MembreID     primitive.ObjectID
	CotisationID primitive.ObjectID
	Payer        bool
	DatePaiement *time.Time
}

// PlanStatusChange decides the single write for a toggle. When a row
// already exists for the (member, contribution) pair its id must be
// passed in, and the plan updates that row; this is the one place the
// at-most-one-row-per-pair invariant is enforced. A nil existingID
// plans a create. paid=true stamps the explicit date when given, else
// now; paid=false forces a nil date.
func PlanStatusChange(existingID *primitive.ObjectID, membreID, cotisationID primitive.ObjectID, paid bool, explicitDate *time.Time, now time.Time) StatusChange {
	change := StatusChange{
		MembreID:     membreID,
		CotisationID: cotisationID,
		Payer:        paid,
	}

	if paid {
		if explicitDate != nil {
			change.DatePaiement = explicitDate
		} else {
			change.DatePaiement = &now
		}
	}

	if existingID != nil {
		change.Op = OpUpdate
		change.PaymentID = *existingID
	}
	return change
}
