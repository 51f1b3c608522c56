// Package reconcile derives payment views from collection snapshots.
// Every function is pure: it takes the latest fetched members,
// contributions and payments and returns values, never touching the
// database. Callers re-fetch after a write and re-derive.
package reconcile

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/mdiallo/cotisation-manager-go/models"
)

// Snapshot holds one consistent read of the three collections. It is
// built per request and discarded; there is no cache to invalidate.
type Snapshot struct {
	Members       []models.Member
	Contributions []models.Contribution
	Payments      []models.Payment
}

// ResolveStatuses joins members against the payments of one
// contribution and returns one status per member, in member order.
// Payment rows whose member is no longer in the snapshot are skipped.
func ResolveStatuses(members []models.Member, payments []models.Payment, contributionID primitive.ObjectID) []models.MemberPaymentStatus {
	// index the target contribution's rows by member id so repeated
	// grid renders stay a single pass over payments
	byMember := make(map[primitive.ObjectID]models.Payment, len(payments))
	for _, p := range payments {
		if p.CotisationID == contributionID {
			byMember[p.MembreID] = p
		}
	}

	statuses := make([]models.MemberPaymentStatus, 0, len(members))
	for _, m := range members {
		status := models.MemberPaymentStatus{Member: m}
		if p, ok := byMember[m.ID]; ok {
			id := p.ID
			status.Paid = p.Payer
			status.PaymentID = &id
			status.PaymentDate = p.DatePaiement
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Summarize reduces one contribution's payments to totals. A nil
// contribution (deleted, or none selected) yields the zero summary,
// including a zero member count. Members with no payment row count as
// unpaid, so paid+unpaid always equals the member count.
func Summarize(members []models.Member, payments []models.Payment, contribution *models.Contribution) models.PaymentSummary {
	if contribution == nil {
		return models.PaymentSummary{}
	}

	totalPaid := 0
	for _, p := range payments {
		if p.CotisationID == contribution.ID && p.Payer {
			totalPaid++
		}
	}

	totalUnpaid := len(members) - totalPaid
	return models.PaymentSummary{
		TotalMembers:         len(members),
		TotalPaid:            totalPaid,
		TotalUnpaid:          totalUnpaid,
		TotalAmountCollected: float64(totalPaid) * contribution.MontantUnitaire,
		TotalAmountDue:       float64(totalUnpaid) * contribution.MontantUnitaire,
	}
}

// Rollup aggregates across every contribution for the reports screen.
// Only rows marked payer=true count; rows pointing at a deleted
// contribution are ignored. PaymentRate is paid rows over the
// members×contributions grid as a percentage, 0 for an empty grid.
func Rollup(members []models.Member, contributions []models.Contribution, payments []models.Payment) models.GlobalReport {
	unitAmounts := make(map[primitive.ObjectID]float64, len(contributions))
	for _, c := range contributions {
		unitAmounts[c.ID] = c.MontantUnitaire
	}

	report := models.GlobalReport{
		TotalMembers:       len(members),
		TotalContributions: len(contributions),
	}

	totalPaidRows := 0
	for _, p := range payments {
		if !p.Payer {
			continue
		}
		totalPaidRows++
		if amount, ok := unitAmounts[p.CotisationID]; ok {
			report.TotalCollected += amount
		}
	}

	if possible := len(contributions) * len(members); possible > 0 {
		report.PaymentRate = float64(totalPaidRows) / float64(possible) * 100
	}
	return report
}

// LatestContribution picks the default contribution for the dashboard:
// the one with the most recent due date. Contributions without a due
// date rank after every dated one. Returns nil on an empty slice.
func LatestContribution(contributions []models.Contribution) *models.Contribution {
	var latest *models.Contribution
	for i := range contributions {
		c := &contributions[i]
		if latest == nil || dueAfter(c.DateEcheance, latest.DateEcheance) {
			latest = c
		}
	}
	return latest
}

// dueAfter reports whether due date a ranks more recent than b, with
// nil treated as infinitely in the past.
func dueAfter(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
