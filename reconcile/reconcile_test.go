package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/mdiallo/cotisation-manager-go/models"
)

func newMembers(n int) []models.Member {
	members := make([]models.Member, n)
	for i := range members {
		members[i] = models.Member{ID: primitive.NewObjectID(), Nom: "Membre", Prenom: string(rune('A' + i))}
	}
	return members
}

func paidRow(member models.Member, contribution models.Contribution) models.Payment {
	now := time.Now()
	return models.Payment{
		ID:           primitive.NewObjectID(),
		MembreID:     member.ID,
		CotisationID: contribution.ID,
		Payer:        true,
		DatePaiement: &now,
	}
}

func TestResolveStatusesAbsentRowMeansUnpaid(t *testing.T) {
	members := newMembers(3)
	contribution := models.Contribution{ID: primitive.NewObjectID(), MontantUnitaire: 10000}
	payments := []models.Payment{paidRow(members[0], contribution)}

	statuses := ResolveStatuses(members, payments, contribution.ID)
	require.Len(t, statuses, len(members))

	assert.True(t, statuses[0].Paid)
	require.NotNil(t, statuses[0].PaymentID)
	assert.Equal(t, payments[0].ID, *statuses[0].PaymentID)
	assert.NotNil(t, statuses[0].PaymentDate)

	for _, s := range statuses[1:] {
		assert.False(t, s.Paid)
		assert.Nil(t, s.PaymentID)
		assert.Nil(t, s.PaymentDate)
	}
}

func TestResolveStatusesIgnoresOtherContributions(t *testing.T) {
	members := newMembers(2)
	target := models.Contribution{ID: primitive.NewObjectID()}
	other := models.Contribution{ID: primitive.NewObjectID()}
	payments := []models.Payment{paidRow(members[0], other)}

	statuses := ResolveStatuses(members, payments, target.ID)
	require.Len(t, statuses, 2)
	assert.False(t, statuses[0].Paid)
	assert.Nil(t, statuses[0].PaymentID)
}

func TestResolveStatusesSkipsOrphanedPaymentRows(t *testing.T) {
	members := newMembers(2)
	contribution := models.Contribution{ID: primitive.NewObjectID()}
	deleted := models.Member{ID: primitive.NewObjectID()}
	payments := []models.Payment{paidRow(deleted, contribution)}

	statuses := ResolveStatuses(members, payments, contribution.ID)
	require.Len(t, statuses, len(members))
	for _, s := range statuses {
		assert.False(t, s.Paid)
	}
}

func TestResolveStatusesExplicitUnpaidRowKeepsLinkage(t *testing.T) {
	members := newMembers(1)
	contribution := models.Contribution{ID: primitive.NewObjectID()}
	row := models.Payment{
		ID:           primitive.NewObjectID(),
		MembreID:     members[0].ID,
		CotisationID: contribution.ID,
		Payer:        false,
	}

	statuses := ResolveStatuses(members, []models.Payment{row}, contribution.ID)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Paid)
	require.NotNil(t, statuses[0].PaymentID)
	assert.Equal(t, row.ID, *statuses[0].PaymentID)
	assert.Nil(t, statuses[0].PaymentDate)
}

func TestSummarizeExampleScenario(t *testing.T) {
	members := newMembers(3)
	contribution := models.Contribution{ID: primitive.NewObjectID(), MontantUnitaire: 10000}
	payments := []models.Payment{paidRow(members[0], contribution)}

	summary := Summarize(members, payments, &contribution)
	assert.Equal(t, models.PaymentSummary{
		TotalMembers:         3,
		TotalPaid:            1,
		TotalUnpaid:          2,
		TotalAmountCollected: 10000,
		TotalAmountDue:       20000,
	}, summary)
}

func TestSummarizeNoPaymentsAtAll(t *testing.T) {
	members := newMembers(5)
	contribution := models.Contribution{ID: primitive.NewObjectID(), MontantUnitaire: 5000}

	summary := Summarize(members, nil, &contribution)
	assert.Equal(t, models.PaymentSummary{
		TotalMembers:   5,
		TotalUnpaid:    5,
		TotalAmountDue: 25000,
	}, summary)
}

func TestSummarizeNilContributionIsZero(t *testing.T) {
	members := newMembers(4)
	assert.Equal(t, models.PaymentSummary{}, Summarize(members, nil, nil))
}

func TestSummarizeInvariants(t *testing.T) {
	members := newMembers(7)
	contribution := models.Contribution{ID: primitive.NewObjectID(), MontantUnitaire: 2500}

	var payments []models.Payment
	for i := 0; i < 4; i++ {
		payments = append(payments, paidRow(members[i], contribution))
	}
	// an explicit unpaid row must not count as paid
	payments = append(payments, models.Payment{
		ID:           primitive.NewObjectID(),
		MembreID:     members[4].ID,
		CotisationID: contribution.ID,
		Payer:        false,
	})

	summary := Summarize(members, payments, &contribution)
	assert.Equal(t, len(members), summary.TotalPaid+summary.TotalUnpaid)
	assert.Equal(t, float64(len(members))*contribution.MontantUnitaire,
		summary.TotalAmountCollected+summary.TotalAmountDue)
	assert.Equal(t, 4, summary.TotalPaid)
}

func TestRollupExampleScenario(t *testing.T) {
	members := newMembers(3)
	x := models.Contribution{ID: primitive.NewObjectID(), MontantUnitaire: 10000}
	y := models.Contribution{ID: primitive.NewObjectID(), MontantUnitaire: 5000}
	contributions := []models.Contribution{x, y}
	payments := []models.Payment{
		paidRow(members[0], x),
		paidRow(members[1], x),
		paidRow(members[0], y),
	}

	report := Rollup(members, contributions, payments)
	assert.Equal(t, float64(25000), report.TotalCollected)
	assert.Equal(t, float64(50), report.PaymentRate)
	assert.Equal(t, 3, report.TotalMembers)
	assert.Equal(t, 2, report.TotalContributions)
}

func TestRollupSkipsDeletedContributionRows(t *testing.T) {
	members := newMembers(2)
	kept := models.Contribution{ID: primitive.NewObjectID(), MontantUnitaire: 1000}
	deleted := models.Contribution{ID: primitive.NewObjectID(), MontantUnitaire: 9000}
	payments := []models.Payment{
		paidRow(members[0], kept),
		paidRow(members[1], deleted),
	}

	report := Rollup(members, []models.Contribution{kept}, payments)
	assert.Equal(t, float64(1000), report.TotalCollected)
	// the orphaned paid row still counts toward the rate numerator
	assert.Equal(t, float64(100), report.PaymentRate)
}

func TestRollupEmptyGridRateIsZero(t *testing.T) {
	report := Rollup(nil, nil, nil)
	assert.Zero(t, report.PaymentRate)
	assert.Zero(t, report.TotalCollected)

	report = Rollup(newMembers(3), nil, nil)
	assert.Zero(t, report.PaymentRate)
}

func TestLatestContributionNilDueDatesRankLast(t *testing.T) {
	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	may := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	contributions := []models.Contribution{
		{ID: primitive.NewObjectID(), Type: "Mensuelle", DateEcheance: &march},
		{ID: primitive.NewObjectID(), Type: "Exceptionnelle"},
		{ID: primitive.NewObjectID(), Type: "Annuelle", DateEcheance: &may},
	}

	latest := LatestContribution(contributions)
	require.NotNil(t, latest)
	assert.Equal(t, "Annuelle", latest.Type)
}

func TestLatestContributionAllNilDates(t *testing.T) {
	contributions := []models.Contribution{
		{ID: primitive.NewObjectID(), Type: "Premiere"},
		{ID: primitive.NewObjectID(), Type: "Seconde"},
	}

	latest := LatestContribution(contributions)
	require.NotNil(t, latest)
	assert.Equal(t, "Premiere", latest.Type)

	assert.Nil(t, LatestContribution(nil))
}
