package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPlanStatusChangeCreateStampsNow(t *testing.T) {
	membre := primitive.NewObjectID()
	cotisation := primitive.NewObjectID()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	change := PlanStatusChange(nil, membre, cotisation, true, nil, now)
	assert.Equal(t, OpCreate, change.Op)
	assert.Equal(t, membre, change.MembreID)
	assert.Equal(t, cotisation, change.CotisationID)
	assert.True(t, change.Payer)
	require.NotNil(t, change.DatePaiement)
	assert.Equal(t, now, *change.DatePaiement)
}

func TestPlanStatusChangeExplicitDateWins(t *testing.T) {
	explicit := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	change := PlanStatusChange(nil, primitive.NewObjectID(), primitive.NewObjectID(), true, &explicit, time.Now())
	require.NotNil(t, change.DatePaiement)
	assert.Equal(t, explicit, *change.DatePaiement)
}

func TestPlanStatusChangeUnpaidClearsDate(t *testing.T) {
	// the explicit date must be ignored when marking unpaid
	explicit := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := primitive.NewObjectID()

	change := PlanStatusChange(&existing, primitive.NewObjectID(), primitive.NewObjectID(), false, &explicit, time.Now())
	assert.Equal(t, OpUpdate, change.Op)
	assert.Equal(t, existing, change.PaymentID)
	assert.False(t, change.Payer)
	assert.Nil(t, change.DatePaiement)
}

func TestPlanStatusChangeExistingRowUpdatesNotDuplicates(t *testing.T) {
	existing := primitive.NewObjectID()
	membre := primitive.NewObjectID()
	cotisation := primitive.NewObjectID()
	now := time.Now()

	first := PlanStatusChange(&existing, membre, cotisation, true, nil, now)
	second := PlanStatusChange(&existing, membre, cotisation, true, nil, now)

	assert.Equal(t, OpUpdate, first.Op)
	assert.Equal(t, first, second)
}
