package storage

import (
	"testing"
	"time"

	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *SnapshotStore {
	store, err := NewSnapshotStore(t.TempDir())
	assert.NoError(t, err)
	return store
}

func TestSnapshotStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	firstDate := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	loan := &models.Loan{
		ID:               7,
		Reference:        "a3b54c1e-0000-4000-8000-000000000001",
		Principal:        107000,
		PeriodsCount:     48,
		BiweeklyPayment:  3110.72,
		FirstPaymentDate: firstDate,
	}
	payments := []models.Payment{
		{LoanID: 7, PaymentNumber: 1, DueDate: firstDate, Amount: 3110.72, Status: models.PaymentStatusPending},
	}

	assert.NoError(t, store.Save(loan, payments))
	assert.True(t, store.Exists(loan.Reference))

	snapshot, err := store.Load(loan.Reference)
	assert.NoError(t, err)
	assert.Equal(t, loan.Reference, snapshot.Loan.Reference)
	assert.Equal(t, 107000.0, snapshot.Loan.Principal)
	assert.Len(t, snapshot.Payments, 1)
	assert.True(t, snapshot.Payments[0].DueDate.Equal(firstDate))
	assert.False(t, snapshot.SavedAt.IsZero())
}

func TestSnapshotStore_SaveReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	loan := &models.Loan{Reference: "ref-1", Principal: 1000}

	assert.NoError(t, store.Save(loan, nil))
	loan.Principal = 2000
	assert.NoError(t, store.Save(loan, nil))

	snapshot, err := store.Load(loan.Reference)
	assert.NoError(t, err)
	assert.Equal(t, 2000.0, snapshot.Loan.Principal)
}

func TestSnapshotStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	loan := &models.Loan{Reference: "ref-2"}

	assert.NoError(t, store.Save(loan, nil))
	assert.NoError(t, store.Delete(loan.Reference))
	assert.False(t, store.Exists(loan.Reference))
	assert.NoError(t, store.Delete(loan.Reference))
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("does-not-exist")

	assert.Error(t, err)
}
