package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vantor/models"
)

func TestRecordGeneratesPrefixedReference(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("50.00"))

	var trx *models.Transaction
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		trx, err = Record(tx, RecordParams{
			UserID:   u.ID,
			WalletID: w.ID,
			Kind:     models.TxDeposit,
			Status:   models.TxCompleted,
			Amount:   dec("50.00"),
			Message:  "Initial deposit",
			Metadata: map[string]string{"source": "test"},
		})
		return err
	}))

	assert.True(t, strings.HasPrefix(trx.Reference, "DEP-"), "reference %q", trx.Reference)
	assert.True(t, trx.Amount.Equal(dec("50.00")))
	require.NotNil(t, trx.Metadata)
	assert.Contains(t, *trx.Metadata, `"source":"test"`)
}

func TestRecordExplicitReferenceConflict(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("50.00"))

	record := func(ref string) error {
		return db.Transaction(func(tx *gorm.DB) error {
			_, err := Record(tx, RecordParams{
				UserID:    u.ID,
				WalletID:  w.ID,
				Kind:      models.TxDeposit,
				Status:    models.TxCompleted,
				Amount:    dec("1.00"),
				Reference: ref,
			})
			return err
		})
	}

	require.NoError(t, record("DEP-FIXED-1"))
	require.ErrorIs(t, record("DEP-FIXED-1"), ErrDuplicateReference)
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := Record(tx, RecordParams{
			UserID:   1,
			WalletID: 1,
			Kind:     models.TxDeposit,
			Status:   models.TxPending,
			Amount:   dec("0"),
		})
		return err
	})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTransitionFirstWriterWins(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "AAA111")
	w := fundWallet(t, db, u.ID, models.WalletDeposit, dec("50.00"))

	var trx *models.Transaction
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		trx, err = Record(tx, RecordParams{
			UserID:   u.ID,
			WalletID: w.ID,
			Kind:     models.TxWithdrawal,
			Status:   models.TxPending,
			Amount:   dec("20.00"),
		})
		return err
	}))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Transition(tx, trx.ID, models.TxCompleted)
	}))

	// The loser of the race observes a terminal row.
	err := db.Transaction(func(tx *gorm.DB) error {
		return Transition(tx, trx.ID, models.TxCancelled)
	})
	require.ErrorIs(t, err, ErrAlreadyProcessed)

	var got models.Transaction
	require.NoError(t, db.First(&got, trx.ID).Error)
	assert.Equal(t, models.TxCompleted, got.Status)
	assert.True(t, got.Terminal())
	assert.NotNil(t, got.ProcessedAt)
}

func TestTransitionRejectsNonTerminalTarget(t *testing.T) {
	db := newTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Transition(tx, 1, models.TxPending)
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionUnknownTransaction(t *testing.T) {
	db := newTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Transition(tx, 9999, models.TxCompleted)
	})
	require.ErrorIs(t, err, ErrNotFound)
}
