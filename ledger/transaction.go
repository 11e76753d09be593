package ledger

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vantor/models"
)

const recordMaxAttempts = 3

// RecordParams describes a ledger entry to append.
type RecordParams struct {
	UserID            uint
	WalletID          uint
	PaymentAccountID  *uint
	Kind              string
	Status            string
	Amount            decimal.Decimal
	Fee               decimal.Decimal
	Message           string
	ExternalPaymentID *string
	Metadata          map[string]string
	// Reference overrides the generated scheme; used by tests and replays.
	Reference string
}

// Record appends a transaction row. The reference is regenerated and the
// insert retried a bounded number of times on a duplicate-key collision;
// an explicit Reference gets no retry and surfaces ErrDuplicateReference.
func Record(tx *gorm.DB, p RecordParams) (*models.Transaction, error) {
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var msg *string
	if p.Message != "" {
		msg = &p.Message
	}
	var meta *string
	if len(p.Metadata) > 0 {
		raw, err := json.Marshal(p.Metadata)
		if err != nil {
			return nil, err
		}
		s := string(raw)
		meta = &s
	}

	explicit := p.Reference != ""
	attempts := recordMaxAttempts
	if explicit {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		ref := p.Reference
		if !explicit {
			ref = NewReference(p.Kind, p.UserID)
		}
		trx := models.Transaction{
			Reference:         ref,
			UserID:            p.UserID,
			WalletID:          p.WalletID,
			PaymentAccountID:  p.PaymentAccountID,
			Kind:              p.Kind,
			Status:            p.Status,
			Amount:            p.Amount.Round(2),
			Fee:               p.Fee.Round(2),
			Message:           msg,
			ExternalPaymentID: p.ExternalPaymentID,
			Metadata:          meta,
		}
		err := tx.Create(&trx).Error
		if err == nil {
			return &trx, nil
		}
		if !isDuplicateErr(err) {
			return nil, err
		}
		lastErr = err
	}
	_ = lastErr
	return nil, ErrDuplicateReference
}

// Transition moves a PENDING transaction to a terminal status. The guarded
// single-row update makes concurrent transitions first-writer-wins: the loser
// observes zero affected rows and gets ErrAlreadyProcessed.
func Transition(tx *gorm.DB, transactionID uint, newStatus string) error {
	switch newStatus {
	case models.TxCompleted, models.TxFailed, models.TxCancelled:
	default:
		return ErrInvalidTransition
	}

	now := time.Now()
	res := tx.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", transactionID, models.TxPending).
		Updates(map[string]interface{}{"status": newStatus, "processed_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var trx models.Transaction
		if err := tx.First(&trx, transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return ErrAlreadyProcessed
	}
	return nil
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "Duplicate entry") || strings.Contains(s, "UNIQUE constraint")
}
