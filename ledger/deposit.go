package ledger

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vantor/models"
)

// CreateDeposit opens a pending deposit together with its PENDING DEPOSIT
// transaction. Nothing is credited until an admin approves.
func CreateDeposit(db *gorm.DB, userID uint, amount decimal.Decimal, currency, payAddress string) (*models.Deposit, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var dep models.Deposit
	err := db.Transaction(func(tx *gorm.DB) error {
		wallet, err := GetOrCreateWallet(tx, userID, models.WalletDeposit)
		if err != nil {
			return err
		}

		externalID := uuid.NewString()
		trx, err := Record(tx, RecordParams{
			UserID:            userID,
			WalletID:          wallet.ID,
			Kind:              models.TxDeposit,
			Status:            models.TxPending,
			Amount:            amount,
			Message:           fmt.Sprintf("Deposit of %s %s", amount.StringFixed(2), currency),
			ExternalPaymentID: &externalID,
		})
		if err != nil {
			return err
		}

		dep = models.Deposit{
			UserID:            userID,
			TransactionID:     trx.ID,
			Amount:            amount,
			Currency:          currency,
			ExternalPaymentID: externalID,
		}
		if payAddress != "" {
			dep.PayAddress = &payAddress
		}
		return tx.Create(&dep).Error
	})
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

// AffirmDepositWebhook records provider confirmation details on a pending
// deposit. It never changes the status and never credits anything; a webhook
// for an already processed deposit is ignored.
func AffirmDepositWebhook(db *gorm.DB, externalPaymentID, txHash string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var dep models.Deposit
		if err := forUpdate(tx).Where("external_payment_id = ?", externalPaymentID).First(&dep).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if dep.Status != models.DepositPending {
			log.Printf("[deposit] webhook for %s ignored, status %s", externalPaymentID, dep.Status)
			return nil
		}
		if txHash == "" {
			return nil
		}
		return tx.Model(&dep).Update("tx_hash", txHash).Error
	})
}

// ApproveDeposit credits the user's deposit wallet, completes the transaction
// and attributes referral commission, all in one atomic unit.
func ApproveDeposit(db *gorm.DB, cap AdminCapability, depositID uint, now time.Time, n Notifier) error {
	var owner uint
	var amount decimal.Decimal

	err := db.Transaction(func(tx *gorm.DB) error {
		var dep models.Deposit
		if err := forUpdate(tx).First(&dep, depositID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if dep.Status != models.DepositPending {
			return ErrAlreadyProcessed
		}

		var trx models.Transaction
		if err := tx.First(&trx, dep.TransactionID).Error; err != nil {
			return err
		}
		if err := Transition(tx, trx.ID, models.TxCompleted); err != nil {
			return err
		}
		if err := Credit(tx, trx.WalletID, trx.Amount); err != nil {
			return err
		}
		if err := tx.Model(&dep).Update("status", models.DepositCompleted).Error; err != nil {
			return err
		}
		if err := attributeReferral(tx, dep.UserID, &trx, now); err != nil {
			return err
		}
		owner, amount = dep.UserID, trx.Amount
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[audit] admin %d approved deposit %d", cap.AdminID, depositID)
	if n != nil {
		n.Notify(owner, "Deposit confirmed",
			fmt.Sprintf("Your deposit of %s has been credited.", amount.StringFixed(2)),
			map[string]string{"deposit_id": strconv.FormatUint(uint64(depositID), 10)})
	}
	return nil
}

// RejectDeposit fails a pending deposit without any balance change.
func RejectDeposit(db *gorm.DB, cap AdminCapability, depositID uint, n Notifier) error {
	var owner uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var dep models.Deposit
		if err := forUpdate(tx).First(&dep, depositID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if dep.Status != models.DepositPending {
			return ErrAlreadyProcessed
		}
		var trx models.Transaction
		if err := tx.First(&trx, dep.TransactionID).Error; err != nil {
			return err
		}
		if err := Transition(tx, trx.ID, models.TxFailed); err != nil {
			return err
		}
		if err := tx.Model(&dep).Update("status", models.DepositFailed).Error; err != nil {
			return err
		}
		owner = dep.UserID
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[audit] admin %d rejected deposit %d", cap.AdminID, depositID)
	if n != nil {
		n.Notify(owner, "Deposit failed",
			"Your deposit could not be confirmed. Contact support if funds were sent.",
			map[string]string{"deposit_id": strconv.FormatUint(uint64(depositID), 10)})
	}
	return nil
}
