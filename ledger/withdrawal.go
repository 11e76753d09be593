package ledger

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vantor/models"
)

// Withdrawals above this amount require an APPROVED KYC verification.
var kycFreeWithdrawalCap = decimal.NewFromInt(25)

// AdminCapability authorizes engine operations reserved for the back office.
// Only the admin auth middleware constructs one.
type AdminCapability struct {
	AdminID int64
}

// RequestWithdrawal places an optimistic hold: the amount leaves the
// available balance immediately, before any admin action. The PENDING
// WITHDRAWAL transaction and the withdrawal row are created in the same
// atomic unit as the hold.
func RequestWithdrawal(db *gorm.DB, userID, walletID, paymentAccountID uint, amount, fee decimal.Decimal, now time.Time, n Notifier) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var wd models.Withdrawal
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.KycStatus != models.KycApproved && amount.GreaterThan(kycFreeWithdrawalCap) {
			return ErrKycRequired
		}

		if err := checkWithdrawalLock(tx, userID, now); err != nil {
			return err
		}

		var account models.PaymentAccount
		if err := tx.Where("id = ? AND user_id = ?", paymentAccountID, userID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var wallet models.Wallet
		if err := tx.Where("id = ? AND user_id = ?", walletID, userID).First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := Hold(tx, wallet.ID, amount); err != nil {
			return err
		}

		trx, err := Record(tx, RecordParams{
			UserID:           userID,
			WalletID:         wallet.ID,
			PaymentAccountID: &account.ID,
			Kind:             models.TxWithdrawal,
			Status:           models.TxPending,
			Amount:           amount,
			Fee:              fee,
			Message:          fmt.Sprintf("Withdrawal to %s", account.AccountNumber),
		})
		if err != nil {
			return err
		}

		wd = models.Withdrawal{
			TransactionID:    trx.ID,
			UserID:           userID,
			PaymentAccountID: account.ID,
		}
		return tx.Create(&wd).Error
	})
	if err != nil {
		return nil, err
	}

	if n != nil {
		n.Notify(userID, "Withdrawal requested",
			fmt.Sprintf("Your withdrawal of %s is pending review.", amount.StringFixed(2)),
			map[string]string{"withdrawal_id": strconv.FormatUint(uint64(wd.ID), 10)})
	}
	return &wd, nil
}

// ApproveWithdrawal finalizes a pending withdrawal. The funds were debited at
// request time, so the hold is settled without further balance mutation of
// the available side. First writer wins; the loser gets ErrAlreadyProcessed.
func ApproveWithdrawal(db *gorm.DB, cap AdminCapability, withdrawalID uint, now time.Time, n Notifier) error {
	var owner uint
	var amount decimal.Decimal

	err := db.Transaction(func(tx *gorm.DB) error {
		wd, trx, err := loadWithdrawal(tx, withdrawalID)
		if err != nil {
			return err
		}
		if err := Transition(tx, trx.ID, models.TxCompleted); err != nil {
			return err
		}
		if err := SettleHold(tx, trx.WalletID, trx.Amount); err != nil {
			return err
		}
		owner, amount = wd.UserID, trx.Amount
		return tx.Model(wd).Updates(map[string]interface{}{
			"approved_by": cap.AdminID,
			"approved_at": now,
		}).Error
	})
	if err != nil {
		return err
	}

	log.Printf("[audit] admin %d approved withdrawal %d", cap.AdminID, withdrawalID)
	if n != nil {
		n.Notify(owner, "Withdrawal approved",
			fmt.Sprintf("Your withdrawal of %s has been paid out.", amount.StringFixed(2)),
			map[string]string{"withdrawal_id": strconv.FormatUint(uint64(withdrawalID), 10)})
	}
	return nil
}

// RejectWithdrawal cancels a pending withdrawal and releases the hold back to
// the available balance, restoring it to exactly its pre-request value.
func RejectWithdrawal(db *gorm.DB, cap AdminCapability, withdrawalID uint, reason string, now time.Time, n Notifier) error {
	var owner uint
	var amount decimal.Decimal

	err := db.Transaction(func(tx *gorm.DB) error {
		wd, trx, err := loadWithdrawal(tx, withdrawalID)
		if err != nil {
			return err
		}
		if err := Transition(tx, trx.ID, models.TxCancelled); err != nil {
			return err
		}
		if err := ReleaseHold(tx, trx.WalletID, trx.Amount); err != nil {
			return err
		}
		owner, amount = wd.UserID, trx.Amount
		return tx.Model(wd).Update("rejection_reason", reason).Error
	})
	if err != nil {
		return err
	}

	log.Printf("[audit] admin %d rejected withdrawal %d: %s", cap.AdminID, withdrawalID, reason)
	if n != nil {
		n.Notify(owner, "Withdrawal rejected",
			fmt.Sprintf("Your withdrawal of %s was rejected and refunded: %s", amount.StringFixed(2), reason),
			map[string]string{"withdrawal_id": strconv.FormatUint(uint64(withdrawalID), 10)})
	}
	return nil
}

func loadWithdrawal(tx *gorm.DB, withdrawalID uint) (*models.Withdrawal, *models.Transaction, error) {
	var wd models.Withdrawal
	if err := tx.First(&wd, withdrawalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	var trx models.Transaction
	if err := tx.First(&trx, wd.TransactionID).Error; err != nil {
		return nil, nil, err
	}
	return &wd, &trx, nil
}

// checkWithdrawalLock enforces plan withdrawal_lock_days: while any of the
// owner's active investments is inside its lock window, withdrawal requests
// are refused.
func checkWithdrawalLock(tx *gorm.DB, userID uint, now time.Time) error {
	var invs []models.Investment
	if err := tx.Preload("Plan").
		Where("user_id = ? AND status = ?", userID, models.InvestmentActive).
		Find(&invs).Error; err != nil {
		return err
	}
	for _, inv := range invs {
		if inv.Plan == nil || inv.Plan.WithdrawalLockDays <= 0 {
			continue
		}
		unlockAt := inv.StartDate.AddDate(0, 0, inv.Plan.WithdrawalLockDays)
		if now.Before(unlockAt) {
			return ErrWithdrawalLocked
		}
	}
	return nil
}
