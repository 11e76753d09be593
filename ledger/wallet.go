package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vantor/models"
)

// forUpdate acquires a row lock so the balance check and the write-back form
// one critical section per wallet. SQLite (used by the test suite) has no
// FOR UPDATE; its single-writer transactions already serialize the sequence.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetOrCreateWallet returns the user's wallet of the given kind, creating it
// with zero balances on first need. Wallets are never deleted.
func GetOrCreateWallet(tx *gorm.DB, userID uint, kind string) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.Where("user_id = ? AND kind = ?", userID, kind).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = models.Wallet{
		UserID:           userID,
		Kind:             kind,
		AvailableBalance: decimal.Zero,
		LockedBalance:    decimal.Zero,
	}
	if err := tx.Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func lockWallet(tx *gorm.DB, walletID uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := forUpdate(tx).First(&w, walletID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Credit increments the wallet's available balance.
func Credit(tx *gorm.DB, walletID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	w, err := lockWallet(tx, walletID)
	if err != nil {
		return err
	}
	newBalance := w.AvailableBalance.Add(amount).Round(2)
	return tx.Model(w).Update("available_balance", newBalance).Error
}

// Debit decrements the wallet's available balance. The sufficiency check and
// the decrement happen under the same row lock; this is the invariant that
// keeps available_balance non-negative.
func Debit(tx *gorm.DB, walletID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	w, err := lockWallet(tx, walletID)
	if err != nil {
		return err
	}
	if w.AvailableBalance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	newBalance := w.AvailableBalance.Sub(amount).Round(2)
	return tx.Model(w).Update("available_balance", newBalance).Error
}

// Hold moves amount from available to locked, backing an optimistic
// withdrawal debit that an admin may later settle or release.
func Hold(tx *gorm.DB, walletID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	w, err := lockWallet(tx, walletID)
	if err != nil {
		return err
	}
	if w.AvailableBalance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return tx.Model(w).Updates(map[string]interface{}{
		"available_balance": w.AvailableBalance.Sub(amount).Round(2),
		"locked_balance":    w.LockedBalance.Add(amount).Round(2),
	}).Error
}

// SettleHold removes amount from the locked balance; the funds have left the
// platform.
func SettleHold(tx *gorm.DB, walletID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	w, err := lockWallet(tx, walletID)
	if err != nil {
		return err
	}
	if w.LockedBalance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return tx.Model(w).Update("locked_balance", w.LockedBalance.Sub(amount).Round(2)).Error
}

// ReleaseHold moves amount back from locked to available, compensating a
// rejected withdrawal.
func ReleaseHold(tx *gorm.DB, walletID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	w, err := lockWallet(tx, walletID)
	if err != nil {
		return err
	}
	if w.LockedBalance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return tx.Model(w).Updates(map[string]interface{}{
		"available_balance": w.AvailableBalance.Add(amount).Round(2),
		"locked_balance":    w.LockedBalance.Sub(amount).Round(2),
	}).Error
}
