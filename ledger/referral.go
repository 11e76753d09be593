package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vantor/models"
)

// Referral earnings rate: 10% of each qualifying referee transaction.
var referralRate = decimal.NewFromFloat(0.10)

// ResolveReferrer maps a referral code to its owner. An unknown code blocks
// registration with ErrInvalidReferralCode rather than silently skipping the
// referral.
func ResolveReferrer(tx *gorm.DB, code string) (*models.User, error) {
	var u models.User
	if err := tx.Where("reff_code = ?", code).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReferralCode
		}
		return nil, err
	}
	return &u, nil
}

// LinkReferral creates the referrer→referee row at registration time.
func LinkReferral(tx *gorm.DB, referrerID, refereeID uint, now time.Time) error {
	ref := models.Referral{
		ReferrerID: referrerID,
		RefereeID:  refereeID,
		Earnings:   decimal.Zero,
		Status:     "Active",
		SignedUpAt: now,
	}
	return tx.Create(&ref).Error
}

// attributeReferral posts the write-time referral bonus for one qualifying
// referee transaction: credit the referrer's BONUS wallet, record a REFERRAL
// transaction and bump the referral's cumulative earnings, all inside the
// caller's transaction. No-op when the referee was not referred.
func attributeReferral(tx *gorm.DB, refereeID uint, qualifying *models.Transaction, now time.Time) error {
	var ref models.Referral
	if err := forUpdate(tx).Where("referee_id = ?", refereeID).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	bonus := qualifying.Amount.Mul(referralRate).Round(2)
	if !bonus.IsPositive() {
		return nil
	}

	wallet, err := GetOrCreateWallet(tx, ref.ReferrerID, models.WalletBonus)
	if err != nil {
		return err
	}
	if err := Credit(tx, wallet.ID, bonus); err != nil {
		return err
	}
	if _, err := Record(tx, RecordParams{
		UserID:   ref.ReferrerID,
		WalletID: wallet.ID,
		Kind:     models.TxReferral,
		Status:   models.TxCompleted,
		Amount:   bonus,
		Message:  fmt.Sprintf("Referral bonus from %s %s", qualifying.Kind, qualifying.Reference),
		Metadata: map[string]string{
			"referee_id":            strconv.FormatUint(uint64(refereeID), 10),
			"qualifying_reference":  qualifying.Reference,
		},
	}); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"earnings":        ref.Earnings.Add(bonus).Round(2),
		"last_earning_at": now,
	}
	if qualifying.Kind == models.TxDeposit && ref.FirstDepositAt == nil {
		updates["first_deposit_at"] = now
	}
	return tx.Model(&ref).Updates(updates).Error
}
