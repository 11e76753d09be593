package ledger

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vantor/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A fresh :memory: database per connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.InvestmentPlan{},
		&models.Investment{},
		&models.InvestmentProfit{},
		&models.Withdrawal{},
		&models.Deposit{},
		&models.Referral{},
		&models.PaymentAccount{},
		&models.Notification{},
		&models.KycVerification{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, reffCode string) *models.User {
	t.Helper()
	u := models.User{
		Name:      "Test User",
		Email:     email,
		Password:  "hashed",
		ReffCode:  reffCode,
		KycStatus: models.KycNone,
		Status:    "Active",
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedPlan(t *testing.T, db *gorm.DB, plan models.InvestmentPlan) *models.InvestmentPlan {
	t.Helper()
	require.NoError(t, db.Create(&plan).Error)
	return &plan
}

func seedAccount(t *testing.T, db *gorm.DB, userID uint) *models.PaymentAccount {
	t.Helper()
	acc := models.PaymentAccount{
		UserID:        userID,
		Kind:          "crypto",
		Network:       "TRC20",
		AccountNumber: "TSomeAddressXYZ",
		Status:        "Active",
	}
	require.NoError(t, db.Create(&acc).Error)
	return &acc
}

// fundWallet credits the user's wallet of the given kind outside any scenario
// under test.
func fundWallet(t *testing.T, db *gorm.DB, userID uint, kind string, amount decimal.Decimal) *models.Wallet {
	t.Helper()
	var w *models.Wallet
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		w, err = GetOrCreateWallet(tx, userID, kind)
		if err != nil {
			return err
		}
		return Credit(tx, w.ID, amount)
	}))
	return w
}

func walletBalances(t *testing.T, db *gorm.DB, walletID uint) (available, locked decimal.Decimal) {
	t.Helper()
	var w models.Wallet
	require.NoError(t, db.First(&w, walletID).Error)
	return w.AvailableBalance, w.LockedBalance
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
