// Package ledger is the money engine: wallet balance mutation, transaction
// recording, investment lifecycle, the daily profit accrual job, the
// withdrawal approval workflow and referral attribution. Every multi-step
// mutation runs inside a single gorm transaction; a failure in any step rolls
// the whole unit back so partial application is never observable.
package ledger

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateReference  = errors.New("duplicate reference")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrAlreadyProcessed    = errors.New("already processed")
	ErrPlanInactive        = errors.New("plan inactive")
	ErrAmountOutOfRange    = errors.New("amount out of plan range")
	ErrKycRequired         = errors.New("kyc verification required")
	ErrWithdrawalLocked    = errors.New("funds locked by plan terms")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrNotFound            = errors.New("not found")
)
