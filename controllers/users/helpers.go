package users

import (
	"errors"
	"net/http"
	"strconv"

	"vantor/ledger"
	"vantor/utils"
)

func parsePagination(r *http.Request) (page, limit, offset int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset = (page - 1) * limit
	return page, limit, offset
}

// writeLedgerError maps ledger sentinel errors onto HTTP responses. Returns
// true when it handled the error.
func writeLedgerError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be greater than zero"})
	case errors.Is(err, ledger.ErrInsufficientBalance):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient balance"})
	case errors.Is(err, ledger.ErrAmountOutOfRange):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount is outside the plan's allowed range"})
	case errors.Is(err, ledger.ErrPlanInactive):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "This plan is no longer available"})
	case errors.Is(err, ledger.ErrKycRequired):
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Identity verification is required for this withdrawal amount"})
	case errors.Is(err, ledger.ErrWithdrawalLocked):
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Withdrawals are locked while an investment is in its lock period"})
	case errors.Is(err, ledger.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Not found"})
	case errors.Is(err, ledger.ErrAlreadyProcessed), errors.Is(err, ledger.ErrInvalidTransition):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Already processed"})
	case errors.Is(err, ledger.ErrDuplicateReference):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Duplicate transaction reference"})
	default:
		return false
	}
	return true
}
