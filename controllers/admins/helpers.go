package admins

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
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	offset = (page - 1) * limit
	return page, limit, offset
}

// adminCapability resolves the acting admin from the request context set by
// AdminAuthMiddleware. ok=false means the middleware did not run.
func adminCapability(w http.ResponseWriter, r *http.Request) (ledger.AdminCapability, bool) {
	id, ok := utils.GetAdminID(r)
	if !ok || id == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return ledger.AdminCapability{}, false
	}
	return ledger.AdminCapability{AdminID: id}, true
}

func writeLedgerError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Not found"})
	case errors.Is(err, ledger.ErrAlreadyProcessed), errors.Is(err, ledger.ErrInvalidTransition):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Already processed"})
	case errors.Is(err, ledger.ErrInsufficientBalance):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Wallet balance mismatch"})
	default:
		return false
	}
	return true
}
