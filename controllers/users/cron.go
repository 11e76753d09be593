package users

import (
	"log"
	"net/http"
	"os"
	"time"

	"vantor/database"
	"vantor/ledger"
	"vantor/utils"
)

// POST /cron/daily-accrual: triggered by the scheduler, guarded by X-CRON-KEY.
func CronDailyAccrualHandler(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-CRON-KEY")
	if key == "" || key != os.Getenv("CRON_KEY") {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	report, err := ledger.RunDailyAccrual(db, time.Now(), ledger.NewDBNotifier(db))
	if err != nil {
		log.Printf("[cron] daily accrual failed: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Accrual run failed"})
		return
	}

	log.Printf("[cron] daily accrual: processed=%d succeeded=%d skipped=%d failed=%d completed=%d distributed=%s",
		report.Processed, report.Succeeded, report.Skipped, len(report.FailedIDs), report.Completed, report.TotalDistributed.String())

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Accrual run finished",
		Data: map[string]interface{}{
			"processed":         report.Processed,
			"succeeded":         report.Succeeded,
			"skipped":           report.Skipped,
			"failed_ids":        report.FailedIDs,
			"completed":         report.Completed,
			"total_distributed": report.TotalDistributed.String(),
		},
	})
}
