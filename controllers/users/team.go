package users

import (
	"math"
	"net/http"
	"time"

	"vantor/database"
	"vantor/models"
	"vantor/utils"
)

type referralDTO struct {
	Name           string  `json:"name"`
	Earnings       string  `json:"earnings"`
	SignedUpAt     string  `json:"signed_up_at"`
	FirstDepositAt *string `json:"first_deposit_at,omitempty"`
}

// GET /team: referral code, per-referee earnings and totals.
func MyTeamHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	page, limit, offset := parsePagination(r)

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	var totalRows int64
	if err := db.Model(&models.Referral{}).Where("referrer_id = ?", uid).Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var totalEarnings float64
	db.Model(&models.Referral{}).Where("referrer_id = ?", uid).
		Select("COALESCE(SUM(earnings),0)").Scan(&totalEarnings)

	var referrals []models.Referral
	if err := db.Where("referrer_id = ?", uid).Order("id DESC").Limit(limit).Offset(offset).Find(&referrals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	// Resolve referee names in one query
	ids := make([]uint, 0, len(referrals))
	for _, ref := range referrals {
		ids = append(ids, ref.RefereeID)
	}
	names := map[uint]string{}
	if len(ids) > 0 {
		var referees []models.User
		db.Select("id, name").Where("id IN ?", ids).Find(&referees)
		for _, u := range referees {
			names[u.ID] = u.Name
		}
	}

	items := make([]referralDTO, 0, len(referrals))
	for _, ref := range referrals {
		dto := referralDTO{
			Name:       names[ref.RefereeID],
			Earnings:   ref.Earnings.String(),
			SignedUpAt: ref.SignedUpAt.Format(time.RFC3339),
		}
		if ref.FirstDepositAt != nil {
			s := ref.FirstDepositAt.Format(time.RFC3339)
			dto.FirstDepositAt = &s
		}
		items = append(items, dto)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"reff_code":      user.ReffCode,
			"total_invited":  totalRows,
			"total_earnings": totalEarnings,
			"data":           items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}
