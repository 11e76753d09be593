package admins

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vantor/database"
	"vantor/models"
	"vantor/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type kycDTO struct {
	ID              uint    `json:"id"`
	UserID          uint    `json:"user_id"`
	UserName        string  `json:"user_name"`
	Email           string  `json:"email"`
	Status          string  `json:"status"`
	DocumentType    string  `json:"document_type"`
	DocumentURL     string  `json:"document_url"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	SubmittedAt     string  `json:"submitted_at"`
}

// GET /admin/kyc?status=
func GetKycSubmissions(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.KycPending
	}

	db := database.DB
	query := db.Model(&models.KycVerification{}).Where("status = ?", status)

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var records []models.KycVerification
	if err := db.Where("status = ?", status).Order("id asc").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	ids := make([]uint, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.UserID)
	}
	type userRow struct {
		ID    uint
		Name  string
		Email string
	}
	userByID := map[uint]userRow{}
	if len(ids) > 0 {
		var rows []userRow
		db.Model(&models.User{}).Select("id, name, email").Where("id IN ?", ids).Find(&rows)
		for _, u := range rows {
			userByID[u.ID] = u
		}
	}

	items := make([]kycDTO, 0, len(records))
	for _, rec := range records {
		// Presigned URL so reviewers can open the document without bucket access
		url := rec.DocumentURL
		if signed, err := utils.GenerateSignedURL(rec.DocumentURL, 3600); err == nil {
			url = signed
		}
		items = append(items, kycDTO{
			ID:              rec.ID,
			UserID:          rec.UserID,
			UserName:        userByID[rec.UserID].Name,
			Email:           userByID[rec.UserID].Email,
			Status:          rec.Status,
			DocumentType:    rec.DocumentType,
			DocumentURL:     url,
			RejectionReason: rec.RejectionReason,
			SubmittedAt:     rec.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

type RejectKycRequest struct {
	Reason string `json:"reason"`
}

func reviewKyc(w http.ResponseWriter, r *http.Request, newStatus string, reason *string) {
	capability, ok := adminCapability(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid submission id"})
		return
	}

	db := database.DB
	err := db.Transaction(func(tx *gorm.DB) error {
		var rec models.KycVerification
		if err := tx.First(&rec, id).Error; err != nil {
			return err
		}
		if rec.Status != models.KycPending {
			return gorm.ErrInvalidData
		}
		now := time.Now()
		updates := map[string]interface{}{
			"status":      newStatus,
			"reviewed_by": capability.AdminID,
			"reviewed_at": now,
		}
		if reason != nil {
			updates["rejection_reason"] = *reason
		}
		if err := tx.Model(&rec).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", rec.UserID).Update("kyc_status", newStatus).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Submission not found"})
			return
		}
		if err == gorm.ErrInvalidData {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Submission is not pending review"})
			return
		}
		log.Printf("[kyc] review %d by admin %d failed: %v", id, capability.AdminID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	log.Printf("[audit] admin %d set kyc submission %d to %s", capability.AdminID, id, newStatus)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Verification " + strings.ToLower(newStatus)})
}

// POST /admin/kyc/{id}/approve
func ApproveKyc(w http.ResponseWriter, r *http.Request) {
	reviewKyc(w, r, models.KycApproved, nil)
}

// POST /admin/kyc/{id}/reject
func RejectKyc(w http.ResponseWriter, r *http.Request) {
	var req RejectKycRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "A rejection reason is required"})
		return
	}
	reviewKyc(w, r, models.KycRejected, &req.Reason)
}
