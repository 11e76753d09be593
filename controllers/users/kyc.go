package users

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"vantor/database"
	"vantor/models"
	"vantor/utils"

	"gorm.io/gorm"
)

var allowedKycDocTypes = map[string]bool{
	"passport":       true,
	"id_card":        true,
	"driver_license": true,
}

var allowedKycExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".pdf": true,
}

// POST /kyc: multipart form: document_type + document file.
func SubmitKycHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}
	docType := strings.TrimSpace(r.FormValue("document_type"))
	if !allowedKycDocTypes[docType] {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid document type"})
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Document file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedKycExtensions[ext] {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Document must be a JPG, PNG or PDF file"})
		return
	}

	db := database.DB

	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}
	if user.KycStatus == models.KycApproved {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Your identity is already verified"})
		return
	}
	if user.KycStatus == models.KycPending {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "A verification is already under review"})
		return
	}

	objectName := fmt.Sprintf("kyc/%d/%d%s", uid, time.Now().UnixNano(), ext)
	if err := utils.UploadToS3(objectName, file, header.Size); err != nil {
		log.Printf("[kyc] upload failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to upload document"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// A rejected submission is replaced in place
		var existing models.KycVerification
		findErr := tx.Where("user_id = ?", uid).First(&existing).Error
		if findErr == nil {
			updates := map[string]interface{}{
				"status":           models.KycPending,
				"document_type":    docType,
				"document_url":     objectName,
				"rejection_reason": nil,
				"reviewed_by":      nil,
				"reviewed_at":      nil,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		} else if findErr == gorm.ErrRecordNotFound {
			rec := models.KycVerification{
				UserID:       uid,
				Status:       models.KycPending,
				DocumentType: docType,
				DocumentURL:  objectName,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		} else {
			return findErr
		}
		return tx.Model(&models.User{}).Where("id = ?", uid).Update("kyc_status", models.KycPending).Error
	})
	if err != nil {
		log.Printf("[kyc] submit failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Documents submitted, verification is under review",
		Data:    map[string]interface{}{"status": models.KycPending},
	})
}

// GET /kyc
func KycStatusHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	data := map[string]interface{}{"status": user.KycStatus}
	var rec models.KycVerification
	if err := db.Where("user_id = ?", uid).First(&rec).Error; err == nil {
		data["document_type"] = rec.DocumentType
		data["submitted_at"] = rec.CreatedAt.Format(time.RFC3339)
		if rec.RejectionReason != nil {
			data["rejection_reason"] = *rec.RejectionReason
		}
		if rec.ReviewedAt != nil {
			data["reviewed_at"] = rec.ReviewedAt.Format(time.RFC3339)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: data})
}
