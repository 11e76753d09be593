package users

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"vantor/database"
	"vantor/models"
	"vantor/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type notificationDTO struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Metadata  *string `json:"metadata,omitempty"`
	ReadAt    *string `json:"read_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// GET /notifications
func MyNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	page, limit, offset := parsePagination(r)

	db := database.DB
	var totalRows int64
	if err := db.Model(&models.Notification{}).Where("user_id = ?", uid).Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var unread int64
	db.Model(&models.Notification{}).Where("user_id = ? AND read_at IS NULL", uid).Count(&unread)

	var notifications []models.Notification
	if err := db.Where("user_id = ?", uid).Order("id DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	items := make([]notificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dto := notificationDTO{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Metadata:  n.Metadata,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
		if n.ReadAt != nil {
			s := n.ReadAt.Format(time.RFC3339)
			dto.ReadAt = &s
		}
		items = append(items, dto)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"unread": unread,
			"data":   items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

// POST /notifications/{id}/read
func MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid notification id"})
		return
	}

	db := database.DB
	now := time.Now()
	res := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, uid).
		Update("read_at", now)
	if res.Error != nil && res.Error != gorm.ErrRecordNotFound {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Notification marked as read"})
}
