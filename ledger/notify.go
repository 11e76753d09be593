package ledger

import (
	"encoding/json"
	"log"

	"gorm.io/gorm"

	"vantor/models"
)

// Notifier is the engine's only outward-facing side channel. Delivery carries
// no guarantee; implementations must not fail the enclosing operation.
type Notifier interface {
	Notify(userID uint, title, message string, metadata map[string]string)
}

type dbNotifier struct {
	db *gorm.DB
}

// NewDBNotifier returns a Notifier that persists in-app notification rows.
// Writes happen outside the caller's transaction and errors are logged, not
// propagated.
func NewDBNotifier(db *gorm.DB) Notifier {
	return &dbNotifier{db: db}
}

func (n *dbNotifier) Notify(userID uint, title, message string, metadata map[string]string) {
	var meta *string
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			s := string(raw)
			meta = &s
		}
	}
	row := models.Notification{UserID: userID, Title: title, Message: message, Metadata: meta}
	if err := n.db.Create(&row).Error; err != nil {
		log.Printf("[notify] failed to store notification for user %d: %v", userID, err)
	}
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(uint, string, string, map[string]string) {}
