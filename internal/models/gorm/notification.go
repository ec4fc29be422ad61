package gorm

import (
	"time"

	"flightwatch/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is a persisted record of one (alert, change) firing.
// Delivery is at-least-once: the row is created before the transport
// send and is never rolled back on transport failure.
type Notification struct {
	ID        string              `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string              `gorm:"column:user_id;type:uuid;index"`
	FlightID  string              `gorm:"column:flight_id;type:uuid;index"`
	RuleID    *string             `gorm:"column:rule_id;type:uuid"`
	Type      constants.AlertType `gorm:"column:type"`
	Title     string              `gorm:"column:title"`
	Message   string              `gorm:"column:message"`
	Read      bool                `gorm:"column:read"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns an ID when the caller did not supply one
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
