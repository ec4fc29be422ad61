package gorm

import (
	"time"

	"flightwatch/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert is a configured notification trigger for one change type against
// one flight. A nil RuleID makes it a direct alert, evaluated on its own;
// otherwise it only fires as part of its parent rule.
type Alert struct {
	ID        string              `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string              `gorm:"column:user_id;type:uuid;index"`
	FlightID  string              `gorm:"column:flight_id;type:uuid;index"`
	RuleID    *string             `gorm:"column:rule_id;type:uuid;index"`
	Type      constants.AlertType `gorm:"column:type"`
	IsActive  bool                `gorm:"column:is_active"`
	Threshold *int                `gorm:"column:threshold"` // minutes, DELAY only
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Flight TrackedFlight `gorm:"foreignKey:FlightID"`
}

// TableName specifies the table name for GORM
func (Alert) TableName() string {
	return "alerts"
}

// BeforeCreate assigns an ID when the caller did not supply one
func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
