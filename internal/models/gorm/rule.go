package gorm

import (
	"time"

	"flightwatch/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rule is a named logical combination of flight-change conditions that
// gates one or more alerts. Inactive rules are never evaluated.
type Rule struct {
	ID        string                 `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string                 `gorm:"column:user_id;type:uuid;index"`
	Name      string                 `gorm:"column:name"`
	IsActive  bool                   `gorm:"column:is_active"`
	Operator  constants.RuleOperator `gorm:"column:operator"`
	Schedule  *string                `gorm:"column:schedule"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Alerts     []Alert     `gorm:"foreignKey:RuleID"`
	Conditions []Condition `gorm:"foreignKey:RuleID"`
}

// TableName specifies the table name for GORM
func (Rule) TableName() string {
	return "rules"
}

// BeforeCreate assigns an ID when the caller did not supply one
func (r *Rule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Condition is a field/operator/value predicate a rule evaluates against
// one tracked flight's current state.
type Condition struct {
	ID       string `gorm:"column:id;primaryKey;type:uuid"`
	RuleID   string `gorm:"column:rule_id;type:uuid;index"`
	FlightID string `gorm:"column:flight_id;type:uuid;index"`
	Field    string `gorm:"column:field"`
	Operator string `gorm:"column:operator"`
	Value    string `gorm:"column:value"`

	// Relationships
	Flight TrackedFlight `gorm:"foreignKey:FlightID"`
}

// TableName specifies the table name for GORM
func (Condition) TableName() string {
	return "rule_conditions"
}

// BeforeCreate assigns an ID when the caller did not supply one
func (c *Condition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
