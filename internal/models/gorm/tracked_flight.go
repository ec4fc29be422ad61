package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackedFlight is a user's subscription to status updates for one
// specific flight instance. Status/gate/terminal always hold the most
// recent confirmed fetch; the engine updates them, only users delete.
type TrackedFlight struct {
	ID               string     `gorm:"column:id;primaryKey;type:uuid"`
	UserID           string     `gorm:"column:user_id;type:uuid;index"`
	FlightNumber     string     `gorm:"column:flight_number;index"`
	DepartureAirport string     `gorm:"column:departure_airport"`
	ArrivalAirport   string     `gorm:"column:arrival_airport"`
	DepartureTime    *time.Time `gorm:"column:departure_time;index"`
	ArrivalTime      *time.Time `gorm:"column:arrival_time"`
	Status           string     `gorm:"column:status"`
	Gate             string     `gorm:"column:gate"`
	Terminal         string     `gorm:"column:terminal"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Alerts []Alert `gorm:"foreignKey:FlightID"`
}

// TableName specifies the table name for GORM
func (TrackedFlight) TableName() string {
	return "tracked_flights"
}

// BeforeCreate assigns an ID when the caller did not supply one
func (f *TrackedFlight) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
