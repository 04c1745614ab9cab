package vehicle

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/document"
)

// Status values for a vehicle
const (
	StatusActive      = "active"
	StatusInactive    = "inactive"
	StatusMaintenance = "maintenance"
)

func validStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusMaintenance
}

// Model untuk tabel vehicles
type Vehicle struct {
	ID           string    `json:"id"            gorm:"column:id;type:uuid;primaryKey"`
	LicensePlate string    `json:"license_plate" gorm:"column:license_plate;not null;uniqueIndex"` // FIXED
	Brand        *string   `json:"brand"         gorm:"column:brand"`
	Model        *string   `json:"model"         gorm:"column:model"`
	Year         *int      `json:"year"          gorm:"column:year"`
	VehicleType  *string   `json:"vehicle_type"  gorm:"column:vehicle_type"`
	Status       string    `json:"status"        gorm:"column:status;type:varchar(20);not null"`
	Notes        *string   `json:"notes"         gorm:"column:notes"`
	CreatedAt    time.Time `json:"created_at"    gorm:"column:created_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = StatusActive
	}
	return nil
}

// View is a vehicle as listed on the fleet page.
type View struct {
	Vehicle
	document.EntityDocuments
}

type VehicleCreateRequest struct {
	LicensePlate string  `json:"license_plate"`
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	VehicleType  *string `json:"vehicle_type"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes"`
}

// LicensePlate tidak bisa diubah
type VehicleUpdateRequest struct {
	Brand       *string `json:"brand"`
	Model       *string `json:"model"`
	Year        *int    `json:"year"`
	VehicleType *string `json:"vehicle_type"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}
