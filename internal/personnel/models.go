package personnel

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/document"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOnLeave  = "on_leave"
)

func validStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusOnLeave
}

// Model untuk tabel personnel
type Personnel struct {
	ID             string    `json:"id"              gorm:"column:id;type:uuid;primaryKey"`
	FirstName      string    `json:"first_name"      gorm:"column:first_name;not null"`
	LastName       string    `json:"last_name"       gorm:"column:last_name;not null"`
	DocumentNumber *string   `json:"document_number" gorm:"column:document_number;index"`
	Phone          *string   `json:"phone"           gorm:"column:phone"`
	Email          *string   `json:"email"           gorm:"column:email"`
	Position       *string   `json:"position"        gorm:"column:position"`
	Status         string    `json:"status"          gorm:"column:status;type:varchar(20);not null"`
	Notes          *string   `json:"notes"           gorm:"column:notes"`
	CreatedAt      time.Time `json:"created_at"      gorm:"column:created_at"`
}

func (Personnel) TableName() string {
	return "personnel"
}

func (p *Personnel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	return nil
}

// Name is the display name, also what alerts snapshot as entity_name.
func (p Personnel) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type View struct {
	Personnel
	FullName string `json:"full_name"`
	document.EntityDocuments
}

type CreateRequest struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	DocumentNumber *string `json:"document_number"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Position       *string `json:"position"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes"`
}

type UpdateRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	DocumentNumber *string `json:"document_number"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Position       *string `json:"position"`
	Status         *string `json:"status"`
	Notes          *string `json:"notes"`
}
