package client

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/compliance"
	"github.com/username/fleet-compliance-api/internal/document"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// Model untuk tabel clients
type Client struct {
	ID            string    `json:"id"             gorm:"column:id;type:uuid;primaryKey"`
	Name          string    `json:"name"           gorm:"column:name;not null"`
	ContactPerson *string   `json:"contact_person" gorm:"column:contact_person"`
	Email         *string   `json:"email"          gorm:"column:email"`
	Phone         *string   `json:"phone"          gorm:"column:phone"`
	Status        Status    `json:"status"         gorm:"column:status;type:varchar(20);not null"`
	Notes         *string   `json:"notes"          gorm:"column:notes"`
	CreatedAt     time.Time `json:"created_at"     gorm:"column:created_at"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	return nil
}

// Requirement is a document a client demands. EntityCategory/EntityID narrow which documents
// can satisfy it; both nil means any active document of the type counts.
type Requirement struct {
	ID             string             `json:"id"              gorm:"column:id;type:uuid;primaryKey"`
	ClientID       string             `json:"client_id"       gorm:"column:client_id;not null;index"`
	DocumentType   document.Type      `json:"document_type"   gorm:"column:document_type;type:varchar(40);not null"`
	IsRequired     bool               `json:"is_required"     gorm:"column:is_required;not null"`
	EntityCategory *document.Category `json:"entity_category" gorm:"column:entity_category;type:varchar(20)"`
	EntityID       *string            `json:"entity_id"       gorm:"column:entity_id"`
	CreatedAt      time.Time          `json:"created_at"      gorm:"column:created_at"`
}

func (Requirement) TableName() string {
	return "client_requirements"
}

func (r *Requirement) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Compliance converts the stored row into the resolver's input.
func (r Requirement) Compliance() compliance.Requirement {
	req := compliance.Requirement{DocumentType: r.DocumentType, IsRequired: r.IsRequired}
	if r.EntityCategory != nil {
		req.Scope.Category = *r.EntityCategory
	}
	if r.EntityID != nil {
		req.Scope.EntityID = *r.EntityID
	}
	return req
}

// RequirementView is a requirement with its resolved compliance.
type RequirementView struct {
	Requirement
	compliance.Resolution
}

// View is a client card: the client, its requirements and the rollup.
type View struct {
	Client
	Requirements []RequirementView  `json:"requirements"`
	Compliance   compliance.Summary `json:"compliance"`
}

type CreateClientRequest struct {
	Name          string          `json:"name"`
	ContactPerson *string         `json:"contact_person"`
	Email         *string         `json:"email"`
	Phone         *string         `json:"phone"`
	Status        string          `json:"status"`
	Notes         *string         `json:"notes"`
	Requirements  map[string]bool `json:"requirements"`
}

type AddRequirementRequest struct {
	DocumentType   string  `json:"document_type"`
	IsRequired     *bool   `json:"is_required"`
	EntityCategory *string `json:"entity_category"`
	EntityID       *string `json:"entity_id"`
}
