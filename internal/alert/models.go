package alert

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/document"
)

// Type is the alert tier. One document can carry one alert per tier.
type Type string

const (
	TypeExpiring30 Type = "expiring_30"
	TypeExpiring15 Type = "expiring_15"
	TypeExpiring7  Type = "expiring_7"
	TypeExpired    Type = "expired"
)

func (t Type) Valid() bool {
	switch t {
	case TypeExpiring30, TypeExpiring15, TypeExpiring7, TypeExpired:
		return true
	}
	return false
}

func (t Type) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown alert type %q", string(t))
	}
	return string(t), nil
}

func (t *Type) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into alert type", src)
	}
	if !Type(s).Valid() {
		return fmt.Errorf("unknown alert type %q", s)
	}
	*t = Type(s)
	return nil
}

// Model untuk tabel alerts
type Alert struct {
	ID             string            `json:"id"              gorm:"column:id;type:uuid;primaryKey"`
	DocumentID     string            `json:"document_id"     gorm:"column:document_id;not null;uniqueIndex:idx_alerts_document_type,priority:1"`
	DocumentType   document.Type     `json:"document_type"   gorm:"column:document_type;type:varchar(40);not null"`
	EntityType     document.Category `json:"entity_type"     gorm:"column:entity_type;type:varchar(20);not null"`
	EntityID       string            `json:"entity_id"       gorm:"column:entity_id;not null"`
	EntityName     string            `json:"entity_name"     gorm:"column:entity_name"`
	AlertType      Type              `json:"alert_type"      gorm:"column:alert_type;type:varchar(20);not null;uniqueIndex:idx_alerts_document_type,priority:2"`
	ExpirationDate *time.Time        `json:"expiration_date" gorm:"column:expiration_date"`
	IsRead         bool              `json:"is_read"         gorm:"column:is_read;not null;default:false;index"`
	ReadAt         *time.Time        `json:"read_at"         gorm:"column:read_at"`
	Payload        datatypes.JSONMap `json:"payload"         gorm:"column:payload"`
	CreatedAt      time.Time         `json:"created_at"      gorm:"column:created_at;index"`
}

func (Alert) TableName() string {
	return "alerts"
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type MarkReadRequest struct {
	IsRead *bool `json:"is_read"`
}
