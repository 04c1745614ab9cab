package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/docstatus"
)

// Model untuk tabel documents
type Document struct {
	ID             string       `json:"id"              gorm:"column:id;type:uuid;primaryKey"`
	DocumentType   Type         `json:"document_type"   gorm:"column:document_type;type:varchar(40);not null;index:idx_documents_type"`
	Category       Category     `json:"category"        gorm:"column:category;type:varchar(20);not null;index:idx_documents_entity,priority:1"`
	EntityID       string       `json:"entity_id"       gorm:"column:entity_id;not null;index:idx_documents_entity,priority:2"`
	ExpirationDate *time.Time   `json:"expiration_date" gorm:"column:expiration_date"`
	Status         RecordStatus `json:"status"          gorm:"column:status;type:varchar(20);not null;index"`
	FileURL        *string      `json:"file_url"        gorm:"column:file_url"`
	FileName       *string      `json:"file_name"       gorm:"column:file_name"`
	FileSize       *int64       `json:"file_size"       gorm:"column:file_size"`
	FileType       *string      `json:"file_type"       gorm:"column:file_type"`
	Issuer         *string      `json:"issuer"          gorm:"column:issuer"`
	DocumentNumber *string      `json:"document_number" gorm:"column:document_number"`
	Notes          *string      `json:"notes"           gorm:"column:notes"`
	CreatedAt      time.Time    `json:"created_at"      gorm:"column:created_at;index"`
}

func (Document) TableName() string {
	return "documents"
}

// BeforeCreate fills the id and forces new uploads to active.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = RecordActive
	}
	return nil
}

// WithStatus is a document as shown in lists: the derived status replaces the stored one in
// the "status" key, the stored one moves to "record_status".
type WithStatus struct {
	Document
	RecordStatus        RecordStatus     `json:"record_status"`
	Status              docstatus.Status `json:"status"`
	DaysUntilExpiration *int             `json:"days_until_expiration,omitempty"`
}

func Annotate(d Document, now time.Time) WithStatus {
	res := docstatus.Classify(d.ExpirationDate, now)
	return WithStatus{
		Document:            d,
		RecordStatus:        d.Status,
		Status:              res.Status,
		DaysUntilExpiration: res.DaysUntilExpiration,
	}
}

func AnnotateAll(docs []Document, now time.Time) []WithStatus {
	out := make([]WithStatus, 0, len(docs))
	for _, d := range docs {
		out = append(out, Annotate(d, now))
	}
	return out
}

// ExpirationDates projects the dates the rollup helpers work on.
func ExpirationDates(docs []Document) []*time.Time {
	out := make([]*time.Time, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].ExpirationDate)
	}
	return out
}

// CreateDocumentRequest is the upload metadata body. Dates accept YYYY-MM-DD or RFC3339.
type CreateDocumentRequest struct {
	DocumentType   string  `json:"document_type"`
	Category       string  `json:"category"`
	EntityID       string  `json:"entity_id"`
	ExpirationDate *string `json:"expiration_date"`
	FileURL        *string `json:"file_url"`
	FileName       *string `json:"file_name"`
	FileSize       *int64  `json:"file_size"`
	FileType       *string `json:"file_type"`
	Issuer         *string `json:"issuer"`
	DocumentNumber *string `json:"document_number"`
	Notes          *string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ParseDate accepts a calendar date or a full RFC3339 timestamp and returns midnight UTC of
// that date. expiration_date is a DATE column, so the time of day is never kept.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return time.Time{}, err
		}
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
