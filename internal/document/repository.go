package document

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/apperror"
)

// Filter narrows ActiveDocuments. Zero values mean "any".
type Filter struct {
	Category       Category
	EntityID       string
	WithExpiration bool
	Limit          int
}

// Scope binds a lookup to a category and, optionally, one entity. The zero Scope matches
// documents of any entity.
type Scope struct {
	Category Category
	EntityID string
}

// Repository is the GORM-backed document store.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(ctx context.Context, d *Document) error {
	if err := r.DB.WithContext(ctx).Create(d).Error; err != nil {
		return apperror.Database("gagal menyimpan dokumen", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Document, error) {
	var d Document
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("dokumen tidak ditemukan")
		}
		return nil, apperror.Database("gagal mengambil dokumen", err)
	}
	return &d, nil
}

// ActiveDocuments lists active documents newest first.
func (r *Repository) ActiveDocuments(ctx context.Context, f Filter) ([]Document, error) {
	q := r.DB.WithContext(ctx).Model(&Document{}).Where("status = ?", RecordActive)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.WithExpiration {
		q = q.Where("expiration_date IS NOT NULL")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var docs []Document
	if err := q.Order("created_at DESC").Order("id DESC").Find(&docs).Error; err != nil {
		return nil, apperror.Database("gagal mengambil dokumen", err)
	}
	return docs, nil
}

// ActiveByEntities loads the active documents of many entities in one query, grouped by
// entity id and newest first within each group.
func (r *Repository) ActiveByEntities(ctx context.Context, cat Category, ids []string) (map[string][]Document, error) {
	out := make(map[string][]Document, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var docs []Document
	err := r.DB.WithContext(ctx).
		Where("status = ? AND category = ? AND entity_id IN ?", RecordActive, cat, ids).
		Order("created_at DESC").Order("id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, apperror.Database("gagal mengambil dokumen", err)
	}
	for _, d := range docs {
		out[d.EntityID] = append(out[d.EntityID], d)
	}
	return out, nil
}

// LatestActive returns the most recently created active document of type t inside scope,
// or nil when there is none.
func (r *Repository) LatestActive(ctx context.Context, t Type, s Scope) (*Document, error) {
	q := r.DB.WithContext(ctx).Where("status = ? AND document_type = ?", RecordActive, t)
	if s.Category != "" {
		q = q.Where("category = ?", s.Category)
	}
	if s.EntityID != "" {
		q = q.Where("entity_id = ?", s.EntityID)
	}

	var docs []Document
	if err := q.Order("created_at DESC").Order("id DESC").Limit(1).Find(&docs).Error; err != nil {
		return nil, apperror.Database("gagal mengambil dokumen", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

// SetStatus retires (or reactivates) a document.
func (r *Repository) SetStatus(ctx context.Context, id string, s RecordStatus) error {
	res := r.DB.WithContext(ctx).Model(&Document{}).Where("id = ?", id).Update("status", s)
	if res.Error != nil {
		return apperror.Database("gagal mengubah status dokumen", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("dokumen tidak ditemukan")
	}
	return nil
}
