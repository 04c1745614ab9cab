package document

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/apperror"
	"github.com/username/fleet-compliance-api/internal/docstatus"
)

// EntityDocuments is what vehicle and personnel listings attach to each entity: its active
// documents newest first with derived status, and the rollup over them.
type EntityDocuments struct {
	Documents []WithStatus `json:"documents"`
	docstatus.Summary
}

func Summarize(docs []Document, now time.Time) EntityDocuments {
	return EntityDocuments{
		Documents: AnnotateAll(docs, now),
		Summary:   docstatus.Rollup(ExpirationDates(docs), now),
	}
}

// ForEntities loads and summarizes the documents of many entities with one query.
// Every id gets an entry, entities without documents roll up to valid.
func (r *Repository) ForEntities(ctx context.Context, cat Category, ids []string, now time.Time) (map[string]EntityDocuments, error) {
	grouped, err := r.ActiveByEntities(ctx, cat, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]EntityDocuments, len(ids))
	for _, id := range ids {
		out[id] = Summarize(grouped[id], now)
	}
	return out, nil
}

// RetireEntity marks every active document of an entity deleted. Pass a transaction handle
// to tie it to the entity delete.
func RetireEntity(tx *gorm.DB, cat Category, entityID string) error {
	err := tx.Model(&Document{}).
		Where("category = ? AND entity_id = ? AND status = ?", cat, entityID, RecordActive).
		Update("status", RecordDeleted).Error
	if err != nil {
		return apperror.Database("gagal menghapus dokumen entitas", err)
	}
	return nil
}
