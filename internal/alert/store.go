package alert

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/username/fleet-compliance-api/internal/document"
)

// ErrEntityNotFound is returned by EntityName when the referenced row does not exist.
var ErrEntityNotFound = errors.New("entity not found")

// Store is everything the generator and the lifecycle service need from storage.
type Store interface {
	// Candidates returns active documents that have an expiration date.
	Candidates(ctx context.Context) ([]document.Document, error)
	Exists(ctx context.Context, documentID string, t Type) (bool, error)
	EntityName(ctx context.Context, cat document.Category, entityID string) (string, error)
	// Insert skips rows that collide on (document_id, alert_type) and returns how many landed.
	Insert(ctx context.Context, rows []Alert) (int64, error)

	List(ctx context.Context, limit int) ([]Alert, error)
	SetRead(ctx context.Context, id string, read bool, at time.Time) (int64, error)
	SetAllRead(ctx context.Context, at time.Time) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

type gormStore struct {
	db   *gorm.DB
	docs *document.Repository
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db, docs: document.NewRepository(db)}
}

func (s *gormStore) Candidates(ctx context.Context) ([]document.Document, error) {
	return s.docs.ActiveDocuments(ctx, document.Filter{WithExpiration: true})
}

func (s *gormStore) Exists(ctx context.Context, documentID string, t Type) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Alert{}).
		Where("document_id = ? AND alert_type = ?", documentID, t).
		Count(&n).Error
	return n > 0, err
}

// EntityName reads the vehicles/personnel tables through minimal structs so this package does
// not depend on the entity packages.
func (s *gormStore) EntityName(ctx context.Context, cat document.Category, entityID string) (string, error) {
	db := s.db.WithContext(ctx)
	switch cat {
	case document.CategoryVehicle:
		var v struct {
			LicensePlate string `gorm:"column:license_plate"`
		}
		if err := db.Table("vehicles").Select("license_plate").Where("id = ?", entityID).Take(&v).Error; err != nil {
			return "", notFound(err)
		}
		return v.LicensePlate, nil
	case document.CategoryPersonnel:
		var p struct {
			FirstName string `gorm:"column:first_name"`
			LastName  string `gorm:"column:last_name"`
		}
		if err := db.Table("personnel").Select("first_name", "last_name").Where("id = ?", entityID).Take(&p).Error; err != nil {
			return "", notFound(err)
		}
		return strings.TrimSpace(p.FirstName + " " + p.LastName), nil
	}
	return "", ErrEntityNotFound
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEntityNotFound
	}
	return err
}

func (s *gormStore) Insert(ctx context.Context, rows []Alert) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "document_id"}, {Name: "alert_type"}},
			DoNothing: true,
		}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func (s *gormStore) List(ctx context.Context, limit int) ([]Alert, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var alerts []Alert
	err := q.Find(&alerts).Error
	return alerts, err
}

func (s *gormStore) SetRead(ctx context.Context, id string, read bool, at time.Time) (int64, error) {
	q := s.db.WithContext(ctx).Model(&Alert{}).Where("id = ?", id)
	updates := map[string]any{"is_read": read, "read_at": nil}
	if read {
		// already-read rows keep their original read_at
		q = q.Where("is_read = ?", false)
		updates["read_at"] = at
	}
	res := q.Updates(updates)
	return res.RowsAffected, res.Error
}

func (s *gormStore) SetAllRead(ctx context.Context, at time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&Alert{}).
		Where("is_read = ?", false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (s *gormStore) Delete(ctx context.Context, id string) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Alert{})
	return res.RowsAffected, res.Error
}

func (s *gormStore) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Alert{}).Where("is_read = ?", false).Count(&n).Error
	return n, err
}
