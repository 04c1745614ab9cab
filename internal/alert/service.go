package alert

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/username/fleet-compliance-api/internal/apperror"
	"github.com/username/fleet-compliance-api/internal/clock"
)

// Service is the alert lifecycle: generate, list, mark read, dismiss, count unread.
type Service struct {
	store Store
	gen   *Generator
	clock clock.Clock
	log   *zap.Logger

	// overlapping generate triggers share one scan
	group singleflight.Group
}

func NewService(store Store, clk clock.Clock, log *zap.Logger) *Service {
	return &Service{
		store: store,
		gen:   NewGenerator(store, clk, log),
		clock: clk,
		log:   log,
	}
}

// Generate runs the batch scan. Callers arriving while a scan is in flight get its result.
// The scan is detached from the caller that started it, so one caller going away does not
// fail the others; each caller still stops waiting when its own ctx is done.
func (s *Service) Generate(ctx context.Context) (int, error) {
	ch := s.group.DoChan("generate", func() (any, error) {
		return s.gen.Run(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, apperror.Database("gagal membuat alert", res.Err)
		}
		if res.Shared {
			s.log.Debug("alert generation coalesced with an in-flight run")
		}
		return res.Val.(int), nil
	}
}

// List returns alerts newest first; limit <= 0 means no cap.
func (s *Service) List(ctx context.Context, limit int) ([]Alert, error) {
	alerts, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, apperror.Database("gagal mengambil alert", err)
	}
	if alerts == nil {
		alerts = []Alert{}
	}
	return alerts, nil
}

// MarkRead sets is_read. An unknown id is not an error.
func (s *Service) MarkRead(ctx context.Context, id string, read bool) error {
	n, err := s.store.SetRead(ctx, id, read, s.clock.Now())
	if err != nil {
		return apperror.Database("gagal mengubah alert", err)
	}
	if n == 0 {
		s.log.Debug("mark read matched no alert", zap.String("alert_id", id))
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.store.SetAllRead(ctx, s.clock.Now())
	if err != nil {
		return 0, apperror.Database("gagal mengubah alert", err)
	}
	return n, nil
}

// Dismiss deletes the alert permanently. An unknown id is not an error.
func (s *Service) Dismiss(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return apperror.Database("gagal menghapus alert", err)
	}
	if n == 0 {
		s.log.Debug("dismiss matched no alert", zap.String("alert_id", id))
	}
	return nil
}

func (s *Service) UnreadCount(ctx context.Context) (int64, error) {
	n, err := s.store.CountUnread(ctx)
	if err != nil {
		return 0, apperror.Database("gagal menghitung alert", err)
	}
	return n, nil
}
