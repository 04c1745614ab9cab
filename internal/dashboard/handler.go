// Package dashboard serves the landing-page aggregate: entity counts, document status tally,
// unread alerts and the most recent uploads.
package dashboard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/apperror"
	"github.com/username/fleet-compliance-api/internal/clock"
	"github.com/username/fleet-compliance-api/internal/docstatus"
	"github.com/username/fleet-compliance-api/internal/document"
)

const recentDocuments = 5

// UnreadCounter is satisfied by alert.Service.
type UnreadCounter interface {
	UnreadCount(ctx context.Context) (int64, error)
}

type Summary struct {
	Vehicles        int64                 `json:"total_vehicles"`
	Personnel       int64                 `json:"total_personnel"`
	Clients         int64                 `json:"total_clients"`
	Documents       docstatus.Counts      `json:"documents"`
	UnreadAlerts    int64                 `json:"unread_alerts"`
	RecentDocuments []document.WithStatus `json:"recent_documents"`
}

type Handler struct {
	DB     *gorm.DB
	Docs   *document.Repository
	Alerts UnreadCounter
	Clock  clock.Clock
	Log    *zap.Logger
}

func NewHandler(db *gorm.DB, alerts UnreadCounter, clk clock.Clock, log *zap.Logger) *Handler {
	return &Handler{DB: db, Docs: document.NewRepository(db), Alerts: alerts, Clock: clk, Log: log}
}

func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/dashboard", h.GetDashboard)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	sum, err := h.Build(c.Request.Context())
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// Build runs the independent queries concurrently.
func (h *Handler) Build(ctx context.Context) (*Summary, error) {
	now := h.Clock.Now()
	var sum Summary

	g, gctx := errgroup.WithContext(ctx)
	count := func(table string, dst *int64) {
		g.Go(func() error {
			if err := h.DB.WithContext(gctx).Table(table).Count(dst).Error; err != nil {
				return apperror.Database("gagal menghitung "+table, err)
			}
			return nil
		})
	}
	count("vehicles", &sum.Vehicles)
	count("personnel", &sum.Personnel)
	count("clients", &sum.Clients)

	g.Go(func() error {
		docs, err := h.Docs.ActiveDocuments(gctx, document.Filter{})
		if err != nil {
			return err
		}
		sum.Documents = docstatus.Tally(document.ExpirationDates(docs), now)
		if len(docs) > recentDocuments {
			docs = docs[:recentDocuments]
		}
		sum.RecentDocuments = document.AnnotateAll(docs, now)
		return nil
	})

	g.Go(func() error {
		n, err := h.Alerts.UnreadCount(gctx)
		if err != nil {
			return err
		}
		sum.UnreadAlerts = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sum, nil
}
