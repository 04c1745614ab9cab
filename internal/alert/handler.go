package alert

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/fleet-compliance-api/internal/apperror"
	"github.com/username/fleet-compliance-api/internal/pagination"
)

type Handler struct {
	Svc *Service
	Log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: log}
}

// Daftarkan route alerts
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/alerts", h.ListAlerts)
	router.GET("/alerts/unread-count", h.UnreadCount)
	router.POST("/alerts", h.GenerateAlerts)
	router.POST("/alerts/generate", h.GenerateAlerts)
	router.POST("/alerts/read-all", h.MarkAllRead)
	router.PATCH("/alerts/:id", h.MarkRead)
	router.DELETE("/alerts/:id", h.DismissAlert)
}

// ListAlerts returns alerts newest first. Query param: limit (optional, capped at MAX_LIMIT).
func (h *Handler) ListAlerts(c *gin.Context) {
	limit, ok := pagination.ParseOptionalLimit(c)
	if !ok {
		return
	}

	alerts, err := h.Svc.List(c.Request.Context(), limit)
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// GenerateAlerts scans active documents and creates the alerts that do not exist yet.
func (h *Handler) GenerateAlerts(c *gin.Context) {
	created, err := h.Svc.Generate(c.Request.Context())
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

func (h *Handler) MarkRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsRead == nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("body harus berisi is_read (boolean)"))
		return
	}

	if err := h.Svc.MarkRead(c.Request.Context(), c.Param("id"), *req.IsRead); err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	n, err := h.Svc.MarkAllRead(c.Request.Context())
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}

func (h *Handler) DismissAlert(c *gin.Context) {
	if err := h.Svc.Dismiss(c.Request.Context(), c.Param("id")); err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.Svc.UnreadCount(c.Request.Context())
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}
