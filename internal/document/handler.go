package document

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/apperror"
	"github.com/username/fleet-compliance-api/internal/clock"
	"github.com/username/fleet-compliance-api/internal/pagination"
)

type Handler struct {
	Repo  *Repository
	Clock clock.Clock
	Log   *zap.Logger
}

func NewHandler(db *gorm.DB, clk clock.Clock, log *zap.Logger) *Handler {
	return &Handler{Repo: NewRepository(db), Clock: clk, Log: log}
}

// Daftarkan route documents
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/documents", h.ListDocuments)
	router.POST("/documents", h.CreateDocument)
	router.GET("/documents/:id", h.GetDocument)
	router.PATCH("/documents/:id/status", h.UpdateStatus)
}

// ListDocuments returns active documents newest first with their derived status.
// Query params: category (vehicle|personnel), entity_id, limit (optional).
func (h *Handler) ListDocuments(c *gin.Context) {
	var f Filter
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		parsed, err := ParseCategory(cat)
		if err != nil {
			apperror.Respond(c, h.Log, apperror.BadRequest("category harus salah satu dari: vehicle, personnel"))
			return
		}
		f.Category = parsed
	}
	f.EntityID = strings.TrimSpace(c.Query("entity_id"))

	limit, ok := pagination.ParseOptionalLimit(c)
	if !ok {
		return
	}
	f.Limit = limit

	docs, err := h.Repo.ActiveDocuments(c.Request.Context(), f)
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, AnnotateAll(docs, h.Clock.Now()))
}

func (h *Handler) GetDocument(c *gin.Context) {
	d, err := h.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, Annotate(*d, h.Clock.Now()))
}

// CreateDocument stores the metadata of an uploaded document. New documents are always active.
func (h *Handler) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("body bukan JSON valid"))
		return
	}

	d, err := req.toDocument()
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	if err := h.Repo.Create(c.Request.Context(), d); err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	h.Log.Info("document created",
		zap.String("document_id", d.ID),
		zap.String("document_type", string(d.DocumentType)),
		zap.String("category", string(d.Category)),
		zap.String("entity_id", d.EntityID))

	c.JSON(http.StatusCreated, Annotate(*d, h.Clock.Now()))
}

// UpdateStatus takes a document out of (or back into) circulation.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("body bukan JSON valid"))
		return
	}
	s := RecordStatus(strings.TrimSpace(req.Status))
	if !s.Valid() {
		apperror.Respond(c, h.Log, apperror.BadRequest("status harus salah satu dari: active, superseded, deleted"))
		return
	}

	if err := h.Repo.SetStatus(c.Request.Context(), c.Param("id"), s); err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (req CreateDocumentRequest) toDocument() (*Document, error) {
	t, err := ParseType(strings.TrimSpace(req.DocumentType))
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	cat, err := ParseCategory(strings.TrimSpace(req.Category))
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	entityID := strings.TrimSpace(req.EntityID)
	if entityID == "" {
		return nil, apperror.BadRequest("entity_id wajib diisi")
	}

	d := &Document{
		DocumentType:   t,
		Category:       cat,
		EntityID:       entityID,
		Status:         RecordActive,
		FileURL:        req.FileURL,
		FileName:       req.FileName,
		FileSize:       req.FileSize,
		FileType:       req.FileType,
		Issuer:         req.Issuer,
		DocumentNumber: req.DocumentNumber,
		Notes:          req.Notes,
	}

	if req.ExpirationDate != nil && strings.TrimSpace(*req.ExpirationDate) != "" {
		exp, err := ParseDate(strings.TrimSpace(*req.ExpirationDate))
		if err != nil {
			return nil, apperror.BadRequest("expiration_date harus berformat YYYY-MM-DD atau RFC3339")
		}
		d.ExpirationDate = &exp
	}
	return d, nil
}
