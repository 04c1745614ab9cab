package personnel

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/apperror"
	"github.com/username/fleet-compliance-api/internal/clock"
	"github.com/username/fleet-compliance-api/internal/document"
	"github.com/username/fleet-compliance-api/internal/pagination"
)

type Handler struct {
	DB    *gorm.DB
	Docs  *document.Repository
	Clock clock.Clock
	Log   *zap.Logger
}

func NewHandler(db *gorm.DB, clk clock.Clock, log *zap.Logger) *Handler {
	return &Handler{DB: db, Docs: document.NewRepository(db), Clock: clk, Log: log}
}

func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/personnel", h.listPersonnel)
	router.POST("/personnel", h.createPersonnel)
	router.GET("/personnel/:id", h.getPersonnel)
	router.PUT("/personnel/:id", h.updatePersonnel)
	router.DELETE("/personnel/:id", h.deletePersonnel)
}

// listPersonnel: query params limit, page, status, q (matches first/last name).
func (h *Handler) listPersonnel(c *gin.Context) {
	p := pagination.ParsePagination(c)
	if c.IsAborted() {
		return
	}
	ctx := c.Request.Context()

	query := h.DB.WithContext(ctx).Model(&Personnel{})
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		query = query.Where("status = ?", s)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal menghitung personel", err))
		return
	}

	var people []Personnel
	if err := query.Order("last_name").Order("first_name").Order("id").
		Limit(p.Limit).Offset(p.Offset).Find(&people).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal mengambil personel", err))
		return
	}

	ids := make([]string, 0, len(people))
	for _, pr := range people {
		ids = append(ids, pr.ID)
	}
	docs, err := h.Docs.ForEntities(ctx, document.CategoryPersonnel, ids, h.Clock.Now())
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	resp := make([]View, 0, len(people))
	for _, pr := range people {
		resp = append(resp, View{Personnel: pr, FullName: pr.Name(), EntityDocuments: docs[pr.ID]})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "pagination": p.Meta(total)})
}

func (h *Handler) createPersonnel(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("body bukan JSON valid"))
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		apperror.Respond(c, h.Log, apperror.BadRequest("first_name dan last_name wajib diisi"))
		return
	}
	if req.Status != "" && !validStatus(req.Status) {
		apperror.Respond(c, h.Log, apperror.BadRequest("status harus salah satu dari: active, inactive, on_leave"))
		return
	}

	pr := Personnel{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		Position:       req.Position,
		Status:         req.Status,
		Notes:          req.Notes,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&pr).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal menyimpan personel", err))
		return
	}

	c.JSON(http.StatusCreated, View{Personnel: pr, FullName: pr.Name(), EntityDocuments: document.Summarize(nil, h.Clock.Now())})
}

func (h *Handler) getPersonnel(c *gin.Context) {
	ctx := c.Request.Context()
	pr, err := h.find(ctx, c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	docs, err := h.Docs.ForEntities(ctx, document.CategoryPersonnel, []string{pr.ID}, h.Clock.Now())
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, View{Personnel: *pr, FullName: pr.Name(), EntityDocuments: docs[pr.ID]})
}

func (h *Handler) updatePersonnel(c *gin.Context) {
	ctx := c.Request.Context()
	pr, err := h.find(ctx, c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("body bukan JSON valid"))
		return
	}

	updates := map[string]any{}
	for col, v := range map[string]*string{
		"document_number": req.DocumentNumber,
		"phone":           req.Phone,
		"email":           req.Email,
		"position":        req.Position,
		"notes":           req.Notes,
	} {
		if v != nil {
			updates[col] = *v
		}
	}
	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			apperror.Respond(c, h.Log, apperror.BadRequest("first_name tidak boleh kosong"))
			return
		}
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			apperror.Respond(c, h.Log, apperror.BadRequest("last_name tidak boleh kosong"))
			return
		}
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			apperror.Respond(c, h.Log, apperror.BadRequest("status harus salah satu dari: active, inactive, on_leave"))
			return
		}
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		apperror.Respond(c, h.Log, apperror.BadRequest("tidak ada field yang diupdate"))
		return
	}

	if err := h.DB.WithContext(ctx).Model(pr).Updates(updates).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal mengubah personel", err))
		return
	}

	pr, err = h.find(ctx, pr.ID)
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, pr)
}

func (h *Handler) deletePersonnel(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Personnel{})
		if res.Error != nil {
			return apperror.Database("gagal menghapus personel", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("personel tidak ditemukan")
		}
		return document.RetireEntity(tx, document.CategoryPersonnel, id)
	})
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) find(ctx context.Context, id string) (*Personnel, error) {
	var pr Personnel
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&pr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("personel tidak ditemukan")
		}
		return nil, apperror.Database("gagal mengambil personel", err)
	}
	return &pr, nil
}
