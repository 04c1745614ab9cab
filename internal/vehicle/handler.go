package vehicle

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

// Handler menampung dependency untuk handler kendaraan
type Handler struct {
	DB    *gorm.DB
	Docs  *document.Repository
	Clock clock.Clock
	Log   *zap.Logger
}

// NewHandler membuat handler baru
func NewHandler(db *gorm.DB, clk clock.Clock, log *zap.Logger) *Handler {
	return &Handler{DB: db, Docs: document.NewRepository(db), Clock: clk, Log: log}
}

// RegisterRoutes mendaftarkan semua route kendaraan
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/vehicles", h.listVehicles)
	router.POST("/vehicles", h.CreateVehicle)
	router.GET("/vehicles/:id", h.getVehicleByID)
	router.PUT("/vehicles/:id", h.updateVehicle)
	router.DELETE("/vehicles/:id", h.deleteVehicle)
}

func (h *Handler) listVehicles(c *gin.Context) {
	p := pagination.ParsePagination(c)
	if c.IsAborted() {
		return
	}
	ctx := c.Request.Context()

	query := h.DB.WithContext(ctx).Model(&Vehicle{})
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		query = query.Where("status = ?", s)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal menghitung kendaraan", err))
		return
	}

	var vehicles []Vehicle
	if err := query.Order("license_plate").Limit(p.Limit).Offset(p.Offset).Find(&vehicles).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal mengambil kendaraan", err))
		return
	}

	ids := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		ids = append(ids, v.ID)
	}
	docs, err := h.Docs.ForEntities(ctx, document.CategoryVehicle, ids, h.Clock.Now())
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	resp := make([]View, 0, len(vehicles))
	for _, v := range vehicles {
		resp = append(resp, View{Vehicle: v, EntityDocuments: docs[v.ID]})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp, "pagination": p.Meta(total)})
}

func (h *Handler) CreateVehicle(c *gin.Context) {
	var req VehicleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("body bukan JSON valid"))
		return
	}

	plate := strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	if plate == "" {
		apperror.Respond(c, h.Log, apperror.BadRequest("license_plate wajib diisi"))
		return
	}
	if req.Status != "" && !validStatus(req.Status) {
		apperror.Respond(c, h.Log, apperror.BadRequest("status harus salah satu dari: active, inactive, maintenance"))
		return
	}

	ctx := c.Request.Context()
	var existing int64
	if err := h.DB.WithContext(ctx).Model(&Vehicle{}).Where("license_plate = ?", plate).Count(&existing).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal memeriksa kendaraan", err))
		return
	}
	if existing > 0 {
		apperror.Respond(c, h.Log, apperror.Conflict("license_plate sudah terdaftar"))
		return
	}

	v := Vehicle{
		LicensePlate: plate,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		VehicleType:  req.VehicleType,
		Status:       req.Status,
		Notes:        req.Notes,
	}
	if err := h.DB.WithContext(ctx).Create(&v).Error; err != nil {
		// lost a race with a concurrent insert of the same plate
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apperror.Respond(c, h.Log, apperror.Conflict("license_plate sudah terdaftar"))
			return
		}
		apperror.Respond(c, h.Log, apperror.Database("gagal menyimpan kendaraan", err))
		return
	}

	c.JSON(http.StatusCreated, View{Vehicle: v, EntityDocuments: document.Summarize(nil, h.Clock.Now())})
}

func (h *Handler) getVehicleByID(c *gin.Context) {
	ctx := c.Request.Context()
	v, err := h.find(ctx, c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	docs, err := h.Docs.ForEntities(ctx, document.CategoryVehicle, []string{v.ID}, h.Clock.Now())
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, View{Vehicle: *v, EntityDocuments: docs[v.ID]})
}

func (h *Handler) updateVehicle(c *gin.Context) {
	ctx := c.Request.Context()
	v, err := h.find(ctx, c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	var req VehicleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("body bukan JSON valid"))
		return
	}

	updates := map[string]any{}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.VehicleType != nil {
		updates["vehicle_type"] = *req.VehicleType
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			apperror.Respond(c, h.Log, apperror.BadRequest("status harus salah satu dari: active, inactive, maintenance"))
			return
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		apperror.Respond(c, h.Log, apperror.BadRequest("tidak ada field yang diupdate"))
		return
	}

	if err := h.DB.WithContext(ctx).Model(v).Updates(updates).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal mengubah kendaraan", err))
		return
	}

	// ambil ulang data terbaru
	v, err = h.find(ctx, v.ID)
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// deleteVehicle removes the vehicle and retires its active documents in one transaction.
func (h *Handler) deleteVehicle(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Vehicle{})
		if res.Error != nil {
			return apperror.Database("gagal menghapus kendaraan", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("kendaraan tidak ditemukan")
		}
		return document.RetireEntity(tx, document.CategoryVehicle, id)
	})
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) find(ctx context.Context, id string) (*Vehicle, error) {
	var v Vehicle
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("kendaraan tidak ditemukan")
		}
		return nil, apperror.Database("gagal mengambil kendaraan", err)
	}
	return &v, nil
}
