package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/apperror"
	"github.com/username/fleet-compliance-api/internal/clock"
	"github.com/username/fleet-compliance-api/internal/compliance"
	"github.com/username/fleet-compliance-api/internal/document"
)

// resolveConcurrency bounds how many clients are resolved at once on the list endpoint.
const resolveConcurrency = 8

type Handler struct {
	DB       *gorm.DB
	Resolver *compliance.Resolver
	Log      *zap.Logger
}

func NewHandler(db *gorm.DB, clk clock.Clock, log *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Resolver: compliance.NewResolver(document.NewRepository(db), clk),
		Log:      log,
	}
}

// Daftarkan route clients
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/clients", h.ListClients)
	router.POST("/clients", h.CreateClient)
	router.GET("/clients/:id", h.GetClient)
	router.GET("/clients/:id/requirements", h.ListRequirements)
	router.POST("/clients/:id/requirements", h.AddRequirement)
}

// ListClients returns every client with its requirements, their compliance and the summary.
func (h *Handler) ListClients(c *gin.Context) {
	ctx := c.Request.Context()

	var clients []Client
	if err := h.DB.WithContext(ctx).Order("name").Order("id").Find(&clients).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal mengambil client", err))
		return
	}

	ids := make([]string, 0, len(clients))
	for _, cl := range clients {
		ids = append(ids, cl.ID)
	}
	byClient, err := h.requirementsFor(ctx, ids)
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	views := make([]View, len(clients))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i := range clients {
		g.Go(func() error {
			v, err := h.buildView(gctx, clients[i], byClient[clients[i].ID])
			if err != nil {
				return err
			}
			views[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// CreateClient inserts the client, then one required row per requirements entry set to true.
// A failed requirement insert is logged and does not undo the client.
func (h *Handler) CreateClient(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("body bukan JSON valid"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		apperror.Respond(c, h.Log, apperror.BadRequest("name wajib diisi"))
		return
	}

	status := StatusActive
	if req.Status != "" {
		status = Status(req.Status)
		if !status.Valid() {
			apperror.Respond(c, h.Log, apperror.BadRequest("status harus salah satu dari: active, inactive, pending"))
			return
		}
	}

	var types []document.Type
	for key, required := range req.Requirements {
		t, err := document.ParseType(key)
		if err != nil {
			apperror.Respond(c, h.Log, apperror.BadRequest("document_type tidak dikenal: "+key))
			return
		}
		if required {
			types = append(types, t)
		}
	}

	cl := Client{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Status:        status,
		Notes:         req.Notes,
	}
	if err := h.DB.WithContext(ctx).Create(&cl).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal menyimpan client", err))
		return
	}

	reqs := make([]Requirement, 0, len(types))
	for _, t := range types {
		r := Requirement{ClientID: cl.ID, DocumentType: t, IsRequired: true}
		if err := h.DB.WithContext(ctx).Create(&r).Error; err != nil {
			h.Log.Warn("requirement insert failed",
				zap.String("client_id", cl.ID),
				zap.String("document_type", string(t)),
				zap.Error(err))
			continue
		}
		reqs = append(reqs, r)
	}

	view, err := h.buildView(ctx, cl, reqs)
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) GetClient(c *gin.Context) {
	ctx := c.Request.Context()

	cl, err := h.findClient(ctx, c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	byClient, err := h.requirementsFor(ctx, []string{cl.ID})
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	view, err := h.buildView(ctx, *cl, byClient[cl.ID])
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListRequirements returns the requirements of one client with compliance resolved.
func (h *Handler) ListRequirements(c *gin.Context) {
	ctx := c.Request.Context()

	cl, err := h.findClient(ctx, c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	byClient, err := h.requirementsFor(ctx, []string{cl.ID})
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	out, _, err := h.resolveAll(ctx, byClient[cl.ID])
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AddRequirement(c *gin.Context) {
	ctx := c.Request.Context()

	cl, err := h.findClient(ctx, c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}

	var req AddRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("body bukan JSON valid"))
		return
	}
	t, err := document.ParseType(req.DocumentType)
	if err != nil {
		apperror.Respond(c, h.Log, apperror.BadRequest("document_type tidak dikenal"))
		return
	}

	r := Requirement{ClientID: cl.ID, DocumentType: t, IsRequired: true}
	if req.IsRequired != nil {
		r.IsRequired = *req.IsRequired
	}
	if req.EntityCategory != nil && *req.EntityCategory != "" {
		cat, err := document.ParseCategory(*req.EntityCategory)
		if err != nil {
			apperror.Respond(c, h.Log, apperror.BadRequest("entity_category harus salah satu dari: vehicle, personnel"))
			return
		}
		r.EntityCategory = &cat
	}
	if req.EntityID != nil && strings.TrimSpace(*req.EntityID) != "" {
		if r.EntityCategory == nil {
			apperror.Respond(c, h.Log, apperror.BadRequest("entity_id membutuhkan entity_category"))
			return
		}
		id := strings.TrimSpace(*req.EntityID)
		r.EntityID = &id
	}

	if err := h.DB.WithContext(ctx).Create(&r).Error; err != nil {
		apperror.Respond(c, h.Log, apperror.Database("gagal menyimpan requirement", err))
		return
	}

	res, err := h.Resolver.Resolve(ctx, r.Compliance())
	if err != nil {
		apperror.Respond(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, RequirementView{Requirement: r, Resolution: res})
}

func (h *Handler) findClient(ctx context.Context, id string) (*Client, error) {
	var cl Client
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&cl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("client tidak ditemukan")
		}
		return nil, apperror.Database("gagal mengambil client", err)
	}
	return &cl, nil
}

// requirementsFor loads requirements of many clients in one query, grouped by client id.
func (h *Handler) requirementsFor(ctx context.Context, clientIDs []string) (map[string][]Requirement, error) {
	out := make(map[string][]Requirement, len(clientIDs))
	if len(clientIDs) == 0 {
		return out, nil
	}
	var rows []Requirement
	err := h.DB.WithContext(ctx).
		Where("client_id IN ?", clientIDs).
		Order("document_type").Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, apperror.Database("gagal mengambil requirement", err)
	}
	for _, r := range rows {
		out[r.ClientID] = append(out[r.ClientID], r)
	}
	return out, nil
}

func (h *Handler) resolveAll(ctx context.Context, reqs []Requirement) ([]RequirementView, compliance.Summary, error) {
	views := make([]RequirementView, 0, len(reqs))
	results := make([]compliance.Result, 0, len(reqs))
	for _, r := range reqs {
		cr := r.Compliance()
		res, err := h.Resolver.Resolve(ctx, cr)
		if err != nil {
			return nil, compliance.Summary{}, err
		}
		views = append(views, RequirementView{Requirement: r, Resolution: res})
		results = append(results, compliance.Result{Requirement: cr, Resolution: res})
	}
	return views, compliance.Summarize(results), nil
}

func (h *Handler) buildView(ctx context.Context, cl Client, reqs []Requirement) (View, error) {
	views, sum, err := h.resolveAll(ctx, reqs)
	if err != nil {
		return View{}, err
	}
	return View{Client: cl, Requirements: views, Compliance: sum}, nil
}
