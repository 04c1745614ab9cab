package vehicle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/username/fleet-compliance-api/internal/clock"
	"github.com/username/fleet-compliance-api/internal/docstatus"
	"github.com/username/fleet-compliance-api/internal/document"
	"github.com/username/fleet-compliance-api/internal/testutil"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t, &Vehicle{}, &document.Document{})
	router := gin.New()
	NewHandler(db, clock.Fixed(now), zap.NewNop()).RegisterRoutes(router)
	return router, db
}

func send(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)
	return w
}

func TestCreateVehicle_Success(t *testing.T) {
	router, _ := setup(t)

	w := send(router, http.MethodPost, "/vehicles", VehicleCreateRequest{LicensePlate: " ab 123 cd "})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 when creating vehicle, got %d, body: %s", w.Code, w.Body.String())
	}

	var got View
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.LicensePlate != "AB 123 CD" {
		t.Fatalf("expected normalised plate, got %q", got.LicensePlate)
	}
	if got.Status != StatusActive {
		t.Fatalf("expected default status active, got %q", got.Status)
	}
	if got.GlobalStatus != docstatus.Valid || got.NextExpiration != nil {
		t.Fatalf("expected empty rollup, got %+v", got.Summary)
	}
}

func TestCreateVehicle_DuplicatePlate(t *testing.T) {
	router, _ := setup(t)

	if w := send(router, http.MethodPost, "/vehicles", VehicleCreateRequest{LicensePlate: "X1"}); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	w := send(router, http.MethodPost, "/vehicles", VehicleCreateRequest{LicensePlate: "x1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate plate, got %d, body: %s", w.Code, w.Body.String())
	}
}

func TestCreateVehicle_Validation(t *testing.T) {
	router, _ := setup(t)

	if w := send(router, http.MethodPost, "/vehicles", VehicleCreateRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without plate, got %d", w.Code)
	}
	if w := send(router, http.MethodPost, "/vehicles", VehicleCreateRequest{LicensePlate: "A", Status: "stolen"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestListVehicles_WithDocumentsAndRollup(t *testing.T) {
	router, db := setup(t)

	v := Vehicle{LicensePlate: "AAA111"}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	if err := db.Create(&Vehicle{LicensePlate: "ZZZ999"}).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	soon := clock.AddDays(now, 10)
	later := clock.AddDays(now, 120)
	for _, exp := range []*time.Time{&later, &soon, nil} {
		d := document.Document{DocumentType: document.TypeInsurance, Category: document.CategoryVehicle, EntityID: v.ID, ExpirationDate: exp}
		if err := db.Create(&d).Error; err != nil {
			t.Fatalf("seed document: %v", err)
		}
	}

	w := send(router, http.MethodGet, "/vehicles?limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data       []View         `json:"data"`
		Pagination map[string]any `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 2 || resp.Pagination["total"].(float64) != 2 {
		t.Fatalf("expected 2 vehicles, got %d (pagination %v)", len(resp.Data), resp.Pagination)
	}

	first := resp.Data[0]
	if first.ID != v.ID {
		t.Fatalf("expected vehicles ordered by plate, got %s first", first.LicensePlate)
	}
	if len(first.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(first.Documents))
	}
	if first.GlobalStatus != docstatus.Expiring || first.CriticalCount != 1 {
		t.Fatalf("expected expiring rollup with 1 critical, got %+v", first.Summary)
	}
	if first.NextExpiration == nil || !first.NextExpiration.Equal(soon) {
		t.Fatalf("expected next expiration %v, got %v", soon, first.NextExpiration)
	}
	if len(resp.Data[1].Documents) != 0 || resp.Data[1].GlobalStatus != docstatus.Valid {
		t.Fatalf("expected vehicle without documents to be valid, got %+v", resp.Data[1].Summary)
	}
}

func TestUpdateVehicle(t *testing.T) {
	router, db := setup(t)
	v := Vehicle{LicensePlate: "UPD1"}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	status := StatusMaintenance
	w := send(router, http.MethodPut, "/vehicles/"+v.ID, VehicleUpdateRequest{Status: &status})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body: %s", w.Code, w.Body.String())
	}
	var got Vehicle
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Status != StatusMaintenance || got.LicensePlate != "UPD1" {
		t.Fatalf("unexpected vehicle after update: %+v", got)
	}

	if w := send(router, http.MethodPut, "/vehicles/"+v.ID, VehicleUpdateRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", w.Code)
	}
	if w := send(router, http.MethodPut, "/vehicles/nope", VehicleUpdateRequest{Status: &status}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown vehicle, got %d", w.Code)
	}
}

func TestDeleteVehicle_RetiresDocuments(t *testing.T) {
	router, db := setup(t)
	v := Vehicle{LicensePlate: "DEL1"}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	d := document.Document{DocumentType: document.TypeVTV, Category: document.CategoryVehicle, EntityID: v.ID}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed document: %v", err)
	}

	if w := send(router, http.MethodDelete, "/vehicles/"+v.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	var reloaded document.Document
	if err := db.First(&reloaded, "id = ?", d.ID).Error; err != nil {
		t.Fatalf("reload document: %v", err)
	}
	if reloaded.Status != document.RecordDeleted {
		t.Fatalf("expected document retired, got %q", reloaded.Status)
	}

	if w := send(router, http.MethodDelete, "/vehicles/"+v.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
	if w := send(router, http.MethodGet, "/vehicles/"+v.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}
