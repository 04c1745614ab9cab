package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/fleet-compliance-api/internal/clock"
	"github.com/username/fleet-compliance-api/internal/document"
	"github.com/username/fleet-compliance-api/internal/testutil"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func days(n int) *time.Time {
	t := clock.AddDays(now, n)
	return &t
}

type stubFinder struct {
	doc   *document.Document
	err   error
	calls int
}

func (s *stubFinder) LatestActive(context.Context, document.Type, document.Scope) (*document.Document, error) {
	s.calls++
	return s.doc, s.err
}

func TestResolve_OptionalIsAlwaysCompliant(t *testing.T) {
	req := Requirement{DocumentType: document.TypeInsurance, IsRequired: false}

	assert.Equal(t, Compliant, Resolve(req, nil, now).ComplianceStatus)
	expired := &document.Document{ID: "d1", ExpirationDate: days(-10)}
	assert.Equal(t, Compliant, Resolve(req, expired, now).ComplianceStatus)

	finder := &stubFinder{}
	res, err := NewResolver(finder, clock.Fixed(now)).Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, Compliant, res.ComplianceStatus)
	assert.Zero(t, finder.calls)
}

func TestResolve_RequiredWithoutDocumentIsMissing(t *testing.T) {
	res := Resolve(Requirement{DocumentType: document.TypeVTV, IsRequired: true}, nil, now)
	assert.Equal(t, Missing, res.ComplianceStatus)
	assert.Nil(t, res.DocumentID)
}

func TestResolve_NoExpirationIsCompliant(t *testing.T) {
	res := Resolve(Requirement{IsRequired: true}, &document.Document{ID: "d1"}, now)
	assert.Equal(t, Compliant, res.ComplianceStatus)
	assert.Nil(t, res.ExpirationDate)
	require.NotNil(t, res.DocumentID)
	assert.Equal(t, "d1", *res.DocumentID)
}

func TestResolve_Thresholds(t *testing.T) {
	req := Requirement{IsRequired: true}
	cases := []struct {
		exp  *time.Time
		want Status
	}{
		{days(-1), Expired},
		{days(0), Expired},
		{days(5), Expiring},
		{days(30), Expiring},
		{days(31), Compliant},
	}
	for _, tc := range cases {
		got := Resolve(req, &document.Document{ID: "d", ExpirationDate: tc.exp}, now)
		assert.Equal(t, tc.want, got.ComplianceStatus, "exp %v", tc.exp)
	}
}

func TestResolver_PropagatesStoreErrors(t *testing.T) {
	finder := &stubFinder{err: errors.New("connection refused")}
	_, err := NewResolver(finder, clock.Fixed(now)).Resolve(context.Background(), Requirement{IsRequired: true})
	assert.Error(t, err)
}

func TestResolver_SelectsMostRecentDocument(t *testing.T) {
	db := testutil.OpenDB(t, &document.Document{})
	repo := document.NewRepository(db)

	older := document.Document{DocumentType: document.TypeInsurance, Category: document.CategoryVehicle,
		EntityID: "v1", ExpirationDate: days(60), CreatedAt: now.Add(-72 * time.Hour)}
	newer := document.Document{DocumentType: document.TypeInsurance, Category: document.CategoryVehicle,
		EntityID: "v1", ExpirationDate: days(5), CreatedAt: now.Add(-2 * time.Hour)}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	r := NewResolver(repo, clock.Fixed(now))
	res, err := r.Resolve(context.Background(), Requirement{
		DocumentType: document.TypeInsurance,
		IsRequired:   true,
		Scope:        document.Scope{Category: document.CategoryVehicle, EntityID: "v1"},
	})
	require.NoError(t, err)
	assert.Equal(t, Expiring, res.ComplianceStatus)
	require.NotNil(t, res.DocumentID)
	assert.Equal(t, newer.ID, *res.DocumentID)

	// a scope bound to another entity sees nothing
	res, err = r.Resolve(context.Background(), Requirement{
		DocumentType: document.TypeInsurance,
		IsRequired:   true,
		Scope:        document.Scope{Category: document.CategoryVehicle, EntityID: "v2"},
	})
	require.NoError(t, err)
	assert.Equal(t, Missing, res.ComplianceStatus)
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	assert.Equal(t, 100.0, empty.Percentage)
	assert.Empty(t, empty.Critical)

	onlyOptional := Summarize([]Result{{
		Requirement: Requirement{DocumentType: document.TypeOther},
		Resolution:  Resolution{ComplianceStatus: Compliant},
	}})
	assert.Equal(t, 0, onlyOptional.Required)
	assert.Equal(t, 100.0, onlyOptional.Percentage)

	s := Summarize([]Result{
		{Requirement{DocumentType: document.TypeInsurance, IsRequired: true}, Resolution{ComplianceStatus: Compliant}},
		{Requirement{DocumentType: document.TypeVTV, IsRequired: true}, Resolution{ComplianceStatus: Expired}},
		{Requirement{DocumentType: document.TypeWorkPermit, IsRequired: true}, Resolution{ComplianceStatus: Missing}},
		{Requirement{DocumentType: document.TypeRegistration, IsRequired: true}, Resolution{ComplianceStatus: Expiring}},
	})
	assert.Equal(t, 4, s.Required)
	assert.Equal(t, 1, s.Compliant)
	assert.Equal(t, 25.0, s.Percentage)
	assert.Equal(t, []document.Type{document.TypeVTV, document.TypeWorkPermit, document.TypeRegistration}, s.Critical)
}
