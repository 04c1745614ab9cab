// Package compliance resolves client document requirements against the documents on file.
package compliance

import (
	"context"
	"time"

	"github.com/username/fleet-compliance-api/internal/clock"
	"github.com/username/fleet-compliance-api/internal/docstatus"
	"github.com/username/fleet-compliance-api/internal/document"
)

type Status string

const (
	Compliant Status = "compliant"
	Missing   Status = "missing"
	Expiring  Status = "expiring"
	Expired   Status = "expired"
)

// Critical reports whether the status needs attention on the client card.
func (s Status) Critical() bool {
	return s == Missing || s == Expiring || s == Expired
}

// Requirement is what the resolver needs to know about a client requirement.
type Requirement struct {
	DocumentType document.Type
	IsRequired   bool
	Scope        document.Scope
}

type Resolution struct {
	ComplianceStatus Status     `json:"compliance_status"`
	ExpirationDate   *time.Time `json:"expiration_date"`
	DocumentID       *string    `json:"document_id,omitempty"`
}

// Resolve derives compliance from the latest matching active document (nil when none).
func Resolve(req Requirement, latest *document.Document, now time.Time) Resolution {
	if !req.IsRequired {
		return Resolution{ComplianceStatus: Compliant}
	}
	if latest == nil {
		return Resolution{ComplianceStatus: Missing}
	}

	id := latest.ID
	res := Resolution{DocumentID: &id}
	if latest.ExpirationDate == nil {
		res.ComplianceStatus = Compliant
		return res
	}

	exp := *latest.ExpirationDate
	res.ExpirationDate = &exp
	switch docstatus.Classify(&exp, now).Status {
	case docstatus.Expired:
		res.ComplianceStatus = Expired
	case docstatus.Expiring:
		res.ComplianceStatus = Expiring
	default:
		res.ComplianceStatus = Compliant
	}
	return res
}

// DocumentFinder looks up the authoritative document for a requirement.
type DocumentFinder interface {
	LatestActive(ctx context.Context, t document.Type, s document.Scope) (*document.Document, error)
}

type Resolver struct {
	finder DocumentFinder
	clock  clock.Clock
}

func NewResolver(finder DocumentFinder, clk clock.Clock) *Resolver {
	return &Resolver{finder: finder, clock: clk}
}

// Resolve skips the lookup entirely for optional requirements.
func (r *Resolver) Resolve(ctx context.Context, req Requirement) (Resolution, error) {
	if !req.IsRequired {
		return Resolve(req, nil, r.clock.Now()), nil
	}
	latest, err := r.finder.LatestActive(ctx, req.DocumentType, req.Scope)
	if err != nil {
		return Resolution{}, err
	}
	return Resolve(req, latest, r.clock.Now()), nil
}
