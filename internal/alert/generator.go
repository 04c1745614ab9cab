package alert

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/username/fleet-compliance-api/internal/clock"
	"github.com/username/fleet-compliance-api/internal/document"
)

// Generator runs one batch scan over active documents and writes the missing alerts.
type Generator struct {
	store Store
	clock clock.Clock
	log   *zap.Logger
}

func NewGenerator(store Store, clk clock.Clock, log *zap.Logger) *Generator {
	return &Generator{store: store, clock: clk, log: log}
}

// Run returns how many alerts were created.
//
// A document that moves to a more severe tier between runs gets a second alert; earlier tiers
// are left in place. Entity name lookups that fail fall back to the raw entity id.
func (g *Generator) Run(ctx context.Context) (int, error) {
	docs, err := g.store.Candidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("load documents: %w", err)
	}

	now := g.clock.Now()
	var pending []Alert

	for _, doc := range docs {
		if doc.ExpirationDate == nil {
			continue
		}
		tier, ok := TierFor(*doc.ExpirationDate, now)
		if !ok {
			continue
		}

		exists, err := g.store.Exists(ctx, doc.ID, tier)
		if err != nil {
			return 0, fmt.Errorf("check existing alert for document %s: %w", doc.ID, err)
		}
		if exists {
			continue
		}

		exp := *doc.ExpirationDate
		pending = append(pending, Alert{
			DocumentID:     doc.ID,
			DocumentType:   doc.DocumentType,
			EntityType:     doc.Category,
			EntityID:       doc.EntityID,
			EntityName:     g.entityName(ctx, doc.Category, doc.EntityID),
			AlertType:      tier,
			ExpirationDate: &exp,
			IsRead:         false,
			Payload: datatypes.JSONMap{
				"days_until_expiration": clock.DaysUntil(exp, now),
			},
		})
	}

	created, err := g.store.Insert(ctx, pending)
	if err != nil {
		return 0, fmt.Errorf("insert alerts: %w", err)
	}

	g.log.Info("alert generation finished",
		zap.Int("scanned", len(docs)),
		zap.Int("queued", len(pending)),
		zap.Int64("created", created))

	return int(created), nil
}

func (g *Generator) entityName(ctx context.Context, cat document.Category, entityID string) string {
	name, err := g.store.EntityName(ctx, cat, entityID)
	if err != nil {
		if !errors.Is(err, ErrEntityNotFound) {
			g.log.Warn("entity name lookup failed, using entity id",
				zap.String("category", string(cat)),
				zap.String("entity_id", entityID),
				zap.Error(err))
		}
		return entityID
	}
	if name == "" {
		return entityID
	}
	return name
}
