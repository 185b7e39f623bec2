package pricing

import (
	"context"

	"go.uber.org/zap"

	"voltgrid/internal/models"
)

// CatalogSource loads the persisted rules and groups in stable
// first-registered order.
type CatalogSource interface {
	ListRules(ctx context.Context) ([]models.PricingRule, error)
	ListGroups(ctx context.Context) ([]models.AccountGroup, error)
}

// SnapshotCache caches whole catalog snapshots. A miss is reported as
// (nil, nil).
type SnapshotCache interface {
	Get(ctx context.Context) (*Catalog, error)
	Set(ctx context.Context, cat Catalog) error
	Invalidate(ctx context.Context) error
}

// Provider assembles catalog snapshots for resolution calls, fronted by an
// optional cache. Cache failures fall through to the source.
type Provider struct {
	source CatalogSource
	cache  SnapshotCache
	logger *zap.Logger
}

// NewProvider builds a provider. cache may be nil.
func NewProvider(source CatalogSource, cache SnapshotCache, logger *zap.Logger) *Provider {
	return &Provider{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// Catalog returns a consistent rules/groups snapshot.
func (p *Provider) Catalog(ctx context.Context) (Catalog, error) {
	if p.cache != nil {
		cached, err := p.cache.Get(ctx)
		if err != nil {
			p.logger.Warn("catalog cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	rules, err := p.source.ListRules(ctx)
	if err != nil {
		return Catalog{}, err
	}
	groups, err := p.source.ListGroups(ctx)
	if err != nil {
		return Catalog{}, err
	}

	cat := Catalog{Rules: rules, Groups: groups}

	if p.cache != nil {
		if err := p.cache.Set(ctx, cat); err != nil {
			p.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return cat, nil
}

// Invalidate drops the cached snapshot after a rule or group mutation.
func (p *Provider) Invalidate(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Invalidate(ctx); err != nil {
		p.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
