package pricing

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"voltgrid/internal/models"
)

type fakeSource struct {
	rules    []models.PricingRule
	groups   []models.AccountGroup
	err      error
	listHits int
}

func (f *fakeSource) ListRules(ctx context.Context) ([]models.PricingRule, error) {
	f.listHits++
	return f.rules, f.err
}

func (f *fakeSource) ListGroups(ctx context.Context) ([]models.AccountGroup, error) {
	return f.groups, f.err
}

type fakeCache struct {
	snapshot    *Catalog
	getErr      error
	invalidated bool
}

func (f *fakeCache) Get(ctx context.Context) (*Catalog, error) {
	return f.snapshot, f.getErr
}

func (f *fakeCache) Set(ctx context.Context, cat Catalog) error {
	f.snapshot = &cat
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.snapshot = nil
	f.invalidated = true
	return nil
}

func TestProviderLoadsFromSourceAndFillsCache(t *testing.T) {
	source := &fakeSource{
		rules: []models.PricingRule{{ID: "r1", TargetType: models.TargetDefault, Connector: models.ConnectorAll, RatePerKWh: 1300}},
	}
	cache := &fakeCache{}
	provider := NewProvider(source, cache, zap.NewNop())

	cat, err := provider.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(cat.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(cat.Rules))
	}
	if cache.snapshot == nil {
		t.Fatalf("expected cache to be filled")
	}
}

func TestProviderServesCachedSnapshot(t *testing.T) {
	source := &fakeSource{}
	cache := &fakeCache{snapshot: &Catalog{
		Rules: []models.PricingRule{{ID: "cached", TargetType: models.TargetDefault, Connector: models.ConnectorAll, RatePerKWh: 1000}},
	}}
	provider := NewProvider(source, cache, zap.NewNop())

	cat, err := provider.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(cat.Rules) != 1 || cat.Rules[0].ID != "cached" {
		t.Fatalf("expected cached snapshot, got %+v", cat.Rules)
	}
	if source.listHits != 0 {
		t.Fatalf("source should not be hit on cache hit, got %d", source.listHits)
	}
}

func TestProviderFallsThroughOnCacheError(t *testing.T) {
	source := &fakeSource{
		rules: []models.PricingRule{{ID: "r1", TargetType: models.TargetDefault, Connector: models.ConnectorAll, RatePerKWh: 1300}},
	}
	cache := &fakeCache{getErr: errors.New("redis down")}
	provider := NewProvider(source, cache, zap.NewNop())

	cat, err := provider.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(cat.Rules) != 1 {
		t.Fatalf("expected source snapshot despite cache error, got %+v", cat.Rules)
	}
}

func TestProviderInvalidate(t *testing.T) {
	cache := &fakeCache{snapshot: &Catalog{}}
	provider := NewProvider(&fakeSource{}, cache, zap.NewNop())

	provider.Invalidate(context.Background())
	if !cache.invalidated {
		t.Fatalf("expected cache invalidation")
	}
}
