package billing

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"voltgrid/internal/models"
	"voltgrid/internal/pricing"
)

type fakeTxRepo struct {
	created []models.EVTransaction
	paid    map[string]string
	deleted []string
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{paid: make(map[string]string)}
}

func (f *fakeTxRepo) Create(ctx context.Context, tx *models.EVTransaction) error {
	f.created = append(f.created, *tx)
	return nil
}

func (f *fakeTxRepo) CreateBatch(ctx context.Context, txs []models.EVTransaction) error {
	f.created = append(f.created, txs...)
	return nil
}

func (f *fakeTxRepo) List(ctx context.Context, limit int) ([]models.EVTransaction, error) {
	return f.created, nil
}

func (f *fakeTxRepo) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	for _, tx := range f.created {
		ids[tx.ID] = struct{}{}
	}
	return ids, nil
}

func (f *fakeTxRepo) MarkPaid(ctx context.Context, id, paymentType string, paidAt time.Time) error {
	f.paid[id] = paymentType
	return nil
}

func (f *fakeTxRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type staticCatalog struct {
	cat pricing.Catalog
}

func (s staticCatalog) Catalog(ctx context.Context) (pricing.Catalog, error) {
	return s.cat, nil
}

func TestSessionStoppedCreatesTransaction(t *testing.T) {
	original := newTransactionID
	newTransactionID = func() string { return "live-1" }
	t.Cleanup(func() { newTransactionID = original })

	repo := newFakeTxRepo()
	catalogs := staticCatalog{cat: pricing.Catalog{
		Rules: []models.PricingRule{
			{ID: "r1", TargetType: models.TargetAccount, TargetID: "acme", Connector: "CCS2", RatePerKWh: 1200},
		},
	}}
	svc := NewService(repo, catalogs, zap.NewNop())

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tx, err := svc.SessionStopped(context.Background(), SessionStoppedInput{
		Account:       "acme",
		ConnectorType: "CCS2",
		Station:       "ST-01",
		StartTime:     start,
		EndTime:       start.Add(90 * time.Minute),
		EnergyKWh:     10,
	})
	if err != nil {
		t.Fatalf("session stopped: %v", err)
	}

	if tx.ID != "live-1" {
		t.Fatalf("expected generated id live-1, got %s", tx.ID)
	}
	if tx.CostCOP != 12000 {
		t.Fatalf("expected 12000 COP, got %d", tx.CostCOP)
	}
	if tx.DurationMinutes != 90 {
		t.Fatalf("expected 90 minutes, got %d", tx.DurationMinutes)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected transaction persisted, got %d", len(repo.created))
	}
}

func TestSessionStoppedRequiresStation(t *testing.T) {
	svc := NewService(newFakeTxRepo(), staticCatalog{}, zap.NewNop())

	if _, err := svc.SessionStopped(context.Background(), SessionStoppedInput{Account: "acme"}); err == nil {
		t.Fatalf("expected error for missing station")
	}
}

func TestMarkPaidRequiresPaymentType(t *testing.T) {
	repo := newFakeTxRepo()
	svc := NewService(repo, staticCatalog{}, zap.NewNop())

	if err := svc.MarkPaid(context.Background(), "tx-1", ""); err == nil {
		t.Fatalf("expected error for empty payment type")
	}
	if err := svc.MarkPaid(context.Background(), "tx-1", "Card"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if repo.paid["tx-1"] != "Card" {
		t.Fatalf("expected payment recorded, got %v", repo.paid)
	}
}
