package billing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"voltgrid/internal/models"
	"voltgrid/internal/pricing"
)

// TransactionRepository defines the persistence contract used by the service.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.EVTransaction) error
	CreateBatch(ctx context.Context, txs []models.EVTransaction) error
	List(ctx context.Context, limit int) ([]models.EVTransaction, error)
	ExistingIDs(ctx context.Context) (map[string]struct{}, error)
	MarkPaid(ctx context.Context, id, paymentType string, paidAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// CatalogProvider supplies a consistent rules/groups snapshot per call.
type CatalogProvider interface {
	Catalog(ctx context.Context) (pricing.Catalog, error)
}

// Service creates transactions for live sessions and handles payment
// reconciliation.
type Service struct {
	txRepo   TransactionRepository
	catalogs CatalogProvider
	logger   *zap.Logger
}

// NewService builds the billing service.
func NewService(txRepo TransactionRepository, catalogs CatalogProvider, logger *zap.Logger) *Service {
	return &Service{
		txRepo:   txRepo,
		catalogs: catalogs,
		logger:   logger,
	}
}

// SessionStoppedInput is the payload reported when a charging session ends.
type SessionStoppedInput struct {
	Account       string
	ConnectorType string
	Station       string
	StartTime     time.Time
	EndTime       time.Time
	EnergyKWh     float64
}

// SessionStopped builds and persists a transaction for a finished live
// session. The transaction id is an opaque generated token.
func (s *Service) SessionStopped(ctx context.Context, in SessionStoppedInput) (*models.EVTransaction, error) {
	if in.Station == "" {
		return nil, errors.New("billing: station required")
	}

	cat, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	tx := BuildTransaction(BuildInput{
		Account:       in.Account,
		ConnectorType: in.ConnectorType,
		Station:       in.Station,
		StartTime:     formatTimestamp(in.StartTime),
		EndTime:       formatTimestamp(in.EndTime),
		MeterKWh:      in.EnergyKWh,
	}, cat)

	if err := s.txRepo.Create(ctx, &tx); err != nil {
		return nil, err
	}

	s.logger.Info("billing transaction created",
		zap.String("transaction_id", tx.ID),
		zap.String("station", tx.Station),
		zap.String("account", tx.Account),
		zap.Float64("meter_kwh", tx.MeterKWh),
		zap.Int64("cost_cop", tx.CostCOP),
	)
	return &tx, nil
}

// MarkPaid reconciles a transaction as paid. Cost, meter value and applied
// rate are never touched.
func (s *Service) MarkPaid(ctx context.Context, id, paymentType string) error {
	if paymentType == "" {
		return errors.New("billing: payment type required")
	}
	return s.txRepo.MarkPaid(ctx, id, paymentType, time.Now().UTC())
}

// Delete removes a transaction (hard delete, operator action).
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.txRepo.Delete(ctx, id)
}

// Transactions returns the newest transactions first.
func (s *Service) Transactions(ctx context.Context, limit int) ([]models.EVTransaction, error) {
	return s.txRepo.List(ctx, limit)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
