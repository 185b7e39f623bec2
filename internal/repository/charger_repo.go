package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"voltgrid/internal/models"
)

// ErrChargerNotFound represents missing charger rows.
var ErrChargerNotFound = errors.New("charger not found")

// ChargerRepository handles CRUD for the charger registry. Connectors are
// stored as a JSONB document on the charger row; their free-text types are
// preserved verbatim because they are the pricing match key.
type ChargerRepository struct {
	db *sql.DB
}

// NewChargerRepository returns repository instance.
func NewChargerRepository(db *sql.DB) *ChargerRepository {
	return &ChargerRepository{db: db}
}

// List returns all chargers in registration order.
func (r *ChargerRepository) List(ctx context.Context) ([]models.EVCharger, error) {
	const query = `
		SELECT id, name, location, status, connectors, created_at, updated_at
		FROM chargers
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chargers []models.EVCharger
	for rows.Next() {
		charger, err := scanCharger(rows.Scan)
		if err != nil {
			return nil, err
		}
		chargers = append(chargers, charger)
	}
	return chargers, rows.Err()
}

// Get fetches one charger by id.
func (r *ChargerRepository) Get(ctx context.Context, id string) (*models.EVCharger, error) {
	const query = `
		SELECT id, name, location, status, connectors, created_at, updated_at
		FROM chargers
		WHERE id = $1
	`
	charger, err := scanCharger(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChargerNotFound
		}
		return nil, err
	}
	return &charger, nil
}

// Create inserts a new charger.
func (r *ChargerRepository) Create(ctx context.Context, charger *models.EVCharger) error {
	connectors, err := json.Marshal(charger.Connectors)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO chargers (id, name, location, status, connectors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		charger.ID,
		charger.Name,
		charger.Location,
		charger.Status,
		connectors,
	).Scan(&charger.CreatedAt, &charger.UpdatedAt)
}

// Update replaces a charger's mutable fields by id.
func (r *ChargerRepository) Update(ctx context.Context, charger models.EVCharger) error {
	connectors, err := json.Marshal(charger.Connectors)
	if err != nil {
		return err
	}
	const query = `
		UPDATE chargers
		SET name = $2, location = $3, status = $4, connectors = $5, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		charger.ID,
		charger.Name,
		charger.Location,
		charger.Status,
		connectors,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, ErrChargerNotFound)
}

// Delete removes a charger by id.
func (r *ChargerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chargers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, ErrChargerNotFound)
}

func scanCharger(scan func(dest ...any) error) (models.EVCharger, error) {
	var (
		charger       models.EVCharger
		rawConnectors []byte
	)
	if err := scan(
		&charger.ID,
		&charger.Name,
		&charger.Location,
		&charger.Status,
		&rawConnectors,
		&charger.CreatedAt,
		&charger.UpdatedAt,
	); err != nil {
		return models.EVCharger{}, err
	}
	if len(rawConnectors) > 0 {
		if err := json.Unmarshal(rawConnectors, &charger.Connectors); err != nil {
			return models.EVCharger{}, err
		}
	}
	return charger, nil
}
