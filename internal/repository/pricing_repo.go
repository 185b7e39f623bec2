package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"voltgrid/internal/models"
)

var (
	// ErrRuleNotFound represents missing pricing rule rows.
	ErrRuleNotFound = errors.New("pricing rule not found")
	// ErrGroupNotFound represents missing account group rows.
	ErrGroupNotFound = errors.New("account group not found")
)

// PricingRepository handles CRUD for pricing rules and account groups. List
// order is creation order, which the resolver relies on for deterministic
// first-match-wins behavior.
type PricingRepository struct {
	db *sql.DB
}

// NewPricingRepository returns repository instance.
func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// ListRules returns all pricing rules in stable first-registered order.
func (r *PricingRepository) ListRules(ctx context.Context) ([]models.PricingRule, error) {
	const query = `
		SELECT id, target_type, target_id, connector, rate_per_kwh, created_at
		FROM pricing_rules
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.PricingRule
	for rows.Next() {
		var rule models.PricingRule
		if err := rows.Scan(
			&rule.ID,
			&rule.TargetType,
			&rule.TargetID,
			&rule.Connector,
			&rule.RatePerKWh,
			&rule.CreatedAt,
		); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// CreateRule inserts a new pricing rule. Functional duplicates are allowed.
func (r *PricingRepository) CreateRule(ctx context.Context, rule *models.PricingRule) error {
	const query = `
		INSERT INTO pricing_rules (id, target_type, target_id, connector, rate_per_kwh, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		rule.ID,
		rule.TargetType,
		rule.TargetID,
		rule.Connector,
		rule.RatePerKWh,
	).Scan(&rule.CreatedAt)
}

// UpdateRule replaces a rule's fields by id.
func (r *PricingRepository) UpdateRule(ctx context.Context, rule models.PricingRule) error {
	const query = `
		UPDATE pricing_rules
		SET target_type = $2, target_id = $3, connector = $4, rate_per_kwh = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.TargetType,
		rule.TargetID,
		rule.Connector,
		rule.RatePerKWh,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, ErrRuleNotFound)
}

// DeleteRule removes a rule by id.
func (r *PricingRepository) DeleteRule(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pricing_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, ErrRuleNotFound)
}

// ListGroups returns all account groups in stable first-registered order.
func (r *PricingRepository) ListGroups(ctx context.Context) ([]models.AccountGroup, error) {
	const query = `
		SELECT id, name, members, created_at
		FROM account_groups
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.AccountGroup
	for rows.Next() {
		var (
			group      models.AccountGroup
			rawMembers []byte
		)
		if err := rows.Scan(&group.ID, &group.Name, &rawMembers, &group.CreatedAt); err != nil {
			return nil, err
		}
		if len(rawMembers) > 0 {
			if err := json.Unmarshal(rawMembers, &group.Members); err != nil {
				return nil, err
			}
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// CreateGroup inserts a new account group.
func (r *PricingRepository) CreateGroup(ctx context.Context, group *models.AccountGroup) error {
	members, err := json.Marshal(group.Members)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO account_groups (id, name, members, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, group.ID, group.Name, members).Scan(&group.CreatedAt)
}

// UpdateGroup replaces a group's name and membership by id.
func (r *PricingRepository) UpdateGroup(ctx context.Context, group models.AccountGroup) error {
	members, err := json.Marshal(group.Members)
	if err != nil {
		return err
	}
	const query = `
		UPDATE account_groups
		SET name = $2, members = $3
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, group.ID, group.Name, members)
	if err != nil {
		return err
	}
	return mustAffect(res, ErrGroupNotFound)
}

// DeleteGroup removes a group by id.
func (r *PricingRepository) DeleteGroup(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM account_groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, ErrGroupNotFound)
}

func mustAffect(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
