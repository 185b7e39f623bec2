package models

import "time"

// Rule target kinds. TargetID holds an account name for ACCOUNT rules, a
// group id for GROUP rules, and the literal "Default" for DEFAULT rules.
const (
	TargetAccount = "ACCOUNT"
	TargetGroup   = "GROUP"
	TargetDefault = "DEFAULT"
)

// ConnectorAll is the sentinel connector value meaning "any connector type".
// It is matched as a literal, not as a pattern.
const ConnectorAll = "ALL"

// PricingRule defines a per-kWh rate for a billing target. Connector is a
// free-text connector type compared case-sensitively; duplicates are allowed
// and the first rule in catalog order wins.
type PricingRule struct {
	ID         string    `db:"id" json:"id"`
	TargetType string    `db:"target_type" json:"target_type"`
	TargetID   string    `db:"target_id" json:"target_id"`
	Connector  string    `db:"connector" json:"connector"`
	RatePerKWh float64   `db:"rate_per_kwh" json:"rate_per_kwh"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AccountGroup widens tariff applicability to a set of accounts. An account
// is effectively priced by the first group in catalog order that lists it.
type AccountGroup struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Members   []string  `db:"members" json:"members"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Contains reports whether the group lists the account (exact string match).
func (g AccountGroup) Contains(account string) bool {
	for _, member := range g.Members {
		if member == account {
			return true
		}
	}
	return false
}
