package pricing

import "voltgrid/internal/models"

// DefaultRatePerKWh is the COP/kWh fallback applied when no pricing rule
// matches. Resolution never fails; this constant is the end of the chain.
const DefaultRatePerKWh = 1500

// ResolveRate returns the COP/kWh rate for an account charging on the given
// connector type. Matching is priority ordered, first match wins:
//
//  1. ACCOUNT rule for the account and the exact connector type
//  2. ACCOUNT rule for the account with connector "ALL"
//  3. GROUP rule for the account's group (exact connector, then "ALL")
//  4. DEFAULT rule for the exact connector type
//  5. DEFAULT rule with connector "ALL"
//  6. DefaultRatePerKWh
//
// All string comparisons are case-sensitive exact matches; "ALL" is a
// literal sentinel stored on the rule, not a wildcard. GROUP rules are keyed
// by group id.
func ResolveRate(account, connectorType string, cat Catalog) float64 {
	if rate, ok := findRate(cat.Rules, models.TargetAccount, account, connectorType); ok {
		return rate
	}
	if rate, ok := findRate(cat.Rules, models.TargetAccount, account, models.ConnectorAll); ok {
		return rate
	}

	if group, ok := cat.GroupFor(account); ok {
		if rate, ok := findRate(cat.Rules, models.TargetGroup, group.ID, connectorType); ok {
			return rate
		}
		if rate, ok := findRate(cat.Rules, models.TargetGroup, group.ID, models.ConnectorAll); ok {
			return rate
		}
	}

	if rate, ok := findDefaultRate(cat.Rules, connectorType); ok {
		return rate
	}
	if rate, ok := findDefaultRate(cat.Rules, models.ConnectorAll); ok {
		return rate
	}

	return DefaultRatePerKWh
}

func findRate(rules []models.PricingRule, targetType, targetID, connector string) (float64, bool) {
	for _, r := range rules {
		if r.TargetType == targetType && r.TargetID == targetID && r.Connector == connector {
			return r.RatePerKWh, true
		}
	}
	return 0, false
}

// DEFAULT rules apply regardless of TargetID.
func findDefaultRate(rules []models.PricingRule, connector string) (float64, bool) {
	for _, r := range rules {
		if r.TargetType == models.TargetDefault && r.Connector == connector {
			return r.RatePerKWh, true
		}
	}
	return 0, false
}
