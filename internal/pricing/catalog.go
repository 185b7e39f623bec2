package pricing

import "voltgrid/internal/models"

// Catalog is a read-only snapshot of pricing rules and account groups taken
// for the duration of one resolution call. Slice order is the stable
// first-registered order; when duplicate rules exist the first match wins
// deterministically. Callers own persistence and must not mutate a snapshot
// they have handed to the resolver.
type Catalog struct {
	Rules  []models.PricingRule
	Groups []models.AccountGroup
}

// GroupFor returns the first group in catalog order whose members include
// the account. An account placed in two groups is priced by the first one
// only; the second group's rules are unreachable.
func (c Catalog) GroupFor(account string) (models.AccountGroup, bool) {
	for _, g := range c.Groups {
		if g.Contains(account) {
			return g, true
		}
	}
	return models.AccountGroup{}, false
}
