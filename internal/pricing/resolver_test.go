package pricing

import (
	"testing"

	"voltgrid/internal/models"
)

func rule(id, targetType, targetID, connector string, rate float64) models.PricingRule {
	return models.PricingRule{
		ID:         id,
		TargetType: targetType,
		TargetID:   targetID,
		Connector:  connector,
		RatePerKWh: rate,
	}
}

func TestResolveRateEmptyCatalogFallsBack(t *testing.T) {
	got := ResolveRate("acme", "CCS2", Catalog{})
	if got != DefaultRatePerKWh {
		t.Fatalf("expected fallback %d, got %v", DefaultRatePerKWh, got)
	}
}

func TestResolveRateAccountExactOutranksEverything(t *testing.T) {
	cat := Catalog{
		Rules: []models.PricingRule{
			rule("r1", models.TargetDefault, "Default", models.ConnectorAll, 900),
			rule("r2", models.TargetGroup, "g1", "CCS2", 1000),
			rule("r3", models.TargetAccount, "acme", models.ConnectorAll, 1100),
			rule("r4", models.TargetAccount, "acme", "CCS2", 1250),
		},
		Groups: []models.AccountGroup{
			{ID: "g1", Name: "Fleet", Members: []string{"acme"}},
		},
	}

	if got := ResolveRate("acme", "CCS2", cat); got != 1250 {
		t.Fatalf("expected account+connector rule 1250, got %v", got)
	}
}

func TestResolveRateAccountAllBeatsGroup(t *testing.T) {
	cat := Catalog{
		Rules: []models.PricingRule{
			rule("r1", models.TargetGroup, "g1", "CCS2", 1000),
			rule("r2", models.TargetAccount, "acme", models.ConnectorAll, 1100),
		},
		Groups: []models.AccountGroup{
			{ID: "g1", Name: "Fleet", Members: []string{"acme"}},
		},
	}

	if got := ResolveRate("acme", "CCS2", cat); got != 1100 {
		t.Fatalf("expected account ALL rule 1100, got %v", got)
	}
}

func TestResolveRateGroupMatchedByID(t *testing.T) {
	cat := Catalog{
		Rules: []models.PricingRule{
			rule("r1", models.TargetGroup, "g1", "CCS2", 980),
			rule("r2", models.TargetGroup, "g1", models.ConnectorAll, 990),
		},
		Groups: []models.AccountGroup{
			{ID: "g1", Name: "Fleet", Members: []string{"acme", "globex"}},
		},
	}

	if got := ResolveRate("globex", "CCS2", cat); got != 980 {
		t.Fatalf("expected group exact rule 980, got %v", got)
	}
	if got := ResolveRate("globex", "Type2", cat); got != 990 {
		t.Fatalf("expected group ALL rule 990, got %v", got)
	}
}

func TestResolveRateFirstGroupInCatalogOrderWins(t *testing.T) {
	cat := Catalog{
		Rules: []models.PricingRule{
			rule("r1", models.TargetGroup, "g2", models.ConnectorAll, 700),
			rule("r2", models.TargetGroup, "g1", models.ConnectorAll, 800),
		},
		Groups: []models.AccountGroup{
			{ID: "g1", Name: "First", Members: []string{"acme"}},
			{ID: "g2", Name: "Second", Members: []string{"acme"}},
		},
	}

	// acme belongs to both groups; only the first group is consulted,
	// so g2's cheaper rule is unreachable.
	if got := ResolveRate("acme", "CCS2", cat); got != 800 {
		t.Fatalf("expected first group's rule 800, got %v", got)
	}
}

func TestResolveRateDefaultRules(t *testing.T) {
	cat := Catalog{
		Rules: []models.PricingRule{
			rule("r1", models.TargetDefault, "Default", models.ConnectorAll, 1300),
			rule("r2", models.TargetDefault, "Default", "CHAdeMO", 1400),
		},
	}

	if got := ResolveRate("anyone", "CHAdeMO", cat); got != 1400 {
		t.Fatalf("expected default exact rule 1400, got %v", got)
	}
	if got := ResolveRate("anyone", "Type2", cat); got != 1300 {
		t.Fatalf("expected default ALL rule 1300, got %v", got)
	}
}

func TestResolveRateConnectorMatchIsCaseSensitive(t *testing.T) {
	cat := Catalog{
		Rules: []models.PricingRule{
			rule("r1", models.TargetAccount, "acme", "CCS2", 1000),
		},
	}

	// "ccs2" must not match "CCS2"; billing outcomes depend on it.
	if got := ResolveRate("acme", "ccs2", cat); got != DefaultRatePerKWh {
		t.Fatalf("expected fallback for lowercased connector, got %v", got)
	}
}

func TestResolveRateDuplicateRulesFirstWins(t *testing.T) {
	cat := Catalog{
		Rules: []models.PricingRule{
			rule("r1", models.TargetAccount, "acme", "CCS2", 1000),
			rule("r2", models.TargetAccount, "acme", "CCS2", 2000),
		},
	}

	if got := ResolveRate("acme", "CCS2", cat); got != 1000 {
		t.Fatalf("expected first duplicate 1000, got %v", got)
	}
}
