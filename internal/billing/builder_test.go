package billing

import (
	"testing"

	"voltgrid/internal/models"
	"voltgrid/internal/pricing"
)

func TestBuildTransactionCostRounding(t *testing.T) {
	cat := pricing.Catalog{
		Rules: []models.PricingRule{
			{ID: "r1", TargetType: models.TargetAccount, TargetID: "acme", Connector: models.ConnectorAll, RatePerKWh: 1200},
		},
	}

	tx := BuildTransaction(BuildInput{
		ID:            "tx-1",
		Account:       "acme",
		ConnectorType: "CCS2",
		Station:       "ST-01",
		StartTime:     "2024-01-01T10:00:00Z",
		EndTime:       "2024-01-01T10:45:00Z",
		MeterKWh:      10.0,
	}, cat)

	if tx.CostCOP != 12000 {
		t.Fatalf("expected cost 12000 COP, got %d", tx.CostCOP)
	}
	if tx.AppliedRate != 1200 {
		t.Fatalf("expected applied rate 1200, got %v", tx.AppliedRate)
	}
	if tx.DurationMinutes != 45 {
		t.Fatalf("expected 45 minutes, got %d", tx.DurationMinutes)
	}
	if tx.Status != models.StatusUnpaid {
		t.Fatalf("expected UNPAID status, got %s", tx.Status)
	}
	if tx.PaymentType != models.PaymentTypeNone {
		t.Fatalf("expected payment type N/A, got %s", tx.PaymentType)
	}
}

func TestBuildTransactionRoundsHalfUp(t *testing.T) {
	cat := pricing.Catalog{
		Rules: []models.PricingRule{
			{ID: "r1", TargetType: models.TargetDefault, TargetID: "Default", Connector: models.ConnectorAll, RatePerKWh: 1001},
		},
	}

	// 2.5 * 1001 = 2502.5 rounds up to 2503.
	tx := BuildTransaction(BuildInput{ID: "tx-2", MeterKWh: 2.5}, cat)
	if tx.CostCOP != 2503 {
		t.Fatalf("expected cost 2503 COP, got %d", tx.CostCOP)
	}
}

func TestBuildTransactionDurationClampedAtZero(t *testing.T) {
	tx := BuildTransaction(BuildInput{
		ID:        "tx-3",
		StartTime: "2024-01-01T11:00:00Z",
		EndTime:   "2024-01-01T10:00:00Z",
		MeterKWh:  1,
	}, pricing.Catalog{})

	if tx.DurationMinutes != 0 {
		t.Fatalf("expected clamped duration 0, got %d", tx.DurationMinutes)
	}
}

func TestBuildTransactionUnparsableTimeGivesZeroDuration(t *testing.T) {
	tx := BuildTransaction(BuildInput{
		ID:        "tx-4",
		StartTime: "not-a-date",
		EndTime:   "2024-01-01T10:00:00Z",
		MeterKWh:  1,
	}, pricing.Catalog{})

	if tx.DurationMinutes != 0 {
		t.Fatalf("expected duration 0 for unparsable start, got %d", tx.DurationMinutes)
	}
}

func TestBuildTransactionDurationFloorsPartialMinutes(t *testing.T) {
	tx := BuildTransaction(BuildInput{
		ID:        "tx-5",
		StartTime: "2024-01-01T10:00:00Z",
		EndTime:   "2024-01-01T10:30:59Z",
		MeterKWh:  1,
	}, pricing.Catalog{})

	if tx.DurationMinutes != 30 {
		t.Fatalf("expected floored duration 30, got %d", tx.DurationMinutes)
	}
}

func TestBuildTransactionGeneratesIDWhenEmpty(t *testing.T) {
	original := newTransactionID
	newTransactionID = func() string { return "generated-1" }
	t.Cleanup(func() { newTransactionID = original })

	tx := BuildTransaction(BuildInput{MeterKWh: 1}, pricing.Catalog{})
	if tx.ID != "generated-1" {
		t.Fatalf("expected generated id, got %s", tx.ID)
	}

	tx = BuildTransaction(BuildInput{ID: "EXT-42", MeterKWh: 1}, pricing.Catalog{})
	if tx.ID != "EXT-42" {
		t.Fatalf("expected external id preserved verbatim, got %s", tx.ID)
	}
}

func TestBuildTransactionIdempotentResolution(t *testing.T) {
	cat := pricing.Catalog{
		Rules: []models.PricingRule{
			{ID: "r1", TargetType: models.TargetAccount, TargetID: "acme", Connector: "CCS2", RatePerKWh: 1333},
		},
	}
	in := BuildInput{
		ID:            "tx-6",
		Account:       "acme",
		ConnectorType: "CCS2",
		StartTime:     "2024-02-01T08:00:00Z",
		EndTime:       "2024-02-01T09:00:00Z",
		MeterKWh:      7.5,
	}

	first := BuildTransaction(in, cat)
	second := BuildTransaction(in, cat)

	if first.AppliedRate != second.AppliedRate || first.CostCOP != second.CostCOP {
		t.Fatalf("resolution not idempotent: %v/%d vs %v/%d",
			first.AppliedRate, first.CostCOP, second.AppliedRate, second.CostCOP)
	}

	if rate := pricing.ResolveRate(first.Account, first.Connector, cat); rate != first.AppliedRate {
		t.Fatalf("re-resolving stored fields gave %v, want %v", rate, first.AppliedRate)
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"2024-01-01T10:00:00Z", true},
		{"2024-01-01T10:00:00", true},
		{"2024-01-01 10:00:00", true},
		{"2024-01-01", true},
		{"", false},
		{"yesterday", false},
	}
	for _, tc := range cases {
		if _, ok := ParseTimestamp(tc.value); ok != tc.ok {
			t.Fatalf("ParseTimestamp(%q) ok=%v, want %v", tc.value, ok, tc.ok)
		}
	}
}
