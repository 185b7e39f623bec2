package billing

import (
	"math"
	"time"

	"github.com/google/uuid"

	"voltgrid/internal/models"
	"voltgrid/internal/pricing"
)

// newTransactionID generates opaque tokens for live-session transactions.
// Overridable in tests.
var newTransactionID = uuid.NewString

// Timestamp layouts accepted from charger exports and session callbacks.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// BuildInput carries one charging event. ID is the external TxID for
// imported rows and must be preserved verbatim (it is the dedup key); leave
// it empty for live session starts to have an opaque token generated.
type BuildInput struct {
	ID            string
	Account       string
	ConnectorType string
	Station       string
	StartTime     string
	EndTime       string
	MeterKWh      float64
}

// BuildTransaction resolves the tariff for the event and produces a billed
// transaction. Pure construction: persistence is the caller's concern.
//
// Duration is floor((end-start)) in whole minutes, clamped at zero; if
// either timestamp fails to parse the duration is zero. Cost is
// round-half-up of meterKWh * rate to integer COP.
func BuildTransaction(in BuildInput, cat pricing.Catalog) models.EVTransaction {
	id := in.ID
	if id == "" {
		id = newTransactionID()
	}

	start, startOK := ParseTimestamp(in.StartTime)
	end, endOK := ParseTimestamp(in.EndTime)

	minutes := 0
	if startOK && endOK {
		if d := end.Sub(start); d > 0 {
			minutes = int(d / time.Minute)
		}
	}

	rate := pricing.ResolveRate(in.Account, in.ConnectorType, cat)

	return models.EVTransaction{
		ID:              id,
		Station:         in.Station,
		Connector:       in.ConnectorType,
		Account:         in.Account,
		StartTime:       start,
		EndTime:         end,
		MeterKWh:        in.MeterKWh,
		CostCOP:         int64(math.Round(in.MeterKWh * rate)),
		DurationMinutes: minutes,
		AppliedRate:     rate,
		Status:          models.StatusUnpaid,
		PaymentType:     models.PaymentTypeNone,
	}
}

// ParseTimestamp parses a charging event timestamp, trying the accepted
// layouts in order. Returns the zero time and false when nothing matches.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
