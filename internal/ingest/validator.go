package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"voltgrid/internal/billing"
	"voltgrid/internal/models"
	"voltgrid/internal/pricing"
)

// RequiredHeaders are the columns an import batch must carry, matched
// exactly and case-sensitively against the header row.
var RequiredHeaders = []string{
	"TxID",
	"Station",
	"Connector",
	"Account",
	"Start Time",
	"End Time",
	"Meter value(kW.h)",
}

// maxReportedErrors caps the error list returned for display.
const maxReportedErrors = 5

// Fallbacks substituted for blank row fields.
const (
	fallbackStation   = "Unknown"
	fallbackConnector = "N/A"
	fallbackAccount   = "Anonymous"
)

// Result summarizes one import batch. Duplicates and zero-usage rows are not
// errors; they are counted and excluded silently.
type Result struct {
	Accepted       []models.EVTransaction
	Errors         []string
	DuplicateCount int
	ZeroUsageCount int
}

// Validate applies the transaction builder across an import batch.
//
// Rows are processed in file order. A row is silently skipped when shorter
// than the required column count or when TxID is blank; counted as
// zero-usage when the meter value is missing, non-numeric or <= 0; counted
// as duplicate when its TxID is already known or appeared earlier in the
// batch (zero-usage is checked first, so a zero-usage duplicate counts as
// zero-usage). A time-parse failure records an error, and once the error
// list is non-empty no further rows are converted into accepted
// transactions; this mirrors how imports have always behaved, and existing
// operator workflows rely on failed batches being re-run whole.
//
// The existing set and catalog are read-only snapshots owned by the caller.
func Validate(header []string, rows [][]string, existing map[string]struct{}, cat pricing.Catalog) Result {
	columns, missing := headerIndex(header)
	if len(missing) > 0 {
		return Result{
			Errors: []string{fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))},
		}
	}

	var (
		accepted []models.EVTransaction
		errs     []string
		seen     = make(map[string]struct{})
		result   Result
	)

	for i, row := range rows {
		if len(row) < len(RequiredHeaders) {
			continue
		}

		txID := cell(row, columns["TxID"])
		if txID == "" {
			continue
		}

		meterRaw := cell(row, columns["Meter value(kW.h)"])
		meterKWh, err := strconv.ParseFloat(meterRaw, 64)
		if err != nil || meterKWh <= 0 {
			result.ZeroUsageCount++
			continue
		}

		if _, ok := existing[txID]; ok {
			result.DuplicateCount++
			continue
		}
		if _, ok := seen[txID]; ok {
			result.DuplicateCount++
			continue
		}

		startRaw := cell(row, columns["Start Time"])
		endRaw := cell(row, columns["End Time"])
		if _, ok := billing.ParseTimestamp(startRaw); !ok {
			errs = append(errs, fmt.Sprintf("row %d: invalid start time %q", i+2, startRaw))
			continue
		}
		if _, ok := billing.ParseTimestamp(endRaw); !ok {
			errs = append(errs, fmt.Sprintf("row %d: invalid end time %q", i+2, endRaw))
			continue
		}

		if len(errs) > 0 {
			continue
		}

		tx := billing.BuildTransaction(billing.BuildInput{
			ID:            txID,
			Account:       defaultIfBlank(cell(row, columns["Account"]), fallbackAccount),
			ConnectorType: defaultIfBlank(cell(row, columns["Connector"]), fallbackConnector),
			Station:       defaultIfBlank(cell(row, columns["Station"]), fallbackStation),
			StartTime:     startRaw,
			EndTime:       endRaw,
			MeterKWh:      meterKWh,
		}, cat)

		accepted = append(accepted, tx)
		seen[txID] = struct{}{}
	}

	if len(errs) > maxReportedErrors {
		errs = errs[:maxReportedErrors]
	}

	result.Accepted = accepted
	result.Errors = errs
	return result
}

func headerIndex(header []string) (map[string]int, []string) {
	columns := make(map[string]int, len(RequiredHeaders))
	var missing []string
	for _, name := range RequiredHeaders {
		idx := -1
		for i, h := range header {
			if h == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			missing = append(missing, name)
			continue
		}
		columns[name] = idx
	}
	return columns, missing
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func defaultIfBlank(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
