package ingest

import "strings"

// SplitRecords splits a charger CSV export into a header row and data rows.
// This is a naive comma split: cells are whitespace-trimmed and quoting is
// not supported, matching the format the charger fleet actually exports.
// Blank lines are dropped.
func SplitRecords(data string) (header []string, rows [][]string) {
	lines := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n")

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		if header == nil {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	return header, rows
}
