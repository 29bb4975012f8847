package report

import (
	"fmt"
	"strings"
)

// MissingColumnError is fatal for the file: a required column could not be
// resolved by any matching strategy. The column name is surfaced to the user.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found", e.Column)
}

// headerScanLimit bounds how deep the metadata preamble of an export can be.
const headerScanLimit = 60

// findHeaderRow scans the leading rows for the first one containing any of
// the anchor phrases (case-insensitive substring). Some exports have no
// preamble at all, so not finding an anchor falls back to row 0 rather
// than failing.
func findHeaderRow(rows [][]string, anchors []string) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			lower := strings.ToLower(cell)
			for _, anchor := range anchors {
				if strings.Contains(lower, anchor) {
					return i
				}
			}
		}
	}
	return 0
}

// resolveColumn finds the index of target in cols by, in order: exact match,
// prefix match (target plus a separator, which absorbs exporter suffix
// variants), then case-insensitive substring.
func resolveColumn(cols []string, target string) (int, bool) {
	for i, c := range cols {
		if strings.TrimSpace(c) == target {
			return i, true
		}
	}
	for i, c := range cols {
		if strings.HasPrefix(strings.TrimSpace(c), target+".") {
			return i, true
		}
	}
	lower := strings.ToLower(target)
	for i, c := range cols {
		if strings.Contains(strings.ToLower(c), lower) {
			return i, true
		}
	}
	return -1, false
}

// resolveAny returns the first target that resolves.
func resolveAny(cols []string, targets ...string) (int, bool) {
	for _, t := range targets {
		if idx, ok := resolveColumn(cols, t); ok {
			return idx, true
		}
	}
	return -1, false
}

// requireColumn wraps resolveColumn with the fatal error, using name (the
// canonical field) in the message rather than the localized header text.
func requireColumn(cols []string, name string, targets ...string) (int, error) {
	if idx, ok := resolveAny(cols, targets...); ok {
		return idx, nil
	}
	return -1, &MissingColumnError{Column: name}
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// blankIdentifier catches the string forms a spreadsheet round-trip turns
// empty cells into.
func blankIdentifier(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}
