// Package emo normalizes employee medical-exam (EMO) rosters and classifies
// records by how close their exam expiration is. A Manager owns an immutable
// canonical table built once from raw input; every query derives fresh views
// from it and is memoized per argument set.
package emo

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Required columns in construction input.
const (
	ColName    = "name"
	ColArea    = "area"
	ColExpires = "expires_on"
)

var requiredColumns = []string{ColName, ColArea, ColExpires}

// RawTable is columnar construction input: column name to values, all
// columns the same length. Extra columns are ignored.
type RawTable map[string][]string

// RawRecord is one row of construction input.
type RawRecord struct {
	Name      string
	Area      string
	ExpiresOn string
}

// RawTableFromRows builds the columnar form from a row sequence.
func RawTableFromRows(rows []RawRecord) RawTable {
	t := RawTable{
		ColName:    make([]string, 0, len(rows)),
		ColArea:    make([]string, 0, len(rows)),
		ColExpires: make([]string, 0, len(rows)),
	}
	for _, r := range rows {
		t[ColName] = append(t[ColName], r.Name)
		t[ColArea] = append(t[ColArea], r.Area)
		t[ColExpires] = append(t[ColExpires], r.ExpiresOn)
	}
	return t
}

// CanonicalRecord is a validated, normalized roster row. A zero ExpiresOn
// means the source value was missing or unparseable; such rows are kept
// and surfaced through the data quality report.
type CanonicalRecord struct {
	Name      string
	Area      string
	ExpiresOn time.Time
}

func (r CanonicalRecord) HasExpiry() bool { return !r.ExpiresOn.IsZero() }

// dateLayouts are tried in order. ISO dates and day-first slash dates are
// the two formats rosters actually arrive in; the datetime forms cover
// exports that kept a time-of-day component.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseExpiry parses a free-form date, truncating any time-of-day to a UTC
// date. Unparseable or empty input yields the zero time, never an error.
func parseExpiry(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

// normalize validates the raw table and produces canonical records plus
// quality counters (duplicates removed, invalid dates). Duplicate
// (name, area) pairs are dropped on the raw values before trimming and
// casing, first occurrence wins, so rows differing only in case or
// whitespace survive as distinct records.
func normalize(raw RawTable) ([]CanonicalRecord, int, int, error) {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := raw[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, 0, 0, &ValidationError{MissingColumns: missing}
	}

	n := len(raw[ColName])
	if len(raw[ColArea]) != n || len(raw[ColExpires]) != n {
		return nil, 0, 0, &ValidationError{Reason: "columns have unequal lengths"}
	}
	if n == 0 {
		return nil, 0, 0, &ValidationError{Reason: "table has no rows"}
	}

	// A Caser carries transform state, so each construction gets its own.
	titleCaser := cases.Title(language.Und)

	type rawKey struct{ name, area string }
	seen := make(map[rawKey]bool, n)
	records := make([]CanonicalRecord, 0, n)
	duplicates := 0
	invalidDates := 0
	for i := 0; i < n; i++ {
		key := rawKey{name: raw[ColName][i], area: raw[ColArea][i]}
		if seen[key] {
			duplicates++
			continue
		}
		seen[key] = true

		expiry := parseExpiry(raw[ColExpires][i])
		if expiry.IsZero() {
			invalidDates++
		}
		records = append(records, CanonicalRecord{
			Name:      titleCaser.String(strings.TrimSpace(raw[ColName][i])),
			Area:      titleCaser.String(strings.TrimSpace(raw[ColArea][i])),
			ExpiresOn: expiry,
		})
	}
	return records, duplicates, invalidDates, nil
}
