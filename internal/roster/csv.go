// Package roster loads employee rosters from CSV files into the raw
// columnar form the engine validates.
package roster

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"emobot/internal/emo"
)

// LoadCSV reads a header-first CSV file into a raw table. Header names are
// matched after trimming and lowercasing; whatever columns the file has
// are carried through, and schema validation stays in the engine.
func LoadCSV(path string) (emo.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse roster csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("roster csv %s has no header row", path)
	}

	header := rows[0]
	cols := make([]string, len(header))
	table := make(emo.RawTable, len(header))
	for i, h := range header {
		col := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[i] = col
		table[col] = []string{}
	}

	for _, row := range rows[1:] {
		for i, val := range row {
			table[cols[i]] = append(table[cols[i]], val)
		}
	}
	return table, nil
}
