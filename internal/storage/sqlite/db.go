// Package sqlite stores the employee roster between runs and journals
// scheduled alert checks. It is an ingest source for the classification
// engine, not a write-through layer: the engine builds its immutable table
// from whatever LoadRoster returns.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"emobot/internal/emo"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		area        TEXT NOT NULL,
		expires_on  TEXT DEFAULT '',
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_employees_area ON employees(area);

	CREATE TABLE IF NOT EXISTS alert_runs (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		run_at  DATETIME NOT NULL,
		expired INTEGER NOT NULL,
		urgent  INTEGER NOT NULL,
		posted  INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_alert_runs_run_at ON alert_runs(run_at);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// ReplaceRoster swaps the stored roster for the given raw table in one
// transaction. The raw values are stored as-is; normalization happens in
// the engine at construction time.
func ReplaceRoster(db *sql.DB, raw emo.RawTable) (int, error) {
	names := raw[emo.ColName]
	areas := raw[emo.ColArea]
	expiries := raw[emo.ColExpires]
	if len(areas) != len(names) || len(expiries) != len(names) {
		return 0, fmt.Errorf("roster columns have unequal lengths")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM employees`); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO employees (name, area, expires_on) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for i := range names {
		if _, err := stmt.Exec(names[i], areas[i], expiries[i]); err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, tx.Commit()
}

// LoadRoster returns the stored roster as a raw table in insertion order.
func LoadRoster(db *sql.DB) (emo.RawTable, error) {
	rows, err := db.Query(`SELECT name, area, expires_on FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	raw := emo.RawTable{
		emo.ColName:    {},
		emo.ColArea:    {},
		emo.ColExpires: {},
	}
	for rows.Next() {
		var name, area, expires string
		if err := rows.Scan(&name, &area, &expires); err != nil {
			return nil, err
		}
		raw[emo.ColName] = append(raw[emo.ColName], name)
		raw[emo.ColArea] = append(raw[emo.ColArea], area)
		raw[emo.ColExpires] = append(raw[emo.ColExpires], expires)
	}
	return raw, rows.Err()
}

type AlertRun struct {
	RunAt   time.Time
	Expired int
	Urgent  int
	Posted  bool
}

func InsertAlertRun(db *sql.DB, run AlertRun) error {
	_, err := db.Exec(
		`INSERT INTO alert_runs (run_at, expired, urgent, posted) VALUES (?, ?, ?, ?)`,
		run.RunAt, run.Expired, run.Urgent, run.Posted,
	)
	return err
}

func CountAlertRuns(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM alert_runs`).Scan(&count)
	return count, err
}
