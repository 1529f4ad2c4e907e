package benchmark

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// dialect holds what differs between the SQL backends.
type dialect struct {
	driver string
	schema []string
	// numbered placeholders ($1, $2...) instead of ?
	numbered bool
}

var sqliteDialect = dialect{
	driver: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			commit_hash TEXT NOT NULL DEFAULT '',
			go_version TEXT NOT NULL DEFAULT '',
			platform TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id, position)`,
	},
}

var postgresDialect = dialect{
	driver:   "postgres",
	numbered: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id BIGSERIAL PRIMARY KEY,
			timestamp BIGINT NOT NULL,
			commit_hash TEXT NOT NULL DEFAULT '',
			go_version TEXT NOT NULL DEFAULT '',
			platform TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id BIGINT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id, position)`,
	},
}

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore implements Store on a SQL database. Each run is a row in runs; its
// results are rows in results holding the JSON encoded result.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

// NewSQLiteStore opens the SQLite database at path and applies migrations.
func NewSQLiteStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return openSQLStore(sqliteDialect, path)
}

// NewPostgresStore connects to the PostgreSQL database at dsn and applies
// migrations.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	return openSQLStore(postgresDialect, dsn)
}

func openSQLStore(d dialect, source string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLStore{db: db, d: d}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLStore) migrate() error {
	for _, query := range s.d.schema {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Save(run Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRow(s.d.rebind(`INSERT INTO runs (timestamp, commit_hash, go_version, platform) VALUES (?, ?, ?, ?) RETURNING id`),
		run.Timestamp.UnixNano(), run.Commit, run.GoVersion, run.Platform).Scan(&runID)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	insert := s.d.rebind(`INSERT INTO results (run_id, position, name, status, payload) VALUES (?, ?, ?, ?, ?)`)
	for i, r := range run.Results {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal result %s: %w", r.Name, err)
		}
		if _, err := tx.Exec(insert, runID, i, r.Name, string(r.Status), string(payload)); err != nil {
			return fmt.Errorf("failed to insert result %s: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadAll() ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, timestamp, commit_hash, go_version, platform FROM runs ORDER BY timestamp, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		runs []Run
		ids  []int64
	)
	for rows.Next() {
		var (
			id int64
			ts int64
			r  Run
		)
		if err := rows.Scan(&id, &ts, &r.Commit, &r.GoVersion, &r.Platform); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, ts)
		runs = append(runs, r)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		results, err := s.results(id)
		if err != nil {
			return nil, err
		}
		runs[i].Results = results
	}
	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}

func (s *SQLStore) results(runID int64) ([]Result, error) {
	rows, err := s.db.Query(s.d.rebind(`SELECT payload FROM results WHERE run_id = ? ORDER BY position`), runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r Result
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLStore) LoadLatest() (*Run, error) {
	runs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[len(runs)-1], nil
}
