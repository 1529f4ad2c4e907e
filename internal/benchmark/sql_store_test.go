package benchmark

import (
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect_Rebind(t *testing.T) {
	q := `INSERT INTO t (a, b) VALUES (?, ?)`
	assert.Equal(t, q, sqliteDialect.rebind(q))
	assert.Equal(t, `INSERT INTO t (a, b) VALUES ($1, $2)`, postgresDialect.rebind(q))
}

func withMockStore(t *testing.T, fn func(*SQLStore, sqlmock.Sqlmock)) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	fn(&SQLStore{db: db, d: postgresDialect}, mock)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPostgresStore_Mocked(t *testing.T) {
	ts := time.Unix(0, 1700000000000000000)

	t.Run("Save", func(t *testing.T) {
		withMockStore(t, func(store *SQLStore, mock sqlmock.Sqlmock) {
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO runs (timestamp, commit_hash, go_version, platform) VALUES ($1, $2, $3, $4) RETURNING id`)).
				WithArgs(ts.UnixNano(), "abc", "go1.25.0", "linux/amd64").
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO results (run_id, position, name, status, payload) VALUES ($1, $2, $3, $4, $5)`)).
				WithArgs(int64(7), 0, "B1", "passed", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			err := store.Save(Run{
				Timestamp: ts, Commit: "abc", GoVersion: "go1.25.0", Platform: "linux/amd64",
				Results: []Result{{Name: "B1", Status: StatusPassed, NsPerOp: 100}},
			})
			assert.NoError(t, err)
		})
	})

	t.Run("Save Rolls Back On Failure", func(t *testing.T) {
		withMockStore(t, func(store *SQLStore, mock sqlmock.Sqlmock) {
			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO runs").WillReturnError(assert.AnError)
			mock.ExpectRollback()

			err := store.Save(Run{Timestamp: ts})
			assert.ErrorContains(t, err, "failed to insert run")
		})
	})

	t.Run("LoadAll", func(t *testing.T) {
		withMockStore(t, func(store *SQLStore, mock sqlmock.Sqlmock) {
			mock.ExpectQuery("SELECT id, timestamp, commit_hash, go_version, platform FROM runs").
				WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp", "commit_hash", "go_version", "platform"}).
					AddRow(int64(7), ts.UnixNano(), "abc", "go1.25.0", "linux/amd64"))
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM results WHERE run_id = $1 ORDER BY position`)).
				WithArgs(int64(7)).
				WillReturnRows(sqlmock.NewRows([]string{"payload"}).
					AddRow(`{"name":"B1","status":"passed","iterations":10,"ns_per_op":100}`))

			runs, err := store.LoadAll()
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.Equal(t, "abc", runs[0].Commit)
			assert.True(t, runs[0].Timestamp.Equal(ts))
			require.Len(t, runs[0].Results, 1)
			assert.True(t, runs[0].Results[0].Trusted())
		})
	})
}

// Runs against a real server when JSONBENCH_POSTGRES_DSN is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("JSONBENCH_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("JSONBENCH_POSTGRES_DSN not set")
	}
	store, err := NewPostgresStore(dsn)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec(`TRUNCATE TABLE results, runs RESTART IDENTITY`)
	require.NoError(t, err)
	exerciseStore(t, store)
}
