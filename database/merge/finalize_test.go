package merge

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkCopy(t *testing.T) string {
	t.Helper()
	workPath := filepath.Join(t.TempDir(), "work.db")

	db, err := sql.Open("sqlite3", workPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	_, err = db.Exec("PRAGMA journal_mode=WAL")
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE inbounds (id INTEGER PRIMARY KEY, settings TEXT)`)
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		_, err = db.Exec(`INSERT INTO inbounds (id, settings) VALUES (?, '{}')`, i)
		require.NoError(t, err)
	}
	return workPath
}

func TestFinalizeProducesStandaloneFile(t *testing.T) {
	workPath := newWorkCopy(t)
	outPath := workPath + ".out"

	require.NoError(t, Finalize(workPath, outPath))

	// working copy and sidecars gone
	for _, p := range []string{workPath, workPath + "-wal", workPath + "-shm", workPath + "-journal"} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "leftover %s", p)
	}

	out, err := sql.Open("sqlite3", outPath)
	require.NoError(t, err)
	defer func() { _ = out.Close() }()

	var count int
	require.NoError(t, out.QueryRow(`SELECT count(*) FROM inbounds`).Scan(&count))
	assert.Equal(t, 5, count)

	var mode string
	require.NoError(t, out.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "delete", mode, "deliverable must not depend on WAL sidecars")

	var integrity string
	require.NoError(t, out.QueryRow(`PRAGMA integrity_check`).Scan(&integrity))
	assert.Equal(t, "ok", integrity)
}

func TestFinalizeMissingWorkingCopy(t *testing.T) {
	workPath := filepath.Join(t.TempDir(), "nope.db")
	err := Finalize(workPath, workPath+".out")

	var finErr *FinalizationError
	require.ErrorAs(t, err, &finErr)
	_, statErr := os.Stat(workPath + ".out")
	assert.True(t, os.IsNotExist(statErr))
}

func TestFinalizeConsumesWorkingCopyOnFailure(t *testing.T) {
	workPath := newWorkCopy(t)
	// out path inside a missing directory makes every write-out fail
	outPath := filepath.Join(filepath.Dir(workPath), "missing", "out.db")

	err := Finalize(workPath, outPath)
	var finErr *FinalizationError
	require.ErrorAs(t, err, &finErr)

	_, statErr := os.Stat(workPath)
	assert.True(t, os.IsNotExist(statErr), "working copy must be deleted even on failure")
}
