package merge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB creates a fresh database file in a per-test temp dir and
// returns its path plus an open handle for seeding and assertions.
func newTestDB(t *testing.T) (string, *gorm.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "x-ui.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() { closeDB(db) })
	return path, db
}

func execAll(t *testing.T, db *gorm.DB, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
}

// seedTableMode lays out the relational client schema: inbounds plus a
// dedicated clients table.
func seedTableMode(t *testing.T, db *gorm.DB) {
	t.Helper()
	execAll(t, db,
		`CREATE TABLE inbounds (id INTEGER PRIMARY KEY, port INTEGER, remark TEXT)`,
		`CREATE TABLE clients (id INTEGER PRIMARY KEY AUTOINCREMENT, inbound_id INTEGER, uuid TEXT, email TEXT, enable INTEGER)`,
	)
}

// seedJSONMode lays out the embedded-document schema: clients live in
// the settings blob on inbounds.
func seedJSONMode(t *testing.T, db *gorm.DB) {
	t.Helper()
	execAll(t, db,
		`CREATE TABLE inbounds (id INTEGER PRIMARY KEY, port INTEGER, settings TEXT)`,
	)
}

func addInbound(t *testing.T, db *gorm.DB, id, port int) {
	t.Helper()
	require.NoError(t, db.Exec(`INSERT INTO inbounds (id, port) VALUES (?, ?)`, id, port).Error)
}

func addClient(t *testing.T, db *gorm.DB, inboundID int, uuid, email string) {
	t.Helper()
	err := db.Exec(`INSERT INTO clients (inbound_id, uuid, email, enable) VALUES (?, ?, ?, 1)`, inboundID, uuid, email).Error
	require.NoError(t, err)
}

func setSettings(t *testing.T, db *gorm.DB, inboundID int, settings string) {
	t.Helper()
	require.NoError(t, db.Exec(`UPDATE inbounds SET settings = ? WHERE id = ?`, settings, inboundID).Error)
}

func targetUUIDs(t *testing.T, db *gorm.DB, inboundID int) []string {
	t.Helper()
	var uuids []string
	err := db.Raw(`SELECT uuid FROM clients WHERE inbound_id = ? ORDER BY id`, inboundID).Scan(&uuids).Error
	require.NoError(t, err)
	return uuids
}
