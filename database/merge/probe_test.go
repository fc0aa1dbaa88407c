package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeTableMode(t *testing.T) {
	_, db := newTestDB(t)
	seedTableMode(t, db)

	schema, err := Probe(db, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeTable, schema.Mode)
	assert.Empty(t, schema.SettingsColumn)
}

func TestProbeTableModeWinsOverSettings(t *testing.T) {
	_, db := newTestDB(t)
	// both representations present: the dedicated table decides
	execAll(t, db,
		`CREATE TABLE inbounds (id INTEGER PRIMARY KEY, settings TEXT)`,
		`CREATE TABLE clients (id INTEGER PRIMARY KEY, inbound_id INTEGER, uuid TEXT)`,
	)

	schema, err := Probe(db, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeTable, schema.Mode)
}

func TestProbeJSONMode(t *testing.T) {
	_, db := newTestDB(t)
	seedJSONMode(t, db)

	schema, err := Probe(db, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeJSON, schema.Mode)
	assert.Equal(t, "settings", schema.SettingsColumn)
}

func TestProbeSettingsColumnPriority(t *testing.T) {
	_, db := newTestDB(t)
	execAll(t, db,
		`CREATE TABLE inbounds (id INTEGER PRIMARY KEY, settings_json TEXT, setting TEXT)`,
	)

	schema, err := Probe(db, nil)
	require.NoError(t, err)
	assert.Equal(t, "setting", schema.SettingsColumn, "earlier candidate wins")
}

func TestProbeCustomCandidates(t *testing.T) {
	_, db := newTestDB(t)
	execAll(t, db,
		`CREATE TABLE inbounds (id INTEGER PRIMARY KEY, fork_settings TEXT)`,
	)

	_, err := Probe(db, nil)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, NoSettingsColumn, schemaErr.Reason)

	schema, err := Probe(db, []string{"fork_settings"})
	require.NoError(t, err)
	assert.Equal(t, ModeJSON, schema.Mode)
	assert.Equal(t, "fork_settings", schema.SettingsColumn)
}

func TestProbeNotAnInboundsDatabase(t *testing.T) {
	_, db := newTestDB(t)
	execAll(t, db, `CREATE TABLE something_else (id INTEGER PRIMARY KEY)`)

	_, err := Probe(db, nil)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, NotAnInboundsDatabase, schemaErr.Reason)
}
