package merge

import (
	"gorm.io/gorm"
)

// Mode is the storage representation a database uses for client records.
type Mode string

const (
	// ModeTable: clients live in a dedicated table, one row per client.
	ModeTable Mode = "TABLE"
	// ModeJSON: clients live in a "clients" array nested inside a JSON
	// settings column on the inbounds table.
	ModeJSON Mode = "JSON"
)

// DefaultSettingsColumns are the settings-column names probed on the
// inbounds table, highest priority first. Forks rename this column, so
// the list is configurable through Options.
var DefaultSettingsColumns = []string{"settings", "setting", "settingsJson", "settings_json"}

// Schema is the result of probing a database.
type Schema struct {
	Mode           Mode
	SettingsColumn string // set only in ModeJSON
}

// Probe classifies how a database stores client records. It is
// read-only and performs no mutation. An empty candidates slice falls
// back to DefaultSettingsColumns.
func Probe(db *gorm.DB, candidates []string) (*Schema, error) {
	ok, err := tableExists(db, "inbounds")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &SchemaError{Reason: NotAnInboundsDatabase}
	}

	ok, err = tableExists(db, "clients")
	if err != nil {
		return nil, err
	}
	if ok {
		return &Schema{Mode: ModeTable}, nil
	}

	cols, err := tableColumns(db, "inbounds")
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		candidates = DefaultSettingsColumns
	}
	for _, cand := range candidates {
		for _, col := range cols {
			if col == cand {
				return &Schema{Mode: ModeJSON, SettingsColumn: col}, nil
			}
		}
	}
	return nil, &SchemaError{Reason: NoSettingsColumn}
}

func tableExists(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func tableColumns(db *gorm.DB, table string) ([]string, error) {
	var cols []string
	err := db.Raw("SELECT name FROM pragma_table_info(?)", table).Scan(&cols).Error
	if err != nil {
		return nil, err
	}
	return cols, nil
}
