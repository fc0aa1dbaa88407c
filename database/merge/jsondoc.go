package merge

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// mergeJSON consolidates the "clients" arrays embedded in the inbounds
// settings column. This strategy favors availability over strictness:
// a malformed or missing settings blob degrades to an empty object and
// never aborts the operation. All reads happen before the single
// target write, so a failure anywhere before the final UPDATE leaves
// the target untouched.
func mergeJSON(db *gorm.DB, settingsCol string, req Request, priority []string) (*Result, error) {
	tset := loadSettings(db, settingsCol, req.TargetID)

	tclients, _ := tset["clients"].([]any)
	before := len(tclients)

	seen := make(map[DedupKey]struct{}, len(tclients))
	for _, c := range tclients {
		if rec, ok := c.(map[string]any); ok {
			seen[ClientKey(rec, priority)] = struct{}{}
		}
	}

	added := 0
	for _, sid := range req.SourceIDs {
		sset := loadSettings(db, settingsCol, sid)
		sclients, ok := sset["clients"].([]any)
		if !ok {
			continue
		}
		for _, c := range sclients {
			rec, ok := c.(map[string]any)
			if !ok {
				continue
			}
			key := ClientKey(rec, priority)
			if _, dup := seen[key]; dup {
				continue
			}
			tclients = append(tclients, c)
			seen[key] = struct{}{}
			added++
		}
	}

	tset["clients"] = tclients
	blob, err := json.Marshal(tset)
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}

	update := fmt.Sprintf("UPDATE inbounds SET %s = ? WHERE id = ?", quoteIdent(settingsCol))
	if err := db.Exec(update, string(blob), req.TargetID).Error; err != nil {
		return nil, &ExecutionError{Err: err}
	}

	return &Result{Mode: ModeJSON, Added: added, Before: before, After: len(tclients)}, nil
}

// loadSettings reads and parses one inbound's settings blob. Absence,
// NULL and parse failures all degrade to an empty object.
func loadSettings(db *gorm.DB, settingsCol string, inboundID int) map[string]any {
	var raw sql.NullString
	query := fmt.Sprintf("SELECT %s FROM inbounds WHERE id = ?", quoteIdent(settingsCol))
	if err := db.Raw(query, inboundID).Scan(&raw).Error; err != nil {
		return map[string]any{}
	}
	if !raw.Valid || raw.String == "" {
		return map[string]any{}
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw.String), &obj); err != nil || obj == nil {
		return map[string]any{}
	}
	return obj
}
