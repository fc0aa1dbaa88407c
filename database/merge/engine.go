package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Emadhabibnia1385/xui-HUB/logger"
)

// Request describes one merge operation: append the clients of every
// source inbound to the target inbound, skipping duplicates.
type Request struct {
	TargetID  int
	SourceIDs []int
}

// Result summarizes a committed merge.
type Result struct {
	Mode   Mode
	Added  int
	Before int
	After  int
}

// Options tune a merge Engine. The zero value gives the stock x-ui
// behavior: default key priority, default settings-column candidates,
// backups written next to the database, failed backups logged but not
// fatal.
type Options struct {
	// KeyPriority overrides the dedup identity attribute order used in
	// JSON mode. Empty means DefaultKeyPriority.
	KeyPriority []string
	// SettingsColumns overrides the settings-column candidates probed
	// on the inbounds table. Empty means DefaultSettingsColumns.
	SettingsColumns []string
	// BackupDir receives the pre-merge backup copy. Empty means the
	// database file's own directory.
	BackupDir string
	// RequireBackup turns a failed pre-merge backup into a hard error
	// instead of a warning.
	RequireBackup bool
}

// Engine validates, backs up and merges x-ui databases. An Engine is
// stateless between calls and safe to reuse; a single database file
// must not be merged by two calls at once, that serialization is the
// caller's job.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Merge consolidates client records from the source inbounds into the
// target inbound of the database at dbPath. The storage mode is
// detected per call; exactly one strategy runs, with no cross-mode
// fallback. Any failure before the transactional apply leaves the
// database byte-identical to its pre-call state.
func (e *Engine) Merge(dbPath string, req Request) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExecutionError{Err: fmt.Errorf("panic during merge: %v", r)}
		}
	}()

	if req.TargetID <= 0 {
		return nil, fmt.Errorf("merge: target inbound id must be positive, got %d", req.TargetID)
	}
	if len(req.SourceIDs) == 0 {
		return nil, fmt.Errorf("merge: at least one source inbound id is required")
	}
	for _, id := range req.SourceIDs {
		if id <= 0 {
			return nil, fmt.Errorf("merge: source inbound id must be positive, got %d", id)
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}

	if err := e.backup(dbPath); err != nil {
		if e.opts.RequireBackup {
			return nil, fmt.Errorf("pre-merge backup failed: %w", err)
		}
		logger.Warningf("pre-merge backup of %s failed, continuing: %v", dbPath, err)
	}

	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer closeDB(db)

	schema, err := Probe(db, e.opts.SettingsColumns)
	if err != nil {
		return nil, err
	}

	if err := validateInbounds(db, req); err != nil {
		return nil, err
	}

	switch schema.Mode {
	case ModeTable:
		return mergeTable(db, req)
	default:
		return mergeJSON(db, schema.SettingsColumn, req, e.opts.KeyPriority)
	}
}

// backup copies the whole database file to a timestamped sibling
// before anything touches it.
func (e *Engine) backup(dbPath string) error {
	dir := e.opts.BackupDir
	if dir == "" {
		dir = filepath.Dir(dbPath)
	}
	name := fmt.Sprintf("%s.backup-%s", filepath.Base(dbPath), time.Now().Format("20060102-150405"))
	return copyFile(dbPath, filepath.Join(dir, name))
}

// validateInbounds checks that the target and every source inbound
// exist before any strategy runs. Missing sources are collected and
// reported together.
func validateInbounds(db *gorm.DB, req Request) error {
	ids := make([]int, 0, len(req.SourceIDs)+1)
	ids = append(ids, req.TargetID)
	ids = append(ids, req.SourceIDs...)

	var found []int
	if err := db.Raw("SELECT id FROM inbounds WHERE id IN ?", ids).Scan(&found).Error; err != nil {
		return err
	}
	exists := make(map[int]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}

	if !exists[req.TargetID] {
		return &ValidationError{TargetID: req.TargetID}
	}
	var missing []int
	for _, id := range req.SourceIDs {
		if !exists[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{MissingSources: missing}
	}
	return nil
}

// Open opens an existing SQLite database with a silent gorm logger.
// The file must already exist; Open refuses to create one, so a typo
// never materializes an empty database.
func Open(dbPath string) (*gorm.DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}
	return gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

// InboundIDByPort resolves a panel port to its inbound id, the highest
// id winning when a port was recreated. The second return is false
// when no inbound listens on the port.
func InboundIDByPort(db *gorm.DB, port int) (int, bool, error) {
	var ids []int
	err := db.Raw("SELECT id FROM inbounds WHERE port = ? ORDER BY id DESC LIMIT 1", port).Scan(&ids).Error
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}
