package merge

import (
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Emadhabibnia1385/xui-HUB/logger"
)

// Finalize converts a mutated working copy into a clean, standalone
// deliverable at outPath: pending WAL frames are checkpointed into the
// main file, the journal mode drops back to the classic single-file
// mode, and a defragmented copy is written out. On SQLite builds
// without VACUUM INTO it falls back to an in-place VACUUM followed by
// a plain file copy.
//
// The working copy and its sidecar files are always deleted, success
// or failure. A FinalizationError therefore means the merge committed
// but no artifact survived.
func Finalize(workPath, outPath string) error {
	defer removeWithSidecars(workPath)

	// the sqlite driver would happily create an empty file here
	if _, err := os.Stat(workPath); err != nil {
		return &FinalizationError{Err: err}
	}

	db, err := sql.Open("sqlite3", workPath)
	if err != nil {
		return &FinalizationError{Err: err}
	}

	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		_ = db.Close()
		return &FinalizationError{Err: err}
	}
	if _, err := db.Exec("PRAGMA journal_mode=DELETE"); err != nil {
		_ = db.Close()
		return &FinalizationError{Err: err}
	}

	if _, err := db.Exec("VACUUM INTO ?", outPath); err == nil {
		_ = db.Close()
		return nil
	} else {
		logger.Debugf("VACUUM INTO unavailable (%v), falling back to in-place compaction", err)
		// VACUUM INTO may leave a partial output behind.
		_ = os.Remove(outPath)
	}

	if _, err := db.Exec("VACUUM"); err != nil {
		_ = db.Close()
		return &FinalizationError{Err: err}
	}
	if err := db.Close(); err != nil {
		return &FinalizationError{Err: err}
	}
	if err := copyFile(workPath, outPath); err != nil {
		return &FinalizationError{Err: err}
	}
	return nil
}

func removeWithSidecars(dbPath string) {
	_ = os.Remove(dbPath)
	_ = os.Remove(dbPath + "-wal")
	_ = os.Remove(dbPath + "-shm")
	_ = os.Remove(dbPath + "-journal")
}
