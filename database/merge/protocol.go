package merge

import (
	"errors"
	"fmt"
)

// Exit codes of the single-line text protocol. The schema codes match
// the ones the historical shell-embedded merge script used, so old
// transport-side parsers keep working.
const (
	CodeOK             = 0
	CodeGenericError   = 1
	CodeNoClientsTable = 11
	CodeNoUuid         = 12
	CodeNotInboundsDB  = 14
	CodeNoSettingsCol  = 20
	CodeTargetNotFound = 21
	CodeSourceNotFound = 22
	CodeExecution      = 30
	CodeFinalization   = 31
)

// EncodeResult renders a committed merge as the one-line wire form
// understood by remote-shell collaborators:
//
//	OK_MODE=TABLE OK_ADDED=3 BEFORE=5 AFTER=8
func EncodeResult(r *Result) string {
	return fmt.Sprintf("OK_MODE=%s OK_ADDED=%d BEFORE=%d AFTER=%d", r.Mode, r.Added, r.Before, r.After)
}

// EncodeError renders a merge failure as an ERR_<REASON> line plus the
// numeric exit code a wrapping process should terminate with.
func EncodeError(err error) (string, int) {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		switch schemaErr.Reason {
		case NotAnInboundsDatabase:
			return "ERR_NOT_INBOUNDS_DB", CodeNotInboundsDB
		case NoSettingsColumn:
			return "ERR_NO_SETTINGS_COL", CodeNoSettingsCol
		case NoUuidColumn:
			return "ERR_NO_UUID", CodeNoUuid
		case NoClientsTable:
			return "ERR_NO_CLIENTS_TABLE", CodeNoClientsTable
		}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.TargetID != 0 {
			return fmt.Sprintf("ERR_TARGET_NOT_FOUND %d", validationErr.TargetID), CodeTargetNotFound
		}
		line := "ERR_SOURCE_NOT_FOUND"
		for _, id := range validationErr.MissingSources {
			line += fmt.Sprintf(" %d", id)
		}
		return line, CodeSourceNotFound
	}

	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return fmt.Sprintf("ERR_EXEC %v", execErr.Err), CodeExecution
	}

	var finErr *FinalizationError
	if errors.As(err, &finErr) {
		return fmt.Sprintf("ERR_FINALIZE %v", finErr.Err), CodeFinalization
	}

	return fmt.Sprintf("ERR %v", err), CodeGenericError
}
