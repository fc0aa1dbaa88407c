package merge

import (
	"fmt"
	"strings"
)

// SchemaReason identifies why a database cannot be merged as-is.
// All schema problems are detected before any mutation.
type SchemaReason string

const (
	NotAnInboundsDatabase SchemaReason = "NOT_INBOUNDS_DB"
	NoSettingsColumn      SchemaReason = "NO_SETTINGS_COL"
	NoUuidColumn          SchemaReason = "NO_UUID"
	NoClientsTable        SchemaReason = "NO_CLIENTS_TABLE"
)

type SchemaError struct {
	Reason SchemaReason
}

func (e *SchemaError) Error() string {
	switch e.Reason {
	case NotAnInboundsDatabase:
		return "database has no inbounds table, not an x-ui database"
	case NoSettingsColumn:
		return "inbounds table has no recognizable settings column"
	case NoUuidColumn:
		return "clients table has no uuid column"
	case NoClientsTable:
		return "clients table has no copyable columns"
	}
	return fmt.Sprintf("schema error: %s", string(e.Reason))
}

// ValidationError reports inbound ids that do not exist in the profile
// table. MissingSources carries every missing source id, not just the
// first, so the operator can fix all of them in one round trip.
type ValidationError struct {
	TargetID       int
	MissingSources []int
}

func (e *ValidationError) Error() string {
	if e.TargetID != 0 {
		return fmt.Sprintf("target inbound %d not found", e.TargetID)
	}
	ids := make([]string, 0, len(e.MissingSources))
	for _, id := range e.MissingSources {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("source inbounds not found: %s", strings.Join(ids, ","))
}

// ExecutionError wraps a failure of the transactional apply step.
// The target is guaranteed unchanged: the relational strategy aborts
// its transaction, the JSON strategy never issued its write.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return "merge execution failed: " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// FinalizationError means the merge itself committed but packaging the
// deliverable file failed. The merged data exists only in the (already
// deleted) working copy, so the caller gets no artifact back.
type FinalizationError struct {
	Err error
}

func (e *FinalizationError) Error() string {
	return "output finalization failed: " + e.Err.Error()
}

func (e *FinalizationError) Unwrap() error {
	return e.Err
}
