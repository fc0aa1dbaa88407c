package merge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeResult(t *testing.T) {
	line := EncodeResult(&Result{Mode: ModeTable, Added: 3, Before: 5, After: 8})
	assert.Equal(t, "OK_MODE=TABLE OK_ADDED=3 BEFORE=5 AFTER=8", line)

	line = EncodeResult(&Result{Mode: ModeJSON, Added: 0, Before: 2, After: 2})
	assert.Equal(t, "OK_MODE=JSON OK_ADDED=0 BEFORE=2 AFTER=2", line)
}

func TestEncodeError(t *testing.T) {
	cases := []struct {
		err  error
		line string
		code int
	}{
		{&SchemaError{Reason: NotAnInboundsDatabase}, "ERR_NOT_INBOUNDS_DB", CodeNotInboundsDB},
		{&SchemaError{Reason: NoSettingsColumn}, "ERR_NO_SETTINGS_COL", CodeNoSettingsCol},
		{&SchemaError{Reason: NoUuidColumn}, "ERR_NO_UUID", CodeNoUuid},
		{&SchemaError{Reason: NoClientsTable}, "ERR_NO_CLIENTS_TABLE", CodeNoClientsTable},
		{&ValidationError{TargetID: 7}, "ERR_TARGET_NOT_FOUND 7", CodeTargetNotFound},
		{&ValidationError{MissingSources: []int{5, 9}}, "ERR_SOURCE_NOT_FOUND 5 9", CodeSourceNotFound},
		{&ExecutionError{Err: errors.New("locked")}, "ERR_EXEC locked", CodeExecution},
		{&FinalizationError{Err: errors.New("disk full")}, "ERR_FINALIZE disk full", CodeFinalization},
		{errors.New("boom"), "ERR boom", CodeGenericError},
	}

	for _, tc := range cases {
		line, code := EncodeError(tc.err)
		assert.Equal(t, tc.line, line)
		assert.Equal(t, tc.code, code)
	}
}

func TestEncodeErrorUnwrapsWrapped(t *testing.T) {
	wrapped := fmt.Errorf("merging db: %w", &SchemaError{Reason: NoUuidColumn})
	line, code := EncodeError(wrapped)
	assert.Equal(t, "ERR_NO_UUID", line)
	assert.Equal(t, CodeNoUuid, code)
}
