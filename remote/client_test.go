package remote

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialsAddr(t *testing.T) {
	assert.Equal(t, "1.2.3.4:22", Credentials{Host: "1.2.3.4"}.addr())
	assert.Equal(t, "1.2.3.4:2222", Credentials{Host: "1.2.3.4", Port: 2222}.addr())
	assert.Equal(t, "[::1]:22", Credentials{Host: "::1"}.addr())
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'/etc/x-ui/x-ui.db'", shellQuote("/etc/x-ui/x-ui.db"))
	assert.Equal(t, `'a'\''b'`, shellQuote("a'b"))
	assert.Equal(t, "''", shellQuote(""))
}

func TestFindDBScriptShape(t *testing.T) {
	// the script must stay usable under a plain POSIX shell and end in
	// exactly one output line
	assert.Contains(t, findDBScript, "/etc/x-ui/x-ui.db")
	assert.Contains(t, findDBScript, "-maxdepth 6")
	assert.Contains(t, findDBScript, "NOT_FOUND")
	assert.False(t, strings.Contains(findDBScript, "\t"), "tabs break some remote shells' heredocs")
}
