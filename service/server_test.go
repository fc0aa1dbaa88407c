package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emadhabibnia1385/xui-HUB/storage"
)

func newServerService(t *testing.T) (*ServerService, string) {
	t.Helper()
	svc := NewServerService(storage.NewStore(filepath.Join(t.TempDir(), "store.json")))
	id, err := svc.Add(100, &storage.Server{SSHHost: "1.2.3.4", SSHUser: "root", SSHPort: 22})
	require.NoError(t, err)
	return svc, id
}

func TestEditField(t *testing.T) {
	svc, id := newServerService(t)

	require.NoError(t, svc.EditField(100, id, "ssh_user", "deploy"))
	require.NoError(t, svc.EditField(100, id, "ssh_port", "2222"))
	require.NoError(t, svc.EditField(100, id, "panel_host", "panel.example.com"))
	require.NoError(t, svc.EditField(100, id, "panel_port", "2053"))
	require.NoError(t, svc.EditField(100, id, "panel_scheme", "HTTPS"))
	require.NoError(t, svc.EditField(100, id, "panel_path", "xui"))

	srv, err := svc.Get(100, id)
	require.NoError(t, err)
	assert.Equal(t, "deploy", srv.SSHUser)
	assert.Equal(t, 2222, srv.SSHPort)
	assert.Equal(t, "https", srv.Panel.Scheme, "scheme is lowercased")
	assert.Equal(t, "/xui", srv.Panel.Path, "path gets a leading slash")
	assert.Equal(t, "https://panel.example.com:2053/xui", srv.PanelAddr())
}

func TestEditFieldRejectsBadInput(t *testing.T) {
	svc, id := newServerService(t)

	assert.Error(t, svc.EditField(100, id, "nonsense", "x"))
	assert.Error(t, svc.EditField(100, id, "ssh_port", "0"))
	assert.Error(t, svc.EditField(100, id, "ssh_port", "70000"))
	assert.Error(t, svc.EditField(100, id, "ssh_port", "abc"))
	assert.Error(t, svc.EditField(100, id, "panel_scheme", "ftp"))
	assert.Error(t, svc.EditField(100, "missing", "ssh_user", "x"))
}
