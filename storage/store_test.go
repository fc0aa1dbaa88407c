package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "store.json"))
}

func TestSafeID(t *testing.T) {
	assert.Equal(t, "1.2.3.4", SafeID("1.2.3.4"))
	assert.Equal(t, "my-host.example.com", SafeID("my-host.example.com"))
	assert.Equal(t, "a_b_c", SafeID("a b/c"))
	assert.Equal(t, "server", SafeID(""))
}

func TestAddAndGetServer(t *testing.T) {
	st := newTestStore(t)

	id, err := st.AddServer(100, &Server{SSHHost: "1.2.3.4", SSHUser: "root", SSHPort: 22})
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", id)

	srv, err := st.GetServer(100, id)
	require.NoError(t, err)
	assert.Equal(t, "root", srv.SSHUser)

	_, err = st.GetServer(100, "missing")
	assert.Error(t, err)
}

func TestAddServerCollisionSuffix(t *testing.T) {
	st := newTestStore(t)

	first, err := st.AddServer(100, &Server{SSHHost: "h"})
	require.NoError(t, err)
	second, err := st.AddServer(100, &Server{SSHHost: "h"})
	require.NoError(t, err)

	assert.Equal(t, "h", first)
	assert.Equal(t, "h_2", second)

	order, servers, err := st.ListServers(100)
	require.NoError(t, err)
	assert.Equal(t, []string{"h", "h_2"}, order)
	assert.Len(t, servers, 2)
}

func TestBucketsAreIsolatedPerUser(t *testing.T) {
	st := newTestStore(t)

	_, err := st.AddServer(100, &Server{SSHHost: "a"})
	require.NoError(t, err)

	order, servers, err := st.ListServers(200)
	require.NoError(t, err)
	assert.Empty(t, order)
	assert.Empty(t, servers)
}

func TestUpdateServer(t *testing.T) {
	st := newTestStore(t)
	id, err := st.AddServer(100, &Server{SSHHost: "a", SSHPort: 22})
	require.NoError(t, err)

	err = st.UpdateServer(100, id, func(s *Server) error {
		s.SSHPort = 2222
		return nil
	})
	require.NoError(t, err)

	srv, err := st.GetServer(100, id)
	require.NoError(t, err)
	assert.Equal(t, 2222, srv.SSHPort)

	assert.Error(t, st.UpdateServer(100, "missing", func(s *Server) error { return nil }))
}

func TestDeleteServer(t *testing.T) {
	st := newTestStore(t)
	id, err := st.AddServer(100, &Server{SSHHost: "a"})
	require.NoError(t, err)
	_, err = st.AddServer(100, &Server{SSHHost: "b"})
	require.NoError(t, err)

	require.NoError(t, st.DeleteServer(100, id))
	order, servers, err := st.ListServers(100)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, order)
	assert.Len(t, servers, 1)

	// deleting an unknown id is a no-op
	require.NoError(t, st.DeleteServer(100, "missing"))
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	st := NewStore(path)
	_, err := st.AddServer(100, &Server{SSHHost: "a", SSHPass: "secret"})
	require.NoError(t, err)

	reopened := NewStore(path)
	srv, err := reopened.GetServer(100, "a")
	require.NoError(t, err)
	assert.Equal(t, "secret", srv.SSHPass)

	// credentials file must not be world readable
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDisplayNameAndPanelAddr(t *testing.T) {
	srv := &Server{SSHHost: "1.2.3.4"}
	assert.Equal(t, "1.2.3.4", srv.DisplayName())
	assert.False(t, srv.HasPanel())

	srv.Panel = Panel{Host: "panel.example.com", Port: 2053, Path: "/xui", Scheme: "https"}
	assert.Equal(t, "panel.example.com", srv.DisplayName())
	assert.True(t, srv.HasPanel())
	assert.Equal(t, "https://panel.example.com:2053/xui", srv.PanelAddr())

	// missing scheme and leading slash get normalized
	srv.Panel.Scheme = ""
	srv.Panel.Path = "xui"
	assert.Equal(t, "https://panel.example.com:2053/xui", srv.PanelAddr())
}
