// Package storage persists operator server credentials in a flat JSON
// file. One bucket per Telegram user id, servers keyed by a slug
// derived from the SSH host, with an explicit display order.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
)

// Panel holds the optional x-ui / 3x-ui web panel coordinates of a
// server. All fields may be empty when the operator only registered
// SSH access.
type Panel struct {
	Host   string `json:"panel_host,omitempty"`
	Port   int    `json:"panel_port,omitempty"`
	Path   string `json:"panel_path,omitempty"`
	Scheme string `json:"panel_scheme,omitempty"`
}

// Server is one registered remote server.
type Server struct {
	SSHHost string `json:"ssh_host"`
	SSHUser string `json:"ssh_user"`
	SSHPass string `json:"ssh_pass"`
	SSHPort int    `json:"ssh_port"`
	Panel   Panel  `json:"panel"`
}

// DisplayName prefers the panel host over the SSH host for operator
// facing listings.
func (s *Server) DisplayName() string {
	if s.Panel.Host != "" {
		return s.Panel.Host
	}
	if s.SSHHost != "" {
		return s.SSHHost
	}
	return "server"
}

// HasPanel reports whether the server carries usable panel coordinates.
func (s *Server) HasPanel() bool {
	return s.Panel.Host != "" && s.Panel.Port != 0
}

// PanelAddr renders the panel URL.
func (s *Server) PanelAddr() string {
	scheme := s.Panel.Scheme
	if scheme == "" {
		scheme = "https"
	}
	host := s.Panel.Host
	if host == "" {
		host = s.SSHHost
	}
	path := s.Panel.Path
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, host, s.Panel.Port, path)
}

// Bucket is one operator's set of servers.
type Bucket struct {
	Servers map[string]*Server `json:"servers"`
	Order   []string           `json:"order"`
}

type storeFile struct {
	Users map[string]*Bucket `json:"users"`
}

// Store is a mutex-guarded JSON file store. Writes go through a temp
// file plus rename so a crash never leaves a half-written store.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (st *Store) load() (*storeFile, error) {
	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return &storeFile{Users: map[string]*Bucket{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Users == nil {
		f.Users = map[string]*Bucket{}
	}
	return &f, nil
}

func (st *Store) save(f *storeFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, st.path)
}

func bucketOf(f *storeFile, userID int64) *Bucket {
	key := strconv.FormatInt(userID, 10)
	b, ok := f.Users[key]
	if !ok {
		b = &Bucket{Servers: map[string]*Server{}}
		f.Users[key] = b
	}
	if b.Servers == nil {
		b.Servers = map[string]*Server{}
	}
	return b
}

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// SafeID derives a store key from an SSH host.
func SafeID(host string) string {
	id := unsafeIDChars.ReplaceAllString(host, "_")
	if id == "" {
		return "server"
	}
	return id
}

// AddServer stores a server under a host-derived id, suffixing on
// collision, and returns the id.
func (st *Store) AddServer(userID int64, srv *Server) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	f, err := st.load()
	if err != nil {
		return "", err
	}
	bucket := bucketOf(f, userID)

	base := SafeID(srv.SSHHost)
	id := base
	for i := 2; ; i++ {
		if _, exists := bucket.Servers[id]; !exists {
			break
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}

	bucket.Servers[id] = srv
	bucket.Order = append(bucket.Order, id)
	return id, st.save(f)
}

// GetServer returns one server by id.
func (st *Store) GetServer(userID int64, id string) (*Server, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	f, err := st.load()
	if err != nil {
		return nil, err
	}
	srv, ok := bucketOf(f, userID).Servers[id]
	if !ok {
		return nil, fmt.Errorf("server %q not found", id)
	}
	return srv, nil
}

// ListServers returns the operator's servers in display order.
func (st *Store) ListServers(userID int64) ([]string, map[string]*Server, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	f, err := st.load()
	if err != nil {
		return nil, nil, err
	}
	bucket := bucketOf(f, userID)
	order := make([]string, len(bucket.Order))
	copy(order, bucket.Order)
	servers := make(map[string]*Server, len(bucket.Servers))
	for id, srv := range bucket.Servers {
		servers[id] = srv
	}
	return order, servers, nil
}

// UpdateServer applies fn to a stored server and persists the result.
func (st *Store) UpdateServer(userID int64, id string, fn func(*Server) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	f, err := st.load()
	if err != nil {
		return err
	}
	srv, ok := bucketOf(f, userID).Servers[id]
	if !ok {
		return fmt.Errorf("server %q not found", id)
	}
	if err := fn(srv); err != nil {
		return err
	}
	return st.save(f)
}

// DeleteServer removes a server and its order entry. Deleting an
// unknown id is a no-op.
func (st *Store) DeleteServer(userID int64, id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	f, err := st.load()
	if err != nil {
		return err
	}
	bucket := bucketOf(f, userID)
	if _, ok := bucket.Servers[id]; !ok {
		return nil
	}
	delete(bucket.Servers, id)
	order := bucket.Order[:0]
	for _, sid := range bucket.Order {
		if sid != id {
			order = append(order, sid)
		}
	}
	bucket.Order = order
	return st.save(f)
}

// EnsureDir creates the parent directory of the store file.
func (st *Store) EnsureDir() error {
	dir := filepath.Dir(st.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
