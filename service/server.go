package service

import (
	"strconv"
	"strings"

	"github.com/Emadhabibnia1385/xui-HUB/storage"
	"github.com/Emadhabibnia1385/xui-HUB/util/common"
)

// ServerService wraps the credential store with the field validation
// the bot flows need.
type ServerService struct {
	store *storage.Store
}

func NewServerService(store *storage.Store) *ServerService {
	return &ServerService{store: store}
}

func (s *ServerService) List(userID int64) ([]string, map[string]*storage.Server, error) {
	return s.store.ListServers(userID)
}

func (s *ServerService) Get(userID int64, id string) (*storage.Server, error) {
	return s.store.GetServer(userID, id)
}

func (s *ServerService) Add(userID int64, srv *storage.Server) (string, error) {
	return s.store.AddServer(userID, srv)
}

func (s *ServerService) Delete(userID int64, id string) error {
	return s.store.DeleteServer(userID, id)
}

var editableFields = map[string]bool{
	"ssh_host": true, "ssh_user": true, "ssh_pass": true, "ssh_port": true,
	"panel_host": true, "panel_port": true, "panel_path": true, "panel_scheme": true,
}

// EditField applies one field=value edit with the same whitelist and
// validation rules the add flow enforces.
func (s *ServerService) EditField(userID int64, id, field, value string) error {
	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)
	if !editableFields[field] {
		return common.NewErrorf("field %q is not editable", field)
	}

	var port int
	if field == "ssh_port" || field == "panel_port" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 65535 {
			return common.NewErrorf("invalid port %q", value)
		}
		port = n
	}
	if field == "panel_scheme" {
		value = strings.ToLower(value)
		if value != "http" && value != "https" {
			return common.NewErrorf("scheme must be http or https")
		}
	}
	if field == "panel_path" && !strings.HasPrefix(value, "/") {
		value = "/" + value
	}

	return s.store.UpdateServer(userID, id, func(srv *storage.Server) error {
		switch field {
		case "ssh_host":
			srv.SSHHost = value
		case "ssh_user":
			srv.SSHUser = value
		case "ssh_pass":
			srv.SSHPass = value
		case "ssh_port":
			srv.SSHPort = port
		case "panel_host":
			srv.Panel.Host = value
		case "panel_port":
			srv.Panel.Port = port
		case "panel_path":
			srv.Panel.Path = value
		case "panel_scheme":
			srv.Panel.Scheme = value
		}
		return nil
	})
}
