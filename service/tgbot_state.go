package service

import (
	"sync"

	"github.com/Emadhabibnia1385/xui-HUB/storage"
)

// Conversation states. A chat is in at most one state; any command or
// menu navigation resets it.
const (
	StateAddSrvHost      = "add_srv_host"
	StateAddSrvSSHUser   = "add_srv_ssh_user"
	StateAddSrvSSHPass   = "add_srv_ssh_pass"
	StateAddSrvSSHPort   = "add_srv_ssh_port"
	StateAddSrvHasPanel  = "add_srv_has_panel"
	StateAddSrvPanelHost = "add_srv_panel_host"
	StateAddSrvPanelPort = "add_srv_panel_port"
	StateAddSrvPanelPath = "add_srv_panel_path"

	StateEditServer = "edit_server"

	StateMergeCount   = "merge_count"
	StateMergePorts   = "merge_ports"
	StateMergeTarget  = "merge_target"
	StateMergeConfirm = "merge_confirm"

	StateRestoreUpload  = "bk_restore_upload"
	StateRestoreConfirm = "bk_restore_confirm"
)

// MergeForm accumulates one merge conversation's answers.
type MergeForm struct {
	ServerID   string
	Count      int
	Ports      []int
	TargetPort int
}

// RestoreForm tracks a backup-import conversation.
type RestoreForm struct {
	ServerID  string
	LocalPath string
}

// BotState holds all per-chat conversation state behind one lock.
// Everything the multi-step flows collect lives here, never in
// globals, so concurrent chats cannot bleed into each other.
type BotState struct {
	mu           sync.RWMutex
	userStates   map[int64]string
	serverForms  map[int64]*storage.Server
	editTargets  map[int64]string
	mergeForms   map[int64]*MergeForm
	restoreForms map[int64]*RestoreForm
}

func NewBotState() *BotState {
	return &BotState{
		userStates:   make(map[int64]string),
		serverForms:  make(map[int64]*storage.Server),
		editTargets:  make(map[int64]string),
		mergeForms:   make(map[int64]*MergeForm),
		restoreForms: make(map[int64]*RestoreForm),
	}
}

func (s *BotState) Get(chatID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.userStates[chatID]
	return state, ok
}

func (s *BotState) Set(chatID int64, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userStates[chatID] = state
}

// Clear drops the chat's state and every form it accumulated.
func (s *BotState) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.userStates, chatID)
	delete(s.serverForms, chatID)
	delete(s.editTargets, chatID)
	delete(s.mergeForms, chatID)
	delete(s.restoreForms, chatID)
}

// ServerForm returns the chat's in-progress server registration,
// creating it on first use.
func (s *BotState) ServerForm(chatID int64) *storage.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	form, ok := s.serverForms[chatID]
	if !ok {
		form = &storage.Server{}
		s.serverForms[chatID] = form
	}
	return form
}

func (s *BotState) SetEditTarget(chatID int64, serverID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editTargets[chatID] = serverID
}

func (s *BotState) EditTarget(chatID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.editTargets[chatID]
	return id, ok
}

func (s *BotState) MergeForm(chatID int64) *MergeForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	form, ok := s.mergeForms[chatID]
	if !ok {
		form = &MergeForm{}
		s.mergeForms[chatID] = form
	}
	return form
}

func (s *BotState) RestoreForm(chatID int64) *RestoreForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	form, ok := s.restoreForms[chatID]
	if !ok {
		form = &RestoreForm{}
		s.restoreForms[chatID] = form
	}
	return form
}
