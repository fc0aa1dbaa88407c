package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Emadhabibnia1385/xui-HUB/database/merge"
	"github.com/Emadhabibnia1385/xui-HUB/logger"
	"github.com/Emadhabibnia1385/xui-HUB/remote"
	"github.com/Emadhabibnia1385/xui-HUB/storage"
)

// ErrDBNotFound means no x-ui database could be located on the server.
var ErrDBNotFound = fmt.Errorf("x-ui database not found on server")

// PortLookupError lists every requested port with no matching inbound,
// so the operator fixes all of them in one pass.
type PortLookupError struct {
	Ports []int
}

func (e *PortLookupError) Error() string {
	parts := make([]string, 0, len(e.Ports))
	for _, p := range e.Ports {
		parts = append(parts, fmt.Sprint(p))
	}
	return "no inbound found for ports: " + strings.Join(parts, ",")
}

// MergeService runs one whole merge against a remote server: stage the
// database down, merge locally, package a clean deliverable, put it
// back and restart the panel. The engine itself never sees the
// network.
type MergeService struct {
	engine  *merge.Engine
	workDir string
}

func NewMergeService(engine *merge.Engine, workDir string) *MergeService {
	return &MergeService{engine: engine, workDir: workDir}
}

func credentials(srv *storage.Server) remote.Credentials {
	return remote.Credentials{
		Host:     srv.SSHHost,
		Port:     srv.SSHPort,
		User:     srv.SSHUser,
		Password: srv.SSHPass,
	}
}

// MergePorts resolves panel ports to inbound ids on a staged working
// copy and merges the source inbounds into the target one. Blocks
// until done; the bot runs it inside a background worker.
func (s *MergeService) MergePorts(srv *storage.Server, sourcePorts []int, targetPort int) (*merge.Result, error) {
	client, err := remote.Dial(credentials(srv))
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	dbPath, found, err := client.FindDBPath()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrDBNotFound
	}

	workPath, err := s.stageDown(client, dbPath)
	if err != nil {
		return nil, err
	}

	req, err := resolvePorts(workPath, sourcePorts, targetPort)
	if err != nil {
		_ = os.Remove(workPath)
		return nil, err
	}

	result, err := s.engine.Merge(workPath, req)
	if err != nil {
		_ = os.Remove(workPath)
		return nil, err
	}

	outPath := workPath + ".out"
	if err := merge.Finalize(workPath, outPath); err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(outPath) }()

	if err := s.stageUp(client, outPath, dbPath); err != nil {
		return nil, err
	}
	client.RestartPanel()

	logger.Infof("merged inbounds %v into %d on %s: %s", req.SourceIDs, req.TargetID, srv.DisplayName(), merge.EncodeResult(result))
	return result, nil
}

// stageDown copies the remote database into a private local working
// copy and returns its path.
func (s *MergeService) stageDown(client *remote.Client, dbPath string) (string, error) {
	remoteTmp := fmt.Sprintf("/tmp/xuihub_stage_%d.db", time.Now().Unix())
	if err := client.StageCopy(dbPath, remoteTmp); err != nil {
		return "", err
	}
	defer client.Remove(remoteTmp)

	workPath := filepath.Join(s.workDir, "xuihub-"+uuid.NewString()+".db")
	if err := client.Download(remoteTmp, workPath); err != nil {
		_ = os.Remove(workPath)
		return "", err
	}
	return workPath, nil
}

// stageUp uploads the finalized file next to the live database and
// moves it into place with root privileges.
func (s *MergeService) stageUp(client *remote.Client, localPath, dbPath string) error {
	remoteTmp := fmt.Sprintf("/tmp/xuihub_deliver_%d.db", time.Now().Unix())
	if err := client.Upload(localPath, remoteTmp); err != nil {
		return err
	}
	if err := client.InstallFile(remoteTmp, dbPath); err != nil {
		client.Remove(remoteTmp)
		return err
	}
	return nil
}

// resolvePorts maps panel ports to inbound ids on the working copy.
// Missing ports, target included, are collected and reported together.
func resolvePorts(workPath string, sourcePorts []int, targetPort int) (merge.Request, error) {
	var req merge.Request

	db, err := merge.Open(workPath)
	if err != nil {
		return req, err
	}
	defer func() {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
	}()

	var missing []int

	targetID, ok, err := merge.InboundIDByPort(db, targetPort)
	if err != nil {
		return req, err
	}
	if !ok {
		missing = append(missing, targetPort)
	}

	for _, port := range sourcePorts {
		id, ok, err := merge.InboundIDByPort(db, port)
		if err != nil {
			return req, err
		}
		if !ok {
			missing = append(missing, port)
			continue
		}
		req.SourceIDs = append(req.SourceIDs, id)
	}

	if len(missing) > 0 {
		return req, &PortLookupError{Ports: missing}
	}
	req.TargetID = targetID
	return req, nil
}
