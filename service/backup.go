package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Emadhabibnia1385/xui-HUB/database/merge"
	"github.com/Emadhabibnia1385/xui-HUB/logger"
	"github.com/Emadhabibnia1385/xui-HUB/remote"
	"github.com/Emadhabibnia1385/xui-HUB/storage"
	"github.com/Emadhabibnia1385/xui-HUB/util/jalali"
)

// BackupService exports and restores whole x-ui databases over the
// remote transport.
type BackupService struct {
	workDir string
}

func NewBackupService(workDir string) *BackupService {
	return &BackupService{workDir: workDir}
}

// Export pulls the server's database into a local temp file and
// returns its path together with a suggested upload filename. The
// caller owns the file and deletes it after sending.
func (b *BackupService) Export(srv *storage.Server) (string, string, error) {
	client, err := remote.Dial(credentials(srv))
	if err != nil {
		return "", "", err
	}
	defer func() { _ = client.Close() }()

	dbPath, found, err := client.FindDBPath()
	if err != nil {
		return "", "", err
	}
	if !found {
		return "", "", ErrDBNotFound
	}

	ts := time.Now().UTC().Format("20060102_1504")
	remoteTmp := fmt.Sprintf("/tmp/xuihub_backup_%s.db", ts)
	if err := client.StageCopy(dbPath, remoteTmp); err != nil {
		return "", "", err
	}
	defer client.Remove(remoteTmp)

	localPath := filepath.Join(b.workDir, "xuihub-backup-"+uuid.NewString()+".db")
	if err := client.Download(remoteTmp, localPath); err != nil {
		_ = os.Remove(localPath)
		return "", "", err
	}

	filename := sanitizeFilename(fmt.Sprintf("xui_backup_%s_%s.db", srv.DisplayName(), ts))
	logger.Infof("exported backup of %s to %s", srv.DisplayName(), localPath)
	return localPath, filename, nil
}

// Restore validates an uploaded database file and installs it as the
// server's live database, restarting the panel.
func (b *BackupService) Restore(srv *storage.Server, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return err
	}
	ok, err := merge.IsSQLiteDB(file)
	_ = file.Close()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("uploaded file is not a SQLite database")
	}

	client, err := remote.Dial(credentials(srv))
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	dbPath, found, err := client.FindDBPath()
	if err != nil {
		return err
	}
	if !found {
		return ErrDBNotFound
	}

	remoteTmp := fmt.Sprintf("/tmp/xuihub_restore_%d.db", time.Now().Unix())
	if err := client.Upload(localPath, remoteTmp); err != nil {
		return err
	}
	if err := client.InstallFile(remoteTmp, dbPath); err != nil {
		client.Remove(remoteTmp)
		return err
	}
	client.RestartPanel()

	logger.Infof("restored backup onto %s", srv.DisplayName())
	return nil
}

// Caption renders the operator-facing backup caption with both the
// Gregorian timestamp and its Jalali (Tehran time) counterpart.
func Caption(serverName string, nowUTC time.Time) string {
	gDate := nowUTC.Format("2006-01-02")
	gTime := nowUTC.Format("15:04 UTC")

	tehran := nowUTC.Add(3*time.Hour + 30*time.Minute)
	jy, jm, jd := jalali.FromTime(tehran)
	jDate := fmt.Sprintf("%04d/%02d/%02d", jy, jm, jd)
	jTime := tehran.Format("15:04")

	return fmt.Sprintf(
		"🗂 بکاپ سرور: %s\n\n"+
			"📅 تاریخ (میلادی): %s\n"+
			"⏰ ساعت: %s\n\n"+
			"📆 تاریخ (شمسی): %s\n"+
			"⏱ ساعت: %s\n\n"+
			"📦 نوع بکاپ: Full x-ui Database\n\n"+
			"🤖 xui_HUB\n"+
			"👨‍💻 Developer: @EmadHabibnia",
		serverName, gDate, gTime,
		jalali.ToPersianDigits(jDate), jalali.ToPersianDigits(jTime),
	)
}

func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '/' || r == ':' || r == '\\' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}
