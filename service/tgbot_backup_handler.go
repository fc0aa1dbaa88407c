package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mymmrac/telego"

	"github.com/Emadhabibnia1385/xui-HUB/config"
	"github.com/Emadhabibnia1385/xui-HUB/logger"
)

// Telegram bots cannot download files larger than this.
const maxUploadSize = 20 * 1024 * 1024

// ---------- export ----------

func (t *Tgbot) runBackupExport(chatId int64, messageId int, serverID string) {
	srv, err := t.serverService.Get(chatId, serverID)
	if err != nil {
		t.editMessageTgBot(chatId, messageId, "سرور پیدا نشد.", kbBackMain())
		return
	}

	t.editMessageTgBot(chatId, messageId, "⏳ در حال تهیه بکاپ از <b>"+srv.DisplayName()+"</b> ...")
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("backup export panic: %v", r)
				t.SendMsgToTgbot(chatId, "❌ خطای داخلی هنگام تهیه بکاپ.", kbMain())
			}
		}()

		localPath, filename, err := t.backupService.Export(srv)
		if err != nil {
			t.SendMsgToTgbot(chatId, "❌ خطا در تهیه بکاپ:\n<code>"+err.Error()+"</code>", kbMain())
			return
		}
		caption := Caption(srv.DisplayName(), time.Now().UTC())
		if err := t.sendDocument(chatId, localPath, filename, caption); err != nil {
			t.SendMsgToTgbot(chatId, "❌ خطا در ارسال فایل بکاپ:\n<code>"+err.Error()+"</code>", kbMain())
			return
		}
		t.SendMsgToTgbot(chatId, "✅ بکاپ ارسال شد.", kbBackupMenu())
	}()
}

// ---------- restore ----------

func (t *Tgbot) startRestore(chatId int64, messageId int, serverID string) {
	srv, err := t.serverService.Get(chatId, serverID)
	if err != nil {
		t.editMessageTgBot(chatId, messageId, "سرور پیدا نشد.", kbBackMain())
		return
	}
	t.state.Clear(chatId)
	form := t.state.RestoreForm(chatId)
	form.ServerID = serverID
	t.state.Set(chatId, StateRestoreUpload)

	msg := "📥 <b>بازگردانی بکاپ روی " + srv.DisplayName() + "</b>\n\n" +
		"فایل دیتابیس (<code>x-ui.db</code>) را به صورت <b>Document</b> ارسال کنید.\n" +
		hint("دیتابیس فعلی سرور به طور کامل جایگزین می‌شود.")
	t.editMessageTgBot(chatId, messageId, msg, kbBackMain())
}

func (t *Tgbot) handleRestoreInput(message *telego.Message, chatId int64, state string) {
	form := t.state.RestoreForm(chatId)

	switch state {
	case StateRestoreUpload:
		doc := message.Document
		if doc == nil {
			t.SendMsgToTgbot(chatId, "❌ لطفاً فایل دیتابیس را به صورت Document ارسال کنید.")
			return
		}
		if doc.FileSize > maxUploadSize {
			t.SendMsgToTgbot(chatId, "❌ فایل بزرگ‌تر از حد مجاز تلگرام (۲۰ مگابایت) است.")
			return
		}

		localPath, err := t.downloadTgFile(doc.FileID)
		if err != nil {
			logger.Warning("restore download failed:", err)
			t.SendMsgToTgbot(chatId, "❌ دریافت فایل از تلگرام شکست خورد. دوباره تلاش کنید.")
			return
		}
		form.LocalPath = localPath
		t.state.Set(chatId, StateRestoreConfirm)

		name := doc.FileName
		if name == "" {
			name = "database.db"
		}
		msg := "⚠️ <b>هشدار</b>\n\n" +
			"فایل <code>" + name + "</code> جایگزین دیتابیس فعلی سرور می‌شود و پنل ری‌استارت خواهد شد.\n\n" +
			"برای تأیید <b>OK</b> ارسال کنید، هر چیز دیگری لغو می‌کند."
		t.SendMsgToTgbot(chatId, msg)

	case StateRestoreConfirm:
		localPath := form.LocalPath
		if !strings.EqualFold(strings.TrimSpace(message.Text), "OK") {
			t.state.Clear(chatId)
			if localPath != "" {
				_ = os.Remove(localPath)
			}
			t.SendMsgToTgbot(chatId, "❎ بازگردانی لغو شد.", kbMain())
			return
		}
		srv, err := t.serverService.Get(chatId, form.ServerID)
		if err != nil {
			t.state.Clear(chatId)
			_ = os.Remove(localPath)
			t.SendMsgToTgbot(chatId, "❌ سرور پیدا نشد.", kbMain())
			return
		}
		t.state.Clear(chatId)

		t.SendMsgToTgbot(chatId, "⏳ در حال بازگردانی بکاپ...")
		go func() {
			defer func() {
				_ = os.Remove(localPath)
				if r := recover(); r != nil {
					logger.Errorf("restore worker panic: %v", r)
					t.SendMsgToTgbot(chatId, "❌ خطای داخلی هنگام بازگردانی.", kbMain())
				}
			}()
			if err := t.backupService.Restore(srv, localPath); err != nil {
				t.SendMsgToTgbot(chatId, "❌ بازگردانی شکست خورد:\n<code>"+err.Error()+"</code>", kbMain())
				return
			}
			t.SendMsgToTgbot(chatId, "✅ بکاپ با موفقیت بازگردانی شد و پنل ری‌استارت شد.", kbMain())
		}()
	}
}

// downloadTgFile fetches an uploaded document into the working
// directory and returns its local path.
func (t *Tgbot) downloadTgFile(fileID string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	file, err := bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return "", err
	}

	resp, err := http.Get(bot.FileDownloadURL(file.FilePath))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	localPath := filepath.Join(config.GetWorkDir(), "xuihub-upload-"+uuid.NewString()+".db")
	out, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(localPath)
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(localPath)
		return "", err
	}
	return localPath, nil
}

// ---------- scheduled backups ----------

// runScheduledBackups exports every admin's servers and sends the
// files to that admin. Failures are reported per server so one broken
// host never blocks the rest.
func (t *Tgbot) runScheduledBackups() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("scheduled backup panic: %v", r)
		}
	}()

	for _, adminId := range adminIds {
		order, servers, err := t.serverService.List(adminId)
		if err != nil {
			logger.Warning("scheduled backup: listing servers failed:", err)
			continue
		}
		for _, id := range order {
			srv, ok := servers[id]
			if !ok {
				continue
			}
			localPath, filename, err := t.backupService.Export(srv)
			if err != nil {
				t.SendMsgToTgbot(adminId, "❌ بکاپ خودکار <b>"+srv.DisplayName()+"</b> شکست خورد:\n<code>"+err.Error()+"</code>")
				continue
			}
			caption := "⏰ بکاپ خودکار\n\n" + Caption(srv.DisplayName(), time.Now().UTC())
			if err := t.sendDocument(adminId, localPath, filename, caption); err != nil {
				logger.Warning("scheduled backup: sending document failed:", err)
			}
		}
	}
}
