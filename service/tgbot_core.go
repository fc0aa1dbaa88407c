package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/robfig/cron/v3"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"

	"github.com/Emadhabibnia1385/xui-HUB/config"
	"github.com/Emadhabibnia1385/xui-HUB/logger"
)

var (
	bot        *telego.Bot
	botHandler *th.BotHandler
	adminIds   []int64
	isRunning  bool
)

// Tgbot is the Telegram operator console: server credential CRUD,
// port/client merge, and database backup, all against remote x-ui
// servers.
type Tgbot struct {
	serverService *ServerService
	mergeService  *MergeService
	backupService *BackupService

	state     *BotState
	scheduler *cron.Cron
}

func NewTgbot(serverService *ServerService, mergeService *MergeService, backupService *BackupService) *Tgbot {
	return &Tgbot{
		serverService: serverService,
		mergeService:  mergeService,
		backupService: backupService,
		state:         NewBotState(),
	}
}

func (t *Tgbot) Start() error {
	token := config.GetBotToken()
	if token == "" {
		return fmt.Errorf("telegram bot token is missing (XUIHUB_BOT_TOKEN)")
	}
	if len(token) < 10 || !strings.Contains(token, ":") {
		return fmt.Errorf("invalid Telegram bot token format. Token should be in format '123456789:ABCdefGHIjklMNOpqrsTUVwxyz'")
	}

	adminList := config.GetBotAdminIDs()
	if adminList == "" {
		return fmt.Errorf("telegram admin chat IDs must be configured (XUIHUB_BOT_ADMIN_IDS)")
	}
	adminIds = adminIds[:0]
	for _, adminID := range strings.Split(adminList, ",") {
		cleaned := strings.TrimSpace(adminID)
		if cleaned == "" {
			continue
		}
		id, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid admin ID %q: chat IDs must be positive numbers", cleaned)
		}
		adminIds = append(adminIds, id)
	}
	if len(adminIds) == 0 {
		return fmt.Errorf("no valid admin IDs found in configuration")
	}

	var err error
	bot, err = t.NewBot(token, config.GetBotProxy(), config.GetBotAPIServer())
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	botInfo, err := bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify bot token with Telegram API: %v", err)
	}
	logger.Infof("Successfully connected to Telegram bot: @%s (ID: %d)", botInfo.Username, botInfo.ID)

	err = bot.SetMyCommands(context.Background(), &telego.SetMyCommandsParams{
		Commands: []telego.BotCommand{
			{Command: "start", Description: "شروع و نمایش منوی اصلی"},
			{Command: "help", Description: "راهنما"},
			{Command: "id", Description: "نمایش شناسه تلگرام شما"},
			{Command: "status", Description: "وضعیت میزبان ربات"},
		},
	})
	if err != nil {
		logger.Warning("Failed to set bot commands:", err)
	}

	if !isRunning {
		logger.Info("Telegram bot receiver started")
		go t.OnReceive()
		isRunning = true
	}

	t.startBackupScheduler()

	return nil
}

func (t *Tgbot) NewBot(token string, proxyUrl string, apiServerUrl string) (*telego.Bot, error) {
	if proxyUrl == "" && apiServerUrl == "" {
		return telego.NewBot(token)
	}

	if proxyUrl != "" {
		if !strings.HasPrefix(proxyUrl, "socks5://") {
			logger.Warning("Invalid socks5 URL, using default")
			return telego.NewBot(token)
		}

		_, err := url.Parse(proxyUrl)
		if err != nil {
			logger.Warningf("Can't parse proxy URL, using default instance for tgbot: %v", err)
			return telego.NewBot(token)
		}

		return telego.NewBot(token, telego.WithFastHTTPClient(&fasthttp.Client{
			Dial: fasthttpproxy.FasthttpSocksDialer(proxyUrl),
		}))
	}

	if !strings.HasPrefix(apiServerUrl, "http") {
		logger.Warning("Invalid http(s) URL, using default")
		return telego.NewBot(token)
	}

	_, err := url.Parse(apiServerUrl)
	if err != nil {
		logger.Warningf("Can't parse API server URL, using default instance for tgbot: %v", err)
		return telego.NewBot(token)
	}

	return telego.NewBot(token, telego.WithAPIServer(apiServerUrl))
}

func (t *Tgbot) IsRunning() bool {
	return isRunning
}

func (t *Tgbot) Stop() {
	if t.scheduler != nil {
		t.scheduler.Stop()
	}
	if botHandler != nil {
		_ = botHandler.Stop()
	}
	logger.Info("Stop Telegram receiver ...")
	isRunning = false
	adminIds = nil
}

// startBackupScheduler arms the periodic auto-backup job when a cron
// expression is configured.
func (t *Tgbot) startBackupScheduler() {
	spec := config.GetBackupCron()
	if spec == "" {
		return
	}
	t.scheduler = cron.New()
	_, err := t.scheduler.AddFunc(spec, t.runScheduledBackups)
	if err != nil {
		logger.Warningf("invalid backup cron expression %q: %v", spec, err)
		t.scheduler = nil
		return
	}
	t.scheduler.Start()
	logger.Infof("scheduled automatic backups: %s", spec)
}

func checkAdmin(userID int64) bool {
	for _, adminId := range adminIds {
		if userID == adminId {
			return true
		}
	}
	return false
}
