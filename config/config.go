package config

import (
	_ "embed"
	"os"
	"strings"

	"github.com/spf13/viper"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug   LogLevel = "debug"
	Info    LogLevel = "info"
	Notice  LogLevel = "notice"
	Warning LogLevel = "warning"
	Error   LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := viper.GetString("app.log_level")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return viper.GetBool("app.debug")
}

// GetBotToken returns the Telegram bot token. Required; there is no
// default.
func GetBotToken() string {
	return strings.TrimSpace(viper.GetString("bot.token"))
}

// GetBotAdminIDs returns the comma-separated Telegram user ids allowed
// to operate the bot.
func GetBotAdminIDs() string {
	return strings.TrimSpace(viper.GetString("bot.admin_ids"))
}

// GetBotProxy returns an optional socks5:// proxy URL for reaching the
// Telegram API.
func GetBotProxy() string {
	return strings.TrimSpace(viper.GetString("bot.proxy"))
}

// GetBotAPIServer returns an optional self-hosted Bot API server URL.
func GetBotAPIServer() string {
	return strings.TrimSpace(viper.GetString("bot.api_server"))
}

// GetStorePath returns the path of the flat JSON credential store.
func GetStorePath() string {
	return viper.GetString("paths.store_file")
}

// GetWorkDir returns the directory holding private database working
// copies during a merge. Falls back to the OS temp dir.
func GetWorkDir() string {
	dir := viper.GetString("paths.work_dir")
	if dir == "" {
		return os.TempDir()
	}
	return dir
}

// GetBackupCron returns the cron expression of the scheduled
// auto-backup job, empty when disabled.
func GetBackupCron() string {
	return strings.TrimSpace(viper.GetString("backup.cron"))
}
