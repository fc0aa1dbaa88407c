package config

import (
	"strings"

	"github.com/spf13/viper"
)

func initStaticConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath("/etc/xui-hub")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("XUIHUB")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setStaticDefaults()

	// The config file is optional; defaults plus environment variables
	// are enough to run.
	_ = viper.ReadInConfig()
}

func setStaticDefaults() {
	viper.SetDefault("app.name", "xui-hub")
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("bot.token", "")
	viper.SetDefault("bot.admin_ids", "")
	viper.SetDefault("bot.proxy", "")
	viper.SetDefault("bot.api_server", "")

	viper.SetDefault("paths.store_file", "store.json")
	viper.SetDefault("paths.work_dir", "")

	viper.SetDefault("backup.cron", "")
}

func init() {
	initStaticConfig()
}
