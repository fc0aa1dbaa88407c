package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"

	"github.com/Emadhabibnia1385/xui-HUB/config"
	"github.com/Emadhabibnia1385/xui-HUB/database/merge"
	"github.com/Emadhabibnia1385/xui-HUB/logger"
	"github.com/Emadhabibnia1385/xui-HUB/service"
	"github.com/Emadhabibnia1385/xui-HUB/storage"
)

func initLogger() {
	var level logging.Level
	switch config.GetLogLevel() {
	case config.Debug:
		level = logging.DEBUG
	case config.Info:
		level = logging.INFO
	case config.Notice:
		level = logging.NOTICE
	case config.Warning:
		level = logging.WARNING
	case config.Error:
		level = logging.ERROR
	default:
		level = logging.INFO
	}
	logger.InitLogger(level)
}

func run() error {
	// .env is optional; real deployments use environment variables or
	// config.toml
	_ = godotenv.Load()

	initLogger()
	logger.Infof("%s %s starting", config.GetName(), config.GetVersion())

	store := storage.NewStore(config.GetStorePath())
	if err := store.EnsureDir(); err != nil {
		return fmt.Errorf("preparing store directory: %w", err)
	}

	workDir := config.GetWorkDir()
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("preparing work directory: %w", err)
	}

	engine := merge.NewEngine(merge.Options{})
	serverService := service.NewServerService(store)
	mergeService := service.NewMergeService(engine, workDir)
	backupService := service.NewBackupService(workDir)

	tgbot := service.NewTgbot(serverService, mergeService, backupService)
	if err := tgbot.Start(); err != nil {
		return err
	}
	defer tgbot.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Infof("received %s, shutting down", sig)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
