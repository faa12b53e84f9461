package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/freshcart-admin/internal/app"
	"github.com/freshcart-admin/internal/config"
	"github.com/freshcart-admin/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

func main() {
	var (
		rawMode    string
		configPath string
	)
	flag.StringVar(&rawMode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.StringVar(&configPath, "config", "", "配置文件路径，默认查找 ./config.yml")
	flag.Parse()

	mode, ok := app.ParseMode(rawMode)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown mode %q, expected all, api or worker\n", rawMode)
		os.Exit(2)
	}

	printStartupBanner(mode)

	cfg := config.LoadFrom(configPath)
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		logger.StdLogger().Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiCyan + ansiBold + "FreshCart Admin API" + ansiReset)
	fmt.Println(ansiGreen + "promotion wizard · spreadsheet import · expiry worker" + ansiReset)
	fmt.Println(ansiDim + "mode: " + mode + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
