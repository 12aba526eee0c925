package main

import (
	"log"
	"os"

	api "papertrade/cmd/papertrade"
	"papertrade/conf"
	"papertrade/internal/middleware"
	"papertrade/pkg/db"
	"papertrade/pkg/logger"

	"go.uber.org/multierr"
)

// 启动模拟交易服务

func main() {

	// 加载配置文件
	err := conf.LoadConfig("conf/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appCfg := conf.AppConfig
	logger.Init(logger.Options{
		Level:      appCfg.Log.Level,
		FileName:   appCfg.Log.FileName,
		TimeFormat: appCfg.Log.TimeFormat,
		MaxSize:    appCfg.Log.MaxSize,
		MaxBackups: appCfg.Log.MaxBackups,
		MaxAge:     appCfg.Log.MaxAge,
		Compress:   appCfg.Log.Compress,
		LocalTime:  appCfg.Log.LocalTime,
		Console:    appCfg.Log.Console,
	})

	dbPath := os.Getenv("TRADING_DB_PATH")
	if dbPath == "" {
		dbPath = appCfg.Database.Path
	}

	// 初始化数据库，首次启动时建表并写入初始资金
	datasource, err := db.Open(db.Config{
		Path:         dbPath,
		StartingCash: appCfg.Database.StartingCash,
	})
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}

	// 创建并启动服务
	srv := api.NewServer(&appCfg)
	srv.RegisterOnShutdown(func() {
		var cleanupErr error
		if datasource != nil {
			cleanupErr = multierr.Append(cleanupErr, db.Close(datasource))
		}
		cleanupErr = multierr.Append(cleanupErr, logger.Sync())
		if cleanupErr != nil {
			log.Printf("cleanup: %v", cleanupErr)
		}
	})
	srvRouter := api.InitRouter(datasource)

	srv.Run(middleware.NewMiddleware(), srvRouter)
}
