package db

import (
	"fmt"

	"papertrade/internal/model/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Path         string  // sqlite数据库文件路径，测试可用 :memory:
	StartingCash float64 // 首次建库时的初始资金
}

// Open 打开数据库并完成迁移和初始资金写入
// 调用方持有返回的实例，生命周期 open → serve → Close
func Open(cfg Config) (*gorm.DB, error) {
	ds, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}

	if err := ds.AutoMigrate(
		&entity.CashBalance{},
		&entity.Holding{},
		&entity.OrderRecord{},
	); err != nil {
		return nil, fmt.Errorf("migrate ledger tables: %w", err)
	}

	// 首次启动时写入初始资金，已有余额行则不动
	var count int64
	if err := ds.Model(&entity.CashBalance{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		err = ds.Create(&entity.CashBalance{
			Id:      entity.CashBalanceRowId,
			Balance: cfg.StartingCash,
		}).Error
		if err != nil {
			return nil, fmt.Errorf("seed starting cash: %w", err)
		}
	}

	// sqlite单文件库，限制为单连接避免写锁冲突
	sqlDB, err := ds.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return ds, nil
}

// Close 关闭底层连接
func Close(ds *gorm.DB) error {
	sqlDB, err := ds.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
