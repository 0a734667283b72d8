package db

import (
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// SQLログはslogに流す（遅いクエリとエラーだけ）
func Connect(dsn string, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		// 書き込みは全部1文なのでデフォルトトランザクションは不要
		SkipDefaultTransaction: true,
	})
}
