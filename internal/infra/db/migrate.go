package db

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// gooseRunContext はテスト用の差し替えポイント
var gooseRunContext = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
	return goose.RunContext(ctx, command, db, dir, args...)
}

// Migrate は埋め込みSQLをupまで流す
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	return Run(ctx, db, log, "up")
}

// Run はgooseのコマンド（up / down / status / version）を実行する
func Run(ctx context.Context, db *sql.DB, log *slog.Logger, command string, args ...string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(slog.NewLogLogger(log.Handler(), slog.LevelInfo))
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return gooseRunContext(ctx, command, db, migrationsDir, args...)
}
