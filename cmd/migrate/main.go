package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"jidauth/internal/config"
	"jidauth/internal/infra/db"
	"jidauth/internal/logging"

	"github.com/joho/godotenv"
)

const usage = `usage: migrate <up|down|status|version>`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Args()[1:]...); err != nil {
		slog.Error("migrate_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(command string, args ...string) error {
	_ = godotenv.Load()

	// token用の鍵はいらないのでDB設定だけ読む
	dbCfg, err := config.LoadDB()
	if err != nil {
		return err
	}

	log := logging.New("info")

	gormDB, err := db.Connect(dbCfg.DSN(), log)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return db.Run(context.Background(), sqlDB, log, command, args...)
}
