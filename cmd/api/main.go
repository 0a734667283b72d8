package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"jidauth/internal/config"
	"jidauth/internal/handler"
	"jidauth/internal/infra/db"
	infraRepo "jidauth/internal/infra/repository"
	"jidauth/internal/infra/token"
	"jidauth/internal/logging"
	"jidauth/internal/server"
	auth "jidauth/internal/usecase/auth_usecase"
	"jidauth/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api_exited", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// .envはローカル用（なければ環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel).With(slog.String("env", cfg.GoEnv))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg.DB.DSN(), log)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, log); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//JWT（access / refresh で別の鍵）
	tokens, err := token.NewManager(token.ManagerConfig{
		AccessSecret:  []byte(cfg.Auth.AccessTokenSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshTokenSecret),
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
	})
	if err != nil {
		return err
	}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	v := validator.NewAuthValidator()

	//Usecase / Handler生成
	authH := handler.NewAuthHandler(handler.AuthHandlerDeps{
		Register:     auth.NewRegisterUserUsecase(userRepo, v, hasher, auth.SystemClock{}),
		Login:        auth.NewLoginUsecase(userRepo, v, verifier, tokens),
		Refresh:      auth.NewRefreshUsecase(userRepo, tokens),
		Revoke:       auth.NewRevokeTokensUsecase(userRepo, auditRepo, auth.SystemClock{}),
		Me:           auth.NewMeUsecase(userRepo),
		Tokens:       tokens,
		DB:           sqlDB,
		RefreshTTL:   tokens.RefreshTTL(),
		CookieSecure: cfg.Cookie.Secure,
	})

	e := server.New(server.Options{FEURL: cfg.FEURL, Logger: log}, authH)
	return server.Start(ctx, e, cfg.Addr(), log)
}
