package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"jidauth/internal/handler"
	"jidauth/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

type Options struct {
	FEURL  string // CORSで許可するフロント
	Logger *slog.Logger
}

// New はミドルウェアとルートを登録したechoを返す
func New(opts Options, authH *handler.AuthHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{opts.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true, // jid cookie
	}))

	authH.RegisterRoutes(e)
	return e
}

// Start はctxが終わるまで待ってからgracefulに止める
func Start(ctx context.Context, e *echo.Echo, addr string, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("server_stopping")
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
