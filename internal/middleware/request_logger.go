package middleware

import (
	"context"
	"log/slog"

	"jidauth/internal/logging"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestID はX-Request-IDがなければUUIDを振る
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// RequestLogger はrequest_id付きのロガーをcontextに入れ、
// リクエストごとに1行ログを出す。RequestIDの後ろに置くこと。
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	if base == nil {
		base = slog.Default()
	}

	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		BeforeNextFunc: func(c echo.Context) {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			l := base.With(slog.String("request_id", rid))
			c.SetRequest(c.Request().WithContext(logging.Into(c.Request().Context(), l)))
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			} else if v.Status >= 500 {
				level = slog.LevelError
			}

			logging.From(c.Request().Context()).LogAttrs(context.Background(), level, "http_request", attrs...)
			return nil
		},
	})
}
