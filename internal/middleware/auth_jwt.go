package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"jidauth/internal/infra/token"
	"jidauth/internal/logging"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey = "user_id" // int64
)

type userIDCtxKey struct{}

// access tokenの検証だけできればよい
type AccessTokenParser interface {
	ParseAccessToken(raw string) (*token.AccessClaims, error)
}

// bearerAuth用のJWT検証ミドルウェア。
// 失敗したら401で止める（後ろのhandlerは呼ばない）。DBは見ない。
func AuthJWT(parser AccessTokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("not authenticated"))
			}

			//最初の空白で分けて後ろをtokenとする（空白なしなら空文字 => 検証で落ちる）
			rawToken := ""
			if _, after, ok := strings.Cut(authz, " "); ok {
				rawToken = after
			}

			//JWTを検証する
			claims, err := parser.ParseAccessToken(rawToken)
			if err != nil {
				logging.From(c.Request().Context()).Debug("access_token_rejected", slog.String("err", err.Error()))
				return c.JSON(http.StatusUnauthorized, errorJSON("not authenticated"))
			}

			//contextへ保存
			userID := claims.UserID()
			c.Set(CtxUserIDKey, userID)
			ctx := WithUserID(c.Request().Context(), userID)
			ctx = logging.Into(ctx, logging.From(ctx).With(slog.Int64("user_id", userID)))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// WithUserID はcontextに認証済みのuser_idを入れる
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDCtxKey{}, userID)
}

// UserIDFromContext はAuthJWTが入れたuser_idを取り出す
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDCtxKey{}).(int64)
	return id, ok && id > 0
}

// UserID はecho.Contextから取り出す
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
