package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"jidauth/internal/logging"
	"jidauth/internal/middleware"
	auth "jidauth/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// refresh tokenを入れるcookie名
const RefreshCookieName = "jid"

// healthz用（*sql.DBがそのまま満たす）
type Pinger interface {
	PingContext(ctx context.Context) error
}

type AuthHandler struct {
	registerUC   *auth.RegisterUserUsecase // 会員登録usecase
	loginUC      *auth.LoginUsecase        // ログインusecase
	refreshUC    *auth.RefreshUsecase      // refresh usecase
	revokeUC     *auth.RevokeTokensUsecase // 失効usecase
	meUC         *auth.MeUsecase
	gate         echo.MiddlewareFunc // AuthJWT
	db           Pinger
	refreshTTL   time.Duration // jid cookie の有効期限
	cookieSecure bool
}

type AuthHandlerDeps struct {
	Register *auth.RegisterUserUsecase
	Login    *auth.LoginUsecase
	Refresh  *auth.RefreshUsecase
	Revoke   *auth.RevokeTokensUsecase
	Me       *auth.MeUsecase
	Tokens   middleware.AccessTokenParser
	DB       Pinger

	RefreshTTL   time.Duration
	CookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(d AuthHandlerDeps) *AuthHandler {
	return &AuthHandler{
		registerUC:   d.Register,
		loginUC:      d.Login,
		refreshUC:    d.Refresh,
		revokeUC:     d.Revoke,
		meUC:         d.Me,
		gate:         middleware.AuthJWT(d.Tokens),
		db:           d.DB,
		refreshTTL:   d.RefreshTTL,
		cookieSecure: d.CookieSecure,
	}
}

// 認証系のルートを登録
func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Hello)
	e.GET("/healthz", h.Healthz)

	e.POST("/register", h.Register)
	e.POST("/login", h.Login)
	e.POST("/refresh-token", h.RefreshToken)
	e.POST("/logout", h.Logout)

	// bearer必須
	e.POST("/revoke", h.Revoke, h.gate)
	e.GET("/me", h.Me, h.gate)
	e.GET("/bye", h.Bye, h.gate)
}

// POST /register, POST /login のリクエストボディ
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshResponse struct {
	OK          bool   `json:"ok"`
	AccessToken string `json:"accessToken"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type revokeResponse struct {
	OK           bool  `json:"ok"`
	UserID       int64 `json:"userId"`
	TokenVersion int   `json:"tokenVersion"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (h *AuthHandler) Hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello")
}

func (h *AuthHandler) Healthz(c echo.Context) error {
	if h.db != nil {
		if err := h.db.PingContext(c.Request().Context()); err != nil {
			logging.From(c.Request().Context()).Error("healthz_failed", slog.String("err", err.Error()))
			return c.JSON(http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// RegisterはPOST /registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case auth.IsValidationError(err):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "email already exists"})
		default:
			return internalError(c, "register_failed", err)
		}
	}

	return c.JSON(http.StatusCreated, out)
}

// LoginはPOST /login のハンドラ
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
	}

	out, side, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		default:
			return internalError(c, "login_failed", err)
		}
	}

	h.setRefreshCookie(c, side.PlainRefreshToken)
	return c.JSON(http.StatusOK, out)
}

// RefreshTokenはPOST /refresh-token のハンドラ。
// 失敗でも200で {ok:false} を返す（理由はログだけ）。
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	raw := ""
	if ck, err := c.Cookie(RefreshCookieName); err == nil {
		raw = ck.Value
	}

	out, err := h.refreshUC.Execute(c.Request().Context(), raw)
	if err != nil {
		return c.JSON(http.StatusOK, refreshResponse{OK: false, AccessToken: ""})
	}

	h.setRefreshCookie(c, out.PlainRefreshToken)
	return c.JSON(http.StatusOK, refreshResponse{OK: true, AccessToken: out.AccessToken})
}

// LogoutはPOST /logout のハンドラ。cookieを空にするだけ
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// RevokeはPOST /revoke のハンドラ。自分のrefresh tokenを全部失効
func (h *AuthHandler) Revoke(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}

	out, err := h.revokeUC.Execute(c.Request().Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		case errors.Is(err, auth.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			return internalError(c, "revoke_failed", err)
		}
	}

	return c.JSON(http.StatusOK, revokeResponse{
		OK:           true,
		UserID:       out.UserID,
		TokenVersion: out.TokenVersion,
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}

	user, err := h.meUC.Execute(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		}
		return internalError(c, "me_failed", err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Bye(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("userId %d", userID)})
}

// refreshtoken をCookieにセット
func (h *AuthHandler) setRefreshCookie(c echo.Context, plainRefresh string) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    plainRefresh,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.refreshTTL),
	})
}

// 空の値で上書きしてブラウザから消す
func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// 500。中身はログにだけ出す
func internalError(c echo.Context, event string, err error) error {
	logging.From(c.Request().Context()).Error(event, slog.String("err", err.Error()))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
