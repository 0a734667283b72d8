package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"jidauth/internal/infra/token"
	"jidauth/internal/logging"
	"jidauth/internal/repository"
)

// refresh tokenの検証と再発行
type RefreshTokenService interface {
	TokenIssuer
	ParseRefreshToken(raw string) (*token.RefreshClaims, error)
}

type RefreshOutput struct {
	AccessToken       string
	PlainRefreshToken string
}

type RefreshUsecase struct {
	userRepo repository.UserRepository
	tokens   RefreshTokenService
}

func NewRefreshUsecase(userRepo repository.UserRepository, tokens RefreshTokenService) *RefreshUsecase {
	return &RefreshUsecase{userRepo: userRepo, tokens: tokens}
}

// Execute はcookieのrefresh tokenを確認して、新しいaccess / refreshを返す。
// 失敗はすべてErrRefreshRejected（理由はログにだけ出す）。
//
// 同じrefresh tokenを期限内に何度出しても通る（使い捨てにはしていない）。
func (u *RefreshUsecase) Execute(ctx context.Context, rawRefresh string) (RefreshOutput, error) {
	var out RefreshOutput
	lg := logging.From(ctx)

	//cookieなし => DBは見ない
	if rawRefresh == "" {
		return out, reject(ctx, "missing refresh cookie", nil)
	}

	//署名・期限
	claims, err := u.tokens.ParseRefreshToken(rawRefresh)
	if err != nil {
		return out, reject(ctx, "invalid refresh token", err)
	}

	//user取得
	userID := claims.UserID()
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, reject(ctx, "user not found", nil, slog.Int64("user_id", userID))
		}
		lg.Error("refresh_user_lookup_failed", slog.Int64("user_id", userID), slog.String("err", err.Error()))
		return out, reject(ctx, "user lookup failed", nil, slog.Int64("user_id", userID))
	}

	//失効後に発行されたものではないか（versionが古ければ拒否）
	if claims.TokenVersion != user.TokenVersion {
		return out, reject(ctx, "stale token version", nil,
			slog.Int64("user_id", userID),
			slog.Int("token_version", claims.TokenVersion),
			slog.Int("current_version", user.TokenVersion),
		)
	}

	//同じversionで作り直す
	access, refresh, err := issuePair(u.tokens, user)
	if err != nil {
		lg.Error("refresh_issue_failed", slog.Int64("user_id", userID), slog.String("err", err.Error()))
		return out, reject(ctx, "issue failed", nil)
	}

	out.AccessToken = access
	out.PlainRefreshToken = refresh
	return out, nil
}

func reject(ctx context.Context, reason string, cause error, attrs ...any) error {
	args := append([]any{slog.String("reason", reason)}, attrs...)
	if cause != nil {
		args = append(args, slog.String("err", cause.Error()))
	}
	logging.From(ctx).Info("refresh_rejected", args...)

	return fmt.Errorf("%w: %s", ErrRefreshRejected, reason)
}
