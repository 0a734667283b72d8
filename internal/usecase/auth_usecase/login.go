package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"jidauth/internal/domain/model"
	"jidauth/internal/logging"
	"jidauth/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// handlerがJSONにして返す
type LoginOutput struct {
	AccessToken string           `json:"accessToken"`
	User        model.PublicUser `json:"user"`
}

// handlerがCookieに詰めるために必要な値
type LoginSideEffect struct {
	PlainRefreshToken string
}

// access / refresh を発行する約束
type TokenIssuer interface {
	CreateAccessToken(user *model.User) (string, error)
	CreateRefreshToken(user *model.User) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	userRepo  repository.UserRepository
	validator AuthValidator
	verifier  PasswordVerifier
	issuer    TokenIssuer
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	validator AuthValidator,
	verifier PasswordVerifier,
	issuer TokenIssuer,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		validator: validator,
		verifier:  verifier,
		issuer:    issuer,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, LoginSideEffect, error) {
	var out LoginOutput
	var side LoginSideEffect

	email := NormalizeEmail(in.Email)
	// 入力の不備も認証失敗と同じ扱い（失敗の種類は1つだけ見せる）
	if err := u.validator.ValidateLogin(ctx, email, in.Password); err != nil {
		return out, side, ErrInvalidCredentials
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, side, ErrInvalidCredentials
		}
		return out, side, storageError("find user by email", err)
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, side, ErrInvalidCredentials
	}

	access, refresh, err := issuePair(u.issuer, user)
	if err != nil {
		return out, side, err
	}

	logging.From(ctx).Info("login_succeeded", slog.Int64("user_id", user.ID))

	out.AccessToken = access
	out.User = user.Public()
	side.PlainRefreshToken = refresh
	return out, side, nil
}

func issuePair(issuer TokenIssuer, user *model.User) (access string, refresh string, err error) {
	access, err = issuer.CreateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("create access token: %w", err)
	}
	refresh, err = issuer.CreateRefreshToken(user)
	if err != nil {
		return "", "", fmt.Errorf("create refresh token: %w", err)
	}
	return access, refresh, nil
}
