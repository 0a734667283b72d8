package validator

import (
	"context"
	"net/mail"
	"regexp"
	"strings"

	auth "jidauth/internal/usecase/auth_usecase"
)

const (
	minPasswordLen = 8
	// bcryptが扱えるのは72バイトまで
	maxPasswordLen = 72
)

// 簡易メール形式
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// よくある弱いパスワード
var weakPasswords = map[string]struct{}{
	"password":     {},
	"password1":    {},
	"password123":  {},
	"123456789012": {},
	"1234567890":   {},
	"12345678":     {},
	"87654321":     {},
	"qwertyuiop":   {},
	"iloveyou":     {},
	"admin123":     {},
}

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() auth.AuthValidator {
	return &authValidator{}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return auth.ErrInvalidInput
	}

	// email形式
	if !isEmailLike(email) {
		return auth.ErrInvalidEmailFormat
	}

	// パスワード最低文字数
	if len(password) < minPasswordLen {
		return auth.ErrPasswordTooShort
	}
	if len(password) > maxPasswordLen {
		return auth.ErrPasswordTooLong
	}

	if isWeakPassword(password) {
		return auth.ErrWeakPassword
	}

	return nil
}

// ログインの入力を検証（形だけ。存在チェックはusecase）
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return auth.ErrInvalidInput
	}

	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	if !emailRe.MatchString(s) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))
	_, ok := weakPasswords[normalized]
	return ok
}
