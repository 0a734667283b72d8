package auth

import (
	"errors"
	"fmt"
)

var (
	// 401 access tokenなし・不正・期限切れ
	ErrNotAuthenticated = errors.New("not authenticated")

	// 401 メールまたはパスワードが違う（どちらかは言わない）
	ErrInvalidCredentials = errors.New("invalid credentials")

	// refreshの失敗はすべてこれ1つ（どのチェックで落ちたかは返さない）
	ErrRefreshRejected = errors.New("refresh rejected")

	// 409 email重複
	ErrEmailAlreadyExists = errors.New("email already exists")

	// 404 失効対象のユーザーがいない
	ErrUserNotFound = errors.New("user not found")

	// 500 DBなど外部の失敗（リトライはしない）
	ErrStorageUnavailable = errors.New("storage unavailable")

	// 400 入力が不正
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrWeakPassword       = errors.New("weak password")
	ErrPasswordTooLong    = errors.New("password too long")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// IsValidationError は400で返すエラーかどうか
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidEmailFormat) ||
		errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrPasswordTooLong)
}
