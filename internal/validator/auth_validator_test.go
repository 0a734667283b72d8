package validator

import (
	"context"
	"strings"
	"testing"

	auth "jidauth/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	v := NewAuthValidator()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"ok", "user@test.com", "CorrectHorse", nil},
		{"empty email", "", "CorrectHorse", auth.ErrInvalidInput},
		{"empty password", "user@test.com", "", auth.ErrInvalidInput},
		{"no at", "user.test.com", "CorrectHorse", auth.ErrInvalidEmailFormat},
		{"no domain dot", "user@test", "CorrectHorse", auth.ErrInvalidEmailFormat},
		{"spaces", "us er@test.com", "CorrectHorse", auth.ErrInvalidEmailFormat},
		{"short", "user@test.com", "short", auth.ErrPasswordTooShort},
		{"weak", "user@test.com", "Password123", auth.ErrWeakPassword},
		{"weak lowercase", "user@test.com", "iloveyou", auth.ErrWeakPassword},
		{"72 bytes", "user@test.com", strings.Repeat("a", 71) + "B", nil},
		{"73 bytes", "user@test.com", strings.Repeat("a", 73), auth.ErrPasswordTooLong},
		{"multibyte over 72 bytes", "user@test.com", strings.Repeat("あ", 25), auth.ErrPasswordTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateRegister(ctx, tc.email, tc.password)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// 一覧の全部が長さチェックを通ってから弱いと判定される
func TestWeakPasswords_AreReachable(t *testing.T) {
	v := NewAuthValidator()
	for pw := range weakPasswords {
		assert.GreaterOrEqual(t, len(pw), minPasswordLen, pw)
		assert.ErrorIs(t, v.ValidateRegister(context.Background(), "user@test.com", pw), auth.ErrWeakPassword, pw)
	}
}

func TestValidateLogin(t *testing.T) {
	v := NewAuthValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateLogin(ctx, "user@test.com", "x"))
	assert.ErrorIs(t, v.ValidateLogin(ctx, "  ", "x"), auth.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin(ctx, "user@test.com", ""), auth.ErrInvalidInput)
}
