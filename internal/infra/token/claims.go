package token

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// access token: sub / iat / exp / jti
type AccessClaims struct {
	jwt.RegisteredClaims
}

// refresh token: 上に加えて発行時点のtoken_version（tv）
type RefreshClaims struct {
	TokenVersion int `json:"tv"`
	jwt.RegisteredClaims
}

func newAccessClaims(userID int64) *AccessClaims {
	return &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
	}
}

func newRefreshClaims(userID int64, tokenVersion int) *RefreshClaims {
	return &RefreshClaims{
		TokenVersion:     tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
	}
}

// UserID はsubを数値にしたもの（検証済みclaimsなら必ず正）
func (c *AccessClaims) UserID() int64 {
	id, _ := parseSubject(c.Subject)
	return id
}

func (c *RefreshClaims) UserID() int64 {
	id, _ := parseSubject(c.Subject)
	return id
}

func (c *AccessClaims) registered() *jwt.RegisteredClaims { return &c.RegisteredClaims }

func (c *RefreshClaims) registered() *jwt.RegisteredClaims { return &c.RegisteredClaims }

func (c *AccessClaims) claimKeys() []string {
	return []string{"sub", "iat", "exp", "jti"}
}

func (c *RefreshClaims) claimKeys() []string {
	return []string{"sub", "tv", "iat", "exp", "jti"}
}

func (c *AccessClaims) validate() error {
	return validateRegistered(&c.RegisteredClaims)
}

func (c *RefreshClaims) validate() error {
	if c.TokenVersion < 0 {
		return errors.New("negative token version")
	}
	return validateRegistered(&c.RegisteredClaims)
}

func validateRegistered(rc *jwt.RegisteredClaims) error {
	if _, err := parseSubject(rc.Subject); err != nil {
		return err
	}
	if rc.ID == "" {
		return errors.New("empty jti")
	}
	if rc.IssuedAt == nil || rc.ExpiresAt == nil {
		return errors.New("missing iat/exp")
	}
	return nil
}

func parseSubject(sub string) (int64, error) {
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("subject is not a user id")
	}
	if id <= 0 {
		return 0, errors.New("subject must be positive")
	}
	return id, nil
}
