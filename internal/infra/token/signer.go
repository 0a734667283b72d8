// Package token は access / refresh トークン（HS256のJWT）の署名と検証を行う。
//
// 検証は署名と有効期限を1回のパースでまとめて見る。通ったpayloadは
// 型付きのclaimsに厳密にデコードし、余分なキー・欠けたキー・型違いはすべて
// ErrMalformed として扱う。
package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("malformed token")
)

// Claims はSignerが扱えるclaimsの形
type Claims interface {
	jwt.Claims
	registered() *jwt.RegisteredClaims
	// payloadに必ずあるキー（これ以外は不可）
	claimKeys() []string
	validate() error
}

// Signer は1つの鍵でHS256署名・検証する
type Signer struct {
	secret []byte
	now    func() time.Time
	newID  func() string
}

func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: empty secret")
	}
	return &Signer{
		secret: secret,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

// Sign は iat / exp / jti を埋めて署名する
func (s *Signer) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()

	rc := claims.registered()
	rc.IssuedAt = jwt.NewNumericDate(now)
	rc.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	rc.ID = s.newID()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify は署名・期限を確認してdstにデコードする
func (s *Signer) Verify(raw string, dst Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	tok, err := parser.Parse(raw, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return ErrInvalidSignature
		default:
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return ErrMalformed
	}
	return decodeStrict(mc, dst)
}

func decodeStrict(mc jwt.MapClaims, dst Claims) error {
	keys := dst.claimKeys()
	if len(mc) != len(keys) {
		return fmt.Errorf("%w: want %d claims, got %d", ErrMalformed, len(keys), len(mc))
	}
	for _, k := range keys {
		if _, ok := mc[k]; !ok {
			return fmt.Errorf("%w: missing claim %q", ErrMalformed, k)
		}
	}

	b, err := json.Marshal(mc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := dst.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
