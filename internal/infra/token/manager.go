package token

import (
	"bytes"
	"errors"
	"time"

	"jidauth/internal/domain/model"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type ManagerConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Manager はaccess / refreshのトークンを作って検証する。
// 鍵はそれぞれ別（片方が漏れてももう片方は偽造できない）
type Manager struct {
	access     *Signer
	refresh    *Signer
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(cfg ManagerConfig) (*Manager, error) {
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("token: access and refresh secrets must differ")
	}

	access, err := NewSigner(cfg.AccessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := NewSigner(cfg.RefreshSecret)
	if err != nil {
		return nil, err
	}

	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.AccessTTL < 0 || cfg.RefreshTTL < 0 {
		return nil, errors.New("token: negative ttl")
	}

	return &Manager{
		access:     access,
		refresh:    refresh,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *Manager) CreateAccessToken(user *model.User) (string, error) {
	return m.access.Sign(newAccessClaims(user.ID), m.accessTTL)
}

// 発行時点のtoken_versionを埋め込む（後でDBの値と比べる）
func (m *Manager) CreateRefreshToken(user *model.User) (string, error) {
	return m.refresh.Sign(newRefreshClaims(user.ID, user.TokenVersion), m.refreshTTL)
}

func (m *Manager) ParseAccessToken(raw string) (*AccessClaims, error) {
	var c AccessClaims
	if err := m.access.Verify(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *Manager) ParseRefreshToken(raw string) (*RefreshClaims, error) {
	var c RefreshClaims
	if err := m.refresh.Verify(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
