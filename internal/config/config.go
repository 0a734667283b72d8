package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Configはアプリ全体の設定
// 起動時に1回だけ読み、その後は読み取り専用
type Config struct {
	Port  string `env:"PORT" env-default:"8080"`                    // サーバーポート
	GoEnv string `env:"GO_ENV" env-default:"dev"`                   // dev/prod
	FEURL string `env:"FE_URL" env-default:"http://localhost:3000"` // フロントURL（CORS）

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	DB     DBConfig
	Auth   AuthConfig
	Cookie CookieConfig
}

// DATABASE_URL があれば最優先で使う
type DBConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`

	Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `env:"POSTGRES_PORT" env-default:"5432"`
	User     string `env:"POSTGRES_USER" env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	Name     string `env:"POSTGRES_DB" env-default:"app"`
	SSLMode  string `env:"POSTGRES_SSLMODE" env-default:"disable"`
}

// access / refresh で鍵を分ける
type AuthConfig struct {
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET" env-required:"true"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"168h"`
	BcryptCost         int           `env:"BCRYPT_COST" env-default:"12"`
}

type CookieConfig struct {
	Secure bool `env:"COOKIE_SECURE" env-default:"true"`
}

// Loadは環境変数
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDB はDB設定だけを読む（cmd/migrate用）
func LoadDB() (DBConfig, error) {
	var cfg DBConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return DBConfig{}, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}

// 必須チェック
func (c Config) Validate() error {
	if c.Auth.AccessTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.Auth.RefreshTokenSecret == "" {
		return errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		return errors.New("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL")
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}

// Addr は ":8080" の形で返す
func (c Config) Addr() string {
	if c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}

// DSN はDB接続文字列
func (d DBConfig) DSN() string {
	if d.DatabaseURL != "" {
		return d.DatabaseURL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
