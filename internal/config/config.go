package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定。起動時に1度だけ読み、以後は不変。
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL string // DSN直指定（あれば最優先）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     string // DBポート（5432）

	JWTSecret  string        // JWT署名シークレット
	AccessTTL  time.Duration // アクセストークンの有効期間
	RefreshTTL time.Duration // リフレッシュトークンの有効期間

	Environment    string // development/staging/production/testing
	AllowedOrigins string // CORS許可オリジン（カンマ区切り）
	Version        string
}

// Loadは環境変数から設定を読む。シークレットは必須。
func Load() (Config, error) {
	accessMinutes, err := atoiDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	if err != nil {
		return Config{}, err
	}

	refreshDays, err := atoiDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		PostgresUser:     getenv("POSTGRES_USER", "vibestack"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "vibestack"),
		PostgresDB:       getenv("POSTGRES_DB", "vibestack"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getenv("POSTGRES_PORT", "5432"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		AccessTTL:  time.Duration(accessMinutes) * time.Minute,
		RefreshTTL: time.Duration(refreshDays) * 24 * time.Hour,

		Environment:    getenv("GO_ENV", "development"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "*"),
		Version:        "1.0.0",
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AccessTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if cfg.RefreshTTL <= 0 {
		return Config{}, fmt.Errorf("REFRESH_TOKEN_EXPIRE_DAYS must be positive")
	}

	switch cfg.Environment {
	case "development", "staging", "production", "testing":
	default:
		return Config{}, fmt.Errorf("GO_ENV must be one of development/staging/production/testing")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
