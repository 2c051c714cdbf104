// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database（プロフィール・関係データストア）
	DatabaseURL string

	// Catalog（読み取り専用レシピカタログ）
	// 認証情報は環境変数から接続文字列に展開する。コードに秘密情報は置かない。
	CatalogDatabaseURL string

	// Auth
	TokenSecret   string // IDトークン（HS256 JWT）の検証鍵
	WebhookSecret string // IDプロバイダーのライフサイクルイベント用共有シークレット

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	catalogUser := os.Getenv("CATALOG_DB_USER")
	if catalogUser == "" {
		missing = append(missing, "CATALOG_DB_USER")
	}

	catalogPassword := os.Getenv("CATALOG_DB_PASSWORD")
	if catalogPassword == "" {
		missing = append(missing, "CATALOG_DB_PASSWORD")
	}

	cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	if cfg.TokenSecret == "" {
		missing = append(missing, "TOKEN_SECRET")
	}

	cfg.WebhookSecret = os.Getenv("WEBHOOK_SECRET")
	if cfg.WebhookSecret == "" {
		missing = append(missing, "WEBHOOK_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	catalogHost := getEnvString("CATALOG_DB_HOST", "localhost")
	catalogPort := getEnvString("CATALOG_DB_PORT", "5432")
	catalogName := getEnvString("CATALOG_DB_NAME", "wellness_catalog")
	catalogSSLMode := getEnvString("CATALOG_DB_SSLMODE", "disable")

	cfg.CatalogDatabaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		catalogUser, catalogPassword, catalogHost, catalogPort, catalogName, catalogSSLMode,
	)

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
