// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"meishi_backend/internal/platform/db"
	"meishi_backend/internal/platform/redis"
)

// OCRバックエンド名。
const (
	OCRBackendAzure  = "azure"
	OCRBackendVision = "vision"
)

// 企業検索バックエンド名。
const (
	ResearchBackendOpenAI = "openai"
	ResearchBackendGemini = "gemini"
)

// Config はサーバーの設定です。
type Config struct {
	// Azure OpenAI（文字起こし・氏名会社名の抽出）
	AzureAPIKey     string `envconfig:"AZURE_API_KEY"`
	AzureEndpoint   string `envconfig:"AZURE_ENDPOINT"`
	AzureAPIVersion string `envconfig:"AZURE_API_VERSION" default:"2024-12-01-preview"`
	ModelDeployment string `envconfig:"MODEL_DEPLOYMENT"  default:"tech0-gpt4o"`

	// OpenAI（Web検索）
	OpenAIAPIKey      string `envconfig:"OPENAI_API_KEY"`
	WebSearchModel    string `envconfig:"WEB_SEARCH_MODEL"    default:"gpt-4.1"`
	SearchCountry     string `envconfig:"SEARCH_COUNTRY"      default:"JP"`
	SearchCity        string `envconfig:"SEARCH_CITY"         default:"Tokyo"`
	SearchRegion      string `envconfig:"SEARCH_REGION"       default:"Tokyo"`
	SearchContextSize string `envconfig:"SEARCH_CONTEXT_SIZE" default:"high"`

	// バックエンドの切り替え
	OCRBackend      string `envconfig:"OCR_BACKEND"      default:"azure"`
	ResearchBackend string `envconfig:"RESEARCH_BACKEND" default:"openai"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	GeminiModel     string `envconfig:"GEMINI_MODEL"     default:"gemini-2.5-flash"`

	// サーバー・外部呼び出し
	Addr                  string        `envconfig:"ADDR"                     default:":8080"`
	TrustedProxies        []string      `envconfig:"TRUSTED_PROXIES"`
	MaxImageBytes         int           `envconfig:"MAX_IMAGE_BYTES"          default:"10485760"`
	OutboundTimeout       time.Duration `envconfig:"OUTBOUND_TIMEOUT"         default:"90s"`
	OutboundMaxRetries    int           `envconfig:"OUTBOUND_MAX_RETRIES"     default:"2"`
	OutboundRatePerMinute int           `envconfig:"OUTBOUND_RATE_PER_MINUTE" default:"60"`

	// Redis（受付のレート制限）
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     string `envconfig:"REDIS_PORT"     default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	ScanRateLimit int    `envconfig:"SCAN_RATE_LIMIT" default:"10"`

	// スキャン記録
	ScanLogDSN    string `envconfig:"SCANLOG_DSN"`
	ScanLogDriver string `envconfig:"SCANLOG_DRIVER" default:"postgres"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load は .env（存在する場合）と環境変数から設定を読み込み、検証します。
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
		slog.Info(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv は環境変数のみから設定を読み込み、検証します。
func FromEnv() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate は選択されたバックエンドに必要な設定が揃っているかを確認します。
func (c *Config) Validate() error {
	if field, env := c.missing(); field != "" {
		return fmt.Errorf("missing required configuration: %s / %s", field, env)
	}

	switch c.OCRBackend {
	case OCRBackendAzure, OCRBackendVision:
	default:
		return fmt.Errorf("invalid OCR_BACKEND %q (azure or vision)", c.OCRBackend)
	}
	switch c.ResearchBackend {
	case ResearchBackendOpenAI, ResearchBackendGemini:
	default:
		return fmt.Errorf("invalid RESEARCH_BACKEND %q (openai or gemini)", c.ResearchBackend)
	}
	switch c.SearchContextSize {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("invalid SEARCH_CONTEXT_SIZE %q (low, medium or high)", c.SearchContextSize)
	}
	if c.ScanLogDSN != "" {
		switch c.ScanLogDriver {
		case db.DriverPostgres, db.DriverSQLite:
		default:
			return fmt.Errorf("invalid SCANLOG_DRIVER %q (postgres or sqlite)", c.ScanLogDriver)
		}
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive, got %d", c.MaxImageBytes)
	}
	if c.OutboundTimeout <= 0 {
		return fmt.Errorf("OUTBOUND_TIMEOUT must be positive, got %s", c.OutboundTimeout)
	}
	if c.OutboundMaxRetries < 0 {
		return fmt.Errorf("OUTBOUND_MAX_RETRIES must not be negative, got %d", c.OutboundMaxRetries)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// missing は不足している必須設定のフィールド名と環境変数名を返します。
// 抽出は常にAzureのチャットモデルを使うため、Azureの認証情報はバックエンドによらず必須です。
func (c *Config) missing() (string, string) {
	if c.AzureAPIKey == "" {
		return "AzureAPIKey", "AZURE_API_KEY"
	}
	if c.AzureEndpoint == "" {
		return "AzureEndpoint", "AZURE_ENDPOINT"
	}
	if c.ResearchBackend == ResearchBackendOpenAI && c.OpenAIAPIKey == "" {
		return "OpenAIAPIKey", "OPENAI_API_KEY"
	}
	if c.ResearchBackend == ResearchBackendGemini && c.GeminiAPIKey == "" {
		return "GeminiAPIKey", "GEMINI_API_KEY"
	}
	return "", ""
}

// Redis はRedisの接続設定を返します。
func (c *Config) Redis() redis.Config {
	return redis.Config{Host: c.RedisHost, Port: c.RedisPort, Password: c.RedisPassword}
}

// ScanLogEnabled はスキャン記録を保存するかを返します。
func (c *Config) ScanLogEnabled() bool {
	return c.ScanLogDSN != ""
}

// SlogLevel はLOG_LEVELに対応するslogのレベルを返します。
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return l, nil
}
