// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "VocabQuiz"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort        = ":8080"
	DefaultLogLevel          = "info"
	DefaultDatabaseDriver    = "sqlite"
	DefaultSQLiteURL         = "file::memory:?cache=shared"
	DefaultSecretKey         = "your-secret-key"
	DefaultTokenTTL          = 24 * time.Hour
	DefaultGeneratorTimeout  = 10 * time.Second
	DefaultMaxPromptAttempts = 3
	DefaultPromptTTL         = 30 * time.Minute
)

// Gemini の generateContent エンドポイント
const DefaultGeneratorURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"
