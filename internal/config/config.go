// internal/config/config.go
package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "postgres"
	URL    string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	SecretKey string        `mapstructure:"secret_key"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// GeneratorConfig は例文生成APIの設定。APIKeyが空なら未設定扱い
type GeneratorConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type QuizConfig struct {
	MaxPromptAttempts int           `mapstructure:"max_prompt_attempts"`
	Seed              int64         `mapstructure:"seed"`       // 0 なら現在時刻
	PromptTTL         time.Duration `mapstructure:"prompt_ttl"` // 出題トークンの有効期限
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

var Cfg Config

func LoadConfig(path string) error {
	// .env があれば先に環境変数へ展開する (無くてもエラーにしない)
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment variables from .env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP") // 例: APP_SERVER_PORT
	v.AutomaticEnv()
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("auth.secret_key", "SECRET_KEY")
	v.BindEnv("generator.api_key", "GEMINI_API_KEY")
	v.BindEnv("database.url", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// auth.enabled は未設定なら有効にする
	if !v.IsSet("auth.enabled") {
		log.Println("Auth enabled flag not set, defaulting to true (enabled)")
		cfg.Auth.Enabled = true
	}
	ApplyDefaults(&cfg)
	Cfg = cfg

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Database Driver: %s", Cfg.Database.Driver)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)
	log.Printf("Generator Configured: %t", Cfg.Generator.APIKey != "")

	return nil
}

// ApplyDefaults は未設定の項目にデフォルト値を入れます
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDatabaseDriver
	}
	if cfg.Database.URL == "" && cfg.Database.Driver == DefaultDatabaseDriver {
		cfg.Database.URL = DefaultSQLiteURL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Auth.SecretKey == "" {
		log.Println("Warning: auth.secret_key not set, using insecure default")
		cfg.Auth.SecretKey = DefaultSecretKey
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = DefaultTokenTTL
	}
	if cfg.Generator.URL == "" {
		cfg.Generator.URL = DefaultGeneratorURL
	}
	if cfg.Generator.Timeout <= 0 {
		cfg.Generator.Timeout = DefaultGeneratorTimeout
	}
	if cfg.Quiz.MaxPromptAttempts <= 0 {
		cfg.Quiz.MaxPromptAttempts = DefaultMaxPromptAttempts
	}
	if cfg.Quiz.PromptTTL <= 0 {
		cfg.Quiz.PromptTTL = DefaultPromptTTL
	}
}
