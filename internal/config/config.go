package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port               string
	Origin             string
	Environment        string
	JWTSecret          string
	JWTExpirationHours int
	Database           DatabaseConfig
	LLM                LLMConfig
	Scoring            ScoringConfig
	Advice             AdviceConfig
	Redis              RedisConfig
	HistorySaveTimeout time.Duration
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Path     string
	DSN      string
}

// LLMConfig selects and configures the language-understanding collaborator.
type LLMConfig struct {
	Provider      string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	Timeout       time.Duration
}

// ScoringConfig selects the prediction scoring strategy.
type ScoringConfig struct {
	Strategy       string
	Command        string
	Script         string
	ServiceURL     string
	Timeout        time.Duration
	MaxPredictions int
}

// AdviceConfig controls advice generation fan-out and caching.
type AdviceConfig struct {
	Workers  int
	CacheTTL time.Duration
}

// RedisConfig holds the optional advice cache connection.
type RedisConfig struct {
	URL string
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"

	StrategyRules   = "rules"
	StrategyProcess = "process"
	StrategyHTTP    = "http"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		Host:     getEnv("DB_HOST", "localhost"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "sympcheck"),
		Path:     getEnv("DB_PATH", "data/sympcheck.db"),
	}

	switch dbConfig.Driver {
	case DriverMySQL:
		dbConfig.Port = getEnv("DB_PORT", "3306")
		dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)
	case DriverPostgres:
		dbConfig.Port = getEnv("DB_PORT", "5432")
		dbConfig.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			dbConfig.Host, dbConfig.Port, dbConfig.Username, dbConfig.Password, dbConfig.Name, getEnv("DB_SSLMODE", "disable"))
	case DriverSQLite:
		dbConfig.DSN = dbConfig.Path
	}

	jwtExpHours, err := getEnvInt("JWT_EXPIRATION_HOURS", 168) // 7 days
	if err != nil {
		return nil, err
	}
	llmTimeout, err := getEnvInt("LLM_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	scoringTimeout, err := getEnvInt("SCORING_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	maxPredictions, err := getEnvInt("SCORING_MAX_PREDICTIONS", 5)
	if err != nil {
		return nil, err
	}
	adviceWorkers, err := getEnvInt("ADVICE_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	adviceCacheTTL, err := getEnvInt("ADVICE_CACHE_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	historySaveTimeout, err := getEnvInt("HISTORY_SAVE_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		Origin:             getEnv("ORIGIN", "http://localhost:3000"),
		Environment:        getEnv("APP_ENV", "development"),
		JWTSecret:          getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationHours: jwtExpHours,
		Database:           dbConfig,
		LLM: LLMConfig{
			Provider:      strings.ToLower(getEnv("LLM_PROVIDER", ProviderNone)),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:       time.Duration(llmTimeout) * time.Second,
		},
		Scoring: ScoringConfig{
			Strategy:       strings.ToLower(getEnv("SCORING_STRATEGY", StrategyRules)),
			Command:        getEnv("SCORING_COMMAND", "python"),
			Script:         getEnv("SCORING_SCRIPT", ""),
			ServiceURL:     getEnv("SCORING_URL", ""),
			Timeout:        time.Duration(scoringTimeout) * time.Second,
			MaxPredictions: maxPredictions,
		},
		Advice: AdviceConfig{
			Workers:  adviceWorkers,
			CacheTTL: time.Duration(adviceCacheTTL) * time.Minute,
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		HistorySaveTimeout: time.Duration(historySaveTimeout) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown component names and settings missing for the chosen components.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case ProviderNone:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.Scoring.Strategy {
	case StrategyRules:
	case StrategyProcess:
		if c.Scoring.Command == "" {
			return fmt.Errorf("SCORING_COMMAND is required when SCORING_STRATEGY=process")
		}
	case StrategyHTTP:
		if c.Scoring.ServiceURL == "" {
			return fmt.Errorf("SCORING_URL is required when SCORING_STRATEGY=http")
		}
	default:
		return fmt.Errorf("unsupported SCORING_STRATEGY %q", c.Scoring.Strategy)
	}

	if c.Advice.Workers < 1 {
		return fmt.Errorf("ADVICE_WORKERS must be at least 1")
	}
	if c.JWTExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
