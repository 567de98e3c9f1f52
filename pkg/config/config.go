package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	RecordStore RecordStoreConfig
	AI          AIConfig
	Scan        ScanConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.RecordStore.validate(); err != nil {
		return nil, err
	}
	if err := cfg.AI.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MARKETDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"MARKETDESK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MARKETDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MARKETDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RecordStoreConfig points at the external record storage REST API.
type RecordStoreConfig struct {
	BaseURL           string        `envconfig:"MARKETDESK_RECORDSTORE_BASE_URL" default:"https://my.living-apps.de/rest"`
	Timeout           time.Duration `envconfig:"MARKETDESK_RECORDSTORE_TIMEOUT" default:"15s"`
	CategoriesAppID   string        `envconfig:"MARKETDESK_APP_ID_CATEGORIES" default:"699f4a00aec743a67b58a7ce"`
	SellersAppID      string        `envconfig:"MARKETDESK_APP_ID_SELLERS" default:"699f4a06f429752b6030c846"`
	ProductsAppID     string        `envconfig:"MARKETDESK_APP_ID_PRODUCTS" default:"699f4a0798760968fa3378a6"`
	OrdersAppID       string        `envconfig:"MARKETDESK_APP_ID_ORDERS" default:"699f4a083f72e014fbc6f8ea"`
	SessionCookieName string        `envconfig:"MARKETDESK_RECORDSTORE_SESSION_COOKIE" default:""`
}

func (r RecordStoreConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(r.BaseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute url", EnvRecordStoreBaseURL)
	}
	ids := map[string]string{
		EnvAppIDCategories: r.CategoriesAppID,
		EnvAppIDSellers:    r.SellersAppID,
		EnvAppIDProducts:   r.ProductsAppID,
		EnvAppIDOrders:     r.OrdersAppID,
	}
	missing := []string{}
	for _, key := range appIDEnvVars {
		if strings.TrimSpace(ids[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing app ids: %s", strings.Join(missing, ", "))
	}
	return nil
}

// AIConfig configures the chat-completion endpoint.
type AIConfig struct {
	Endpoint      string        `envconfig:"MARKETDESK_AI_ENDPOINT" default:"https://my.living-apps.de/litellm/v1/chat/completions"`
	Model         string        `envconfig:"MARKETDESK_AI_MODEL" default:"default"`
	APIKey        string        `envconfig:"MARKETDESK_AI_API_KEY"`
	Timeout       time.Duration `envconfig:"MARKETDESK_AI_TIMEOUT" default:"90s"`
	ChatAttempts  int           `envconfig:"MARKETDESK_AI_CHAT_ATTEMPTS" default:"1"`
	RetryBackoff  time.Duration `envconfig:"MARKETDESK_AI_RETRY_BACKOFF" default:"1s"`
	ChatMaxTokens int           `envconfig:"MARKETDESK_AI_CHAT_MAX_TOKENS" default:"0"`
}

func (a AIConfig) validate() error {
	if strings.TrimSpace(a.Endpoint) == "" {
		return fmt.Errorf("%s is required", EnvAIEndpoint)
	}
	if a.ChatAttempts < 1 {
		return fmt.Errorf("%s must be at least 1", EnvAIChatAttempts)
	}
	return nil
}

// ScanConfig controls the photo-scan pipeline.
type ScanConfig struct {
	Entities       []string      `envconfig:"MARKETDESK_SCAN_ENTITIES" default:"categories,sellers,products,orders"`
	SuccessDisplay time.Duration `envconfig:"MARKETDESK_SCAN_SUCCESS_DISPLAY" default:"3s"`
	ScanningTTL    time.Duration `envconfig:"MARKETDESK_SCAN_SCANNING_TTL" default:"5m"`
	FailureTTL     time.Duration `envconfig:"MARKETDESK_SCAN_FAILURE_TTL" default:"1m"`
	MaxUploadMB    int           `envconfig:"MARKETDESK_SCAN_MAX_UPLOAD_MB" default:"20"`
}

// Enabled reports whether photo scanning is switched on for the entity.
func (s ScanConfig) Enabled(entity string) bool {
	for _, candidate := range s.Entities {
		if strings.EqualFold(strings.TrimSpace(candidate), entity) {
			return true
		}
	}
	return false
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (s ScanConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(s.MaxUploadMB) << 20
}

// RedisConfig is optional; an empty URL and address keeps scan phases in memory.
type RedisConfig struct {
	URL          string        `envconfig:"MARKETDESK_REDIS_URL"`
	Address      string        `envconfig:"MARKETDESK_REDIS_ADDR"`
	Password     string        `envconfig:"MARKETDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"MARKETDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MARKETDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARKETDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARKETDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARKETDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MARKETDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Configured() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// RateLimitConfig throttles the AI-backed endpoints per client IP.
type RateLimitConfig struct {
	AIWindow  time.Duration `envconfig:"MARKETDESK_RATE_LIMIT_AI_WINDOW" default:"1m"`
	AIIPLimit int           `envconfig:"MARKETDESK_RATE_LIMIT_AI_IP_LIMIT" default:"30"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MARKETDESK_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}
