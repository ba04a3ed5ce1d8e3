package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration grouped the same way as config/config.yaml.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	App      AppSection      `koanf:"app"`
	Database DatabaseSection `koanf:"database"`
	Redis    RedisSection    `koanf:"redis"`
	Log      LogSection      `koanf:"log"`
	Gin      GinSection      `koanf:"gin"`
	Ranking  RankingSection  `koanf:"ranking"`
}

type AppSection struct {
	Port               string   `koanf:"port"`
	JWTSecret          string   `koanf:"jwt_secret"`
	TokenTTLHours      int      `koanf:"token_ttl_hours"`
	RateLimitPerMinute int      `koanf:"rate_limit_per_minute"`
	AllowedOrigins     []string `koanf:"allowed_origins"`
	AdminUsernames     []string `koanf:"admin_usernames"`
	SessionTTLHours    int      `koanf:"session_ttl_hours"`
	PasswordCost       int      `koanf:"password_cost"` // bcrypt cost
}

type DatabaseSection struct {
	Driver   string `koanf:"driver"` // mysql, postgres, sqlite
	URI      string `koanf:"uri"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
}

type RedisSection struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	DB       int    `koanf:"db"`
	Password string `koanf:"password"`
}

type LogSection struct {
	Level      string `koanf:"level"`
	Path       string `koanf:"path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

type GinSection struct {
	Mode    string `koanf:"mode"`
	LogPath string `koanf:"log_path"`
}

// RankingSection tunes list sizes and the trending cache.
type RankingSection struct {
	PageSize            int `koanf:"page_size"`
	MaxPageSize         int `koanf:"max_page_size"`
	TrendingLimit       int `koanf:"trending_limit"`
	TrendingCacheTTLSec int `koanf:"trending_cache_ttl_sec"`
}

// envKeys maps the supported environment variables onto config keys.
var envKeys = map[string]string{
	"APP_PORT":               "app.port",
	"JWT_SECRET":             "app.jwt_secret",
	"TOKEN_TTL_HOURS":        "app.token_ttl_hours",
	"RATE_LIMIT_PER_MINUTE":  "app.rate_limit_per_minute",
	"CORS_ALLOWED_ORIGINS":   "app.allowed_origins",
	"ADMIN_USERNAMES":        "app.admin_usernames",
	"SESSION_TTL_HOURS":      "app.session_ttl_hours",
	"PASSWORD_COST":          "app.password_cost",
	"DB_DRIVER":              "database.driver",
	"DATABASE_URI":           "database.uri",
	"DB_HOST":                "database.host",
	"DB_PORT":                "database.port",
	"DB_USER":                "database.user",
	"DB_PASSWORD":            "database.password",
	"DB_NAME":                "database.name",
	"REDIS_HOST":             "redis.host",
	"REDIS_PORT":             "redis.port",
	"REDIS_DB":               "redis.db",
	"REDIS_PASSWORD":         "redis.password",
	"LOG_LEVEL":              "log.level",
	"LOG_PATH":               "log.path",
	"LOG_MAX_SIZE_MB":        "log.max_size_mb",
	"LOG_MAX_BACKUPS":        "log.max_backups",
	"LOG_MAX_AGE_DAYS":       "log.max_age_days",
	"LOG_COMPRESS":           "log.compress",
	"GIN_MODE":               "gin.mode",
	"GIN_LOG_PATH":           "gin.log_path",
	"PAGE_SIZE":              "ranking.page_size",
	"MAX_PAGE_SIZE":          "ranking.max_page_size",
	"TRENDING_LIMIT":         "ranking.trending_limit",
	"TRENDING_CACHE_TTL_SEC": "ranking.trending_cache_ttl_sec",
}

var listKeys = map[string]bool{
	"app.allowed_origins": true,
	"app.admin_usernames": true,
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}

	c, err := Parse(filepath.Join("config", "config.yaml"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if c.App.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.Lock()
	ok := loaded
	mu.Unlock()
	if !ok {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Intended for tests and embedding.
func Set(c AppConfig) {
	mu.Lock()
	defer mu.Unlock()
	applyDefaults(&c)
	cfg = c
	loaded = true
}

// Parse builds a configuration from the yaml file at path (optional), a .env file
// (optional) and the environment, in that order of precedence, then fills defaults.
func Parse(path string) (AppConfig, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return AppConfig{}, err
		}
	}

	// .env is optional; real environment variables still win over it
	_ = godotenv.Load()

	if err := k.Load(env.ProviderWithValue("", ".", mapEnv), nil); err != nil {
		return AppConfig{}, err
	}

	var out AppConfig
	if err := k.Unmarshal("", &out); err != nil {
		return AppConfig{}, err
	}
	applyDefaults(&out)
	return out, nil
}

func mapEnv(key, value string) (string, interface{}) {
	target, ok := envKeys[key]
	if !ok || value == "" {
		return "", nil
	}
	if listKeys[target] {
		return target, splitAndTrim(value)
	}
	return target, value
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.App.Port == "" {
		c.App.Port = "8080"
	}
	if c.App.TokenTTLHours == 0 {
		c.App.TokenTTLHours = 72
	}
	if c.App.RateLimitPerMinute == 0 {
		c.App.RateLimitPerMinute = 60
	}
	if len(c.App.AllowedOrigins) == 0 {
		c.App.AllowedOrigins = []string{"*"}
	}
	if c.App.SessionTTLHours == 0 {
		c.App.SessionTTLHours = 24 * 30
	}
	if c.App.PasswordCost == 0 {
		c.App.PasswordCost = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == "" {
		switch c.Database.Driver {
		case "postgres":
			c.Database.Port = "5432"
		default:
			c.Database.Port = "3306"
		}
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Name == "" {
		c.Database.Name = "hasker"
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "127.0.0.1"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 7
	}
	if c.Gin.Mode == "" {
		c.Gin.Mode = "release"
	}
	if c.Gin.LogPath == "" {
		c.Gin.LogPath = "logs/go_gin.log"
	}
	if c.Ranking.PageSize == 0 {
		c.Ranking.PageSize = 20
	}
	if c.Ranking.MaxPageSize == 0 {
		c.Ranking.MaxPageSize = 100
	}
	if c.Ranking.TrendingLimit == 0 {
		c.Ranking.TrendingLimit = 20
	}
	if c.Ranking.TrendingCacheTTLSec == 0 {
		c.Ranking.TrendingCacheTTLSec = 60
	}
}

// IsAdmin reports whether username is listed in app.admin_usernames.
func (c AppConfig) IsAdmin(username string) bool {
	if username == "" {
		return false
	}
	for _, u := range c.App.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), username) {
			return true
		}
	}
	return false
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
