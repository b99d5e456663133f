package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
)

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config application configuration
type Config struct {
	PriceTable    string
	SeasonTable   string
	TableEncoding string
	AliasesFile   string

	TelegramToken          string
	LineChannelSecret      string
	LineChannelAccessToken string
	HTTPAddr               string
	AllowEmptySecrets      bool

	SessionStore string
	RedisURL     string
	SessionTTL   time.Duration

	LogLevel  string
	LogFormat string

	GroupItemCap     int
	ReplyChunkLimit  int
	SeasonMonthExact bool
	UserRateLimit    float64
	WorkerCount      int
	RequestTimeout   time.Duration

	UnavailablePhrases []string
}

// TelegramEnabled a token is set and not "disabled"
func (c *Config) TelegramEnabled() bool {
	return !isEmptyOrDisabled(c.TelegramToken)
}

// LineEnabled both LINE credentials are set
func (c *Config) LineEnabled() bool {
	return !isEmptyOrDisabled(c.LineChannelSecret) && !isEmptyOrDisabled(c.LineChannelAccessToken)
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	return load(false)
}

// LoadForCLI same as Load without requiring transport credentials
func LoadForCLI() (*Config, error) {
	return load(true)
}

func load(local bool) (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		PriceTable:             getEnv("PRICE_TABLE", "水果產品日交易行情.csv"),
		SeasonTable:            getEnv("SEASON_TABLE", "農產品產季.csv"),
		TableEncoding:          getEnv("TABLE_ENCODING", "utf-8"),
		AliasesFile:            strings.TrimSpace(os.Getenv("ALIASES_FILE")),
		TelegramToken:          strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		LineChannelSecret:      strings.TrimSpace(os.Getenv("LINE_CHANNEL_SECRET")),
		LineChannelAccessToken: strings.TrimSpace(os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")),
		HTTPAddr:               getEnv("HTTP_ADDR", ":5000"),
		AllowEmptySecrets:      getEnvBool("ALLOW_EMPTY_SECRETS", false),
		SessionStore:           strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		RedisURL:               getEnv("REDIS_URL", "redis://localhost:6379/0"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
		SeasonMonthExact:       getEnvBool("SEASON_MONTH_EXACT", false),
		UnavailablePhrases:     getEnvList("UNAVAILABLE_PHRASES", constants.UnavailableTriggerPhrases),
	}

	var err error
	if config.GroupItemCap, err = getEnvInt("GROUP_ITEM_CAP", constants.DefaultGroupItemCap); err != nil {
		return nil, err
	}
	if config.ReplyChunkLimit, err = getEnvInt("REPLY_CHUNK_LIMIT", constants.DefaultReplyChunkLimit); err != nil {
		return nil, err
	}
	if config.WorkerCount, err = getEnvInt("WORKER_COUNT", 8); err != nil {
		return nil, err
	}
	if config.UserRateLimit, err = getEnvFloat("USER_RATE_LIMIT", 3); err != nil {
		return nil, err
	}
	if config.SessionTTL, err = getEnvDuration("SESSION_TTL", 0); err != nil {
		return nil, err
	}
	if config.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if local {
		config.AllowEmptySecrets = true
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges and that at least one transport is configured
func (c *Config) Validate() error {
	if c.ReplyChunkLimit <= 0 || c.ReplyChunkLimit > constants.TelegramMaxMessageLength {
		return fmt.Errorf("REPLY_CHUNK_LIMIT must be between 1 and %d, got %d", constants.TelegramMaxMessageLength, c.ReplyChunkLimit)
	}
	if c.GroupItemCap < 0 {
		return fmt.Errorf("GROUP_ITEM_CAP must not be negative, got %d", c.GroupItemCap)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.UserRateLimit < 0 {
		return fmt.Errorf("USER_RATE_LIMIT must not be negative, got %v", c.UserRateLimit)
	}
	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is empty while SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreRedis, c.SessionStore)
	}

	if !c.AllowEmptySecrets {
		if !c.TelegramEnabled() && !c.LineEnabled() {
			return fmt.Errorf("neither TELEGRAM_BOT_TOKEN nor LINE_CHANNEL_SECRET/LINE_CHANNEL_ACCESS_TOKEN is set")
		}
		if (c.LineChannelSecret == "") != (c.LineChannelAccessToken == "") {
			return fmt.Errorf("LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN must be set together")
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s is not a number: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a duration: %w", key, err)
	}
	return d, nil
}

// getEnvList comma separated values; "-" clears the list
func getEnvList(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if value == "-" {
		return []string{}
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isEmptyOrDisabled(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	return strings.EqualFold(value, "disabled")
}
