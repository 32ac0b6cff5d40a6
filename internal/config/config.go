// Package config loads service settings from the environment, optionally seeded from a
// .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ri4re/linebot/internal/domain"
	"github.com/ri4re/linebot/internal/parser"
)

type Config struct {
	Port     string
	LogLevel string

	Notion NotionConfig
	Line   LineConfig
	Redis  RedisConfig
	Rabbit RabbitConfig
	MySQL  MySQLConfig

	Fields    domain.FieldMap
	Logistics LogisticsConfig
	Parser    parser.Options
}

type NotionConfig struct {
	APIKey     string
	DatabaseID string
	BaseURL    string
	Version    string
	Timeout    time.Duration
}

type LineConfig struct {
	ChannelAccessToken string
	ChannelSecret      string
}

type RedisConfig struct {
	Host string
	Port string
	TTL  time.Duration
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c RedisConfig) Addr() string { return c.Host + ":" + c.Port }

type RabbitConfig struct {
	URL      string
	Exchange string
}

func (c RabbitConfig) Enabled() bool { return c.URL != "" }

type MySQLConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

func (c MySQLConfig) Enabled() bool { return c.Host != "" }

func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// LogisticsConfig names the labels with special meaning. Initial is written on create,
// Arrived gates ready-to-close, Closed is excluded from the status summary.
type LogisticsConfig struct {
	Initial string
	Arrived string
	Closed  string
}

// Load reads .env when present, then the process environment. Variables already set in
// the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:     get("PORT", "8080"),
		LogLevel: get("LOG_LEVEL", "info"),
		Notion: NotionConfig{
			APIKey:     get("NOTION_API_KEY", ""),
			DatabaseID: get("NOTION_DATABASE_ID", ""),
			BaseURL:    get("NOTION_BASE_URL", "https://api.notion.com/v1"),
			Version:    get("NOTION_VERSION", "2022-06-28"),
		},
		Line: LineConfig{
			ChannelAccessToken: get("LINE_CHANNEL_ACCESS_TOKEN", ""),
			ChannelSecret:      get("LINE_CHANNEL_SECRET", ""),
		},
		Redis: RedisConfig{
			Host: get("REDIS_HOST", ""),
			Port: get("REDIS_PORT", "6379"),
		},
		Rabbit: RabbitConfig{
			URL:      get("RABBITMQ_URL", ""),
			Exchange: get("RABBITMQ_EXCHANGE", "order.exchange"),
		},
		MySQL: MySQLConfig{
			Host:     get("MYSQL_HOST", ""),
			Port:     get("MYSQL_PORT", "3306"),
			User:     get("MYSQL_USER", ""),
			Password: get("MYSQL_PASSWORD", ""),
			Database: get("MYSQL_DATABASE", ""),
		},
	}

	var err error
	if cfg.Notion.Timeout, err = time.ParseDuration(get("NOTION_TIMEOUT", "0s")); err != nil {
		return nil, fmt.Errorf("config: NOTION_TIMEOUT: %w", err)
	}
	if cfg.Redis.TTL, err = time.ParseDuration(get("SHORT_ID_CACHE_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("config: SHORT_ID_CACHE_TTL: %w", err)
	}

	cfg.Fields, err = domain.DefaultFieldMap().WithOverrides(get("NOTION_FIELD_OVERRIDES", ""))
	if err != nil {
		return nil, fmt.Errorf("config: NOTION_FIELD_OVERRIDES: %w", err)
	}

	opts := parser.DefaultOptions()
	if v := get("LOGISTICS_STATUSES", ""); v != "" {
		opts.LogisticsStatuses = splitList(v)
	}
	if v := get("QUICK_PRODUCTS", ""); v != "" {
		if opts.QuickProducts, err = parsePairs(v); err != nil {
			return nil, fmt.Errorf("config: QUICK_PRODUCTS: %w", err)
		}
	}
	opts.QuickCustomer = get("QUICK_CUSTOMER", opts.QuickCustomer)
	cfg.Parser = opts

	cfg.Logistics = LogisticsConfig{
		Initial: get("LOGISTICS_INITIAL", "未處理"),
		Arrived: get("LOGISTICS_ARRIVED", "已到貨"),
		Closed:  get("LOGISTICS_CLOSED", "結單"),
	}

	return cfg, nil
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.Notion.APIKey == "" {
		missing = append(missing, "NOTION_API_KEY")
	}
	if c.Notion.DatabaseID == "" {
		missing = append(missing, "NOTION_DATABASE_ID")
	}
	if c.Line.ChannelAccessToken == "" {
		missing = append(missing, "LINE_CHANNEL_ACCESS_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePairs reads "keyword=product,keyword=product".
func parsePairs(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range splitList(s) {
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("bad pair %q, want keyword=product", pair)
		}
		out[k] = v
	}
	return out, nil
}
