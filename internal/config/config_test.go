package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ri4re/linebot/internal/domain"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.notion.com/v1", cfg.Notion.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Rabbit.Enabled())
	assert.False(t, cfg.MySQL.Enabled())
	assert.Equal(t, "客人名稱", cfg.Fields.Property(domain.FieldCustomer))
	assert.Equal(t, "未處理", cfg.Logistics.Initial)
	assert.Equal(t, "已到貨", cfg.Logistics.Arrived)
	assert.Equal(t, "結單", cfg.Logistics.Closed)
	assert.Equal(t, "代購商品", cfg.Parser.QuickProducts["代購"])
	assert.Equal(t, "店長", cfg.Parser.QuickCustomer)

	assert.EqualError(t, cfg.Validate(), "config: missing NOTION_API_KEY, NOTION_DATABASE_ID, LINE_CHANNEL_ACCESS_TOKEN")
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"PORT":                      "9000",
		"NOTION_API_KEY":            "secret",
		"NOTION_DATABASE_ID":        "db",
		"LINE_CHANNEL_ACCESS_TOKEN": "line",
		"NOTION_FIELD_OVERRIDES":    "customer=客人, amount=總額",
		"LOGISTICS_STATUSES":        "待處理, 已寄出 ,",
		"QUICK_PRODUCTS":            "代購=代購服務",
		"QUICK_CUSTOMER":            "老闆",
		"REDIS_HOST":                "cache",
		"SHORT_ID_CACHE_TTL":        "5m",
		"MYSQL_HOST":                "db",
		"MYSQL_USER":                "u",
		"MYSQL_PASSWORD":            "p",
		"MYSQL_DATABASE":            "bot",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "客人", cfg.Fields.Property(domain.FieldCustomer))
	assert.Equal(t, "總額", cfg.Fields.Property(domain.FieldAmount))
	assert.Equal(t, []string{"待處理", "已寄出"}, cfg.Parser.LogisticsStatuses)
	assert.Equal(t, map[string]string{"代購": "代購服務"}, cfg.Parser.QuickProducts)
	assert.Equal(t, "老闆", cfg.Parser.QuickCustomer)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "u:p@tcp(db:3306)/bot?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQL.DSN())
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad ttl", env: map[string]string{"SHORT_ID_CACHE_TTL": "soon"}},
		{name: "bad timeout", env: map[string]string{"NOTION_TIMEOUT": "x"}},
		{name: "unknown field", env: map[string]string{"NOTION_FIELD_OVERRIDES": "colour=顏色"}},
		{name: "bad quick pair", env: map[string]string{"QUICK_PRODUCTS": "代購"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			assert.Error(t, err)
		})
	}
}
