package conf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 配置加载（监听地址、数据库、行情数据源等）

type AuthConfig struct {
	Password  string `yaml:"password"`  // 单用户共享口令
	JwtSecret string `yaml:"jwtsecret"` // jwt签名密钥
	JwtTtl    int64  `yaml:"ttl"`       // token 有效期（秒）
}

type DatabaseConfig struct {
	Path         string  `yaml:"path"`          // sqlite数据库文件路径
	StartingCash float64 `yaml:"starting-cash"` // 初始虚拟资金
}

type MarketConfig struct {
	BaseURL     string `yaml:"base-url"`     // 行情数据源地址
	TimeoutSec  int    `yaml:"timeout-sec"`  // 单次请求超时（秒）
	QuoteTTLMin int    `yaml:"quote-ttl"`    // 实时报价缓存时间（分钟）
	HistoryTTLH int    `yaml:"history-ttl"`  // 历史K线缓存时间（小时）
	SymbolsURL  string `yaml:"symbols-url"`  // NSE证券列表下载地址
	SymbolsFile string `yaml:"symbols-file"` // 证券列表本地文件路径
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"`
	Language     string `yaml:"language"`
	MaxPingCount int    `yaml:"max-ping-count"`

	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Market   MarketConfig   `yaml:"market"`
	Log      LogConfig      `yaml:"log"`
}

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	AppConfig.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8090"
	}
	if c.MaxPingCount == 0 {
		c.MaxPingCount = 10
	}
	if c.Database.Path == "" {
		c.Database.Path = "trading.db"
	}
	if c.Database.StartingCash == 0 {
		c.Database.StartingCash = 500000
	}
	if c.Market.QuoteTTLMin == 0 {
		c.Market.QuoteTTLMin = 30
	}
	if c.Market.HistoryTTLH == 0 {
		c.Market.HistoryTTLH = 24
	}
	if c.Market.TimeoutSec == 0 {
		c.Market.TimeoutSec = 10
	}
}

// QuoteTTL 报价缓存有效期
func (c MarketConfig) QuoteTTL() time.Duration {
	return time.Duration(c.QuoteTTLMin) * time.Minute
}

// HistoryTTL 历史数据缓存有效期
func (c MarketConfig) HistoryTTL() time.Duration {
	return time.Duration(c.HistoryTTLH) * time.Hour
}

// Timeout 数据源单次请求超时
func (c MarketConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
