package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Company maps a catalog entry to its historical price source.
// Source is a file name relative to Forecast.DataDir, an absolute path,
// or "clickhouse:<SYMBOL>" for rows stored in ClickHouse.
type Company struct {
	Choice int    `yaml:"choice"`
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		SlowThreshold   time.Duration `yaml:"slow_threshold"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		// Token bucket per client IP for forecast endpoints. Burst 0 disables it.
		ForecastBurst     float64 `yaml:"forecast_burst"`
		ForecastPerSecond float64 `yaml:"forecast_per_second"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Forecast struct {
		DataDir    string    `yaml:"data_dir"`
		TrainRatio float64   `yaml:"train_ratio"`
		Companies  []Company `yaml:"companies"`
	} `yaml:"forecast"`
	Cache struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled       bool     `yaml:"enabled"`
		Brokers       []string `yaml:"brokers"`
		ResultsTopic  string   `yaml:"results_topic"`
		RequestsTopic string   `yaml:"requests_topic"`
		RequiredAcks  int      `yaml:"required_acks"`
		Compression   string   `yaml:"compression"`
		Producer      struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		Table        string        `yaml:"table"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Scheduler struct {
		Enabled bool   `yaml:"enabled"`
		Spec    string `yaml:"spec"`
	} `yaml:"scheduler"`
}

// DefaultCompanies is the catalog used when the config file lists none.
func DefaultCompanies() []Company {
	return []Company{
		{Choice: 1, Symbol: "TSLA", Name: "Tesla", Source: "TSLA.csv"},
		{Choice: 2, Symbol: "AMZN", Name: "Amazon", Source: "Amazon.csv"},
		{Choice: 3, Symbol: "GOOGL", Name: "Google", Source: "GOOGL.csv"},
		{Choice: 4, Symbol: "META", Name: "Facebook", Source: "Facebook.xls"},
		{Choice: 5, Symbol: "NFLX", Name: "Netflix", Source: "Netflix.xls"},
		{Choice: 6, Symbol: "AAPL", Name: "Apple", Source: "Apple.xls"},
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, applies defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("STOCKPULSE_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Forecast.DataDir = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Forecast.TrainRatio == 0 {
		c.Forecast.TrainRatio = 0.8
	}
	if len(c.Forecast.Companies) == 0 {
		c.Forecast.Companies = DefaultCompanies()
	}
	for i := range c.Forecast.Companies {
		if c.Forecast.Companies[i].Choice == 0 {
			c.Forecast.Companies[i].Choice = i + 1
		}
		c.Forecast.Companies[i].Symbol = strings.ToUpper(c.Forecast.Companies[i].Symbol)
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 30 * time.Second
	}
	if c.Kafka.ResultsTopic == "" {
		c.Kafka.ResultsTopic = "stockpulse.forecast.results"
	}
	if c.Kafka.RequestsTopic == "" {
		c.Kafka.RequestsTopic = "stockpulse.forecast.requests"
	}
	if c.Kafka.RequiredAcks == 0 {
		c.Kafka.RequiredAcks = -1
	}
	if c.Kafka.Consumer.GroupID == "" {
		c.Kafka.Consumer.GroupID = "stockpulse-forecast"
	}
	if c.ClickHouse.Table == "" {
		c.ClickHouse.Table = "daily_bars"
	}
	if c.Scheduler.Spec == "" {
		c.Scheduler.Spec = "0 30 18 * * 1-5"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Forecast.TrainRatio <= 0 || c.Forecast.TrainRatio >= 1 {
		return fmt.Errorf("forecast.train_ratio must be in (0,1), got %v", c.Forecast.TrainRatio)
	}

	choices := make(map[int]struct{}, len(c.Forecast.Companies))
	symbols := make(map[string]struct{}, len(c.Forecast.Companies))
	needsDir := false
	for i, co := range c.Forecast.Companies {
		if co.Symbol == "" || co.Name == "" || co.Source == "" {
			return fmt.Errorf("forecast.companies[%d]: symbol, name and source are required", i)
		}
		if _, dup := choices[co.Choice]; dup {
			return fmt.Errorf("forecast.companies[%d]: duplicate choice %d", i, co.Choice)
		}
		choices[co.Choice] = struct{}{}
		if _, dup := symbols[co.Symbol]; dup {
			return fmt.Errorf("forecast.companies[%d]: duplicate symbol %s", i, co.Symbol)
		}
		symbols[co.Symbol] = struct{}{}
		if !strings.HasPrefix(co.Source, "clickhouse:") {
			needsDir = true
		}
		if strings.HasPrefix(co.Source, "clickhouse:") && !c.ClickHouse.Enabled {
			return fmt.Errorf("forecast.companies[%d]: clickhouse source requires clickhouse.enabled", i)
		}
	}
	if needsDir && c.Forecast.DataDir == "" {
		return fmt.Errorf("forecast.data_dir is required for file sources")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when redis is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
