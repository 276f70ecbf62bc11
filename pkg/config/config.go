package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Sector struct {
	Key          string   `yaml:"key"`
	Proxy        string   `yaml:"proxy"`
	Constituents []string `yaml:"constituents"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Cache struct {
		SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
		RankingTTL  time.Duration `yaml:"ranking_ttl"`
		YieldTTL    time.Duration `yaml:"yield_ttl"`
		NewsTTL     time.Duration `yaml:"news_ttl"`
		DegradedTTL time.Duration `yaml:"degraded_ttl"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	KRX struct {
		AuthKey      string `yaml:"auth_key"`
		BaseURL      string `yaml:"base_url"`
		LookbackDays int    `yaml:"lookback_days"`
		FundFirst    *bool  `yaml:"fund_first"`
	} `yaml:"krx"`
	Finnhub struct {
		APIKey      string `yaml:"api_key"`
		BaseURL     string `yaml:"base_url"`
		CallsPerMin int    `yaml:"calls_per_min"`
	} `yaml:"finnhub"`
	Treasury struct {
		APIKey      string        `yaml:"api_key"`
		BaseURL     string        `yaml:"base_url"`
		Tenors      []string      `yaml:"tenors"`
		MinInterval time.Duration `yaml:"min_interval"`
	} `yaml:"treasury"`
	News struct {
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
		Category string `yaml:"category"`
	} `yaml:"news"`
	Sentiment struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"sentiment"`
	Narrative struct {
		APIKey  string        `yaml:"api_key"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"narrative"`
	Ranking struct {
		TopN         int           `yaml:"top_n"`
		PerSector    int           `yaml:"per_sector"`
		Sectors      []Sector      `yaml:"sectors"`
		WarmEnabled  bool          `yaml:"warm_enabled"`
		WarmInterval time.Duration `yaml:"warm_interval"`
	} `yaml:"ranking"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

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

	if v := os.Getenv("KRX_AUTH_KEY"); v != "" {
		c.KRX.AuthKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("TREASURY_API_KEY"); v != "" {
		c.Treasury.APIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("SENTIMENT_API_KEY"); v != "" {
		c.Sentiment.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Narrative.APIKey = v
	}
	if v := os.Getenv("TREASURY_TENORS"); v != "" {
		c.Treasury.Tenors = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Cache.SnapshotTTL == 0 {
		c.Cache.SnapshotTTL = time.Minute
	}
	if c.Cache.RankingTTL == 0 {
		c.Cache.RankingTTL = 10 * time.Minute
	}
	if c.Cache.YieldTTL == 0 {
		c.Cache.YieldTTL = 30 * time.Minute
	}
	if c.Cache.NewsTTL == 0 {
		c.Cache.NewsTTL = 5 * time.Minute
	}
	if c.Cache.DegradedTTL == 0 {
		c.Cache.DegradedTTL = time.Minute
	}
	if c.KRX.LookbackDays == 0 {
		c.KRX.LookbackDays = 14
	}
	if c.Finnhub.CallsPerMin == 0 {
		c.Finnhub.CallsPerMin = 60
	}
	if c.Treasury.MinInterval == 0 {
		// free tier allows ~5 calls/min; 13s keeps sequential calls under it
		c.Treasury.MinInterval = 13 * time.Second
	}
	if len(c.Treasury.Tenors) == 0 {
		c.Treasury.Tenors = []string{"3month", "2year", "10year"}
	}
	if c.News.Category == "" {
		c.News.Category = "business"
	}
	if c.Narrative.Model == "" {
		c.Narrative.Model = "gemini-2.5-flash"
	}
	if c.Narrative.Timeout == 0 {
		c.Narrative.Timeout = 8 * time.Second
	}
	if c.Ranking.TopN == 0 {
		c.Ranking.TopN = 3
	}
	if c.Ranking.PerSector == 0 {
		c.Ranking.PerSector = 2
	}
	if len(c.Ranking.Sectors) == 0 {
		c.Ranking.Sectors = DefaultSectors()
	}
	if c.Ranking.WarmInterval == 0 {
		c.Ranking.WarmInterval = 8 * time.Minute
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.KRX.LookbackDays < 1 {
		return fmt.Errorf("krx.lookback_days must be positive")
	}
	if c.Ranking.TopN < 1 || c.Ranking.TopN > len(c.Ranking.Sectors) {
		return fmt.Errorf("ranking.top_n must be between 1 and %d", len(c.Ranking.Sectors))
	}
	if c.Ranking.PerSector < 0 {
		return fmt.Errorf("ranking.per_sector must not be negative")
	}
	seen := make(map[string]bool, len(c.Ranking.Sectors))
	for _, s := range c.Ranking.Sectors {
		if s.Key == "" || s.Proxy == "" {
			return fmt.Errorf("every sector needs key and proxy")
		}
		if seen[s.Key] {
			return fmt.Errorf("duplicate sector key %q", s.Key)
		}
		seen[s.Key] = true
	}
	return nil
}

// FundFirst reports whether fund-type lookup precedes equity-type lookup for
// the primary market. Defaults to true; most tracked primary-market holdings
// are fund-type products.
func (c *Config) FundFirst() bool {
	if c.KRX.FundFirst == nil {
		return true
	}
	return *c.KRX.FundFirst
}

// DefaultSectors is the reference 11-sector proxy universe with two
// representative constituents each.
func DefaultSectors() []Sector {
	return []Sector{
		{Key: "technology", Proxy: "XLK", Constituents: []string{"AAPL", "MSFT"}},
		{Key: "financials", Proxy: "XLF", Constituents: []string{"JPM", "BAC"}},
		{Key: "healthcare", Proxy: "XLV", Constituents: []string{"UNH", "JNJ"}},
		{Key: "energy", Proxy: "XLE", Constituents: []string{"XOM", "CVX"}},
		{Key: "industrials", Proxy: "XLI", Constituents: []string{"CAT", "GE"}},
		{Key: "consumer-discretionary", Proxy: "XLY", Constituents: []string{"AMZN", "TSLA"}},
		{Key: "consumer-staples", Proxy: "XLP", Constituents: []string{"PG", "KO"}},
		{Key: "utilities", Proxy: "XLU", Constituents: []string{"NEE", "SO"}},
		{Key: "materials", Proxy: "XLB", Constituents: []string{"LIN", "SHW"}},
		{Key: "real-estate", Proxy: "XLRE", Constituents: []string{"PLD", "AMT"}},
		{Key: "communication-services", Proxy: "XLC", Constituents: []string{"GOOGL", "META"}},
	}
}
