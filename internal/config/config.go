package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultConfigName = "sitetools"
	DefaultDomain     = "https://www.betlegendpicks.com"
)

type Site struct {
	Root         string
	Domain       string
	SkipDirs     []string
	SkipFiles    []string
	SkipPatterns []string
}

type Roster struct {
	Enabled   bool
	APIBase   string
	CacheTTL  time.Duration
	CacheFile string
}

type Fetch struct {
	MaxRetries int
	Timeout    time.Duration
	Rate       float64
}

type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       string
}

type API struct {
	Addr       string
	CORSOrigin string
	TokenHash  string
	Schedule   string
}

type Config struct {
	Site   Site
	Roster Roster
	Fetch  Fetch

	RulesPath   string
	RedisAddr   string
	DatabaseURL string
	SlackURL    string

	SMTP SMTP
	API  API
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName(defaultConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix("BL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("site.root", ".")
	v.SetDefault("site.domain", DefaultDomain)
	v.SetDefault("site.skip_dirs", []string{".git", "node_modules", ".claude", "__pycache__", "assets", "images", "css", "js"})
	v.SetDefault("site.skip_files", []string{"404.html", "template.html", "test_article.html", "input.html"})
	v.SetDefault("site.skip_patterns", []string{"google*.html"})

	v.SetDefault("rules.path", "")

	v.SetDefault("roster.enabled", true)
	v.SetDefault("roster.api_base", "https://statsapi.mlb.com/api/v1")
	v.SetDefault("roster.cache_ttl", 6*time.Hour)
	v.SetDefault("roster.cache_file", ".mlb_roster_cache.json")

	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.rate", 10.0)

	v.SetDefault("redis.addr", "")
	v.SetDefault("database.url", "")
	v.SetDefault("slack.webhook_url", "")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", "")

	v.SetDefault("api.addr", ":8080")
	v.SetDefault("api.cors_origin", DefaultDomain)
	v.SetDefault("api.token_hash", "")
	v.SetDefault("api.schedule", "")

	// Config file is optional; env-only is fine.
	_ = v.ReadInConfig()

	cfg := Config{
		Site: Site{
			Root:         strings.TrimSpace(v.GetString("site.root")),
			Domain:       strings.TrimRight(strings.TrimSpace(v.GetString("site.domain")), "/"),
			SkipDirs:     v.GetStringSlice("site.skip_dirs"),
			SkipFiles:    v.GetStringSlice("site.skip_files"),
			SkipPatterns: v.GetStringSlice("site.skip_patterns"),
		},
		Roster: Roster{
			Enabled:   v.GetBool("roster.enabled"),
			APIBase:   strings.TrimRight(v.GetString("roster.api_base"), "/"),
			CacheTTL:  v.GetDuration("roster.cache_ttl"),
			CacheFile: v.GetString("roster.cache_file"),
		},
		Fetch: Fetch{
			MaxRetries: v.GetInt("fetch.max_retries"),
			Timeout:    v.GetDuration("fetch.timeout"),
			Rate:       v.GetFloat64("fetch.rate"),
		},
		RulesPath:   v.GetString("rules.path"),
		RedisAddr:   v.GetString("redis.addr"),
		DatabaseURL: v.GetString("database.url"),
		SlackURL:    v.GetString("slack.webhook_url"),
		SMTP: SMTP{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetString("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
			To:       v.GetString("smtp.to"),
		},
		API: API{
			Addr:       v.GetString("api.addr"),
			CORSOrigin: v.GetString("api.cors_origin"),
			TokenHash:  v.GetString("api.token_hash"),
			Schedule:   strings.TrimSpace(v.GetString("api.schedule")),
		},
	}

	if cfg.Site.Root == "" {
		return Config{}, fmt.Errorf("site.root must not be empty")
	}
	if !strings.HasPrefix(cfg.Site.Domain, "http://") && !strings.HasPrefix(cfg.Site.Domain, "https://") {
		return Config{}, fmt.Errorf("invalid site.domain %q", cfg.Site.Domain)
	}
	if cfg.Fetch.MaxRetries < 1 {
		return Config{}, fmt.Errorf("invalid fetch.max_retries %d", cfg.Fetch.MaxRetries)
	}
	if cfg.Fetch.Rate <= 0 {
		return Config{}, fmt.Errorf("invalid fetch.rate %v", cfg.Fetch.Rate)
	}
	if cfg.Roster.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("invalid roster.cache_ttl %v", cfg.Roster.CacheTTL)
	}
	return cfg, nil
}
