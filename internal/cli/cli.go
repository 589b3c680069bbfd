// Package cli holds the start-up steps every site tool shares: .env and
// config loading, common flags, logging, and building the rulebook,
// walker and roster from config.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/betlegend/sitetools/internal/config"
	"github.com/betlegend/sitetools/internal/fetch"
	"github.com/betlegend/sitetools/internal/roster"
	"github.com/betlegend/sitetools/internal/rules"
	"github.com/betlegend/sitetools/internal/site"
	"github.com/betlegend/sitetools/internal/validate"
)

type App struct {
	Name   string
	Config config.Config
	Flags  *pflag.FlagSet
	Logger *slog.Logger

	root    string
	domain  string
	rules   string
	verbose bool
	stderr  io.Writer
}

// New loads .env and registers the shared flags. Tools add their own
// flags to App.Flags before calling Parse.
func New(name string) *App {
	// .env is optional.
	_ = godotenv.Load()

	a := &App{Name: name, stderr: os.Stderr}
	a.Flags = pflag.NewFlagSet(name, pflag.ContinueOnError)
	a.Flags.StringVar(&a.root, "root", "", "site root directory (default: site.root)")
	a.Flags.StringVar(&a.domain, "domain", "", "canonical site origin (default: site.domain)")
	a.Flags.StringVar(&a.rules, "rules", "", "rulebook YAML (default: rules.path, else built-in)")
	a.Flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	return a
}

// Parse reads the flags, then loads config, applies the flags given over
// it and sets up logging. --help exits before config is read.
func (a *App) Parse(args []string) {
	if err := a.parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("%s: %v", a.Name, err)
	}
}

func (a *App) parse(args []string) error {
	if err := a.Flags.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.Flags.Changed("root") {
		cfg.Site.Root = a.root
	}
	if a.Flags.Changed("domain") {
		cfg.Site.Domain = strings.TrimRight(a.domain, "/")
	}
	if a.Flags.Changed("rules") {
		cfg.RulesPath = a.rules
	}
	a.Config = cfg

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.Logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})).With("tool", a.Name)
	slog.SetDefault(a.Logger)
	return nil
}

// Arg returns positional argument i, or def.
func (a *App) Arg(i int, def string) string {
	if a.Flags.NArg() > i {
		return a.Flags.Arg(i)
	}
	return def
}

func (a *App) Walker() site.Walker {
	return site.Walker{
		SkipDirs:     a.Config.Site.SkipDirs,
		SkipFiles:    a.Config.Site.SkipFiles,
		SkipPatterns: a.Config.Site.SkipPatterns,
	}
}

// Pages finds the pages under target, which may be a single file.
func (a *App) Pages(target string) []string {
	files, err := a.Walker().Find(target)
	if err != nil {
		log.Fatalf("%s: %v", a.Name, err)
	}
	return files
}

func (a *App) Rulebook() *rules.Book {
	book, err := rules.Load(a.Config.RulesPath)
	if err != nil {
		log.Fatalf("%s: rulebook: %v", a.Name, err)
	}
	return book
}

// Roster builds and loads the roster manager, caching in Redis when
// configured and in a local file otherwise. It returns nil when roster
// checks are disabled or no roster could be loaded; validation then
// skips them.
func (a *App) Roster(ctx context.Context) *roster.Manager {
	rc := a.Config.Roster
	if !rc.Enabled {
		return nil
	}
	m := a.NewRoster()
	if err := m.Load(ctx); err != nil {
		a.Logger.Warn("roster checks disabled", "err", err)
		return nil
	}
	return m
}

// NewRoster builds an unloaded roster manager from config.
func (a *App) NewRoster() *roster.Manager {
	rc := a.Config.Roster
	f := fetch.New(a.Config.Fetch.Timeout, a.Config.Fetch.MaxRetries, a.Config.Fetch.Rate)
	f.Logger = a.Logger

	var cache roster.Cache = roster.FileCache{Path: rc.CacheFile}
	if a.Config.RedisAddr != "" {
		cache = roster.NewRedisCache(redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr}))
	}
	return &roster.Manager{
		Client: roster.NewClient(f, rc.APIBase),
		Cache:  cache,
		TTL:    rc.CacheTTL,
		Logger: a.Logger,
	}
}

// Validator builds the content validator for the site root, with roster
// checks when rosters could be loaded.
func (a *App) Validator(ctx context.Context) *validate.Validator {
	v := &validate.Validator{Book: a.Rulebook(), Root: a.Config.Site.Root, Logger: a.Logger}
	if m := a.Roster(ctx); m != nil {
		v.Roster = m
	}
	return v
}

// Rule prints a banner line of width 70.
func Rule(w io.Writer, title string) {
	bar := strings.Repeat("=", 70)
	fmt.Fprintln(w, bar)
	if title != "" {
		fmt.Fprintln(w, "  "+title)
		fmt.Fprintln(w, bar)
	}
}
