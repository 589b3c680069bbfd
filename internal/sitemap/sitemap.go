// Package sitemap builds sitemap.xml from the pages on disk and prunes
// entries whose page no longer exists.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/betlegend/sitetools/internal/site"
)

const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Class is the crawl hint for one kind of page.
type Class struct {
	Priority   float64
	ChangeFreq string
}

var skipFiles = map[string]bool{
	"google6f74b54ecd988601.html":     true,
	"input.html":                      true,
	"test_avg_odds.html":              true,
	"nfl_analysis_example.html":       true,
	"email.html":                      true,
	"best-online-sportsbook-old.html": true,
	"nfl-records-broken-backup.html":  true,
}

var sportHubs = map[string]bool{
	"nfl.html": true, "mlb.html": true, "nba.html": true, "ncaaf.html": true,
	"ncaab.html": true, "nhl.html": true, "soccer.html": true,
}

var secondary = map[string]bool{
	"upcomingpicks.html": true, "bankroll.html": true, "sitemap.html": true,
}

// Classify picks the priority and change frequency for a page. ok is
// false for pages that stay out of the sitemap.
func Classify(rel string) (Class, bool) {
	rel = strings.ToLower(rel)
	name := path.Base(rel)

	if skipFiles[name] {
		return Class{}, false
	}
	if strings.Contains(rel, "consensus_library") && (strings.Contains(rel, "archive") || strings.Contains(rel, "history")) {
		return Class{}, false
	}

	switch {
	case name == "index.html":
		return Class{1.0, "daily"}, true
	case sportHubs[name]:
		return Class{0.9, "daily"}, true
	case strings.Contains(name, "records"):
		return Class{0.9, "weekly"}, true
	case containsAny(name, "calculator", "odds-converter", "betting-101", "betting-glossary"):
		return Class{0.8, "monthly"}, true
	case strings.Contains(name, "blog") || strings.Contains(name, "news"):
		if strings.Contains(name, "page") {
			return Class{0.6, "weekly"}, true
		}
		return Class{0.8, "daily"}, true
	case containsAny(name, "featured", "best-bets", "sharp-consensus"):
		return Class{0.8, "daily"}, true
	case containsAny(name, "analysis", "breakdown", "sunday-analytics"):
		return Class{0.7, "weekly"}, true
	case containsAny(name, "howitworks", "contact", "subscribe", "proofofpicks", "screenshots"):
		return Class{0.7, "monthly"}, true
	case strings.Contains(name, "new-york") || strings.Contains(name, "bestonlinesportsbook"):
		return Class{0.7, "monthly"}, true
	case secondary[name]:
		return Class{0.6, "weekly"}, true
	}
	return Class{0.5, "monthly"}, true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type Generator struct {
	Root   string
	Domain string
	Logger *slog.Logger
}

// Generate builds one entry per page, highest priority first and then
// by location. It returns the entries and the number of pages left out.
func (g Generator) Generate(files []string) ([]URL, int) {
	type entry struct {
		URL
		priority float64
	}
	var entries []entry
	skipped := 0
	for _, p := range files {
		rel := site.Rel(g.Root, p)
		class, ok := Classify(rel)
		if !ok {
			skipped++
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			g.logger().Warn("stat failed", "file", p, "err", err)
			skipped++
			continue
		}
		entries = append(entries, entry{
			URL: URL{
				Loc:        strings.TrimRight(g.Domain, "/") + "/" + rel,
				LastMod:    info.ModTime().Format("2006-01-02"),
				ChangeFreq: class.ChangeFreq,
				Priority:   strconv.FormatFloat(class.Priority, 'f', 1, 64),
			},
			priority: class.Priority,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].Loc < entries[j].Loc
	})

	out := make([]URL, len(entries))
	for i, e := range entries {
		out[i] = e.URL
	}
	return out, skipped
}

func (g Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// Write encodes urls as an indented sitemap document.
func Write(w io.Writer, urls []URL) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(URLSet{XMLNS: Namespace, URLs: urls}); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Parse decodes a sitemap document.
func Parse(r io.Reader) (URLSet, error) {
	var set URLSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return URLSet{}, fmt.Errorf("parse sitemap: %w", err)
	}
	return set, nil
}

// Cleaner drops sitemap entries whose page is missing under Root.
type Cleaner struct {
	Root   string
	Domain string
}

// Clean splits urls into entries to keep and entries to remove. URLs on
// a host other than the site's (with or without www) are kept as is.
func (c Cleaner) Clean(urls []URL) (kept, removed []URL) {
	for _, u := range urls {
		rel, ok := c.relPath(u.Loc)
		if !ok || c.exists(rel) {
			kept = append(kept, u)
			continue
		}
		removed = append(removed, u)
	}
	return kept, removed
}

func (c Cleaner) relPath(loc string) (string, bool) {
	base, err := url.Parse(c.Domain)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(strings.TrimSpace(loc))
	if err != nil {
		return "", false
	}
	bare := strings.TrimPrefix(base.Host, "www.")
	if !strings.EqualFold(u.Host, bare) && !strings.EqualFold(u.Host, "www."+bare) {
		return "", false
	}
	rel := strings.TrimPrefix(u.Path, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += "index.html"
	}
	return rel, true
}

func (c Cleaner) exists(rel string) bool {
	clean := path.Clean("/" + rel)
	info, err := os.Stat(filepath.Join(c.Root, filepath.FromSlash(clean)))
	return err == nil && info.Mode().IsRegular()
}
