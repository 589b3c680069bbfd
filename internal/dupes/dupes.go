// Package dupes finds games that were published on more than one page of
// the same sport.
package dupes

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/betlegend/sitetools/internal/htmldoc"
	"github.com/betlegend/sitetools/internal/site"
)

var (
	Sports       = []string{"nba", "nhl", "nfl", "ncaab", "ncaaf", "mlb", "soccer"}
	excludePages = []string{"records", "calendar", "archive", "test"}
	weekdays     = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
)

type Game struct {
	Matchup  string
	Original string
	Time     string
	PageDate string
}

// Occurrence is one appearance of a game on a page.
type Occurrence struct {
	Page string
	Game Game
}

type Duplicate struct {
	Matchup string
	Pages   []Occurrence
}

// Original is the matchup as first written.
func (d Duplicate) Original() string {
	if len(d.Pages) == 0 {
		return d.Matchup
	}
	return d.Pages[0].Game.Original
}

type Result struct {
	Sport      string
	Pages      int
	Duplicates []Duplicate
}

// NormalizeMatchup makes "Celtics @ Knicks" and "celtics  vs Knicks"
// compare equal.
func NormalizeMatchup(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, " @ ", " vs ")
	s = strings.ReplaceAll(s, " at ", " vs ")
	return strings.ToLower(strings.TrimSpace(s))
}

// ExtractGames returns the games previewed on a page, in page order.
func ExtractGames(content string) ([]Game, error) {
	doc, err := htmldoc.Parse(content)
	if err != nil {
		return nil, err
	}
	pageDate := ""
	if t, ok := doc.TitleDate(); ok {
		pageDate = t.Format(time.DateOnly)
	}

	var games []Game
	doc.DOM().Find("article.game-preview").Each(func(_ int, s *goquery.Selection) {
		matchup := strings.TrimSpace(s.Find(".matchup-info h2").First().Text())
		if matchup == "" {
			s.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
				if text := strings.TrimSpace(h.Text()); strings.Contains(strings.ToLower(text), "vs") {
					matchup = text
					return false
				}
				return true
			})
		}
		if matchup == "" {
			return
		}
		games = append(games, Game{
			Matchup:  NormalizeMatchup(matchup),
			Original: matchup,
			Time:     strings.TrimSpace(s.Find("span.game-time").First().Text()),
			PageDate: pageDate,
		})
	})
	return games, nil
}

// SuggestDay names the weekday mentioned in a game time such as
// "Tuesday 7:30 PM ET", or "" when there is none.
func SuggestDay(gameTime string) string {
	lower := strings.ToLower(gameTime)
	for _, d := range weekdays {
		if strings.Contains(lower, d) {
			return strings.ToUpper(d[:1]) + d[1:]
		}
	}
	return ""
}

type Checker struct {
	Root   string
	Logger *slog.Logger
}

// Check scans the sport's pages and reports every matchup found on more
// than one of them. Unreadable pages are logged and skipped.
func (c Checker) Check(sport string) (Result, error) {
	res := Result{Sport: sport}
	pages, err := site.SportPages(c.Root, sport, excludePages...)
	if err != nil {
		return res, fmt.Errorf("list %s pages: %w", sport, err)
	}
	res.Pages = len(pages)

	seen := map[string][]Occurrence{}
	for _, p := range pages {
		content, err := site.Read(p)
		if err != nil {
			c.logger().Warn("read failed", "file", p, "err", err)
			continue
		}
		games, err := ExtractGames(content)
		if err != nil {
			c.logger().Warn("parse failed", "file", p, "err", err)
			continue
		}
		for _, g := range games {
			seen[g.Matchup] = append(seen[g.Matchup], Occurrence{Page: filepath.Base(p), Game: g})
		}
	}

	for matchup, occ := range seen {
		if len(occ) > 1 {
			res.Duplicates = append(res.Duplicates, Duplicate{Matchup: matchup, Pages: occ})
		}
	}
	sort.Slice(res.Duplicates, func(i, j int) bool { return res.Duplicates[i].Matchup < res.Duplicates[j].Matchup })
	return res, nil
}

func (c Checker) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
