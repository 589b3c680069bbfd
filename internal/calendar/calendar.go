// Package calendar rebuilds the per-sport calendar data files from the
// sport's pages and checks the page dates for gaps and repeats.
package calendar

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/betlegend/sitetools/internal/htmldoc"
	"github.com/betlegend/sitetools/internal/site"
)

var (
	currentDateRe = regexp.MustCompile(`current-date.*?<h2>(.*?)</h2>`)
	postedRe      = regexp.MustCompile(`Posted:?\s*([A-Za-z]+\s+\d+,?\s+\d{4})`)
	genericRe     = regexp.MustCompile(`(?i)Archive\s*-\s*Page\s*\d+`)
)

const defaultTitle = "Analysis"

// Sports have a calendar page backed by a games-data script.
var Sports = []string{"nba", "nhl", "ncaab", "ncaaf"}

type Entry struct {
	Date  string `json:"date"`
	Page  string `json:"page"`
	Title string `json:"title"`
}

// PageDate reads the date a page covers: the heading after the
// current-date marker, else a "Posted: Month D, YYYY" line.
func PageDate(content string) (time.Time, bool) {
	if m := currentDateRe.FindStringSubmatch(content); m != nil {
		if t, ok := htmldoc.ParseLongDate(strings.TrimSpace(m[1])); ok {
			return t, true
		}
	}
	if m := postedRe.FindStringSubmatch(content); m != nil {
		return htmldoc.ParseLongDate(m[1])
	}
	return time.Time{}, false
}

// PageTitle is the hero badge text, or "Analysis".
func PageTitle(doc *htmldoc.Doc) string {
	if t := htmldoc.CollapseSpace(doc.DOM().Find(".hero-badge").First().Text()); t != "" {
		return t
	}
	return defaultTitle
}

type Builder struct {
	Root   string
	Logger *slog.Logger
}

// Build collects one entry per dated page of the sport (the hub page and
// its numbered archive pages), sorted by date then page. Pages without a
// date are returned separately.
func (b Builder) Build(sport string) ([]Entry, []string, error) {
	pages, err := site.SportPages(b.Root, sport)
	if err != nil {
		return nil, nil, err
	}
	var entries []Entry
	var undated []string
	for _, p := range pages {
		name := filepath.Base(p)
		if name != sport+".html" && !strings.HasPrefix(name, sport+"-page") {
			continue
		}
		content, err := site.Read(p)
		if err != nil {
			b.logger().Warn("read failed", "file", p, "err", err)
			continue
		}
		date, ok := PageDate(content)
		if !ok {
			undated = append(undated, name)
			continue
		}
		title := defaultTitle
		if doc, err := htmldoc.Parse(content); err == nil {
			title = PageTitle(doc)
		}
		entries = append(entries, Entry{Date: date.Format(time.DateOnly), Page: name, Title: title})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Page < entries[j].Page
	})
	return entries, undated, nil
}

func (b Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// DataFile is the name of a sport's calendar data script.
func DataFile(sport string) string {
	return sport + "-games-data.js"
}

// WriteJS emits the calendar data script: a const array named
// <SPORT>_GAMES plus a CommonJS export for tooling.
func WriteJS(w io.Writer, sport string, entries []Entry) error {
	name := strings.ToUpper(sport)
	v := name + "_GAMES"
	var b strings.Builder
	fmt.Fprintf(&b, "// %s Games Data - All %s analysis pages by date\n", name, name)
	b.WriteString("// Format: { date: \"YYYY-MM-DD\", page: \"filename.html\", title: \"Description\" }\n\n")
	fmt.Fprintf(&b, "const %s = [\n", v)
	for _, e := range entries {
		fmt.Fprintf(&b, "    { date: %s, page: %s, title: %s },\n", strconv.Quote(e.Date), strconv.Quote(e.Page), strconv.Quote(e.Title))
	}
	b.WriteString("];\n\n")
	b.WriteString("// Export for use in calendar\n")
	b.WriteString("if (typeof module !== 'undefined' && module.exports) {\n")
	fmt.Fprintf(&b, "    module.exports = %s;\n", v)
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// DateGroup is a date claimed by more than one page.
type DateGroup struct {
	Date  string
	Pages []string
}

type GapReport struct {
	Sport         string
	GenericTitles []string
	NoDate        []string
	Duplicates    []DateGroup
	Missing       []string
	Dates         map[string]string
}

// Healthy is false when a page has a generic or undated title or two pages
// share a date. Missing days alone are not a failure: some days have no
// games.
func (r GapReport) Healthy() bool {
	return len(r.GenericTitles) == 0 && len(r.NoDate) == 0 && len(r.Duplicates) == 0
}

// RecentMissing keeps the missing dates within days of now.
func (r GapReport) RecentMissing(now time.Time, days int) []string {
	var out []string
	for _, d := range r.Missing {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			continue
		}
		if now.Sub(t) <= time.Duration(days)*24*time.Hour {
			out = append(out, d)
		}
	}
	return out
}

// Range returns the oldest and newest page dates.
func (r GapReport) Range() (string, string) {
	if len(r.Dates) == 0 {
		return "", ""
	}
	dates := make([]string, 0, len(r.Dates))
	for _, d := range r.Dates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates[0], dates[len(dates)-1]
}

// Gaps dates every page of the sport from its <title> and reports generic
// archive titles, repeated dates and the days missing between the oldest
// and newest page.
func (b Builder) Gaps(sport string) (GapReport, error) {
	rep := GapReport{Sport: sport, Dates: map[string]string{}}
	pages, err := site.SportPages(b.Root, sport, "records", "calendar", "archive")
	if err != nil {
		return rep, err
	}

	byDate := map[string][]string{}
	for _, p := range pages {
		name := filepath.Base(p)
		content, err := site.Read(p)
		if err != nil {
			b.logger().Warn("read failed", "file", p, "err", err)
			continue
		}
		doc, err := htmldoc.Parse(content)
		if err != nil {
			b.logger().Warn("parse failed", "file", p, "err", err)
			continue
		}
		title := doc.Title()
		if genericRe.MatchString(title) {
			rep.GenericTitles = append(rep.GenericTitles, name)
			continue
		}
		date, ok := htmldoc.ParseLongDate(title)
		if !ok {
			rep.NoDate = append(rep.NoDate, name)
			continue
		}
		d := date.Format(time.DateOnly)
		byDate[d] = append(byDate[d], name)
		rep.Dates[name] = d
	}

	dates := make([]string, 0, len(byDate))
	for d, names := range byDate {
		dates = append(dates, d)
		if len(names) > 1 {
			rep.Duplicates = append(rep.Duplicates, DateGroup{Date: d, Pages: names})
		}
	}
	sort.Strings(dates)
	sort.Slice(rep.Duplicates, func(i, j int) bool { return rep.Duplicates[i].Date < rep.Duplicates[j].Date })

	if len(dates) >= 2 {
		oldest, _ := time.Parse(time.DateOnly, dates[0])
		newest, _ := time.Parse(time.DateOnly, dates[len(dates)-1])
		for day := oldest; !day.After(newest); day = day.AddDate(0, 0, 1) {
			if _, ok := byDate[day.Format(time.DateOnly)]; !ok {
				rep.Missing = append(rep.Missing, day.Format(time.DateOnly))
			}
		}
	}
	return rep, nil
}
