package sitemap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		rel      string
		priority float64
		freq     string
	}{
		{"index.html", 1.0, "daily"},
		{"nba.html", 0.9, "daily"},
		{"nfl-records.html", 0.9, "weekly"},
		{"parlay-calculator.html", 0.8, "monthly"},
		{"blog.html", 0.8, "daily"},
		{"blog-page3.html", 0.6, "weekly"},
		{"featured-game-of-the-day.html", 0.8, "daily"},
		{"nba-analysis.html", 0.7, "weekly"},
		{"contact.html", 0.7, "monthly"},
		{"new-york-sports-betting.html", 0.7, "monthly"},
		{"bankroll.html", 0.6, "weekly"},
		{"misc/page.html", 0.5, "monthly"},
	} {
		c, ok := Classify(tc.rel)
		if !ok || c.Priority != tc.priority || c.ChangeFreq != tc.freq {
			t.Errorf("Classify(%q)=%+v,%v want %v %s", tc.rel, c, ok, tc.priority, tc.freq)
		}
	}

	for _, rel := range []string{"input.html", "consensus_library/archive/2024.html", "Consensus_Library/history.html"} {
		if _, ok := Classify(rel); ok {
			t.Errorf("Classify(%q) should skip", rel)
		}
	}
}

func touch(t *testing.T, root, rel string, mtime time.Time) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(p, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGenerateAndWrite(t *testing.T) {
	root := t.TempDir()
	when := time.Date(2026, time.January, 5, 12, 0, 0, 0, time.Local)
	files := []string{
		touch(t, root, "misc.html", when),
		touch(t, root, "nba.html", when),
		touch(t, root, "index.html", when),
		touch(t, root, "mlb.html", when),
		touch(t, root, "input.html", when),
	}

	urls, skipped := Generator{Root: root, Domain: "https://www.betlegendpicks.com/"}.Generate(files)
	if skipped != 1 || len(urls) != 4 {
		t.Fatalf("skipped=%d urls=%+v", skipped, urls)
	}
	var locs []string
	for _, u := range urls {
		locs = append(locs, strings.TrimPrefix(u.Loc, "https://www.betlegendpicks.com/"))
	}
	if got := strings.Join(locs, ","); got != "index.html,mlb.html,nba.html,misc.html" {
		t.Fatalf("order=%s", got)
	}
	if urls[0].LastMod != "2026-01-05" || urls[0].Priority != "1.0" || urls[3].Priority != "0.5" {
		t.Fatalf("first=%+v last=%+v", urls[0], urls[3])
	}

	var buf bytes.Buffer
	if err := Write(&buf, urls); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		"  <url>\n    <loc>https://www.betlegendpicks.com/index.html</loc>",
		"<changefreq>daily</changefreq>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}

	set, err := Parse(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(set.URLs) != 4 || set.URLs[1] != urls[1] {
		t.Fatalf("parsed=%+v", set.URLs)
	}
}

func TestClean(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "index.html", time.Now())
	touch(t, root, "nba.html", time.Now())
	touch(t, root, "picks/index.html", time.Now())

	urls := []URL{
		{Loc: "https://www.betlegendpicks.com/", Priority: "1.0"},
		{Loc: "https://betlegendpicks.com/nba.html", ChangeFreq: "hourly"},
		{Loc: "https://www.betlegendpicks.com/picks/"},
		{Loc: "https://www.betlegendpicks.com/gone.html"},
		{Loc: "https://www.betlegendpicks.com/../../etc/passwd"},
		{Loc: "https://cdn.example.com/feed.xml"},
	}
	kept, removed := Cleaner{Root: root, Domain: "https://www.betlegendpicks.com"}.Clean(urls)
	if len(kept) != 4 || len(removed) != 2 {
		t.Fatalf("kept=%+v removed=%+v", kept, removed)
	}
	if kept[1].ChangeFreq != "hourly" || kept[0].Priority != "1.0" {
		t.Fatalf("kept fields lost: %+v", kept)
	}
	if removed[0].Loc != "https://www.betlegendpicks.com/gone.html" {
		t.Fatalf("removed=%+v", removed)
	}
}
