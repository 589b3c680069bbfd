package seo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/betlegend/sitetools/internal/htmldoc"
)

func mustParse(t *testing.T, content string) *htmldoc.Doc {
	t.Helper()
	doc, err := htmldoc.Parse(content)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestTitleFromFilename(t *testing.T) {
	cases := []struct{ rel, want string }{
		{"college-football_picks.html", "College Football Picks | BetLegend"},
		{"blog/blog-page3.html", "BetLegend Blog - Page 3 | Expert Betting Insights"},
		{"input.html", ""},
		{"google6f74b54ecd988601.html", ""},
	}
	for _, c := range cases {
		if got := TitleFromFilename(c.rel, DefaultBrand); got != c.want {
			t.Fatalf("TitleFromFilename(%q)=%q want %q", c.rel, got, c.want)
		}
	}
}

func TestOptimizeTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"NBA Picks", "NBA Picks | BetLegend"},
		{"betlegend picks", "betlegend picks"},
		{"Test Page", "Test Page"},
		{"Removed Page", "Removed Page"},
	}
	for _, c := range cases {
		if got := OptimizeTitle(c.in, DefaultBrand); got != c.want {
			t.Fatalf("OptimizeTitle(%q)=%q want %q", c.in, got, c.want)
		}
	}

	long := OptimizeTitle("Complete Guide To Every College Basketball Conference Tournament", DefaultBrand)
	if utf8.RuneCountInString(long) > TitleMax || !strings.HasSuffix(long, "... | BetLegend") {
		t.Fatalf("long title=%q (%d)", long, utf8.RuneCountInString(long))
	}
}

func TestDescriptionFromContent(t *testing.T) {
	para := strings.Repeat("sharp money ", 20)
	got := DescriptionFromContent(mustParse(t, "<html><body><p>"+para+"</p></body></html>"), "nba.html", DefaultBrand)
	if utf8.RuneCountInString(got) != DescriptionMax || !strings.HasSuffix(got, "...") {
		t.Fatalf("cut description=%q", got)
	}

	got = DescriptionFromContent(mustParse(t, "<html><body><p>Three plays tonight.</p></body></html>"), "nba.html", DefaultBrand)
	if got != "Three plays tonight." {
		t.Fatalf("paragraph description=%q", got)
	}

	empty := mustParse(t, "<html><body></body></html>")
	if got := DescriptionFromContent(empty, "ncaab-odds.html", DefaultBrand); !strings.HasPrefix(got, "Expert College Basketball betting picks") {
		t.Fatalf("sport description=%q", got)
	}
	if got := DescriptionFromContent(empty, "about.html", DefaultBrand); !strings.HasPrefix(got, "Expert sports betting picks") {
		t.Fatalf("generic description=%q", got)
	}
}

func TestH1FromContent(t *testing.T) {
	doc := mustParse(t, "<html><body><h3>Line Moves</h3><h2>Best Bets</h2></body></html>")
	if got := H1FromContent(doc, "Ignored | BetLegend", "x.html"); got != "Best Bets" {
		t.Fatalf("heading=%q", got)
	}
	empty := mustParse(t, "<html><body></body></html>")
	if got := H1FromContent(empty, "Weekly Recap | BetLegend", "x.html"); got != "Weekly Recap" {
		t.Fatalf("from title=%q", got)
	}
	if got := H1FromContent(empty, "", "nfl-week-9.html"); got != "Nfl Week 9" {
		t.Fatalf("from filename=%q", got)
	}
}

func TestInsertH1(t *testing.T) {
	out, ok := insertH1(`<body><div class="wrap"><h1> </h1></div></body>`, "Picks & Parlays")
	if !ok || out != `<body><div class="wrap"><h1>Picks &amp; Parlays</h1></div></body>` {
		t.Fatalf("fill empty: ok=%v out=%q", ok, out)
	}
	out, ok = insertH1(`<body><main id="m"><p>x</p></main></body>`, "Picks")
	if !ok || !strings.Contains(out, `<main id="m">`+"\n<h1>Picks</h1><p>x</p>") {
		t.Fatalf("container: ok=%v out=%q", ok, out)
	}
	if _, ok := insertH1(`<p>fragment</p>`, "Picks"); ok {
		t.Fatal("inserted without a body")
	}
}

const barePage = `<html><head></head><body><div class="wrap"><p>Three value plays on the NBA slate.</p></div></body></html>`

func TestRepairPage(t *testing.T) {
	a := Auditor{Domain: domain}
	out, rep, err := a.RepairPage("nba-picks.html", barePage)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{fixTitle, fixDescription, fixH1, fixCanonical}
	if strings.Join(rep.Fixes, ",") != strings.Join(want, ",") {
		t.Fatalf("fixes=%v", rep.Fixes)
	}
	if rep.OldTitle != "" || rep.NewTitle != "Nba Picks | BetLegend" {
		t.Fatalf("titles old=%q new=%q", rep.OldTitle, rep.NewTitle)
	}
	for _, s := range []string{
		"<title>Nba Picks | BetLegend</title>",
		`<meta name="description" content="Three value plays on the NBA slate.">`,
		"<h1>Nba Picks</h1>",
		`<link href="https://www.betlegendpicks.com/nba-picks.html" rel="canonical"/>`,
	} {
		if !strings.Contains(out, s) {
			t.Fatalf("missing %q in %q", s, out)
		}
	}
	if issues := a.CheckPage("nba-picks.html", out); len(issues) != 0 {
		t.Fatalf("repaired page still has issues: %+v", issues)
	}

	again, rep, err := a.RepairPage("nba-picks.html", out)
	if err != nil || again != out || len(rep.Fixes) != 0 {
		t.Fatalf("second pass fixes=%v err=%v", rep.Fixes, err)
	}
}

func TestRepairPageBrandAndLength(t *testing.T) {
	page := goodPage("mlb.html", "Complete Guide To Every Major League Baseball Division Race This Year")
	_, rep, err := Auditor{Domain: domain}.RepairPage("mlb.html", page)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(rep.Fixes, ",") != fixTitleBrand+","+fixTitleLength {
		t.Fatalf("fixes=%v", rep.Fixes)
	}
	if utf8.RuneCountInString(rep.NewTitle) > TitleMax || !strings.HasSuffix(rep.NewTitle, "| BetLegend") {
		t.Fatalf("new title=%q", rep.NewTitle)
	}
}

func TestAuditorFix(t *testing.T) {
	root := t.TempDir()
	bare := filepath.Join(root, "nba-picks.html")
	good := filepath.Join(root, "mlb.html")
	files := map[string]string{bare: barePage, good: goodPage("mlb.html", "MLB Picks | BetLegend")}
	for p, content := range files {
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	a := Auditor{Root: root, Domain: domain}
	paths := []string{good, bare}

	changed, err := a.Fix(context.Background(), paths, true)
	if err != nil || len(changed) != 1 || changed[0].Rel != "nba-picks.html" {
		t.Fatalf("dry run changed=%+v err=%v", changed, err)
	}
	if b, _ := os.ReadFile(bare); string(b) != barePage {
		t.Fatal("dry run wrote the file")
	}

	if _, err := a.Fix(context.Background(), paths, false); err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(bare); !strings.Contains(string(b), "<h1>Nba Picks</h1>") {
		t.Fatalf("page=%s", b)
	}
	if changed, _ := a.Fix(context.Background(), paths, false); len(changed) != 0 {
		t.Fatalf("second run changed=%+v", changed)
	}
}
