package seo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/betlegend/sitetools/internal/rules"
)

const domain = "https://www.betlegendpicks.com"

func goodPage(rel, title string) string {
	return `<!DOCTYPE html><html><head><title>` + title + `</title>
<link rel="canonical" href="` + CanonicalURL(domain, rel) + `">
<meta name="description" content="Daily picks and analysis.">
</head><body><h1>Picks</h1></body></html>`
}

func TestTrimDescription(t *testing.T) {
	sentence := strings.Repeat("a", 139) + ". " + strings.Repeat("b", 59)
	if got := TrimDescription(sentence); got != strings.Repeat("a", 139)+"." {
		t.Fatalf("sentence cut=%q", got)
	}

	words := strings.Repeat("word ", 40)
	got := TrimDescription(words)
	if !strings.HasSuffix(got, "word...") || len(got) != 157 {
		t.Fatalf("word cut=%q (%d)", got, len(got))
	}

	if got := TrimDescription(strings.Repeat("x", 200)); got != strings.Repeat("x", 157)+"..." {
		t.Fatalf("hard cut=%q", got)
	}

	short := "Short and sweet."
	if got := TrimDescription(short); got != short {
		t.Fatalf("short=%q", got)
	}
}

func TestTrimMetaDescriptions(t *testing.T) {
	long := strings.Repeat("x", 200)
	content := `<html><head><meta name="description" content="` + long + `">
<meta content='` + long + `' property='og:description'>
<meta name="twitter:description" content="fine"></head></html>`
	out, n := TrimMetaDescriptions(content)
	if n != 2 {
		t.Fatalf("changed=%d", n)
	}
	if strings.Contains(out, long) {
		t.Fatalf("long description left in %q", out)
	}

	moved := `<html><head><title>Page Moved</title><meta name="description" content="` + long + `"></head></html>`
	if _, n := TrimMetaDescriptions(moved); n != 0 {
		t.Fatalf("redirect stub changed=%d", n)
	}
}

func TestSetTitle(t *testing.T) {
	out, ok := SetTitle(`<html><head><title>Old</title></head><body></body></html>`, "NBA Picks & Odds | BetLegend", "Fresh picks.")
	if !ok {
		t.Fatal("expected change")
	}
	if !strings.Contains(out, "<title>NBA Picks &amp; Odds | BetLegend</title>") {
		t.Fatalf("title not set: %q", out)
	}
	if !strings.Contains(out, `</title>
<meta name="description" content="Fresh picks.">`) {
		t.Fatalf("description not inserted: %q", out)
	}

	again, ok := SetTitle(out, "NBA Picks & Odds | BetLegend", "Fresh picks.")
	if ok || again != out {
		t.Fatalf("second pass changed page: %q", again)
	}

	extra := `<html><head><title>Old</title><meta name="description" data-nosnippet="1" content="Old desc"></head></html>`
	out, ok = SetTitle(extra, "", "New desc")
	if !ok || strings.Count(out, `name="description"`) != 1 || !strings.Contains(out, `content="New desc"`) || strings.Contains(out, "Old desc") {
		t.Fatalf("extra attributes: ok=%v out=%q", ok, out)
	}

	bare := `<html><head><title>Old</title><meta name="description"></head></html>`
	out, ok = SetTitle(bare, "", "New desc")
	if !ok || strings.Count(out, `name="description"`) != 1 || !strings.Contains(out, `content="New desc"`) {
		t.Fatalf("no content attribute: ok=%v out=%q", ok, out)
	}
}

func TestFixCanonical(t *testing.T) {
	want := CanonicalURL(domain, "mlb.html")
	if want != "https://www.betlegendpicks.com/mlb.html" {
		t.Fatalf("CanonicalURL=%q", want)
	}

	dup := `<html><head><title>T</title><link rel="canonical" href="https://betlegendpicks.com/mlb.html"><link rel='canonical' href="x"></head></html>`
	out, ok := FixCanonical(dup, want)
	if !ok || strings.Count(out, "canonical") != 1 || !strings.Contains(out, want) {
		t.Fatalf("replace: ok=%v out=%q", ok, out)
	}

	out, ok = FixCanonical(`<html><head><title>T</title></head></html>`, want)
	if !ok || !strings.Contains(out, "</title>\n<link href=\""+want+"\" rel=\"canonical\"/>") {
		t.Fatalf("insert: ok=%v out=%q", ok, out)
	}

	if _, ok := FixCanonical(out, want); ok {
		t.Fatal("already-correct page reported as changed")
	}
	if _, ok := FixCanonical(`<p>fragment</p>`, want); ok {
		t.Fatal("page without head was changed")
	}
}

func TestCanonicalProblem(t *testing.T) {
	for _, tc := range []struct {
		rel, href, want string
	}{
		{"mlb.html", "https://www.betlegendpicks.com/mlb.html", ""},
		{"index.html", "https://www.betlegendpicks.com/", ""},
		{"mlb.html", "/mlb.html", "not an absolute URL"},
		{"mlb.html", "https://betlegendpicks.com/mlb.html", "non-www"},
		{"mlb.html", "https://example.com/mlb.html", "another host"},
		{"mlb.html", "https://www.betlegendpicks.com/nba.html", "wrong file"},
	} {
		got := canonicalProblem(domain, tc.rel, tc.href)
		if tc.want == "" && got != "" || tc.want != "" && !strings.Contains(got, tc.want) {
			t.Errorf("canonicalProblem(%q, %q)=%q, want %q", tc.rel, tc.href, got, tc.want)
		}
	}
}

func hasIssue(issues []rules.Issue, sev rules.Severity, check, substr string) bool {
	for _, is := range issues {
		if is.Severity == sev && is.Check == check && strings.Contains(is.Message, substr) {
			return true
		}
	}
	return false
}

func TestCheckPage(t *testing.T) {
	a := Auditor{Domain: domain}
	if issues := a.CheckPage("mlb.html", goodPage("mlb.html", "MLB Picks | BetLegend")); len(issues) != 0 {
		t.Fatalf("issues=%+v", issues)
	}

	bad := `<html><head><title>` + strings.Repeat("Long ", 15) + `</title>
<link rel="canonical" href="https://www.betlegendpicks.com/a.html"><link rel="canonical" href="https://www.betlegendpicks.com/b.html">
<meta name="description" content="` + strings.Repeat("d", 160) + `"></head><body></body></html>`
	issues := a.CheckPage("a.html", bad)
	for _, want := range []struct {
		sev           rules.Severity
		check, substr string
	}{
		{rules.Error, "canonical", "2 canonical tags"},
		{rules.Warning, "title", "too long"},
		{rules.Warning, "title", "missing brand"},
		{rules.Warning, "description", "too long"},
		{rules.Warning, "h1", "Missing"},
	} {
		if !hasIssue(issues, want.sev, want.check, want.substr) {
			t.Errorf("missing %s %s %q in %+v", want.sev, want.check, want.substr, issues)
		}
	}

	issues = a.CheckPage("x.html", `<html><head></head><body><h1>x</h1></body></html>`)
	if !hasIssue(issues, rules.Error, "title", "Missing") || !hasIssue(issues, rules.Warning, "canonical", "Missing") ||
		!hasIssue(issues, rules.Warning, "description", "Missing") {
		t.Fatalf("issues=%+v", issues)
	}
}

func TestRunFlagsDuplicateTitles(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"a.html": goodPage("a.html", "Picks | BetLegend"),
		"b.html": goodPage("b.html", "Picks | BetLegend"),
		"c.html": goodPage("c.html", "Other | BetLegend"),
	}
	var paths []string
	for name, body := range files {
		p := filepath.Join(root, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	rep, err := Auditor{Root: root, Domain: domain}.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Summary.FilesScanned != 3 || rep.Summary.Warnings != 2 || rep.Summary.Errors != 0 {
		t.Fatalf("summary=%+v", rep.Summary)
	}
	for _, f := range rep.Files {
		dup := hasIssue(f.Issues, rules.Warning, "duplicate-title", "")
		if dup != (f.Rel != "c.html") {
			t.Errorf("%s duplicate-title=%v", f.Rel, dup)
		}
	}
}

func TestFixCanonicals(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "nba.html")
	page := `<html><head><title>NBA | BetLegend</title></head><body></body></html>`
	if err := os.WriteFile(p, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	a := Auditor{Root: root, Domain: domain}

	changed, err := a.FixCanonicals(context.Background(), []string{p}, true)
	if err != nil || len(changed) != 1 || changed[0] != "nba.html" {
		t.Fatalf("dry run changed=%v err=%v", changed, err)
	}
	if b, _ := os.ReadFile(p); string(b) != page {
		t.Fatal("dry run wrote the file")
	}

	if _, err := a.FixCanonicals(context.Background(), []string{p}, false); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	if !strings.Contains(string(b), `href="https://www.betlegendpicks.com/nba.html" rel="canonical"`) {
		t.Fatalf("page=%s", b)
	}
}
