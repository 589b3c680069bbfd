package fixer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/betlegend/sitetools/internal/rules"
)

func newFixer(t *testing.T, root string) *Fixer {
	t.Helper()
	book, err := rules.Default()
	if err != nil {
		t.Fatalf("rules.Default: %v", err)
	}
	return &Fixer{Book: book, Root: root}
}

func TestFixRewritesStaleClaims(t *testing.T) {
	f := newFixer(t, "")
	in := "<p>Kevin Durant with the Phoenix Suns is rolling. Sharp money is on the over.</p>"
	out, counts := f.Fix(in)
	if !strings.Contains(out, "Durant with the Houston Rockets") {
		t.Fatalf("durant not fixed: %q", out)
	}
	if !strings.Contains(out, "value is on the over") {
		t.Fatalf("sharp money not fixed: %q", out)
	}
	if counts["durant-team"] != 1 || counts["sharp-money-on"] != 1 {
		t.Fatalf("counts=%v", counts)
	}
}

func TestFixRemovesLineSentencesAndTidies(t *testing.T) {
	f := newFixer(t, "")
	in := "<p>Take Boston. The line opened at -3 and kept going.  Good luck.</p>\n\n\n\n<p>x</p>"
	out, counts := f.Fix(in)
	if counts["line-opened"] != 1 {
		t.Fatalf("counts=%v", counts)
	}
	if !strings.Contains(out, "<p>Take Boston. Good luck.</p>") {
		t.Fatalf("out=%q", out)
	}
	if strings.Contains(out, "\n\n\n") {
		t.Fatalf("blank lines left: %q", out)
	}
}

func TestFixLeavesCleanPageAlone(t *testing.T) {
	f := newFixer(t, "")
	in := "<p>Two  spaces\n\n\n\nstay when nothing matched.</p>"
	out, counts := f.Fix(in)
	if out != in || len(counts) != 0 {
		t.Fatalf("out=%q counts=%v", out, counts)
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(root, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	stale := write("nba.html", "<p>Follow the sharp money tonight.</p>")
	clean := write("mlb.html", "<p>Nothing to see.</p>")
	skipped := write("betting-101.html", "<p>Sharp money explained.</p>")
	files := []string{stale, clean, skipped}

	f := newFixer(t, root)
	f.DryRun = true
	res, err := f.Run(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}
	if res.Scanned != 2 || res.Skipped != 1 || len(res.Changes) != 1 || res.Changes[0].Rel != "nba.html" {
		t.Fatalf("dry run result=%+v", res)
	}
	if b, _ := os.ReadFile(stale); !strings.Contains(string(b), "sharp money") {
		t.Fatal("dry run wrote the file")
	}

	f.DryRun = false
	res, err = f.Run(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}
	if res.Totals()["sharp-money"] != 1 || res.Changes[0].Total() != 1 {
		t.Fatalf("totals=%v", res.Totals())
	}
	b, _ := os.ReadFile(stale)
	if string(b) != "<p>Follow the professional analysis tonight.</p>" {
		t.Fatalf("page=%q", b)
	}
	if b, _ := os.ReadFile(skipped); !strings.Contains(string(b), "Sharp money") {
		t.Fatal("skip file was rewritten")
	}
}
