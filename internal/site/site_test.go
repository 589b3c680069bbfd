package site

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFindSkipsConfiguredEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "x")
	writeFile(t, root, "blog/post.HTM", "x")
	writeFile(t, root, "404.html", "x")
	writeFile(t, root, "google6f74b54ecd988601.html", "x")
	writeFile(t, root, "node_modules/pkg/readme.html", "x")
	writeFile(t, root, "assets/a.html", "x")
	writeFile(t, root, "notes.txt", "x")

	got, err := DefaultWalker().Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	var rels []string
	for _, p := range got {
		rels = append(rels, Rel(root, p))
	}
	want := []string{"blog/post.HTM", "index.html"}
	if !reflect.DeepEqual(rels, want) {
		t.Fatalf("rels=%v want %v", rels, want)
	}
}

func TestFindSingleFile(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "page.html", "x")
	got, err := DefaultWalker().Find(p)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0] != p {
		t.Fatalf("got=%v", got)
	}
}

func TestFindSkipPatternOnRelPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "consensus_library/archive/a.html", "x")
	writeFile(t, root, "consensus_library/today.html", "x")
	w := Walker{SkipPatterns: []string{"consensus_library/archive/**"}}
	got, err := w.Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || Rel(root, got[0]) != "consensus_library/today.html" {
		t.Fatalf("got=%v", got)
	}
}

func TestReadReplacesInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "bad.html")
	if err := os.WriteFile(p, []byte("ok\xffok"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "ok�ok" {
		t.Fatalf("got=%q", got)
	}
}

func TestWriteKeepsMode(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "page.html")
	if err := os.WriteFile(p, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Write(p, "new"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "new" {
		t.Fatalf("content=%q", b)
	}
	info, _ := os.Stat(p)
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode=%v", info.Mode().Perm())
	}
}

func TestIsEducational(t *testing.T) {
	markers := []string{"betting-101", "guide"}
	if !IsEducational("site/Betting-101.html", markers) {
		t.Fatalf("expected educational")
	}
	if IsEducational("site/nba.html", markers) {
		t.Fatalf("unexpected educational")
	}
}

func TestSportPages(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"nba.html", "nba-page2.html", "nba-records.html", "nba-calendar.html", "nhl.html", "sub/nba-page3.html"} {
		writeFile(t, root, rel, "x")
	}
	got, err := SportPages(root, "nba", "records", "calendar")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(root, "nba-page2.html"), filepath.Join(root, "nba.html")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}
