package dupes

import (
	"os"
	"path/filepath"
	"testing"
)

func preview(matchup, when string) string {
	return `<article class="game-preview"><div class="matchup-info"><h2>` + matchup + `</h2></div>
<span class="game-time">` + when + `</span></article>`
}

func TestNormalizeMatchup(t *testing.T) {
	for in, want := range map[string]string{
		"Liverpool  vs   Barnsley": "liverpool vs barnsley",
		"Celtics @ Knicks":         "celtics vs knicks",
		"Celtics at Knicks":        "celtics vs knicks",
	} {
		if got := NormalizeMatchup(in); got != want {
			t.Errorf("NormalizeMatchup(%q)=%q want %q", in, got, want)
		}
	}
}

func TestExtractGames(t *testing.T) {
	content := `<html><head><title>Soccer Picks - January 13, 2026</title></head><body>` +
		preview("Liverpool vs Barnsley", "Tuesday 2:45 PM ET") +
		`<article class="game-preview"><h2>Preview</h2><h2>Arsenal VS Chelsea</h2></article>` +
		`<article class="game-preview"><h2>No matchup here</h2></article></body></html>`
	games, err := ExtractGames(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("games=%+v", games)
	}
	if g := games[0]; g.Matchup != "liverpool vs barnsley" || g.Time != "Tuesday 2:45 PM ET" || g.PageDate != "2026-01-13" {
		t.Fatalf("first=%+v", g)
	}
	if games[1].Original != "Arsenal VS Chelsea" || games[1].Time != "" {
		t.Fatalf("second=%+v", games[1])
	}
}

func TestSuggestDay(t *testing.T) {
	if got := SuggestDay("TUESDAY 7:30 PM"); got != "Tuesday" {
		t.Fatalf("got %q", got)
	}
	if got := SuggestDay("7:30 PM"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestCheck(t *testing.T) {
	root := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(root, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("soccer.html", `<title>Soccer - January 13, 2026</title>`+preview("Liverpool vs Barnsley", "Tuesday")+preview("Arsenal vs Chelsea", ""))
	write("soccer-page2.html", `<title>Soccer - January 12, 2026</title>`+preview("Liverpool @ Barnsley", "Tuesday"))
	write("soccer-records.html", preview("Arsenal vs Chelsea", ""))
	write("nba.html", preview("Arsenal vs Chelsea", ""))

	res, err := Checker{Root: root}.Check("soccer")
	if err != nil {
		t.Fatal(err)
	}
	if res.Pages != 2 || len(res.Duplicates) != 1 {
		t.Fatalf("result=%+v", res)
	}
	d := res.Duplicates[0]
	if d.Matchup != "liverpool vs barnsley" || len(d.Pages) != 2 {
		t.Fatalf("dup=%+v", d)
	}
	if d.Pages[0].Page != "soccer-page2.html" || d.Original() != "Liverpool @ Barnsley" || d.Pages[1].Game.PageDate != "2026-01-13" {
		t.Fatalf("occurrences=%+v", d.Pages)
	}
}
