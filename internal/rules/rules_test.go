package rules

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCompiles(t *testing.T) {
	book, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(book.WrongAssociations) == 0 || len(book.StatRanges) != 8 {
		t.Fatalf("associations=%d stats=%d", len(book.WrongAssociations), len(book.StatRanges))
	}
	if len(book.OverUnder) != 6 || book.OverUnder[0].Sport != "MLB" {
		t.Fatalf("over/under=%v", book.OverUnder)
	}
	if book.Betting.MoneylineMax != 1000 {
		t.Fatalf("moneyline max=%v", book.Betting.MoneylineMax)
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	book, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(book.Repairs) == 0 {
		t.Fatalf("no repairs in default rulebook")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrNoRulebook) {
		t.Fatalf("err=%v", err)
	}
}

func TestCompileNamesBadRule(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rules.yaml")
	os.WriteFile(p, []byte("banned:\n  - pattern: '(unclosed'\n    message: x\n"), 0o644)
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "banned") {
		t.Fatalf("err=%v", err)
	}
}

func TestRepairApply(t *testing.T) {
	book, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	byName := map[string]CompiledRepair{}
	for _, r := range book.Repairs {
		byName[r.Name] = r
	}

	out, n := byName["durant-team"].Apply("Kevin Durant's with the Phoenix Suns again.")
	if n != 1 || out != "Kevin Durant's with the Houston Rockets again." {
		t.Fatalf("out=%q n=%d", out, n)
	}

	out, n = byName["durant-nearby"].Apply("Kevin Durant and Phoenix")
	if n != 1 || out != "Kevin Durant and Houston" {
		t.Fatalf("out=%q n=%d", out, n)
	}

	in := "kevin durant and the suns"
	out, n = byName["durant-nearby"].Apply(in)
	if n != 0 || out != in {
		t.Fatalf("unchanged swap counted: out=%q n=%d", out, n)
	}

	out, n = byName["sharp-money"].Apply("Sharp Money likes it, sharp money agrees")
	if n != 2 || out != "professional analysis likes it, professional analysis agrees" {
		t.Fatalf("out=%q n=%d", out, n)
	}
}

func TestWordPatternIsCaseInsensitive(t *testing.T) {
	re, err := wordPattern("De'Aaron Fox")
	if err != nil {
		t.Fatal(err)
	}
	if !re.MatchString("traded de'aaron fox today") {
		t.Fatalf("expected match")
	}
	if re.MatchString("de'aaron foxes") {
		t.Fatalf("unexpected match across word boundary")
	}
}
