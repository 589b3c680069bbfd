// Package rules holds the editorial rulebook: stale facts, banned phrases,
// stat ranges and the regex repairs applied by the content fixer. The
// rulebook is YAML so editors can change it without a rebuild; a default
// copy is embedded in the binary.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrNoRulebook = errors.New("rules: rulebook not found")

type Severity string

const (
	Error   Severity = "ERROR"
	Warning Severity = "WARNING"
)

// Issue is one finding reported against a page.
type Issue struct {
	Severity Severity `json:"severity"`
	Check    string   `json:"check"`
	Message  string   `json:"message"`
	Context  string   `json:"context,omitempty"`
}

type File struct {
	TradeContext      []string      `yaml:"trade_context"`
	WrongAssociations []Association `yaml:"wrong_associations"`
	WrongInjuries     []Injury      `yaml:"wrong_injuries"`
	Placeholders      []PatternRule `yaml:"placeholders"`
	Banned            []PatternRule `yaml:"banned"`
	LineMovement      LineMovement  `yaml:"line_movement"`
	UnsignedClaims    []PatternRule `yaml:"unsigned_claims"`
	StatRanges        []StatRange   `yaml:"stat_ranges"`
	Betting           Betting       `yaml:"betting"`
	Nav               Nav           `yaml:"nav"`
	Repairs           []Repair      `yaml:"repairs"`
	RepairSkipFiles   []string      `yaml:"repair_skip_files"`
}

type Association struct {
	Player  string   `yaml:"player"`
	Teams   []string `yaml:"teams"`
	Message string   `yaml:"message"`
}

type Injury struct {
	Player  string `yaml:"player"`
	Wrong   string `yaml:"wrong"`
	Correct string `yaml:"correct"`
	Message string `yaml:"message"`
}

type PatternRule struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

type LineMovement struct {
	Message      string   `yaml:"message"`
	Patterns     []string `yaml:"patterns"`
	AllowedFiles []string `yaml:"allowed_files"`
}

type StatRange struct {
	Name       string  `yaml:"name"`
	Pattern    string  `yaml:"pattern"`
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
	TypicalMin float64 `yaml:"typical_min"`
	TypicalMax float64 `yaml:"typical_max"`
}

type Betting struct {
	MoneylineMax    float64              `yaml:"moneyline_max"`
	OverUnderMargin float64              `yaml:"over_under_margin"`
	OverUnder       map[string][]float64 `yaml:"over_under"`
	Spreads         map[string]float64   `yaml:"spreads"`
	RoundSpreadMax  int                  `yaml:"round_spread_max"`
	MaxPlayerPPG    float64              `yaml:"max_player_ppg"`
	MarketingWords  []string             `yaml:"marketing_words"`
}

// Nav lists the links every page's <nav> must carry. Each entry is a set
// of alternatives; one substring match satisfies it.
type Nav struct {
	Required [][]string `yaml:"required"`
}

// Repair rewrites every match of Pattern. Replace uses regexp expansion
// syntax (${1}); when Swap is set, each key found inside the match is
// replaced by its value instead.
type Repair struct {
	Name    string            `yaml:"name"`
	Pattern string            `yaml:"pattern"`
	Replace string            `yaml:"replace"`
	Swap    map[string]string `yaml:"swap"`
}

// Book is a compiled rulebook. All patterns are case-insensitive.
type Book struct {
	TradeContext      []string
	WrongAssociations []CompiledAssociation
	WrongInjuries     []CompiledInjury
	Placeholders      []Rule
	Banned            []Rule
	LineMovement      []Rule
	LineMovementFiles []string
	UnsignedClaims    []Rule
	StatRanges        []CompiledStat
	Betting           Betting
	OverUnder         []SportRange
	Nav               Nav
	Repairs           []CompiledRepair
	RepairSkipFiles   []string
}

type Rule struct {
	Re      *regexp.Regexp
	Message string
}

type CompiledAssociation struct {
	Player  *regexp.Regexp
	Teams   []*regexp.Regexp
	Message string
}

type CompiledInjury struct {
	Player  *regexp.Regexp
	Wrong   *regexp.Regexp
	Correct *regexp.Regexp
	Message string
}

type CompiledStat struct {
	StatRange
	Re *regexp.Regexp
}

type SportRange struct {
	Sport    string
	Min, Max float64
}

type CompiledRepair struct {
	Name    string
	Re      *regexp.Regexp
	Replace string
	swap    []string
}

// Apply rewrites content and returns the new content and the number of
// matches whose text actually changed.
func (r CompiledRepair) Apply(content string) (string, int) {
	n := 0
	rewrite := func(m string) string { return r.Re.ReplaceAllString(m, r.Replace) }
	if r.swap != nil {
		rewrite = strings.NewReplacer(r.swap...).Replace
	}
	out := r.Re.ReplaceAllStringFunc(content, func(m string) string {
		repl := rewrite(m)
		if repl != m {
			n++
		}
		return repl
	})
	return out, n
}

// Default returns the embedded rulebook.
func Default() (*Book, error) {
	return Parse(defaultYAML)
}

// Load reads a rulebook file; an empty path selects the embedded default.
func Load(path string) (*Book, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoRulebook, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read rulebook %s: %w", path, err)
	}
	book, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("rulebook %s: %w", path, err)
	}
	return book, nil
}

func Parse(b []byte) (*Book, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse rulebook: %w", err)
	}
	return Compile(f)
}

// Compile validates and compiles every pattern. Errors name the rule.
func Compile(f File) (*Book, error) {
	book := &Book{
		TradeContext:      lower(f.TradeContext),
		LineMovementFiles: lower(f.LineMovement.AllowedFiles),
		Betting:           f.Betting,
		Nav:               f.Nav,
		RepairSkipFiles:   f.RepairSkipFiles,
	}
	book.Betting.MarketingWords = lower(f.Betting.MarketingWords)

	for _, a := range f.WrongAssociations {
		player, err := wordPattern(a.Player)
		if err != nil {
			return nil, fmt.Errorf("wrong_associations %q: %w", a.Player, err)
		}
		ca := CompiledAssociation{Player: player, Message: a.Message}
		for _, team := range a.Teams {
			re, err := wordPattern(team)
			if err != nil {
				return nil, fmt.Errorf("wrong_associations %q team %q: %w", a.Player, team, err)
			}
			ca.Teams = append(ca.Teams, re)
		}
		book.WrongAssociations = append(book.WrongAssociations, ca)
	}

	for _, inj := range f.WrongInjuries {
		player, err := wordPattern(inj.Player)
		if err != nil {
			return nil, fmt.Errorf("wrong_injuries %q: %w", inj.Player, err)
		}
		wrong, err := wordPattern(inj.Wrong)
		if err != nil {
			return nil, fmt.Errorf("wrong_injuries %q wrong: %w", inj.Player, err)
		}
		correct, err := wordPattern(inj.Correct)
		if err != nil {
			return nil, fmt.Errorf("wrong_injuries %q correct: %w", inj.Player, err)
		}
		book.WrongInjuries = append(book.WrongInjuries, CompiledInjury{
			Player:  player,
			Wrong:   wrong,
			Correct: correct,
			Message: inj.Message,
		})
	}

	var err error
	if book.Placeholders, err = compileRules("placeholders", f.Placeholders); err != nil {
		return nil, err
	}
	if book.Banned, err = compileRules("banned", f.Banned); err != nil {
		return nil, err
	}
	if book.UnsignedClaims, err = compileRules("unsigned_claims", f.UnsignedClaims); err != nil {
		return nil, err
	}
	for _, p := range f.LineMovement.Patterns {
		re, err := compile(p)
		if err != nil {
			return nil, fmt.Errorf("line_movement %q: %w", p, err)
		}
		book.LineMovement = append(book.LineMovement, Rule{Re: re, Message: f.LineMovement.Message})
	}

	for _, s := range f.StatRanges {
		re, err := compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("stat_ranges %q: %w", s.Name, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("stat_ranges %q: pattern needs a capture group", s.Name)
		}
		book.StatRanges = append(book.StatRanges, CompiledStat{StatRange: s, Re: re})
	}

	for sport, r := range f.Betting.OverUnder {
		if len(r) != 2 || r[0] > r[1] {
			return nil, fmt.Errorf("betting.over_under %q: want [min, max], got %v", sport, r)
		}
		book.OverUnder = append(book.OverUnder, SportRange{Sport: sport, Min: r[0], Max: r[1]})
	}
	sort.Slice(book.OverUnder, func(i, j int) bool { return book.OverUnder[i].Sport < book.OverUnder[j].Sport })

	for _, r := range f.Repairs {
		re, err := compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("repairs %q: %w", r.Name, err)
		}
		cr := CompiledRepair{Name: r.Name, Re: re, Replace: r.Replace}
		if len(r.Swap) > 0 {
			keys := make([]string, 0, len(r.Swap))
			for k := range r.Swap {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				cr.swap = append(cr.swap, k, r.Swap[k])
			}
		}
		book.Repairs = append(book.Repairs, cr)
	}
	return book, nil
}

func compileRules(section string, in []PatternRule) ([]Rule, error) {
	out := make([]Rule, 0, len(in))
	for _, r := range in {
		re, err := compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", section, r.Pattern, err)
		}
		out = append(out, Rule{Re: re, Message: r.Message})
	}
	return out, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, errors.New("empty pattern")
	}
	return regexp.Compile("(?i)" + pattern)
}

func wordPattern(phrase string) (*regexp.Regexp, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, errors.New("empty phrase")
	}
	return compile(`\b` + regexp.QuoteMeta(strings.ToLower(phrase)) + `\b`)
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
