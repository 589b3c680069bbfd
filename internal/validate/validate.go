// Package validate is the pre-publish gate: it scans pages for structural
// defects, impossible stats, stale facts and banned phrases, and reports
// them as errors (publish blocked) or warnings (review).
package validate

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/betlegend/sitetools/internal/htmldoc"
	"github.com/betlegend/sitetools/internal/roster"
	"github.com/betlegend/sitetools/internal/rules"
	"github.com/betlegend/sitetools/internal/site"
)

// RosterVerifier checks a player/team pairing. *roster.Manager satisfies it.
type RosterVerifier interface {
	Verify(player, teamRef string) roster.Verdict
}

type Validator struct {
	Book   *rules.Book
	Roster RosterVerifier
	// Root is used to print paths relative to the scanned tree.
	Root   string
	Logger *slog.Logger
	Now    func() time.Time
	// Progress, when set, is called after every file.
	Progress func(done, total int)
}

// Run validates every file and returns the report. Unreadable files are
// reported as an error against that file and the scan continues.
func (v *Validator) Run(ctx context.Context, files []string) (*Report, error) {
	rep := &Report{Root: v.Root, StartedAt: v.now()}
	var prints []fingerprint
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := FileResult{Path: path, Rel: site.Rel(v.Root, path)}
		content, err := site.Read(path)
		if err != nil {
			v.logger().Warn("read failed", "file", path, "err", err)
			res.Issues = []rules.Issue{{Severity: rules.Error, Check: "read", Message: fmt.Sprintf("Could not read file: %v", err)}}
		} else {
			issues, text := v.check(path, content)
			res.Issues = issues
			prints = append(prints, fingerprint{index: len(rep.Files), rel: res.Rel, text: text})
		}
		rep.Files = append(rep.Files, res)
		if v.Progress != nil {
			v.Progress(i+1, len(files))
		}
	}
	for idx, issue := range duplicateContent(prints) {
		rep.Files[idx].Issues = append(rep.Files[idx].Issues, issue...)
	}
	rep.tally()
	return rep, nil
}

// CheckContent runs every per-page check against content.
func (v *Validator) CheckContent(path, content string) []rules.Issue {
	issues, _ := v.check(path, content)
	return issues
}

func (v *Validator) check(path, content string) ([]rules.Issue, string) {
	doc, err := htmldoc.Parse(content)
	if err != nil {
		return []rules.Issue{{Severity: rules.Error, Check: "parse", Message: fmt.Sprintf("Could not parse HTML: %v", err)}}, ""
	}
	text := doc.Text()

	var c collector
	v.checkStructure(&c, path, doc)
	v.checkStats(&c, text)
	v.checkBettingLines(&c, text)
	v.checkRoster(&c, text)
	v.checkDates(&c, text)
	v.checkKnownFacts(&c, text)
	v.checkPatterns(&c, path, text)
	v.checkImpossibleStats(&c, text)
	v.checkRoundSpreads(&c, text)
	return c.issues, text
}

func (v *Validator) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return slog.Default()
}

func (v *Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// collector drops exact repeats, which overlapping rules (e.g. "luka" and
// "luka doncic") would otherwise produce.
type collector struct {
	issues []rules.Issue
	seen   map[rules.Issue]bool
}

func (c *collector) add(sev rules.Severity, check, msg, context string) {
	is := rules.Issue{Severity: sev, Check: check, Message: msg, Context: context}
	if c.seen == nil {
		c.seen = map[rules.Issue]bool{}
	}
	if c.seen[is] {
		return
	}
	c.seen[is] = true
	c.issues = append(c.issues, is)
}

// window returns text[start-before : end+after] trimmed to rune
// boundaries and surrounding space.
func window(text string, start, end, before, after int) string {
	lo := max(0, start-before)
	hi := min(len(text), end+after)
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return htmldoc.CollapseSpace(text[lo:hi])
}
