// Package seo audits page metadata (titles, descriptions, canonicals) and
// repairs it in place.
package seo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/betlegend/sitetools/internal/htmldoc"
	"github.com/betlegend/sitetools/internal/rules"
	"github.com/betlegend/sitetools/internal/site"
	"github.com/betlegend/sitetools/internal/validate"
)

const (
	DefaultBrand   = "BetLegend"
	TitleMax       = 60
	DescriptionMax = 155
)

type Auditor struct {
	Root   string
	Domain string
	Brand  string
	Logger *slog.Logger
}

// CheckPage audits one page's head. rel is the slash-separated path of
// the page under Root.
func (a Auditor) CheckPage(rel, content string) []rules.Issue {
	var issues []rules.Issue
	add := func(sev rules.Severity, check, msg string) {
		issues = append(issues, rules.Issue{Severity: sev, Check: check, Message: msg})
	}

	doc, err := htmldoc.Parse(content)
	if err != nil {
		add(rules.Error, "parse", fmt.Sprintf("Could not parse HTML: %v", err))
		return issues
	}

	canonicals := doc.Canonicals()
	switch {
	case len(canonicals) == 0:
		add(rules.Warning, "canonical", "Missing canonical tag")
	case len(canonicals) > 1:
		add(rules.Error, "canonical", fmt.Sprintf("Has %d canonical tags (should be 1)", len(canonicals)))
	}
	if len(canonicals) > 0 {
		if problem := canonicalProblem(a.Domain, rel, canonicals[0]); problem != "" {
			add(rules.Error, "canonical", problem)
		}
	}

	title := doc.Title()
	brand := a.brand()
	switch {
	case title == "":
		add(rules.Error, "title", "Missing title")
	default:
		if n := utf8.RuneCountInString(title); n > TitleMax {
			add(rules.Warning, "title", fmt.Sprintf("Title too long (%d chars, max %d)", n, TitleMax))
		}
		if !strings.Contains(strings.ToLower(title), strings.ToLower(brand)) {
			add(rules.Warning, "title", fmt.Sprintf("Title missing brand %q", brand))
		}
	}

	desc, ok := doc.MetaDescription()
	switch {
	case !ok || desc == "":
		add(rules.Warning, "description", "Missing meta description")
	case utf8.RuneCountInString(desc) > DescriptionMax:
		add(rules.Warning, "description", fmt.Sprintf("Meta description too long (%d chars, max %d)", utf8.RuneCountInString(desc), DescriptionMax))
	}

	if !hasH1Text(doc) {
		add(rules.Warning, "h1", "Missing <h1>")
	}
	return issues
}

// Run audits every page and flags titles shared by more than one page.
func (a Auditor) Run(ctx context.Context, files []string) (*validate.Report, error) {
	results := make([]validate.FileResult, 0, len(files))
	titles := map[string][]int{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := validate.FileResult{Path: path, Rel: site.Rel(a.Root, path)}
		content, err := site.Read(path)
		if err != nil {
			a.logger().Warn("read failed", "file", path, "err", err)
			res.Issues = []rules.Issue{{Severity: rules.Error, Check: "read", Message: fmt.Sprintf("Could not read file: %v", err)}}
			results = append(results, res)
			continue
		}
		res.Issues = a.CheckPage(res.Rel, content)
		if doc, err := htmldoc.Parse(content); err == nil {
			if t := strings.ToLower(doc.Title()); t != "" {
				titles[t] = append(titles[t], len(results))
			}
		}
		results = append(results, res)
	}

	for _, idxs := range titles {
		if len(idxs) < 2 {
			continue
		}
		rels := make([]string, 0, len(idxs))
		for _, i := range idxs {
			rels = append(rels, results[i].Rel)
		}
		sort.Strings(rels)
		for _, i := range idxs {
			results[i].Issues = append(results[i].Issues, rules.Issue{
				Severity: rules.Warning,
				Check:    "duplicate-title",
				Message:  "Duplicate title shared with: " + strings.Join(others(rels, results[i].Rel), ", "),
			})
		}
	}
	return validate.NewReport(a.Root, results), nil
}

// FixCanonicals rewrites the canonical tag of every page that needs it
// and returns the relative paths changed. dryRun reports without writing.
func (a Auditor) FixCanonicals(ctx context.Context, files []string, dryRun bool) ([]string, error) {
	var changed []string
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		rel := site.Rel(a.Root, path)
		content, err := site.Read(path)
		if err != nil {
			a.logger().Warn("read failed", "file", path, "err", err)
			continue
		}
		doc, err := htmldoc.Parse(content)
		if err != nil || !a.canonicalNeedsFix(doc, rel) {
			continue
		}
		out, ok := FixCanonical(content, CanonicalURL(a.Domain, rel))
		if !ok {
			continue
		}
		if !dryRun {
			if err := site.Write(path, out); err != nil {
				a.logger().Warn("write failed", "file", path, "err", err)
				continue
			}
		}
		changed = append(changed, rel)
	}
	return changed, nil
}

func (a Auditor) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func others(all []string, self string) []string {
	out := make([]string, 0, len(all))
	for _, s := range all {
		if s != self {
			out = append(out, s)
		}
	}
	return out
}
