// Package fixer applies the rulebook's repair substitutions to pages.
package fixer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/betlegend/sitetools/internal/rules"
	"github.com/betlegend/sitetools/internal/site"
)

var (
	innerSpacesRe = regexp.MustCompile(`(\S) {2,}`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

type Fixer struct {
	Book   *rules.Book
	Root   string
	DryRun bool
	Logger *slog.Logger
}

// FileChange records the repairs made to one page.
type FileChange struct {
	Path   string
	Rel    string
	Counts map[string]int
}

func (f FileChange) Total() int {
	n := 0
	for _, c := range f.Counts {
		n += c
	}
	return n
}

type Result struct {
	Scanned int
	Skipped int
	Changes []FileChange
	Errors  []error
}

// Totals sums the repair counts per rule across every changed page.
func (r Result) Totals() map[string]int {
	out := map[string]int{}
	for _, c := range r.Changes {
		for name, n := range c.Counts {
			out[name] += n
		}
	}
	return out
}

// Fix applies every repair to content, then tidies the whitespace the
// removals leave behind. The content is returned untouched when nothing
// matched.
func (f *Fixer) Fix(content string) (string, map[string]int) {
	counts := map[string]int{}
	out := content
	for _, r := range f.Book.Repairs {
		var n int
		out, n = r.Apply(out)
		if n > 0 {
			counts[r.Name] += n
		}
	}
	if len(counts) == 0 {
		return content, counts
	}
	out = innerSpacesRe.ReplaceAllString(out, "$1 ")
	out = blankLinesRe.ReplaceAllString(out, "\n\n")
	return out, counts
}

func (f *Fixer) skip(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, s := range f.Book.RepairSkipFiles {
		if strings.ToLower(s) == base {
			return true
		}
	}
	return false
}

// Run fixes every page in files. Read and write failures are recorded in
// the result and the run moves on.
func (f *Fixer) Run(ctx context.Context, files []string) (Result, error) {
	var res Result
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if f.skip(path) {
			res.Skipped++
			continue
		}
		res.Scanned++
		content, err := site.Read(path)
		if err != nil {
			f.logger().Warn("read failed", "file", path, "err", err)
			res.Errors = append(res.Errors, fmt.Errorf("read %s: %w", path, err))
			continue
		}
		out, counts := f.Fix(content)
		if out == content {
			continue
		}
		if !f.DryRun {
			if err := site.Write(path, out); err != nil {
				f.logger().Warn("write failed", "file", path, "err", err)
				res.Errors = append(res.Errors, fmt.Errorf("write %s: %w", path, err))
				continue
			}
		}
		res.Changes = append(res.Changes, FileChange{Path: path, Rel: site.Rel(f.Root, path), Counts: counts})
	}
	sort.Slice(res.Changes, func(i, j int) bool { return res.Changes[i].Rel < res.Changes[j].Rel })
	return res, nil
}

func (f *Fixer) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}
