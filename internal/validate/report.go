package validate

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/betlegend/sitetools/internal/rules"
)

type Verdict string

const (
	Blocked  Verdict = "BLOCKED"
	Review   Verdict = "REVIEW"
	AllClear Verdict = "PASS"
)

type FileResult struct {
	Path   string        `json:"path"`
	Rel    string        `json:"rel"`
	Issues []rules.Issue `json:"issues"`
}

func (f FileResult) count(sev rules.Severity) int {
	n := 0
	for _, is := range f.Issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

type Summary struct {
	FilesScanned    int `json:"files_scanned"`
	FilesWithIssues int `json:"files_with_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
}

type Report struct {
	Root      string       `json:"root"`
	StartedAt time.Time    `json:"started_at"`
	Summary   Summary      `json:"summary"`
	Files     []FileResult `json:"files"`
}

// NewReport wraps results produced outside a Validator run and tallies
// them.
func NewReport(root string, files []FileResult) *Report {
	r := &Report{Root: root, StartedAt: time.Now(), Files: files}
	r.tally()
	return r
}

func (r *Report) tally() {
	r.Summary = Summary{FilesScanned: len(r.Files)}
	for _, f := range r.Files {
		if len(f.Issues) > 0 {
			r.Summary.FilesWithIssues++
		}
		r.Summary.Errors += f.count(rules.Error)
		r.Summary.Warnings += f.count(rules.Warning)
	}
}

func (r *Report) Verdict() Verdict {
	switch {
	case r.Summary.Errors > 0:
		return Blocked
	case r.Summary.Warnings > 0:
		return Review
	default:
		return AllClear
	}
}

// ExitCode is 1 when any error blocks publishing.
func (r *Report) ExitCode() int {
	if r.Summary.Errors > 0 {
		return 1
	}
	return 0
}

var rule = strings.Repeat("=", 70)

// DefaultTitle heads reports printed with an empty title.
const DefaultTitle = "VALIDATION REPORT"

// Print writes the human report under title: summary, errors per file,
// then warnings, then the verdict line.
func (r *Report) Print(w io.Writer, title string) {
	if title == "" {
		title = DefaultTitle
	}
	p := message.NewPrinter(language.English)
	p.Fprintln(w)
	p.Fprintln(w, rule)
	p.Fprintln(w, "  "+title)
	p.Fprintln(w, rule)
	p.Fprintln(w)
	p.Fprintf(w, "  Files scanned:      %d\n", r.Summary.FilesScanned)
	p.Fprintf(w, "  Files with issues:  %d\n", r.Summary.FilesWithIssues)
	p.Fprintf(w, "  Total ERRORS:       %d\n", r.Summary.Errors)
	p.Fprintf(w, "  Total WARNINGS:     %d\n", r.Summary.Warnings)
	p.Fprintln(w)

	if r.Summary.FilesWithIssues == 0 {
		p.Fprintln(w, "  [PASS] ALL CLEAR - No issues found!")
		p.Fprintln(w)
		return
	}

	for _, f := range r.Files {
		if f.count(rules.Error) == 0 {
			continue
		}
		p.Fprintf(w, "  [ERROR] %s\n", f.Rel)
		printIssues(w, f, rules.Error)
		p.Fprintln(w)
	}

	if r.Summary.Warnings > 0 {
		dash := strings.Repeat("-", 70)
		p.Fprintln(w, dash)
		p.Fprintln(w, "  WARNINGS (review recommended):")
		p.Fprintln(w, dash)
		p.Fprintln(w)
		for _, f := range r.Files {
			if f.count(rules.Warning) == 0 {
				continue
			}
			p.Fprintf(w, "  [WARN] %s\n", f.Rel)
			printIssues(w, f, rules.Warning)
			p.Fprintln(w)
		}
	}

	p.Fprintln(w, rule)
	switch r.Verdict() {
	case Blocked:
		p.Fprintf(w, "  [BLOCKED] HOLD - %d error(s) found. Fix before publishing!\n", r.Summary.Errors)
	case Review:
		p.Fprintf(w, "  [WARNING] REVIEW - %d warning(s). Check before publishing.\n", r.Summary.Warnings)
	default:
		p.Fprintln(w, "  [PASS] ALL CLEAR")
	}
	p.Fprintln(w, rule)
	p.Fprintln(w)
}

func printIssues(w io.Writer, f FileResult, sev rules.Severity) {
	for _, is := range f.Issues {
		if is.Severity != sev {
			continue
		}
		fmt.Fprintf(w, "     [%s] %s\n", is.Severity, is.Message)
		if is.Context != "" {
			fmt.Fprintf(w, "     Context: ...%s...\n", is.Context)
		}
	}
}
