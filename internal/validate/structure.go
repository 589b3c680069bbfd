package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/betlegend/sitetools/internal/htmldoc"
	"github.com/betlegend/sitetools/internal/rules"
)

var externalPrefixes = []string{"http://", "https://", "//", "mailto:", "tel:", "#", "javascript:", "data:"}

func (v *Validator) checkStructure(c *collector, path string, doc *htmldoc.Doc) {
	s := doc.Structure()
	if !s.HTML {
		c.add(rules.Error, "structure", "Missing <html> tag", "")
	}
	if !s.Head {
		c.add(rules.Error, "structure", "Missing <head> tag", "")
	}
	if !s.Body {
		c.add(rules.Error, "structure", "Missing <body> tag", "")
	}
	if !s.Title {
		c.add(rules.Warning, "structure", "Missing <title> tag", "")
	}

	if links, ok := doc.NavLinks(); !ok {
		c.add(rules.Warning, "structure", "No <nav> element found", "")
	} else {
		for _, alts := range v.Book.Nav.Required {
			if len(alts) > 0 && !anyContains(links, alts) {
				c.add(rules.Warning, "structure", "Expected nav link missing: "+alts[0], "")
			}
		}
	}

	for _, tag := range doc.EmptyElements() {
		c.add(rules.Warning, "structure", fmt.Sprintf("Empty <%s> element found", tag), "")
	}

	dir := filepath.Dir(path)
	for _, href := range doc.Links() {
		if target, ok := internalPage(href); ok {
			base := dir
			if strings.HasPrefix(target, "/") && v.Root != "" {
				base = v.Root
			}
			if _, err := os.Stat(filepath.Join(base, filepath.FromSlash(target))); err != nil {
				c.add(rules.Warning, "structure", "Possibly broken internal link: "+href, "")
			}
		}
	}

	for _, id := range doc.DuplicateIDs() {
		c.add(rules.Warning, "structure", "Duplicate ID found: #"+id, "")
	}
}

// internalPage returns the file part of a relative link to an .html page.
func internalPage(href string) (string, bool) {
	if href == "" {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, p := range externalPrefixes {
		if strings.HasPrefix(lower, p) {
			return "", false
		}
	}
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	lower = strings.ToLower(href)
	if !strings.HasSuffix(lower, ".html") && !strings.HasSuffix(lower, ".htm") {
		return "", false
	}
	return href, true
}

func anyContains(links, alts []string) bool {
	for _, alt := range alts {
		for _, l := range links {
			if strings.Contains(l, alt) {
				return true
			}
		}
	}
	return false
}
