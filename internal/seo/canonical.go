package seo

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	canonicalTagRe = regexp.MustCompile(`(?i)<link\b[^>]*\brel\s*=\s*["']?canonical["']?[^>]*>`)
	headOpenRe     = regexp.MustCompile(`(?i)<head[\s>]`)
	headCloseRe    = regexp.MustCompile(`(?i)</head>`)
)

// CanonicalURL is the canonical address of a page given its path relative
// to the site root.
func CanonicalURL(domain, rel string) string {
	return strings.TrimRight(domain, "/") + "/" + strings.TrimLeft(rel, "/")
}

// FixCanonical leaves exactly one canonical link pointing at want. An
// existing tag is replaced in place and any extras are removed; otherwise
// the tag goes after </title>, or before </head>. Pages without a <head>
// are not touched.
func FixCanonical(content, want string) (string, bool) {
	if !headOpenRe.MatchString(content) {
		return content, false
	}
	tag := `<link href="` + want + `" rel="canonical"/>`

	locs := canonicalTagRe.FindAllStringIndex(content, -1)
	if len(locs) > 0 {
		var b strings.Builder
		last := 0
		for i, loc := range locs {
			b.WriteString(content[last:loc[0]])
			if i == 0 {
				b.WriteString(tag)
			}
			last = loc[1]
		}
		b.WriteString(content[last:])
		out := b.String()
		return out, out != content
	}

	if loc := titleCloseRe.FindStringIndex(content); loc != nil {
		return content[:loc[1]] + "\n" + tag + content[loc[1]:], true
	}
	if loc := headCloseRe.FindStringIndex(content); loc != nil {
		return content[:loc[0]] + tag + "\n" + content[loc[0]:], true
	}
	return content, false
}

// canonicalProblem describes what is wrong with a canonical href for the
// page at rel, or returns "" when it is fine.
func canonicalProblem(domain, rel, href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return "Canonical is not an absolute URL: " + href
	}
	want, _ := url.Parse(domain)
	if want != nil && strings.HasPrefix(want.Host, "www.") && !strings.HasPrefix(u.Host, "www.") &&
		strings.TrimPrefix(want.Host, "www.") == u.Host {
		return "Canonical uses non-www URL: " + href
	}
	if want != nil && !strings.EqualFold(u.Host, want.Host) {
		return "Canonical points to another host: " + href
	}
	path := strings.TrimPrefix(u.Path, "/")
	if path == rel {
		return ""
	}
	if (rel == "index.html" && path == "") || (strings.HasSuffix(rel, "/index.html") && path == strings.TrimSuffix(rel, "index.html")) {
		return ""
	}
	return "Canonical points to wrong file: " + href
}
