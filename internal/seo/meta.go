package seo

import (
	"html"
	"regexp"
	"strings"
)

const (
	trimThreshold = 170
	trimMax       = 165
	trimMin       = 120
	trimCut       = 157
)

// TrimDescription shortens descriptions longer than 170 characters. It
// prefers a sentence end between 120 and 165 characters, then a word
// boundary before 157 plus "...", and finally a hard cut.
func TrimDescription(desc string) string {
	r := []rune(desc)
	if len(r) <= trimThreshold {
		return desc
	}

	search := r[:trimMax]
	for i := len(search) - 1; i >= trimMin; i-- {
		if search[i] == '.' && (i+1 >= len(search) || search[i+1] == ' ') {
			out := strings.TrimSpace(string(r[:i+1]))
			if n := len([]rune(out)); n >= trimMin && n <= trimMax {
				return out
			}
			break
		}
	}

	if sp := lastSpace(r[:trimCut]); sp >= trimMin {
		out := strings.TrimRight(string(r[:sp]), ",;:-") + "..."
		if n := len([]rune(out)); n >= trimMin && n <= trimMax {
			return out
		}
	}
	return strings.TrimRightFunc(string(r[:trimCut]), isSpace) + "..."
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == ' ' {
			return i
		}
	}
	return -1
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

var (
	metaTagRe  = regexp.MustCompile(`(?i)<meta\b[^>]*>`)
	metaAttrRe = regexp.MustCompile(`(?i)([a-z][a-z0-9:_-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	tagEndRe   = regexp.MustCompile(`\s*/?>$`)
)

var descriptionTags = []struct{ attr, key string }{
	{"name", "description"},
	{"property", "og:description"},
	{"name", "twitter:description"},
}

// metaSpan holds byte offsets of a <meta> tag and of its content value.
// value is {-1, -1} when the tag has no content attribute.
type metaSpan struct {
	tag   [2]int
	value [2]int
}

// findMeta locates the first <meta> tag whose attr equals key, whatever
// the attribute order or quote style.
func findMeta(content, attr, key string) (metaSpan, bool) {
	for _, loc := range metaTagRe.FindAllStringIndex(content, -1) {
		tag := content[loc[0]:loc[1]]
		matched := false
		span := metaSpan{tag: [2]int{loc[0], loc[1]}, value: [2]int{-1, -1}}
		for _, m := range metaAttrRe.FindAllStringSubmatchIndex(tag, -1) {
			name := strings.ToLower(tag[m[2]:m[3]])
			vs, ve := m[4], m[5]
			if vs < 0 {
				vs, ve = m[6], m[7]
			}
			switch name {
			case attr:
				matched = strings.EqualFold(strings.TrimSpace(tag[vs:ve]), key)
			case "content":
				if span.value[0] < 0 {
					span.value = [2]int{loc[0] + vs, loc[0] + ve}
				}
			}
			if name == attr && !matched {
				break
			}
		}
		if matched {
			return span, true
		}
	}
	return metaSpan{}, false
}

// replaceMeta rewrites the content of the first <meta attr="key"> tag,
// adding a content attribute when the tag has none. ok is false when no
// such tag exists; changed is false when fn keeps the value.
func replaceMeta(content, attr, key string, fn func(string) string) (out string, ok, changed bool) {
	span, ok := findMeta(content, attr, key)
	if !ok {
		return content, false, false
	}
	if span.value[0] < 0 {
		repl := fn("")
		if repl == "" {
			return content, true, false
		}
		tag := content[span.tag[0]:span.tag[1]]
		end := tagEndRe.FindStringIndex(tag)
		at := span.tag[0] + end[0]
		return content[:at] + ` content="` + repl + `"` + content[at:], true, true
	}
	old := content[span.value[0]:span.value[1]]
	repl := fn(old)
	if repl == old {
		return content, true, false
	}
	return content[:span.value[0]] + repl + content[span.value[1]:], true, true
}

// TrimMetaDescriptions trims the page's description, og:description and
// twitter:description independently. Redirect stubs are left alone.
func TrimMetaDescriptions(content string) (string, int) {
	head := content
	if len(head) > 500 {
		head = head[:500]
	}
	if strings.Contains(head, "Page Moved") {
		return content, 0
	}
	changed := 0
	for _, t := range descriptionTags {
		var ok bool
		content, _, ok = replaceMeta(content, t.attr, t.key, TrimDescription)
		if ok {
			changed++
		}
	}
	return content, changed
}

var (
	titleRe      = regexp.MustCompile(`(?is)<title[^>]*>.*?</title>`)
	titleCloseRe = regexp.MustCompile(`(?i)</title>`)
)

// SetTitle sets the page title and meta description, inserting the
// description after </title> when the page has none.
func SetTitle(content, title, desc string) (string, bool) {
	out := content
	if title != "" {
		tag := "<title>" + html.EscapeString(title) + "</title>"
		if loc := titleRe.FindStringIndex(out); loc != nil {
			out = out[:loc[0]] + tag + out[loc[1]:]
		} else if loc := headCloseRe.FindStringIndex(out); loc != nil {
			out = out[:loc[0]] + tag + "\n" + out[loc[0]:]
		}
	}
	if desc != "" {
		escaped := html.EscapeString(desc)
		var found bool
		out, found, _ = replaceMeta(out, "name", "description", func(string) string { return escaped })
		if !found {
			tag := `<meta name="description" content="` + escaped + `">`
			if loc := titleCloseRe.FindStringIndex(out); loc != nil {
				out = out[:loc[1]] + "\n" + tag + out[loc[1]:]
			} else if loc := headCloseRe.FindStringIndex(out); loc != nil {
				out = out[:loc[0]] + tag + "\n" + out[loc[0]:]
			}
		}
	}
	return out, out != content
}
