// Package htmldoc wraps goquery with the page queries the site tools share:
// main-content text, head metadata, links and structural defects.
package htmldoc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	noiseSelector   = "script, style, nav, header, footer"
	contentClassRe  = regexp.MustCompile(`(?i)content|article|post|blog`)
	tagRe           = regexp.MustCompile(`<[^>]+>`)
	spaceRe         = regexp.MustCompile(`\s+`)
	EmptyCheckedTag = []string{"h1", "h2", "h3", "p", "a", "li"}
)

// Doc is a parsed page. The raw source is kept for checks the HTML parser
// would hide, such as a missing <head> that it synthesizes.
type Doc struct {
	Raw string
	dom *goquery.Document
}

func Parse(content string) (*Doc, error) {
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	return &Doc{Raw: content, dom: dom}, nil
}

// DOM exposes the underlying document for callers with page-specific
// selectors.
func (d *Doc) DOM() *goquery.Document { return d.dom }

// Text returns the whitespace-collapsed text of the main content area.
// Scripts, styles and site chrome are dropped; <main> is preferred, then
// <article>, then any element whose class looks like a content wrapper.
func (d *Doc) Text() string {
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(d.Raw))
	if err != nil {
		return CollapseSpace(StripTags(d.Raw))
	}
	dom.Find(noiseSelector).Remove()

	target := dom.Find("main").First()
	if target.Length() == 0 {
		target = dom.Find("article").First()
	}
	if target.Length() == 0 {
		target = dom.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			return contentClassRe.MatchString(class)
		}).First()
	}
	if target.Length() == 0 {
		target = dom.Find("body")
	}
	if target.Length() == 0 {
		target = dom.Selection
	}
	return CollapseSpace(NodeText(target))
}

// NodeText joins the text nodes under s with single spaces so adjacent
// block elements do not run their words together.
func NodeText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}

func (d *Doc) Title() string {
	return strings.TrimSpace(d.dom.Find("title").First().Text())
}

func (d *Doc) HasTitle() bool {
	return d.dom.Find("title").Length() > 0
}

func (d *Doc) MetaDescription() (string, bool) {
	return d.metaContent("name", "description")
}

// MetaProperty returns the content of <meta property="prop">.
func (d *Doc) MetaProperty(prop string) (string, bool) {
	return d.metaContent("property", prop)
}

func (d *Doc) metaContent(attr, value string) (string, bool) {
	var out string
	found := false
	d.dom.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr(attr)
		if !strings.EqualFold(v, value) {
			return true
		}
		out, _ = s.Attr("content")
		found = true
		return false
	})
	return strings.TrimSpace(out), found
}

// Canonicals returns the href of every rel=canonical link.
func (d *Doc) Canonicals() []string {
	var out []string
	d.dom.Find("link").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		if !strings.EqualFold(strings.TrimSpace(rel), "canonical") {
			return
		}
		href, _ := s.Attr("href")
		out = append(out, strings.TrimSpace(href))
	})
	return out
}

func (d *Doc) H1() []string {
	var out []string
	d.dom.Find("h1").Each(func(_ int, s *goquery.Selection) {
		out = append(out, CollapseSpace(NodeText(s)))
	})
	return out
}

// Links returns every anchor href in document order.
func (d *Doc) Links() []string {
	return hrefs(d.dom.Find("a[href]"))
}

// NavLinks returns the hrefs inside the first <nav> (or element with a
// nav class), and false when the page has neither.
func (d *Doc) NavLinks() ([]string, bool) {
	nav := d.dom.Find("nav").First()
	if nav.Length() == 0 {
		nav = d.dom.Find(`[class*="nav"]`).First()
	}
	if nav.Length() == 0 {
		return nil, false
	}
	return hrefs(nav.Find("a[href]")), true
}

func hrefs(s *goquery.Selection) []string {
	var out []string
	s.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		out = append(out, strings.TrimSpace(href))
	})
	return out
}

// DuplicateIDs returns the sorted ids used by more than one element.
func (d *Doc) DuplicateIDs() []string {
	counts := map[string]int{}
	d.dom.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if id = strings.TrimSpace(id); id != "" {
			counts[id]++
		}
	})
	var out []string
	for id, n := range counts {
		if n > 1 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// EmptyElements returns, once per tag, the checked tags that have an
// element with no text and no image.
func (d *Doc) EmptyElements() []string {
	var out []string
	for _, tag := range EmptyCheckedTag {
		empty := d.dom.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
			if strings.TrimSpace(NodeText(s)) != "" {
				return false
			}
			return s.Find("img, svg").Length() == 0
		})
		if empty.Length() > 0 {
			out = append(out, tag)
		}
	}
	return out
}

// Structure reports which of the document-level tags appear in the raw
// source.
type Structure struct {
	HTML, Head, Body, Title bool
}

var (
	htmlTagRe  = regexp.MustCompile(`(?i)<html[\s>]`)
	headTagRe  = regexp.MustCompile(`(?i)<head[\s>]`)
	bodyTagRe  = regexp.MustCompile(`(?i)<body[\s>]`)
	titleTagRe = regexp.MustCompile(`(?i)<title[\s>]`)
)

func (d *Doc) Structure() Structure {
	return Structure{
		HTML:  htmlTagRe.MatchString(d.Raw),
		Head:  headTagRe.MatchString(d.Raw),
		Body:  bodyTagRe.MatchString(d.Raw),
		Title: titleTagRe.MatchString(d.Raw),
	}
}

// StripTags removes markup with a regexp; used for fragments and as a
// fallback when parsing fails.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, " ")
}

func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
