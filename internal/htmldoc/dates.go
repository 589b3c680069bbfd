package htmldoc

import (
	"regexp"
	"strconv"
	"time"
)

var longDateRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s*(\d{4})`)

// ParseLongDate finds the first "Month D, YYYY" date in s. Days that do
// not exist in the month are rejected.
func ParseLongDate(s string) (time.Time, bool) {
	m := longDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	month, err := time.Parse("January", capitalize(m[1]))
	if err != nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	t := time.Date(year, month.Month(), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month.Month() {
		return time.Time{}, false
	}
	return t, true
}

func capitalize(s string) string {
	b := []byte(s)
	for i := range b {
		switch {
		case i == 0 && b[i] >= 'a' && b[i] <= 'z':
			b[i] -= 'a' - 'A'
		case i > 0 && b[i] >= 'A' && b[i] <= 'Z':
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// TitleDate is the date named in the page's <title>.
func (d *Doc) TitleDate() (time.Time, bool) {
	return ParseLongDate(d.Title())
}
