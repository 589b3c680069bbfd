package htmldoc

import (
	"testing"
	"time"
)

func TestParseLongDate(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"NBA Analysis - January 12, 2026 | BetLegend", "2026-01-12"},
		{"posted december 3 2025", "2025-12-03"},
		{"MARCH 5, 2026", "2026-03-05"},
		{"February 30, 2026", ""},
		{"NBA Archive - Page 4", ""},
	} {
		got, ok := ParseLongDate(tc.in)
		if tc.want == "" {
			if ok {
				t.Errorf("ParseLongDate(%q)=%v, want no date", tc.in, got)
			}
			continue
		}
		if !ok || got.Format(time.DateOnly) != tc.want {
			t.Errorf("ParseLongDate(%q)=%v,%v want %s", tc.in, got, ok, tc.want)
		}
	}
}

func TestTitleDate(t *testing.T) {
	d := mustParse(t, `<html><head><title>NHL Preview - November 24, 2025</title></head><body><p>January 1, 2020</p></body></html>`)
	got, ok := d.TitleDate()
	if !ok || got.Format(time.DateOnly) != "2025-11-24" {
		t.Fatalf("TitleDate=%v,%v", got, ok)
	}
}
