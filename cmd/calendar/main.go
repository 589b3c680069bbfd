// Command calendar rebuilds the <sport>-games-data.js files behind the
// sport calendars. With --gaps it only checks page dates and exits 1 when
// a calendar would be wrong.
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/betlegend/sitetools/internal/calendar"
	"github.com/betlegend/sitetools/internal/cli"
	"github.com/betlegend/sitetools/internal/site"
)

func main() {
	app := cli.New("calendar")
	gaps := app.Flags.Bool("gaps", false, "check for undated, generic and missing dates without writing")
	days := app.Flags.Int("recent", 14, "with --gaps, list missing dates from the last N days")
	only := app.Flags.String("sport", "", "check one sport only (default: all)")
	app.Parse(os.Args[1:])

	sports := calendar.Sports
	if *only != "" {
		sports = []string{*only}
	}
	b := calendar.Builder{Root: app.Config.Site.Root, Logger: app.Logger}

	if *gaps {
		if !checkGaps(b, sports, *days) {
			os.Exit(1)
		}
		return
	}

	for _, sport := range sports {
		entries, undated, err := b.Build(sport)
		if err != nil {
			log.Fatalf("build %s: %v", sport, err)
		}
		if len(entries) == 0 {
			fmt.Printf("⏭️  %s: no dated pages\n", sport)
			continue
		}
		var buf bytes.Buffer
		if err := calendar.WriteJS(&buf, sport, entries); err != nil {
			log.Fatalf("render %s: %v", sport, err)
		}
		out := filepath.Join(b.Root, calendar.DataFile(sport))
		if err := site.Write(out, buf.String()); err != nil {
			log.Fatalf("write %s: %v", out, err)
		}
		fmt.Printf("📅 %s: %d entries -> %s\n", sport, len(entries), calendar.DataFile(sport))
		for _, p := range undated {
			fmt.Printf("   ⚠️  no date found: %s\n", p)
		}
	}
}

func checkGaps(b calendar.Builder, sports []string, days int) bool {
	healthy := true
	now := time.Now()
	for _, sport := range sports {
		rep, err := b.Gaps(sport)
		if err != nil {
			log.Fatalf("gaps %s: %v", sport, err)
		}
		if len(rep.Dates) == 0 && len(rep.NoDate) == 0 && len(rep.GenericTitles) == 0 {
			continue
		}
		cli.Rule(os.Stdout, fmt.Sprintf("%s CALENDAR", sport))
		first, last := rep.Range()
		fmt.Printf("Pages: %d dated, range %s to %s\n", len(rep.Dates), first, last)

		for _, p := range rep.GenericTitles {
			fmt.Printf("  ❌ generic title: %s\n", p)
		}
		for _, p := range rep.NoDate {
			fmt.Printf("  ❌ no date in title: %s\n", p)
		}
		for _, g := range rep.Duplicates {
			fmt.Printf("  ❌ %s claimed by %v\n", g.Date, g.Pages)
		}
		if recent := rep.RecentMissing(now, days); len(recent) > 0 {
			fmt.Printf("  ⚠️  missing in the last %d days: %v\n", days, recent)
		}
		if rep.Healthy() {
			fmt.Println("  ✅ healthy")
		} else {
			healthy = false
		}
	}
	return healthy
}
