// Command dupgames finds games previewed on more than one page of a
// sport. It exits 1 when any duplicate is found.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/betlegend/sitetools/internal/cli"
	"github.com/betlegend/sitetools/internal/dupes"
)

func main() {
	app := cli.New("dupgames")
	quiet := app.Flags.BoolP("quiet", "q", false, "only print the summary")
	fix := app.Flags.Bool("fix", false, "suggest which day each duplicate belongs to")
	only := app.Flags.String("sport", "", "check one sport only (default: all)")
	app.Parse(os.Args[1:])

	sports := dupes.Sports
	if *only != "" {
		sports = []string{*only}
	}

	c := dupes.Checker{Root: app.Config.Site.Root, Logger: app.Logger}
	total := 0
	for _, sport := range sports {
		res, err := c.Check(sport)
		if err != nil {
			log.Fatalf("check %s: %v", sport, err)
		}
		if res.Pages == 0 {
			continue
		}
		total += len(res.Duplicates)
		if len(res.Duplicates) == 0 {
			if !*quiet {
				fmt.Printf("✅ %s: %d pages, no duplicates\n", sport, res.Pages)
			}
			continue
		}

		fmt.Printf("❌ %s: %d duplicate games across %d pages\n", sport, len(res.Duplicates), res.Pages)
		if *quiet {
			continue
		}
		for _, d := range res.Duplicates {
			fmt.Printf("   %s\n", d.Original())
			for _, o := range d.Pages {
				line := fmt.Sprintf("      - %s", o.Page)
				if o.Game.PageDate != "" {
					line += " (" + o.Game.PageDate + ")"
				}
				if o.Game.Time != "" {
					line += " " + o.Game.Time
				}
				if *fix {
					if day := dupes.SuggestDay(o.Game.Time); day != "" {
						line += " -> belongs on " + day + "'s page"
					}
				}
				fmt.Println(line)
			}
		}
	}

	if total > 0 {
		fmt.Printf("\nFound %d duplicate games\n", total)
		os.Exit(1)
	}
	fmt.Println("No duplicate games found")
}
