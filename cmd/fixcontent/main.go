// Command fixcontent applies the rulebook's automatic repairs: stale team
// references and banned line-movement language.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/betlegend/sitetools/internal/cli"
	"github.com/betlegend/sitetools/internal/fixer"
)

func main() {
	app := cli.New("fixcontent")
	dryRun := app.Flags.Bool("dry-run", false, "report repairs without writing")
	app.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := app.Config.Site.Root
	f := &fixer.Fixer{Book: app.Rulebook(), Root: root, DryRun: *dryRun, Logger: app.Logger}
	res, err := f.Run(ctx, app.Pages(app.Arg(0, root)))
	if err != nil {
		log.Fatalf("fix: %v", err)
	}

	cli.Rule(os.Stdout, "CONTENT FIXES")
	for _, c := range res.Changes {
		fmt.Printf("  🔧 %s (%d)\n", c.Rel, c.Total())
	}

	totals := res.Totals()
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		fmt.Println()
		for _, name := range names {
			fmt.Printf("  %-24s %d\n", name, totals[name])
		}
	}

	verb := "Changed"
	if *dryRun {
		verb = "Would change"
	}
	fmt.Printf("\nScanned %d pages (%d skipped). %s %d.\n", res.Scanned, res.Skipped, verb, len(res.Changes))
	for _, err := range res.Errors {
		fmt.Printf("ERROR [Fix]: %v\n", err)
	}
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}
