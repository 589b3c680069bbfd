// Command seocheck audits titles, descriptions, canonicals and headings
// across the site. With --fix it repairs what it can: missing titles,
// descriptions, h1s and canonicals, unbranded or long titles.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/betlegend/sitetools/internal/cli"
	"github.com/betlegend/sitetools/internal/seo"
)

func main() {
	app := cli.New("seocheck")
	fix := app.Flags.Bool("fix", false, "repair missing or broken head metadata")
	canonicalsOnly := app.Flags.Bool("canonicals-only", false, "with --fix, only rewrite canonical tags")
	dryRun := app.Flags.Bool("dry-run", false, "with --fix, list the pages without writing")
	brand := app.Flags.String("brand", seo.DefaultBrand, "brand every title should carry")
	app.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := seo.Auditor{Root: app.Config.Site.Root, Domain: app.Config.Site.Domain, Brand: *brand, Logger: app.Logger}
	files := app.Pages(app.Arg(0, app.Config.Site.Root))

	verb := "Fixed"
	if *dryRun {
		verb = "Would fix"
	}
	switch {
	case *fix && *canonicalsOnly:
		changed, err := a.FixCanonicals(ctx, files, *dryRun)
		if err != nil {
			log.Fatalf("fix canonicals: %v", err)
		}
		for _, rel := range changed {
			fmt.Printf("  🔧 %s\n", rel)
		}
		fmt.Printf("%s canonical tags on %d of %d pages\n", verb, len(changed), len(files))
		return
	case *fix:
		repairs, err := a.Fix(ctx, files, *dryRun)
		if err != nil {
			log.Fatalf("seo fix: %v", err)
		}
		counts := map[string]int{}
		for _, r := range repairs {
			fmt.Printf("  🔧 %s: %s\n", r.Rel, strings.Join(r.Fixes, ", "))
			if r.NewTitle != r.OldTitle && r.OldTitle != "" {
				fmt.Printf("       %q -> %q\n", r.OldTitle, r.NewTitle)
			}
			for _, f := range r.Fixes {
				counts[f]++
			}
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-14s %d\n", name, counts[name])
		}
		fmt.Printf("%s %d of %d pages\n", verb, len(repairs), len(files))
		return
	}

	rep, err := a.Run(ctx, files)
	if err != nil {
		log.Fatalf("seo audit: %v", err)
	}
	rep.Print(os.Stdout, "SEO AUDIT")
	os.Exit(rep.ExitCode())
}
