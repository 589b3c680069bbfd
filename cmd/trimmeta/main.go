// Command trimmeta shortens meta descriptions longer than search engines
// display, cutting at a sentence or word boundary.
package main

import (
	"fmt"
	"os"

	"github.com/betlegend/sitetools/internal/cli"
	"github.com/betlegend/sitetools/internal/seo"
	"github.com/betlegend/sitetools/internal/site"
)

func main() {
	app := cli.New("trimmeta")
	dryRun := app.Flags.Bool("dry-run", false, "list the pages without writing")
	app.Parse(os.Args[1:])

	root := app.Config.Site.Root
	files := app.Pages(app.Arg(0, root))

	pages, tags := 0, 0
	for _, path := range files {
		content, err := site.Read(path)
		if err != nil {
			fmt.Printf("ERROR [Read]: %v\n", err)
			continue
		}
		out, n := seo.TrimMetaDescriptions(content)
		if n == 0 {
			continue
		}
		if !*dryRun {
			if err := site.Write(path, out); err != nil {
				fmt.Printf("ERROR [Write]: %v\n", err)
				continue
			}
		}
		pages++
		tags += n
		fmt.Printf("  ✂️  %s (%d tags)\n", site.Rel(root, path), n)
	}

	verb := "Trimmed"
	if *dryRun {
		verb = "Would trim"
	}
	fmt.Printf("%s %d descriptions on %d of %d pages\n", verb, tags, pages, len(files))
}
