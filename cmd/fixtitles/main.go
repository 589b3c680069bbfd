// Command fixtitles applies hand-written titles and descriptions from a
// YAML file keyed by page path:
//
//	nba-page3.html:
//	  title: "NBA Picks January 5, 2026 | BetLegend"
//	  description: "..."
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/betlegend/sitetools/internal/cli"
	"github.com/betlegend/sitetools/internal/seo"
	"github.com/betlegend/sitetools/internal/site"
)

type pageMeta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

func main() {
	app := cli.New("fixtitles")
	dryRun := app.Flags.Bool("dry-run", false, "list the pages without writing")
	app.Parse(os.Args[1:])

	if app.Flags.NArg() < 1 {
		log.Fatal("usage: fixtitles [flags] <titles.yaml>")
	}
	raw, err := os.ReadFile(app.Flags.Arg(0))
	if err != nil {
		log.Fatalf("read mapping: %v", err)
	}
	var mapping map[string]pageMeta
	if err := yaml.Unmarshal(raw, &mapping); err != nil {
		log.Fatalf("parse mapping: %v", err)
	}

	rels := make([]string, 0, len(mapping))
	for rel := range mapping {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	root := app.Config.Site.Root
	updated, missing := 0, 0
	for _, rel := range rels {
		meta := mapping[rel]
		path := filepath.Join(root, filepath.FromSlash(rel))
		content, err := site.Read(path)
		if err != nil {
			fmt.Printf("  ⚠️  %s: %v\n", rel, err)
			missing++
			continue
		}
		out, ok := seo.SetTitle(content, meta.Title, meta.Description)
		if !ok {
			continue
		}
		if !*dryRun {
			if err := site.Write(path, out); err != nil {
				fmt.Printf("ERROR [Write]: %v\n", err)
				continue
			}
		}
		updated++
		fmt.Printf("  ✅ %s\n", rel)
	}
	fmt.Printf("Updated %d pages, %d not found, %d already current\n", updated, missing, len(rels)-updated-missing)
}
