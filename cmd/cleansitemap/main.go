// Command cleansitemap drops sitemap entries whose page no longer exists.
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/betlegend/sitetools/internal/cli"
	"github.com/betlegend/sitetools/internal/site"
	"github.com/betlegend/sitetools/internal/sitemap"
)

func main() {
	app := cli.New("cleansitemap")
	dryRun := app.Flags.Bool("dry-run", false, "list dead entries without rewriting")
	app.Parse(os.Args[1:])

	root := app.Config.Site.Root
	path := app.Arg(0, filepath.Join(root, "sitemap.xml"))

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open sitemap: %v", err)
	}
	set, err := sitemap.Parse(f)
	f.Close()
	if err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}

	c := sitemap.Cleaner{Root: root, Domain: app.Config.Site.Domain}
	kept, removed := c.Clean(set.URLs)
	for _, u := range removed {
		fmt.Printf("  ❌ %s\n", u.Loc)
	}
	fmt.Printf("%d entries, %d dead\n", len(set.URLs), len(removed))
	if len(removed) == 0 || *dryRun {
		return
	}

	var buf bytes.Buffer
	if err := sitemap.Write(&buf, kept); err != nil {
		log.Fatalf("encode sitemap: %v", err)
	}
	if err := site.Write(path, buf.String()); err != nil {
		log.Fatalf("write sitemap: %v", err)
	}
	fmt.Printf("✅ Rewrote %s with %d entries\n", path, len(kept))
}
