// Command sitemap regenerates sitemap.xml from the pages on disk.
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
	app := cli.New("sitemap")
	stdout := app.Flags.Bool("stdout", false, "print the sitemap instead of writing sitemap.xml")
	app.Parse(os.Args[1:])

	root := app.Config.Site.Root
	g := sitemap.Generator{Root: root, Domain: app.Config.Site.Domain, Logger: app.Logger}
	urls, skipped := g.Generate(app.Pages(root))

	var buf bytes.Buffer
	if err := sitemap.Write(&buf, urls); err != nil {
		log.Fatalf("encode sitemap: %v", err)
	}
	if *stdout {
		os.Stdout.Write(buf.Bytes())
		return
	}

	out := filepath.Join(root, "sitemap.xml")
	if err := site.Write(out, buf.String()); err != nil {
		log.Fatalf("write sitemap: %v", err)
	}
	fmt.Printf("🗺️  Wrote %s: %d URLs (%d pages left out)\n", out, len(urls), skipped)
}
