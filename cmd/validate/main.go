// Command validate is the pre-publish gate. It scans the site (or one
// page) and exits 1 when any error should block publishing.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/betlegend/sitetools/internal/cli"
	"github.com/betlegend/sitetools/internal/db"
	"github.com/betlegend/sitetools/internal/hook"
	"github.com/betlegend/sitetools/internal/notification"
	"github.com/betlegend/sitetools/internal/store"
	"github.com/betlegend/sitetools/internal/validate"
)

func main() {
	os.Exit(run())
}

func run() int {
	app := cli.New("validate")
	installHook := app.Flags.Bool("install-hook", false, "install a git pre-commit hook that runs this gate")
	asJSON := app.Flags.Bool("json", false, "print the report as JSON")
	quiet := app.Flags.BoolP("quiet", "q", false, "no progress output")
	notify := app.Flags.Bool("notify", false, "post the verdict to Slack and email the report")
	app.Parse(os.Args[1:])
	root := app.Config.Site.Root

	if *installHook {
		exe, err := os.Executable()
		if err != nil {
			log.Fatalf("install hook: %v", err)
		}
		command, err := hook.Command(exe, root, "--quiet")
		if err != nil {
			log.Fatalf("install hook: %v", err)
		}
		path, err := hook.Install(root, command)
		if err != nil {
			log.Fatalf("install hook: %v", err)
		}
		fmt.Printf("✅ Pre-commit hook installed: %s\n", path)
		fmt.Println("Running validation to check current state...")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files := app.Pages(app.Arg(0, root))
	if len(files) == 0 {
		fmt.Println("No HTML pages found.")
		return 0
	}

	v := app.Validator(ctx)
	if !*quiet && !*asJSON {
		fmt.Printf("🔍 Validating %d pages under %s\n", len(files), root)
		v.Progress = func(done, total int) {
			if done%100 == 0 || done == total {
				fmt.Fprintf(os.Stderr, "   ... %d/%d\n", done, total)
			}
		}
	}

	rep, err := v.Run(ctx, files)
	if err != nil {
		log.Fatalf("validate: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatalf("encode report: %v", err)
		}
	} else {
		rep.Print(os.Stdout, validate.DefaultTitle)
	}

	rec := store.NewRun(rep, "manual", time.Now())
	if app.Config.DatabaseURL != "" {
		pool := db.InitDB(app.Config.DatabaseURL)
		defer pool.Close()
		if err := store.SaveRun(ctx, pool, rec); err != nil {
			fmt.Printf("ERROR [SaveRun]: %v\n", err)
		} else if !*quiet {
			fmt.Printf("💾 Saved run %s\n", rec.ID)
		}
	}

	if *notify {
		notification.InitEmail(app.Config.SMTP)
		if err := notification.NotifyReport(ctx, app.Config.SlackURL, app.Config.SMTP.To, rep, rec.ID); err != nil {
			fmt.Printf("ERROR [Notify]: %v\n", err)
		}
		notification.Wait()
	}
	return rep.ExitCode()
}
