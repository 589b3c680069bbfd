package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/betlegend/sitetools/internal/notification"
	"github.com/betlegend/sitetools/internal/site"
	"github.com/betlegend/sitetools/internal/store"
	"github.com/betlegend/sitetools/internal/validate"
)

var ErrNotPage = errors.New("not an html page")

// RunSaver persists finished runs. store.Runs satisfies it.
type RunSaver interface {
	SaveRun(ctx context.Context, run *store.Run) error
}

// Job is one validation pass over the site: find pages, validate, store
// the run, notify. Runs are serialized so the scheduler and the API never
// scan the tree at the same time.
type Job struct {
	Validator *validate.Validator
	Walker    site.Walker
	Root      string
	Store     RunSaver
	SlackURL  string
	EmailTo   string
	Logger    *slog.Logger

	mu sync.Mutex
}

// Files resolves page paths relative to Root. No paths means the whole
// site. Paths are cleaned so none can point outside Root.
func (j *Job) Files(rels []string) ([]string, error) {
	if len(rels) == 0 {
		return j.Walker.Find(j.Root)
	}
	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		clean := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(rel)), "/")
		if !site.IsPage(clean) {
			return nil, fmt.Errorf("%w: %s", ErrNotPage, rel)
		}
		out = append(out, filepath.Join(j.Root, filepath.FromSlash(clean)))
	}
	return out, nil
}

func (j *Job) Run(ctx context.Context, trigger string, rels []string) (*store.Run, *validate.Report, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	files, err := j.Files(rels)
	if err != nil {
		return nil, nil, err
	}
	rep, err := j.Validator.Run(ctx, files)
	if err != nil {
		return nil, nil, fmt.Errorf("validate: %w", err)
	}
	run := store.NewRun(rep, trigger, time.Now())

	if j.Store != nil {
		if err := j.Store.SaveRun(ctx, run); err != nil {
			return run, rep, fmt.Errorf("save run %s: %w", run.ID, err)
		}
	}
	if err := notification.NotifyReport(ctx, j.SlackURL, j.EmailTo, rep, run.ID); err != nil {
		j.logger().Warn("notify failed", "run", run.ID, "err", err)
	}
	return run, rep, nil
}

func (j *Job) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

// StartValidationWorker runs job on the cron schedule until ctx is done.
func StartValidationWorker(ctx context.Context, schedule string, job *Job) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
		defer cancel()

		run, _, err := job.Run(runCtx, "cron", nil)
		if err != nil {
			fmt.Printf("ERROR [ValidationWorker]: %v\n", err)
			return
		}
		fmt.Printf("Validation worker: run %s %s (%d errors, %d warnings)\n", run.ID, run.Verdict, run.Errors, run.Warnings)
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		fmt.Println("Validation worker stopped")
	}()
	return nil
}
