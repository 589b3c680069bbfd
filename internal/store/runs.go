package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/betlegend/sitetools/internal/validate"
)

var ErrRunNotFound = errors.New("run not found")

type Run struct {
	ID              string     `json:"id"`
	Root            string     `json:"root"`
	Trigger         string     `json:"trigger"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      time.Time  `json:"finished_at"`
	Verdict         string     `json:"verdict"`
	FilesScanned    int        `json:"files_scanned"`
	FilesWithIssues int        `json:"files_with_issues"`
	Errors          int        `json:"errors"`
	Warnings        int        `json:"warnings"`
	Issues          []RunIssue `json:"issues,omitempty"`
}

type RunIssue struct {
	File     string `json:"file"`
	Severity string `json:"severity"`
	Check    string `json:"check"`
	Message  string `json:"message"`
	Context  string `json:"context,omitempty"`
}

// NewRun flattens a validation report into a run record with a fresh id.
func NewRun(rep *validate.Report, trigger string, finished time.Time) *Run {
	run := &Run{
		ID:              uuid.NewString(),
		Root:            rep.Root,
		Trigger:         trigger,
		StartedAt:       rep.StartedAt,
		FinishedAt:      finished,
		Verdict:         string(rep.Verdict()),
		FilesScanned:    rep.Summary.FilesScanned,
		FilesWithIssues: rep.Summary.FilesWithIssues,
		Errors:          rep.Summary.Errors,
		Warnings:        rep.Summary.Warnings,
	}
	for _, f := range rep.Files {
		for _, is := range f.Issues {
			run.Issues = append(run.Issues, RunIssue{
				File:     f.Rel,
				Severity: string(is.Severity),
				Check:    is.Check,
				Message:  is.Message,
				Context:  is.Context,
			})
		}
	}
	return run
}

const schema = `
CREATE TABLE IF NOT EXISTS validation_runs (
	id                UUID PRIMARY KEY,
	root              TEXT NOT NULL,
	trigger           TEXT NOT NULL,
	started_at        TIMESTAMPTZ NOT NULL,
	finished_at       TIMESTAMPTZ NOT NULL,
	verdict           TEXT NOT NULL,
	files_scanned     INT NOT NULL DEFAULT 0,
	files_with_issues INT NOT NULL DEFAULT 0,
	errors            INT NOT NULL DEFAULT 0,
	warnings          INT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS validation_issues (
	id         BIGSERIAL PRIMARY KEY,
	run_id     UUID NOT NULL REFERENCES validation_runs(id) ON DELETE CASCADE,
	file       TEXT NOT NULL,
	severity   TEXT NOT NULL,
	check_name TEXT NOT NULL,
	message    TEXT NOT NULL,
	context    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS validation_issues_run_id_idx ON validation_issues (run_id);
CREATE INDEX IF NOT EXISTS validation_runs_started_at_idx ON validation_runs (started_at DESC);
`

func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun stores the run and its issues in one transaction.
func SaveRun(ctx context.Context, db *pgxpool.Pool, run *Run) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO validation_runs (id, root, trigger, started_at, finished_at, verdict,
			files_scanned, files_with_issues, errors, warnings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID, run.Root, run.Trigger, run.StartedAt, run.FinishedAt, run.Verdict,
		run.FilesScanned, run.FilesWithIssues, run.Errors, run.Warnings)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.Issues) > 0 {
		rows := make([][]any, len(run.Issues))
		for i, is := range run.Issues {
			rows[i] = []any{run.ID, is.File, is.Severity, is.Check, is.Message, is.Context}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"validation_issues"},
			[]string{"run_id", "file", "severity", "check_name", "message", "context"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy issues: %w", err)
		}
	}
	return tx.Commit(ctx)
}

const runColumns = `id, root, trigger, started_at, finished_at, verdict,
	files_scanned, files_with_issues, errors, warnings`

func scanRun(row pgx.Row) (*Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Root, &r.Trigger, &r.StartedAt, &r.FinishedAt, &r.Verdict,
		&r.FilesScanned, &r.FilesWithIssues, &r.Errors, &r.Warnings)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RecentRuns lists the latest runs without their issues, newest first.
func RecentRuns(ctx context.Context, db *pgxpool.Pool, limit int) ([]Run, error) {
	rows, err := db.Query(ctx, `SELECT `+runColumns+` FROM validation_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRun loads one run with its issues.
func GetRun(ctx context.Context, db *pgxpool.Pool, id string) (*Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrRunNotFound
	}
	run, err := scanRun(db.QueryRow(ctx, `SELECT `+runColumns+` FROM validation_runs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, `
		SELECT file, severity, check_name, message, context
		FROM validation_issues WHERE run_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var is RunIssue
		if err := rows.Scan(&is.File, &is.Severity, &is.Check, &is.Message, &is.Context); err != nil {
			return nil, err
		}
		run.Issues = append(run.Issues, is)
	}
	return run, rows.Err()
}

// Runs binds the run queries to a pool.
type Runs struct {
	DB *pgxpool.Pool
}

func (s Runs) SaveRun(ctx context.Context, run *Run) error { return SaveRun(ctx, s.DB, run) }

func (s Runs) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	return RecentRuns(ctx, s.DB, limit)
}

func (s Runs) GetRun(ctx context.Context, id string) (*Run, error) { return GetRun(ctx, s.DB, id) }
