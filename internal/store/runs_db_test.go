package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/betlegend/sitetools/internal/rules"
	"github.com/betlegend/sitetools/internal/validate"
)

// testDB connects to BL_TEST_DATABASE_URL, or skips.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("BL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("BL_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestRunsRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	runs := Runs{DB: db}

	// Far-future start times keep these runs ahead of anything else in the table.
	base := time.Date(2100, time.January, 1, 12, 0, 0, 0, time.UTC)
	var saved []*Run
	for i := 0; i < 3; i++ {
		rep := validate.NewReport("/site", []validate.FileResult{
			{Rel: "nba.html", Issues: []rules.Issue{
				{Severity: rules.Error, Check: "banned", Message: "Fake source", Context: "per ESPN"},
				{Severity: rules.Warning, Check: "date", Message: "Stale"},
			}},
			{Rel: "mlb.html"},
		})
		rep.StartedAt = base.Add(time.Duration(i) * time.Hour)
		run := NewRun(rep, "api", rep.StartedAt.Add(time.Minute))
		if err := runs.SaveRun(ctx, run); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		saved = append(saved, run)
	}
	t.Cleanup(func() {
		for _, r := range saved {
			_, _ = db.Exec(context.Background(), `DELETE FROM validation_runs WHERE id = $1`, r.ID)
		}
	})

	recent, err := runs.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].ID != saved[2].ID || recent[1].ID != saved[1].ID {
		t.Fatalf("recent=%+v", recent)
	}
	if recent[0].Issues != nil {
		t.Fatalf("list carried issues: %+v", recent[0].Issues)
	}

	got, err := runs.GetRun(ctx, saved[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	want := saved[0]
	if got.Verdict != want.Verdict || got.Trigger != "api" || got.Root != "/site" ||
		got.FilesScanned != 2 || got.FilesWithIssues != 1 || got.Errors != 1 || got.Warnings != 1 {
		t.Fatalf("run=%+v", got)
	}
	if !got.StartedAt.Equal(want.StartedAt) || !got.FinishedAt.Equal(want.FinishedAt) {
		t.Fatalf("times=%v..%v", got.StartedAt, got.FinishedAt)
	}
	if len(got.Issues) != 2 || got.Issues[0] != want.Issues[0] || got.Issues[1] != want.Issues[1] {
		t.Fatalf("issues=%+v", got.Issues)
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	for _, id := range []string{uuid.NewString(), "not-a-uuid", ""} {
		if _, err := GetRun(ctx, db, id); !errors.Is(err, ErrRunNotFound) {
			t.Fatalf("GetRun(%q) err=%v", id, err)
		}
	}
}
