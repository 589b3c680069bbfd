package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/betlegend/sitetools/internal/config"
	"github.com/betlegend/sitetools/internal/rules"
	"github.com/betlegend/sitetools/internal/validate"
)

func TestSendSlackNotification(t *testing.T) {
	var got SlackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("method=%s content-type=%s", r.Method, r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	if err := SendSlackNotification(context.Background(), srv.URL, "hello"); err != nil {
		t.Fatal(err)
	}
	if got.Text != "hello" {
		t.Fatalf("payload=%+v", got)
	}
}

func TestSendSlackNotificationErrors(t *testing.T) {
	if err := SendSlackNotification(context.Background(), "", "ignored"); err != nil {
		t.Fatalf("unconfigured webhook: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	err := SendSlackNotification(context.Background(), srv.URL, "x")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("err=%v", err)
	}
}

func TestNotifyReport(t *testing.T) {
	InitEmail(config.SMTP{})
	if EmailEnabled() {
		t.Fatal("email should be disabled without SMTP host")
	}

	var got SlackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	rep := validate.NewReport("/site", []validate.FileResult{
		{Rel: "nba.html", Issues: []rules.Issue{{Severity: rules.Error, Check: "banned", Message: "x"}}},
	})
	if err := NotifyReport(context.Background(), srv.URL, "ops@example.com", rep, "abc"); err != nil {
		t.Fatal(err)
	}
	if got.Text != ":no_entry: Site validation BLOCKED: 1 files, 1 errors, 0 warnings (run abc)" {
		t.Fatalf("text=%q", got.Text)
	}
}

func TestBuildMessageAndReportHTML(t *testing.T) {
	msg := string(buildMessage("bot@example.com", "ops@example.com", "Subject", ReportHTML("a < b")))
	if !strings.HasPrefix(msg, "From: bot@example.com\r\nTo: ops@example.com\r\nSubject: Subject\r\n") {
		t.Fatalf("headers=%q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\n<pre style=\"font-family: monospace\">a &lt; b</pre>") {
		t.Fatalf("body=%q", msg)
	}
}
