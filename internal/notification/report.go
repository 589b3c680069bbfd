package notification

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/betlegend/sitetools/internal/validate"
)

// Summary is the one-line verdict posted to Slack.
func Summary(rep *validate.Report, runID string) string {
	p := message.NewPrinter(language.English)
	icon := ":white_check_mark:"
	switch rep.Verdict() {
	case validate.Blocked:
		icon = ":no_entry:"
	case validate.Review:
		icon = ":warning:"
	}
	s := p.Sprintf("%s Site validation %s: %d files, %d errors, %d warnings",
		icon, rep.Verdict(), rep.Summary.FilesScanned, rep.Summary.Errors, rep.Summary.Warnings)
	if runID != "" {
		s += " (run " + runID + ")"
	}
	return s
}

// NotifyReport posts the verdict to Slack and emails the full report.
// Either channel is skipped when unconfigured. Only the Slack error is
// returned; email is sent in the background.
func NotifyReport(ctx context.Context, webhookURL, emailTo string, rep *validate.Report, runID string) error {
	summary := Summary(rep, runID)

	var b strings.Builder
	rep.Print(&b, validate.DefaultTitle)
	SendEmail(emailTo, fmt.Sprintf("[BetLegend] Validation %s", rep.Verdict()), ReportHTML(b.String()))

	if err := SendSlackNotification(ctx, webhookURL, summary); err != nil {
		return fmt.Errorf("slack: %w", err)
	}
	return nil
}
