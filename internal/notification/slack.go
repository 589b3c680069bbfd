package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type SlackPayload struct {
	Text string `json:"text"`
}

var slackClient = &http.Client{Timeout: 10 * time.Second}

// SendSlackNotification posts message to an incoming webhook. An empty
// webhook URL means Slack is not configured and nothing is sent.
func SendSlackNotification(ctx context.Context, webhookURL, message string) error {
	if webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(SlackPayload{Text: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := slackClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack webhook error: %d", resp.StatusCode)
	}
	return nil
}
