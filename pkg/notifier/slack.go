// Package notifier provides notification services for the route scout.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonasrmichel/jup-routes/pkg/graph"
	"github.com/jonasrmichel/jup-routes/pkg/types"
)

// DefaultSlackAPIURL is the chat.postMessage endpoint.
const DefaultSlackAPIURL = "https://slack.com/api/chat.postMessage"

// maxRoutesPerMessage bounds the number of route sections in one message.
const maxRoutesPerMessage = 10

// SlackNotifier sends notifications to a Slack channel.
type SlackNotifier struct {
	apiToken   string
	channel    string
	apiURL     string
	httpClient *http.Client
	enabled    bool
}

// SlackConfig holds Slack configuration.
type SlackConfig struct {
	APIToken string
	Channel  string
	Enabled  bool
	APIURL   string // Defaults to DefaultSlackAPIURL
}

// slackMessage represents a Slack message payload.
type slackMessage struct {
	Channel string       `json:"channel"`
	Text    string       `json:"text,omitempty"`
	Blocks  []slackBlock `json:"blocks,omitempty"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewSlackNotifier creates a new Slack notifier.
func NewSlackNotifier(config *SlackConfig) *SlackNotifier {
	if config == nil || config.APIToken == "" || config.Channel == "" {
		return &SlackNotifier{enabled: false}
	}

	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = DefaultSlackAPIURL
	}

	return &SlackNotifier{
		apiToken: config.APIToken,
		channel:  config.Channel,
		apiURL:   apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		enabled: config.Enabled,
	}
}

// IsEnabled returns whether the notifier is enabled.
func (s *SlackNotifier) IsEnabled() bool {
	return s.enabled
}

// NotifyRoutes posts the routes of result that beat the direct swap. Nothing
// is sent when no route was retained.
func (s *SlackNotifier) NotifyRoutes(ctx context.Context, result *types.FindResult) error {
	if !s.enabled || result == nil || len(result.Retained) == 0 {
		return nil
	}

	baseline := 0.0
	if result.Baseline != nil {
		baseline = result.Baseline.Valuation
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{
				Type: "plain_text",
				Text: fmt.Sprintf("🔀 %d routes beat the direct swap", len(result.Retained)),
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Start:*\n`%s`", result.Start)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*End:*\n`%s`", result.End)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Direct rate:*\n%v", baseline)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Candidates:*\n%d within %d hops", result.Candidates, result.MaxHops)},
			},
		},
	}

	for i, route := range result.Retained {
		if i == maxRoutesPerMessage {
			blocks = append(blocks, slackBlock{
				Type: "context",
				Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("…and %d more", len(result.Retained)-i)},
			})
			break
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*%d hops:* %s\n*Valuation:* %v%s",
					len(route.Path)-1, graph.FormatRoute(route.Path), route.Valuation, gain(route.Valuation, baseline)),
			},
		})
	}

	blocks = append(blocks, slackBlock{
		Type: "context",
		Text: &slackText{
			Type: "mrkdwn",
			Text: fmt.Sprintf("Searched at %s in %s", result.StartedAt.Format(time.RFC3339), result.Duration.Round(time.Millisecond)),
		},
	})

	return s.sendMessage(ctx, blocks, fmt.Sprintf("%d routes from %s to %s beat the direct swap",
		len(result.Retained), shortKey(result.Start.String()), shortKey(result.End.String())))
}

// SendTestMessage sends a test message to verify the connection.
func (s *SlackNotifier) SendTestMessage(ctx context.Context) error {
	if !s.enabled {
		return fmt.Errorf("slack notifier is not enabled")
	}

	blocks := []slackBlock{
		{
			Type: "section",
			Text: &slackText{
				Type: "mrkdwn",
				Text: "🤖 *Jupiter route scout* connected and ready to send notifications!",
			},
		},
	}

	return s.sendMessage(ctx, blocks, "Jupiter route scout connected")
}

// sendMessage sends a message to Slack.
func (s *SlackNotifier) sendMessage(ctx context.Context, blocks []slackBlock, fallbackText string) error {
	msg := slackMessage{
		Channel: s.channel,
		Text:    fallbackText,
		Blocks:  blocks,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API returned status %d", resp.StatusCode)
	}

	// Parse response to check for errors
	var slackResp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&slackResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !slackResp.OK {
		return fmt.Errorf("slack API error: %s", slackResp.Error)
	}

	return nil
}

func gain(valuation, baseline float64) string {
	if baseline <= 0 {
		return ""
	}
	return fmt.Sprintf(" (%+.2f%% vs direct)", (valuation/baseline-1)*100)
}

func shortKey(s string) string {
	if len(s) <= 8 {
		return s
	}
	return strings.Join([]string{s[:4], s[len(s)-4:]}, "…")
}
