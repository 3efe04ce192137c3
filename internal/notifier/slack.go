package notifier

import (
	"context"
	"log/slog"

	"weeklyworks/internal/config"
	"weeklyworks/pkg/models"

	"github.com/slack-go/slack"
)

// MessagePoster is the part of *slack.Client used for delivery.
type MessagePoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts weekly messages with chat.postMessage.
type SlackNotifier struct {
	client MessagePoster
	color  string
	logger *slog.Logger
}

// NewSlackClient builds the process-wide Slack client from configuration.
func NewSlackClient(cfg config.SlackConfig) *slack.Client {
	var opts []slack.Option
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}
	return slack.New(cfg.Token, opts...)
}

// NewSlackNotifier creates a notifier around an already constructed client.
func NewSlackNotifier(client MessagePoster, color string, logger *slog.Logger) *SlackNotifier {
	if color == "" {
		color = config.DefaultColor
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SlackNotifier{client: client, color: color, logger: logger}
}

// Deliver posts msg to channel as a single attachment. Errors are logged and
// swallowed.
func (s *SlackNotifier) Deliver(ctx context.Context, channel string, msg models.Message) {
	if channel == "" {
		return
	}

	_, ts, err := s.client.PostMessageContext(ctx, channel, slack.MsgOptionAttachments(s.attachment(msg)))
	if err != nil {
		s.logger.Error("Failed to send Slack notification", "channel", channel, "error", err)
		return
	}
	s.logger.Info("Slack notification sent successfully", "channel", channel, "ts", ts, "count", msg.Count)
}

func (s *SlackNotifier) attachment(msg models.Message) slack.Attachment {
	return slack.Attachment{
		Fallback: msg.Header,
		Color:    s.color,
		Pretext:  msg.Header,
		Footer:   msg.Body,
	}
}
