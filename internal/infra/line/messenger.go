package line

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/ri4re/linebot/internal/infra"
)

// MaxTextRunes is the reply API's limit for a single text message.
const MaxTextRunes = 5000

type Messenger struct {
	api *messaging_api.MessagingApiAPI
}

var _ infra.Messenger = (*Messenger)(nil)

// NewMessenger builds a reply client. endpoint overrides the API host and is meant for
// tests; pass "" for the default.
func NewMessenger(channelToken, endpoint string) (*Messenger, error) {
	var opts []messaging_api.MessagingApiAPIOption
	if endpoint != "" {
		opts = append(opts, messaging_api.WithEndpoint(endpoint))
	}
	api, err := messaging_api.NewMessagingApiAPI(channelToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("line: init messaging api: %w", err)
	}
	return &Messenger{api: api}, nil
}

func (m *Messenger) Reply(ctx context.Context, replyToken, text string) error {
	_, err := m.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: Truncate(text, MaxTextRunes)},
		},
	})
	if err != nil {
		return fmt.Errorf("line: reply: %w", err)
	}
	return nil
}

func (m *Messenger) DisplayName(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	profile, err := m.api.WithContext(ctx).GetProfile(userID)
	if err != nil {
		return "", fmt.Errorf("line: get profile: %w", err)
	}
	return profile.DisplayName, nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
