package infra

import "context"

// Messenger delivers replies back to the chat platform.
type Messenger interface {
	Reply(ctx context.Context, replyToken, text string) error
	// DisplayName looks up the sender's profile name.
	DisplayName(ctx context.Context, userID string) (string, error)
}
