package http

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/ri4re/linebot/internal/domain"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type CommandsResponse struct {
	Commands []domain.CommandLog `json:"commands"`
}

// toInboundEvents flattens SDK webhook events into the transport-neutral form the
// dispatcher consumes. Anything that is not a message keeps its type so it can be
// ignored downstream.
func toInboundEvents(events []webhook.EventInterface) []domain.InboundEvent {
	out := make([]domain.InboundEvent, 0, len(events))
	for _, ev := range events {
		switch e := ev.(type) {
		case webhook.MessageEvent:
			in := domain.InboundEvent{
				Type:       "message",
				ReplyToken: e.ReplyToken,
				UserID:     userIDOf(e.Source),
			}
			switch m := e.Message.(type) {
			case webhook.TextMessageContent:
				in.MessageType = "text"
				in.Text = m.Text
			default:
				in.MessageType = "other"
			}
			out = append(out, in)
		default:
			out = append(out, domain.InboundEvent{Type: "other"})
		}
	}
	return out
}

func userIDOf(src webhook.SourceInterface) string {
	switch s := src.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	}
	return ""
}
