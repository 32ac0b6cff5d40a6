package domain

import "time"

type CommandOutcome string

const (
	OutcomeReplied     CommandOutcome = "replied"
	OutcomeReplyFailed CommandOutcome = "reply_failed"
	OutcomeIgnored     CommandOutcome = "ignored"
)

// CommandLog is one processed chat command.
type CommandLog struct {
	ID          uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string         `json:"userId" gorm:"size:64;index"`
	DisplayName string         `json:"displayName" gorm:"size:128"`
	Text        string         `json:"text" gorm:"type:text"`
	Intent      string         `json:"intent" gorm:"size:32;index"`
	ShortID     string         `json:"shortId" gorm:"size:32"`
	Outcome     CommandOutcome `json:"outcome" gorm:"type:enum('replied','reply_failed','ignored');default:'replied'"`
	Error       string         `json:"error,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"autoCreateTime;index"`
}

// InboundEvent is the transport-neutral view of one webhook event.
type InboundEvent struct {
	Type        string
	MessageType string
	Text        string
	ReplyToken  string
	UserID      string
}

// IsText reports whether the event carries a text message that should get a reply.
func (e InboundEvent) IsText() bool {
	return e.Type == "message" && e.MessageType == "text"
}
