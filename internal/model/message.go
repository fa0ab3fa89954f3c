package model

import "time"

// TimestampLayout renders UTC times as ISO-8601 with millisecond precision,
// e.g. 2024-05-01T09:30:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type MessageID int64

type Message struct {
	ID        MessageID `json:"id"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
}

// CreateMessageParams is the body of a create request. Message is left
// untyped so that a non-string value is reported as a missing message.
type CreateMessageParams struct {
	Message interface{} `json:"message"`
}

func NewMessage(text string, createdAt time.Time) *Message {
	return &Message{
		ID:        MessageID(createdAt.UnixMilli()),
		Message:   text,
		Timestamp: createdAt.UTC().Format(TimestampLayout),
	}
}
