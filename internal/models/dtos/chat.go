package dtos

import "time"

// ChatMessage is immutable once created; the feed orders messages by
// ascending timestamp as returned by the backend.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatMessageCreate is the send-message payload.
type ChatMessageCreate struct {
	Message string `json:"message"`
}
