package models

import "time"

type ChatMessage struct {
	ID            int64     `json:"id"`
	Sender        int64     `json:"sender"`
	SenderName    string    `json:"sender_name"`
	Recipient     int64     `json:"recipient"`
	RecipientName string    `json:"recipient_name"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

// OutgoingMessage is the body of POST /api/messages/.
type OutgoingMessage struct {
	Recipient int64  `json:"recipient"`
	Message   string `json:"message"`
}
