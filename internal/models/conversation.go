// internal/models/conversation.go
package models

import "time"

type ConversationSession struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Title       string    `json:"title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
	IsActive    bool      `json:"is_active"`
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ConversationMessage struct {
	ID         string      `json:"id"`
	SessionID  string      `json:"session_id"`
	CustomerID string      `json:"customer_id"`
	Role       MessageRole `json:"role"`
	Content    string      `json:"content"`
	Metadata   string      `json:"metadata,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
