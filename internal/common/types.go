package common

import (
	"time"
)

type NotificationType string

const (
	SeedReceivedType NotificationType = "seed_received"
	MatchType        NotificationType = "match"
	LowBalanceType   NotificationType = "low_balance"
	NewMessageType   NotificationType = "new_message"
)

type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusSent    NotificationStatus = "sent"
	StatusSkipped NotificationStatus = "skipped"
	StatusFailed  NotificationStatus = "failed"
	StatusRead    NotificationStatus = "read"
)

type NotificationMetadata map[string]interface{}

// NotificationEvent is one notification addressed to one user.
type NotificationEvent struct {
	Type          NotificationType
	UserID        string
	TriggerUserID *string
	Header        string
	Content       string
	Metadata      NotificationMetadata
	CreatedAt     time.Time
}

type NotificationResponse struct {
	ID            uint64               `json:"id"`
	Type          string               `json:"type"`
	Header        string               `json:"header"`
	Content       string               `json:"content"`
	TriggerUserID *string              `json:"trigger_user_id,omitempty"`
	Status        string               `json:"status"`
	Metadata      NotificationMetadata `json:"metadata"`
	CreatedAt     time.Time            `json:"created_at"`
	ReadAt        *time.Time           `json:"read_at,omitempty"`
}
