package dbmysql

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PlanNone      = "none"
	PlanUnlimited = "unlimited"

	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionExpired  = "expired"
)

// Seed ledger entry types
const (
	TxPurchase     = "purchase"
	TxSent         = "sent"
	TxReceived     = "received"
	TxSpent        = "spent"
	TxBonus        = "bonus"
	TxRefund       = "refund"
	TxSubscription = "subscription"
)

type User struct {
	ID                    string     `gorm:"primaryKey;size:36" json:"id"`
	Handle                string     `gorm:"uniqueIndex;size:50;not null" json:"handle"`
	Email                 string     `gorm:"size:255" json:"email"`
	PasswordHash          string     `gorm:"size:255;not null" json:"-"`
	DisplayName           string     `gorm:"size:100" json:"display_name"`
	PhotoURL              string     `gorm:"size:512" json:"photo_url"`
	SeedsAvailable        int        `gorm:"not null" json:"seeds_available"`
	SubscriptionPlan      string     `gorm:"size:20;not null" json:"subscription_plan"`
	SubscriptionStatus    string     `gorm:"size:20" json:"subscription_status"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	NotifySeeds           bool       `gorm:"not null" json:"notify_seeds"`
	NotifyMatches         bool       `gorm:"not null" json:"notify_matches"`
	NotifyMessages        bool       `gorm:"not null" json:"notify_messages"`
	NotifyLowBalance      bool       `gorm:"not null" json:"notify_low_balance"`
	LowBalanceNotifiedAt  *time.Time `json:"-"`
	Status                string     `gorm:"size:20;not null" json:"status"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasUnlimitedSeeds: active unlimited plan that has not expired at now.
func (u *User) HasUnlimitedSeeds(now time.Time) bool {
	if u.SubscriptionPlan != PlanUnlimited || u.SubscriptionStatus != SubscriptionActive {
		return false
	}
	return u.SubscriptionExpiresAt == nil || u.SubscriptionExpiresAt.After(now)
}

// Seed is one directed interest signal. A pair can hold at most one row.
type Seed struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    string    `gorm:"size:36;not null;uniqueIndex:ux_seed_pair,priority:1" json:"sender_id"`
	RecipientID string    `gorm:"size:36;not null;uniqueIndex:ux_seed_pair,priority:2;index" json:"recipient_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SeedTransaction is an append-only balance ledger row.
type SeedTransaction struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;not null;index:idx_tx_user_created,priority:1" json:"user_id"`
	Type          string    `gorm:"size:20;not null" json:"type"`
	Amount        int       `gorm:"not null" json:"amount"`
	Change        int       `gorm:"not null" json:"change"`
	BalanceAfter  int       `gorm:"not null" json:"balance_after"`
	RelatedUserID *string   `gorm:"size:36" json:"related_user_id,omitempty"`
	Reference     string    `gorm:"size:255" json:"reference,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index:idx_tx_user_created,priority:2" json:"created_at"`
}

type Message struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID string     `gorm:"size:80;not null;index:idx_msg_conv_created,priority:1" json:"conversation_id"`
	SenderID       string     `gorm:"size:36;not null;index" json:"sender_id"`
	ReceiverID     string     `gorm:"size:36;not null;index:idx_msg_receiver_read,priority:1" json:"receiver_id"`
	Type           string     `gorm:"size:10;not null" json:"type"`
	Content        *string    `gorm:"type:text" json:"content,omitempty"`
	ImageURL       *string    `gorm:"size:512" json:"image_url,omitempty"`
	ImageRef       *string    `gorm:"size:64" json:"-"`
	IsRead         bool       `gorm:"not null;index:idx_msg_receiver_read,priority:2" json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	IsDeleted      bool       `gorm:"not null" json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletedBy      *string    `gorm:"size:36" json:"deleted_by,omitempty"`
	SeedCost       int        `gorm:"not null" json:"seed_cost"`
	CreatedAt      time.Time  `gorm:"not null;index:idx_msg_conv_created,priority:2" json:"created_at"`
}

type Notification struct {
	ID            uint64            `gorm:"primaryKey;autoIncrement"`
	UserID        string            `gorm:"not null;index;size:36"`
	Type          string            `gorm:"not null;size:50"`
	Header        string            `gorm:"not null;size:255"`
	Content       string            `gorm:"not null;type:text"`
	Status        string            `gorm:"size:20;not null"`
	TriggerUserID *string           `gorm:"size:36"`
	Metadata      datatypes.JSONMap `gorm:"type:json"`
	ReadAt        *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// AllModels lists every table owned by this service, in migration order.
func AllModels() []interface{} {
	return []interface{}{&User{}, &Seed{}, &SeedTransaction{}, &Message{}, &Notification{}}
}

// PublicProfile is the part of a user other participants may see.
type PublicProfile struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Handle: u.Handle, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}
}
