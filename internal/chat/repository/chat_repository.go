package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"seedling/internal/common"
	"seedling/internal/dbmysql"
)

// ConversationID is the same for (a, b) and (b, a).
func ConversationID(userA, userB string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return ids[0] + "_" + ids[1]
}

// Participants splits a conversation id back into its two user ids.
func Participants(conversationID string) (string, string, bool) {
	parts := strings.Split(conversationID, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Page selects a window of a conversation. Zero Limit means the whole history.
type Page struct {
	Limit    int
	BeforeID uint64
}

// InboxEntry is one conversation row of a user's inbox.
type InboxEntry struct {
	ConversationID string
	OtherUserID    string
	LastMessage    *dbmysql.Message
	UnreadCount    int64
}

type ChatRepository interface {
	WithTx(tx *gorm.DB) ChatRepository

	Append(ctx context.Context, msg *dbmysql.Message) error
	GetByID(ctx context.Context, messageID uint64) (*dbmysql.Message, error)
	ListByConversation(ctx context.Context, conversationID string, page Page) ([]*dbmysql.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error)
	ListInbox(ctx context.Context, userID string) ([]InboxEntry, error)
	SoftDelete(ctx context.Context, messageID uint64, actorID string, at time.Time) (*dbmysql.Message, bool, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) WithTx(tx *gorm.DB) ChatRepository {
	return &chatRepo{db: tx}
}

// validateShape enforces that a text message carries content only and an
// image message carries an image only.
func validateShape(msg *dbmysql.Message) error {
	switch common.MessageType(msg.Type) {
	case common.MessageTypeText:
		if msg.Content == nil || strings.TrimSpace(*msg.Content) == "" {
			return common.ErrEmptyMessage
		}
		if msg.ImageRef != nil || msg.ImageURL != nil {
			return common.Validation("text message cannot carry an image")
		}
	case common.MessageTypeImage:
		if msg.ImageRef == nil || *msg.ImageRef == "" || msg.ImageURL == nil || *msg.ImageURL == "" {
			return common.ErrInvalidImage
		}
		if msg.Content != nil {
			return common.Validation("image message cannot carry text content")
		}
	default:
		return common.Validation(fmt.Sprintf("unknown message type %q", msg.Type))
	}
	if msg.ConversationID == "" || msg.SenderID == "" || msg.ReceiverID == "" {
		return common.Validation("conversation, sender and receiver are required")
	}
	return nil
}

func (r *chatRepo) Append(ctx context.Context, msg *dbmysql.Message) error {
	if err := validateShape(msg); err != nil {
		return err
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

func (r *chatRepo) GetByID(ctx context.Context, messageID uint64) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	if err := r.db.WithContext(ctx).Where("id = ?", messageID).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMessageNotFound
		}
		return nil, fmt.Errorf("load message: %w", err)
	}
	return &msg, nil
}

// ListByConversation returns non-deleted messages oldest first.
func (r *chatRepo) ListByConversation(ctx context.Context, conversationID string, page Page) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message

	query := r.db.WithContext(ctx).
		Where("conversation_id = ? AND is_deleted = ?", conversationID, false)
	if page.BeforeID > 0 {
		query = query.Where("id < ?", page.BeforeID)
	}

	if page.Limit <= 0 {
		err := query.Order("created_at ASC").Order("id ASC").Find(&messages).Error
		if err != nil {
			return nil, fmt.Errorf("fetch history: %w", err)
		}
		return messages, nil
	}

	// newest window first, then flip so callers always see ascending order
	err := query.Order("created_at DESC").Order("id DESC").Limit(page.Limit).Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *chatRepo) MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ? AND is_deleted = ?",
			conversationID, readerID, false, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("mark read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *chatRepo) ListInbox(ctx context.Context, userID string) ([]InboxEntry, error) {
	// latest = first row per conversation in the same order ListByConversation uses
	ranked := r.db.
		Model(&dbmysql.Message{}).
		Select("messages.*, ROW_NUMBER() OVER (PARTITION BY conversation_id ORDER BY created_at DESC, id DESC) AS rn").
		Where("is_deleted = ? AND (sender_id = ? OR receiver_id = ?)", false, userID, userID)

	var lastMessages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Table("(?) AS latest", ranked).
		Where("latest.rn = ?", 1).
		Order("latest.created_at DESC").
		Order("latest.id DESC").
		Find(&lastMessages).Error
	if err != nil {
		return nil, fmt.Errorf("load inbox: %w", err)
	}

	type unreadRow struct {
		ConversationID string
		Unread         int64
	}
	var unreadRows []unreadRow
	err = r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Select("conversation_id, COUNT(*) AS unread").
		Where("receiver_id = ? AND is_read = ? AND is_deleted = ?", userID, false, false).
		Group("conversation_id").
		Scan(&unreadRows).Error
	if err != nil {
		return nil, fmt.Errorf("count unread per conversation: %w", err)
	}
	unread := make(map[string]int64, len(unreadRows))
	for _, row := range unreadRows {
		unread[row.ConversationID] = row.Unread
	}

	entries := make([]InboxEntry, 0, len(lastMessages))
	for _, m := range lastMessages {
		other := m.ReceiverID
		if other == userID {
			other = m.SenderID
		}
		entries = append(entries, InboxEntry{
			ConversationID: m.ConversationID,
			OtherUserID:    other,
			LastMessage:    m,
			UnreadCount:    unread[m.ConversationID],
		})
	}
	return entries, nil
}

// SoftDelete hides a message. Only its sender may do this; repeating it is a no-op.
// deleted reports whether this call is the one that hid the message.
func (r *chatRepo) SoftDelete(ctx context.Context, messageID uint64, actorID string, at time.Time) (*dbmysql.Message, bool, error) {
	msg, err := r.GetByID(ctx, messageID)
	if err != nil {
		return nil, false, err
	}
	if msg.SenderID != actorID {
		return nil, false, common.ErrNotMessageOwner
	}
	if msg.IsDeleted {
		return msg, false, nil
	}

	result := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id = ? AND is_deleted = ?", messageID, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": at,
			"deleted_by": actorID,
		})
	if result.Error != nil {
		return nil, false, fmt.Errorf("soft delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// lost the race to a concurrent delete
		current, err := r.GetByID(ctx, messageID)
		return current, false, err
	}

	msg.IsDeleted = true
	msg.DeletedAt = &at
	msg.DeletedBy = &actorID
	return msg, true, nil
}

func (r *chatRepo) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("receiver_id = ? AND is_read = ? AND is_deleted = ?", userID, false, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}
