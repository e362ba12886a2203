// Package service is the message gateway: every chat write goes through here so
// the match rule, the seed charge and the realtime fanout stay in one place.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seedling/internal/chat/repository"
	"seedling/internal/common"
	"seedling/internal/config"
	"seedling/internal/dbmongo"
	"seedling/internal/dbmysql"
	"seedling/internal/match"
	"seedling/internal/metrics"
)

// Realtime event names
const (
	EventNewMessage     = "new_message"
	EventMessagesRead   = "messages_read"
	EventMessageDeleted = "message_deleted"
)

type Publisher interface {
	Publish(userID, event string, payload interface{})
	IsOnline(userID string) bool
}

type ImageStore interface {
	Upload(ctx context.Context, ownerID, filename, contentType string, content io.Reader) (*dbmongo.ImageFile, error)
	Delete(ctx context.Context, ref string) error
}

type UserLookup interface {
	GetUser(ctx context.Context, userID string) (*dbmysql.User, error)
	GetUsers(ctx context.Context, userIDs []string) (map[string]*dbmysql.User, error)
}

type Ledger interface {
	IsMatched(ctx context.Context, userA, userB string) (bool, error)
	Charge(ctx context.Context, tx *gorm.DB, userID string, amount int, relatedUserID, reference string) (*match.ChargeResult, error)
	ChargeSettled(charge *match.ChargeResult)
}

type Notifier interface {
	OnMessageReceived(recipientID, senderID, preview string)
}

// ChatService defines the interface exposed to the handler layer
type ChatService interface {
	SendText(ctx context.Context, senderID, receiverID, content string) (*dbmysql.Message, error)
	SendImage(ctx context.Context, senderID, receiverID string, image ImageUpload) (*ImageSendResult, error)
	ListConversation(ctx context.Context, callerID, otherID string, page repository.Page) ([]*dbmysql.Message, error)
	MarkConversationRead(ctx context.Context, readerID, conversationID string) (int64, error)
	DeleteMessage(ctx context.Context, messageID uint64, actorID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
	Inbox(ctx context.Context, userID string) ([]InboxItem, error)
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type ImageSendResult struct {
	Message        *dbmysql.Message `json:"message"`
	SeedsAvailable int              `json:"seeds_available"`
	Unlimited      bool             `json:"unlimited"`
}

type InboxItem struct {
	ConversationID string                `json:"conversation_id"`
	OtherUser      dbmysql.PublicProfile `json:"other_user"`
	LastMessage    *dbmysql.Message      `json:"last_message"`
	UnreadCount    int64                 `json:"unread_count"`
}

type MessagesReadPayload struct {
	ConversationID string    `json:"conversation_id"`
	ReaderID       string    `json:"reader_id"`
	Count          int64     `json:"count"`
	ReadAt         time.Time `json:"read_at"`
}

type MessageDeletedPayload struct {
	MessageID      uint64 `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	DeletedBy      string `json:"deleted_by"`
}

type chatService struct {
	repo      repository.ChatRepository
	tx        match.Transactor
	ledger    Ledger
	users     UserLookup
	images    ImageStore
	publisher Publisher
	notifier  Notifier
	imageCost int
	maxImage  int64
	now       func() time.Time
}

// Constructor used in DI/wire
func NewChatService(
	repo repository.ChatRepository,
	tx match.Transactor,
	ledger Ledger,
	users UserLookup,
	images ImageStore,
	publisher Publisher,
	notifier Notifier,
	seeds config.SeedConfig,
) ChatService {
	cost := seeds.ImageMessageCost
	if cost <= 0 {
		cost = 1
	}
	return &chatService{
		repo:      repo,
		tx:        tx,
		ledger:    ledger,
		users:     users,
		images:    images,
		publisher: publisher,
		notifier:  notifier,
		imageCost: cost,
		maxImage:  seeds.MaxImageBytes,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// authorize checks both users exist and are matched. It returns the sender.
func (s *chatService) authorize(ctx context.Context, senderID, receiverID string) (*dbmysql.User, error) {
	if senderID == "" || receiverID == "" {
		return nil, common.Validation("sender and receiver are required")
	}
	users, err := s.users.GetUsers(ctx, []string{senderID, receiverID})
	if err != nil {
		return nil, common.Internal("load participants", err)
	}
	sender, ok := users[senderID]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	if _, ok := users[receiverID]; !ok {
		return nil, common.ErrUserNotFound
	}

	matched, err := s.ledger.IsMatched(ctx, senderID, receiverID)
	if err != nil {
		return nil, common.Internal("check match", err)
	}
	if !matched {
		return nil, common.ErrNotMatched
	}
	return sender, nil
}

func (s *chatService) SendText(ctx context.Context, senderID, receiverID, content string) (*dbmysql.Message, error) {
	if err := common.ValidateMessageText(content); err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, senderID, receiverID); err != nil {
		return nil, err
	}

	body := strings.TrimSpace(content)
	msg := &dbmysql.Message{
		ConversationID: repository.ConversationID(senderID, receiverID),
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Type:           string(common.MessageTypeText),
		Content:        &body,
		CreatedAt:      s.now(),
	}
	if err := s.repo.Append(context.WithoutCancel(ctx), msg); err != nil {
		return nil, classify(err, "save text message")
	}

	metrics.MessagesSent.WithLabelValues(msg.Type).Inc()
	s.delivered(msg, preview(body))
	return msg, nil
}

func (s *chatService) SendImage(ctx context.Context, senderID, receiverID string, image ImageUpload) (*ImageSendResult, error) {
	if image.Content == nil || !common.IsAllowedImage(image.ContentType) {
		return nil, common.ErrInvalidImage
	}
	if s.maxImage > 0 && image.Size > s.maxImage {
		return nil, common.Validation(fmt.Sprintf("image exceeds %d bytes", s.maxImage))
	}

	sender, err := s.authorize(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	// fail before uploading anything; the debit below re-checks atomically
	if !sender.HasUnlimitedSeeds(s.now()) && sender.SeedsAvailable < s.imageCost {
		return nil, common.ErrInsufficientSeeds
	}

	stored, err := s.images.Upload(ctx, senderID, image.Filename, image.ContentType, image.Content)
	if err != nil {
		return nil, classify(err, "upload image")
	}

	msg := &dbmysql.Message{
		ConversationID: repository.ConversationID(senderID, receiverID),
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Type:           string(common.MessageTypeImage),
		ImageURL:       &stored.URL,
		ImageRef:       &stored.Ref,
		CreatedAt:      s.now(),
	}

	// charge and message commit together or not at all
	var charge *match.ChargeResult
	writeCtx := context.WithoutCancel(ctx)
	err = s.tx.WithinTx(writeCtx, func(tx *gorm.DB) error {
		var err error
		charge, err = s.ledger.Charge(writeCtx, tx, senderID, s.imageCost, receiverID, "image_message")
		if err != nil {
			return err
		}
		msg.SeedCost = charge.Charged
		return s.repo.WithTx(tx).Append(writeCtx, msg)
	})
	if err != nil {
		s.discardImage(stored.Ref)
		return nil, classify(err, "save image message")
	}

	s.ledger.ChargeSettled(charge)
	metrics.MessagesSent.WithLabelValues(msg.Type).Inc()
	s.delivered(msg, "sent you a photo")

	return &ImageSendResult{
		Message:        msg,
		SeedsAvailable: charge.BalanceAfter,
		Unlimited:      charge.Unlimited,
	}, nil
}

// delivered runs the post-commit side effects of a new message.
func (s *chatService) delivered(msg *dbmysql.Message, previewText string) {
	online := s.publisher.IsOnline(msg.ReceiverID)
	s.publisher.Publish(msg.ReceiverID, EventNewMessage, msg)
	if !online {
		s.notifier.OnMessageReceived(msg.ReceiverID, msg.SenderID, previewText)
	}
}

func (s *chatService) discardImage(ref string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.images.Delete(ctx, ref); err != nil {
		log.Warn().Err(err).Str("image_ref", ref).Msg("failed to clean up orphaned image")
	}
}

func (s *chatService) ListConversation(ctx context.Context, callerID, otherID string, page repository.Page) ([]*dbmysql.Message, error) {
	if callerID == "" || otherID == "" {
		return nil, common.Validation("both participants are required")
	}
	messages, err := s.repo.ListByConversation(ctx, repository.ConversationID(callerID, otherID), page)
	if err != nil {
		return nil, classify(err, "list conversation")
	}
	return messages, nil
}

func (s *chatService) MarkConversationRead(ctx context.Context, readerID, conversationID string) (int64, error) {
	a, b, ok := repository.Participants(conversationID)
	if !ok {
		return 0, common.Validation("malformed conversation id")
	}
	if readerID != a && readerID != b {
		return 0, common.ErrNotParticipant
	}
	other := a
	if readerID == a {
		other = b
	}

	readAt := s.now()
	count, err := s.repo.MarkRead(context.WithoutCancel(ctx), conversationID, readerID, readAt)
	if err != nil {
		return 0, classify(err, "mark conversation read")
	}
	if count > 0 {
		s.publisher.Publish(other, EventMessagesRead, MessagesReadPayload{
			ConversationID: conversationID,
			ReaderID:       readerID,
			Count:          count,
			ReadAt:         readAt,
		})
	}
	return count, nil
}

func (s *chatService) DeleteMessage(ctx context.Context, messageID uint64, actorID string) error {
	msg, deleted, err := s.repo.SoftDelete(context.WithoutCancel(ctx), messageID, actorID, s.now())
	if err != nil {
		return classify(err, "delete message")
	}
	if !deleted {
		return nil
	}

	s.publisher.Publish(msg.ReceiverID, EventMessageDeleted, MessageDeletedPayload{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		DeletedBy:      actorID,
	})

	if msg.Type == string(common.MessageTypeImage) && msg.ImageRef != nil {
		s.discardImage(*msg.ImageRef)
	}
	return nil
}

func (s *chatService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, classify(err, "unread count")
	}
	return count, nil
}

func (s *chatService) Inbox(ctx context.Context, userID string) ([]InboxItem, error) {
	entries, err := s.repo.ListInbox(ctx, userID)
	if err != nil {
		return nil, classify(err, "list inbox")
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.OtherUserID)
	}
	users, err := s.users.GetUsers(ctx, ids)
	if err != nil {
		return nil, common.Internal("load inbox participants", err)
	}

	items := make([]InboxItem, 0, len(entries))
	for _, e := range entries {
		profile := dbmysql.PublicProfile{ID: e.OtherUserID}
		if u, ok := users[e.OtherUserID]; ok {
			profile = u.Public()
		}
		items = append(items, InboxItem{
			ConversationID: e.ConversationID,
			OtherUser:      profile,
			LastMessage:    e.LastMessage,
			UnreadCount:    e.UnreadCount,
		})
	}
	return items, nil
}

func preview(body string) string {
	const max = 80
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	return string([]rune(body)[:max]) + "..."
}

func classify(err error, op string) error {
	if common.KindOf(err) != common.KindInternal {
		return err
	}
	return common.Internal(op, err)
}
