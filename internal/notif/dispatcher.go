// Package notif delivers best-effort notifications for ledger and chat events.
// Callers never wait on delivery: events are queued and handled by workers.
package notif

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"seedling/internal/common"
	"seedling/internal/config"
	"seedling/internal/dbmysql"
)

type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*dbmysql.User, error)
}

// LowBalanceClaimer records that a low-balance notice went out. It reports
// false while the previous notice is still inside the cooldown window.
type LowBalanceClaimer interface {
	ClaimLowBalanceNotice(ctx context.Context, userID string, now time.Time, cooldown time.Duration) (bool, error)
}

type Dispatcher struct {
	manager   *NotificationManager
	users     UserDirectory
	claims    LowBalanceClaimer
	threshold int
	cooldown  time.Duration
	enabled   bool
	now       func() time.Time
}

func NewDispatcher(
	manager *NotificationManager,
	users UserDirectory,
	claims LowBalanceClaimer,
	seeds config.SeedConfig,
	notifCfg config.NotificationConfig,
) *Dispatcher {
	threshold := seeds.LowBalanceThreshold
	if threshold <= 0 {
		threshold = 5
	}
	cooldown := seeds.LowBalanceCooldown
	if cooldown <= 0 {
		cooldown = 24 * time.Hour
	}

	d := &Dispatcher{
		manager:   manager,
		users:     users,
		claims:    claims,
		threshold: threshold,
		cooldown:  cooldown,
		enabled:   notifCfg.Enabled,
		now:       func() time.Time { return time.Now().UTC() },
	}
	manager.SetPrepare(d.prepare)
	return d
}

func (d *Dispatcher) enqueue(event common.NotificationEvent) {
	if !d.enabled {
		return
	}
	event.CreatedAt = d.now()
	if event.Metadata == nil {
		event.Metadata = common.NotificationMetadata{}
	}
	d.manager.NotifyAsync(event)
}

func (d *Dispatcher) OnSeedReceived(recipientID, senderID string) {
	d.enqueue(common.NotificationEvent{
		Type:          common.SeedReceivedType,
		UserID:        recipientID,
		TriggerUserID: &senderID,
	})
}

// OnMatch notifies both parties; one failing does not affect the other.
func (d *Dispatcher) OnMatch(userA, userB string) {
	d.enqueue(common.NotificationEvent{
		Type:          common.MatchType,
		UserID:        userA,
		TriggerUserID: &userB,
	})
	d.enqueue(common.NotificationEvent{
		Type:          common.MatchType,
		UserID:        userB,
		TriggerUserID: &userA,
	})
}

func (d *Dispatcher) OnLowBalance(userID string, newBalance int) {
	if newBalance < 0 || newBalance >= d.threshold {
		return
	}
	d.enqueue(common.NotificationEvent{
		Type:     common.LowBalanceType,
		UserID:   userID,
		Metadata: common.NotificationMetadata{metaBalance: newBalance},
	})
}

func (d *Dispatcher) OnMessageReceived(recipientID, senderID, preview string) {
	d.enqueue(common.NotificationEvent{
		Type:          common.NewMessageType,
		UserID:        recipientID,
		TriggerUserID: &senderID,
		Metadata:      common.NotificationMetadata{metaPreview: preview},
	})
}

// prepare resolves users, applies the low-balance cooldown and fills in the
// text and delivery metadata.
func (d *Dispatcher) prepare(ctx context.Context, event *common.NotificationEvent) bool {
	recipient, err := d.users.GetUser(ctx, event.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", event.UserID).Str("type", string(event.Type)).Msg("notification recipient lookup failed")
		return false
	}

	if event.Type == common.LowBalanceType {
		claimed, err := d.claims.ClaimLowBalanceNotice(ctx, event.UserID, d.now(), d.cooldown)
		if err != nil {
			log.Warn().Err(err).Str("user_id", event.UserID).Msg("low balance claim failed")
			return false
		}
		if !claimed {
			log.Debug().Str("user_id", event.UserID).Msg("low balance notice still cooling down")
			return false
		}
	}

	triggerName := "Someone"
	if event.TriggerUserID != nil {
		if trigger, err := d.users.GetUser(ctx, *event.TriggerUserID); err == nil {
			triggerName = displayName(trigger)
		} else {
			log.Debug().Err(err).Str("user_id", *event.TriggerUserID).Msg("notification trigger lookup failed")
		}
	}

	switch event.Type {
	case common.SeedReceivedType:
		event.Header = fmt.Sprintf("%s sent you a seed", triggerName)
		event.Content = "Send one back to match and start chatting."
	case common.MatchType:
		event.Header = "It's a match!"
		event.Content = fmt.Sprintf("You and %s can now message each other.", triggerName)
	case common.LowBalanceType:
		balance, _ := event.Metadata[metaBalance].(int)
		event.Header = "You're running low on seeds"
		event.Content = fmt.Sprintf("You have %d seeds left.", balance)
	case common.NewMessageType:
		preview, _ := event.Metadata[metaPreview].(string)
		event.Header = fmt.Sprintf("New message from %s", triggerName)
		event.Content = preview
	default:
		log.Warn().Str("type", string(event.Type)).Msg("unknown notification type")
		return false
	}

	event.Metadata[metaEmail] = recipient.Email
	event.Metadata[metaEmailOptIn] = wantsEmail(recipient, event.Type)
	event.Metadata[metaRecipientName] = displayName(recipient)
	event.Metadata[metaTriggerName] = triggerName
	return true
}

func wantsEmail(u *dbmysql.User, t common.NotificationType) bool {
	switch t {
	case common.SeedReceivedType:
		return u.NotifySeeds
	case common.MatchType:
		return u.NotifyMatches
	case common.LowBalanceType:
		return u.NotifyLowBalance
	case common.NewMessageType:
		return u.NotifyMessages
	}
	return false
}

func displayName(u *dbmysql.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Handle
}
