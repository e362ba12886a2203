package notif

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"seedling/internal/common"
	"seedling/internal/dbmysql"
	"seedling/internal/metrics"
)

// Metadata keys filled in by the dispatcher before observers run.
const (
	metaEmail          = "email"
	metaEmailOptIn     = "email_opt_in"
	metaRecipientName  = "recipient_name"
	metaTriggerName    = "trigger_name"
	metaPreview        = "preview"
	metaBalance        = "balance"
	metaNotificationID = "notification_id"
)

// private keys never reach the notifications table
var privateMetadata = map[string]bool{
	metaEmail:          true,
	metaEmailOptIn:     true,
	metaRecipientName:  true,
	metaNotificationID: true,
}

// DatabaseNotificationObserver keeps the in-app notification history.
type DatabaseNotificationObserver struct {
	repo dbmysql.NotificationRepository
}

func NewDatabaseNotificationObserver(repo dbmysql.NotificationRepository) *DatabaseNotificationObserver {
	return &DatabaseNotificationObserver{
		repo: repo,
	}
}

func (d *DatabaseNotificationObserver) Name() string {
	return "database_observer"
}

func (d *DatabaseNotificationObserver) Update(event common.NotificationEvent) error {
	status := common.StatusSkipped
	if optIn, _ := event.Metadata[metaEmailOptIn].(bool); optIn {
		status = common.StatusPending
	}

	stored := datatypes.JSONMap{}
	for k, v := range event.Metadata {
		if !privateMetadata[k] {
			stored[k] = v
		}
	}

	notification := &dbmysql.Notification{
		UserID:        event.UserID,
		Type:          string(event.Type),
		Header:        event.Header,
		Content:       event.Content,
		Status:        string(status),
		TriggerUserID: event.TriggerUserID,
		Metadata:      stored,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.repo.Create(ctx, notification); err != nil {
		metrics.Notifications.WithLabelValues(string(event.Type), "in_app", "failed").Inc()
		return fmt.Errorf("failed to store notification: %w", err)
	}
	metrics.Notifications.WithLabelValues(string(event.Type), "in_app", "sent").Inc()

	// lets the email observer report its outcome on the stored row
	if event.Metadata != nil {
		event.Metadata[metaNotificationID] = notification.ID
	}
	return nil
}

// EmailNotificationObserver renders and sends an email when the recipient
// opted in for this kind of notification.
type EmailNotificationObserver struct {
	emailService common.EmailService
	renderer     *Renderer
	repo         dbmysql.NotificationRepository
	appURL       string
}

func NewEmailNotificationObserver(
	emailService common.EmailService,
	renderer *Renderer,
	repo dbmysql.NotificationRepository,
	appURL string,
) *EmailNotificationObserver {
	return &EmailNotificationObserver{
		emailService: emailService,
		renderer:     renderer,
		repo:         repo,
		appURL:       appURL,
	}
}

func (e *EmailNotificationObserver) Name() string {
	return "email_observer"
}

func (e *EmailNotificationObserver) Update(event common.NotificationEvent) error {
	optIn, _ := event.Metadata[metaEmailOptIn].(bool)
	email, _ := event.Metadata[metaEmail].(string)
	if !optIn || email == "" {
		metrics.Notifications.WithLabelValues(string(event.Type), "email", "skipped").Inc()
		return nil
	}

	recipientName, _ := event.Metadata[metaRecipientName].(string)
	triggerName, _ := event.Metadata[metaTriggerName].(string)
	preview, _ := event.Metadata[metaPreview].(string)
	balance, _ := event.Metadata[metaBalance].(int)

	html, err := e.renderer.Render(event.Type, EmailView{
		Header:        event.Header,
		RecipientName: recipientName,
		TriggerName:   triggerName,
		Preview:       preview,
		Balance:       balance,
		AppURL:        e.appURL,
	})
	if err != nil {
		e.finish(event, common.StatusFailed)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err = e.emailService.SendEmail(ctx, common.EmailData{
		To:       email,
		ToName:   recipientName,
		Subject:  event.Header,
		HTMLBody: html,
		TextBody: event.Content,
		Category: string(event.Type),
	})
	if err != nil {
		e.finish(event, common.StatusFailed)
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.finish(event, common.StatusSent)
	log.Debug().Str("type", string(event.Type)).Str("user_id", event.UserID).Msg("notification email sent")
	return nil
}

func (e *EmailNotificationObserver) finish(event common.NotificationEvent, status common.NotificationStatus) {
	metrics.Notifications.WithLabelValues(string(event.Type), "email", string(status)).Inc()

	id, ok := event.Metadata[metaNotificationID].(uint64)
	if !ok || e.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.repo.UpdateStatus(ctx, id, string(status)); err != nil {
		log.Warn().Err(err).Uint64("notification_id", id).Msg("failed to record email outcome")
	}
}
