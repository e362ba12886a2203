package common

import (
	"context"
)

type Observer interface {
	Update(event NotificationEvent) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(event NotificationEvent)
	NotifyAsync(event NotificationEvent) bool
}

// EmailService delivers one rendered email. Implementations live in internal/mailer.
type EmailService interface {
	SendEmail(ctx context.Context, msg EmailData) error
}

type EmailData struct {
	To       string `json:"to"`
	ToName   string `json:"to_name,omitempty"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html"`
	TextBody string `json:"text,omitempty"`
	Category string `json:"category,omitempty"`
}
