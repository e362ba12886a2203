// Package mailer sends rendered notification emails through an HTTP email API.
package mailer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"seedling/internal/common"
	"seedling/internal/config"
)

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From     address   `json:"from"`
	To       []address `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	Text     string    `json:"text,omitempty"`
	Category string    `json:"category,omitempty"`
}

type sendResponse struct {
	Success    bool     `json:"success"`
	MessageIDs []string `json:"message_ids"`
}

// HTTPTransport posts one JSON request per email to the provider's send endpoint.
type HTTPTransport struct {
	client *resty.Client
	from   address
}

func NewHTTPTransport(cfg config.EmailConfig) *HTTPTransport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetHeader("User-Agent", "Seedling-Mailer/1.0").
		SetAuthToken(cfg.APIKey).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &HTTPTransport{
		client: client,
		from:   address{Email: cfg.FromEmail, Name: cfg.FromName},
	}
}

func (t *HTTPTransport) SendEmail(ctx context.Context, msg common.EmailData) error {
	if msg.To == "" {
		return fmt.Errorf("email recipient is required")
	}

	var result sendResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sendRequest{
			From:     t.from,
			To:       []address{{Email: msg.To, Name: msg.ToName}},
			Subject:  msg.Subject,
			HTML:     msg.HTMLBody,
			Text:     msg.TextBody,
			Category: msg.Category,
		}).
		SetResult(&result).
		Post("/send")
	if err != nil {
		return fmt.Errorf("email send request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("email api error (%d): %s", resp.StatusCode(), resp.String())
	}

	log.Debug().Str("category", msg.Category).Strs("message_ids", result.MessageIDs).Msg("email accepted by provider")
	return nil
}

// LogTransport only logs; used when no email provider is configured.
type LogTransport struct{}

func (LogTransport) SendEmail(ctx context.Context, msg common.EmailData) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("category", msg.Category).
		Msg("email delivery disabled, logging instead")
	return nil
}

func NewEmailService(cfg config.EmailConfig) common.EmailService {
	if !cfg.Enabled || cfg.APIURL == "" {
		return LogTransport{}
	}
	return NewHTTPTransport(cfg)
}
