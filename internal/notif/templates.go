package notif

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"seedling/internal/common"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailView is the data every email template renders from.
type EmailView struct {
	Header        string
	RecipientName string
	TriggerName   string
	Preview       string
	Balance       int
	AppURL        string
}

// Renderer holds one parsed template set per notification type.
type Renderer struct {
	templates map[common.NotificationType]*template.Template
}

func NewRenderer() (*Renderer, error) {
	types := []common.NotificationType{
		common.SeedReceivedType,
		common.MatchType,
		common.LowBalanceType,
		common.NewMessageType,
	}

	templates := make(map[common.NotificationType]*template.Template, len(types))
	for _, t := range types {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+string(t)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", t, err)
		}
		templates[t] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(t common.NotificationType, view EmailView) (string, error) {
	tmpl, ok := r.templates[t]
	if !ok {
		return "", fmt.Errorf("no email template for %q", t)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		return "", fmt.Errorf("render %s email: %w", t, err)
	}
	return buf.String(), nil
}
