// Package httpapi is the JSON/HTTP surface of the API binary.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seedling/internal/chat/service"
	"seedling/internal/common"
	"seedling/internal/dbmysql"
	"seedling/internal/match"
	"seedling/internal/realtime"
	"seedling/internal/user"
)

type Accounts interface {
	RegisterUser(ctx context.Context, in user.RegisterInput) (*user.AuthResult, error)
	LoginUser(ctx context.Context, handle, password string) (*user.AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*dbmysql.User, error)
	UpdatePreferences(ctx context.Context, userID string, prefs user.Preferences) (*dbmysql.User, error)
}

type Seeds interface {
	SendSeed(ctx context.Context, senderID, recipientID string) (*match.SeedResult, error)
	Status(ctx context.Context, callerID, otherID string) (*match.SeedStatus, error)
	ListMatches(ctx context.Context, userID string) ([]dbmysql.PublicProfile, error)
	Balance(ctx context.Context, userID string) (*match.BalanceInfo, error)
	History(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.SeedTransaction, error)
	ApplyBillingEvent(ctx context.Context, event match.BillingEvent) error
}

type Notifications interface {
	GetUserNotifications(ctx context.Context, userID string, limit, offset int) ([]*common.NotificationResponse, error)
	MarkAsRead(ctx context.Context, notificationID uint64, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type Typer interface {
	Typing(ctx context.Context, fromID, toID string) (bool, error)
}

// Streams hands out live event subscriptions for the SSE endpoint.
type Streams interface {
	Subscribe(userID string) *realtime.Subscription
	Unsubscribe(sub *realtime.Subscription)
}

type Deps struct {
	Tokens        *common.TokenManager
	Accounts      Accounts
	Seeds         Seeds
	Chat          service.ChatService
	Notifications Notifications
	Typing        Typer
	Streams       Streams
	MaxImageBytes int64
	BillingSecret string
	Heartbeat     time.Duration
	Health        func(ctx context.Context) error
}

type Handler struct {
	deps Deps
}

func NewRouter(deps Deps) *mux.Router {
	if deps.Heartbeat <= 0 {
		deps.Heartbeat = 25 * time.Second
	}
	if deps.MaxImageBytes <= 0 {
		deps.MaxImageBytes = 10 << 20
	}
	h := &Handler{deps: deps}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware, recoveryMiddleware)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	api.HandleFunc("/billing/events", h.billingEvent).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware(deps.Tokens))

	authed.HandleFunc("/me", h.me).Methods(http.MethodGet)
	authed.HandleFunc("/me/notifications", h.updatePreferences).Methods(http.MethodPut)

	authed.HandleFunc("/seeds/balance", h.balance).Methods(http.MethodGet)
	authed.HandleFunc("/seeds/history", h.history).Methods(http.MethodGet)
	authed.HandleFunc("/seeds/{userID}", h.sendSeed).Methods(http.MethodPost)
	authed.HandleFunc("/seeds/{userID}/status", h.seedStatus).Methods(http.MethodGet)
	authed.HandleFunc("/matches", h.matches).Methods(http.MethodGet)

	// unread-count must be registered before the {userID} pattern
	authed.HandleFunc("/messages/unread-count", h.unreadCount).Methods(http.MethodGet)
	authed.HandleFunc("/messages/{userID}/text", h.sendText).Methods(http.MethodPost)
	authed.HandleFunc("/messages/{userID}/image", h.sendImage).Methods(http.MethodPost)
	authed.HandleFunc("/messages/{userID}", h.conversation).Methods(http.MethodGet)
	authed.HandleFunc("/messages/{messageID}", h.deleteMessage).Methods(http.MethodDelete)
	authed.HandleFunc("/inbox", h.inbox).Methods(http.MethodGet)
	authed.HandleFunc("/conversations/{conversationID}/read", h.markRead).Methods(http.MethodPost)

	authed.HandleFunc("/typing/{userID}", h.typing).Methods(http.MethodPost)
	authed.HandleFunc("/events", h.events).Methods(http.MethodGet)

	authed.HandleFunc("/notifications", h.notifications).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, common.NotFound("route not found"))
	})
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.deps.Health != nil {
		if err := h.deps.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
