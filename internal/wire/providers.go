package wire

import (
	"context"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	chatrepo "seedling/internal/chat/repository"
	chatsvc "seedling/internal/chat/service"
	"seedling/internal/common"
	"seedling/internal/config"
	"seedling/internal/dbmongo"
	"seedling/internal/dbmysql"
	"seedling/internal/httpapi"
	"seedling/internal/mailer"
	"seedling/internal/match"
	"seedling/internal/notif"
	"seedling/internal/realtime"
	"seedling/internal/user"
)

// Application is everything cmd/api needs to serve and shut down.
type Application struct {
	Config        *config.Config
	DB            *gorm.DB
	Mongo         *dbmongo.MongoClient
	Hub           *realtime.Hub
	Relay         *realtime.RedisRelay
	Notifications *notif.NotificationManager
	Router        *mux.Router
	GRPC          *grpc.Server
}

var StorageSet = wire.NewSet(
	ProvideDatabase,
	dbmysql.NewTransactor,
	dbmysql.NewNotificationRepository,
	ProvideMongo,
	ProvideImageStorage,
)

var RealtimeSet = wire.NewSet(
	ProvideHub,
	ProvideRelay,
	ProvidePublisher,
	ProvideTypingRelay,
	realtime.NewService,
)

var NotificationSet = wire.NewSet(
	mailer.NewEmailService,
	ProvideEmailConfig,
	notif.NewRenderer,
	ProvideNotificationManager,
	ProvideDispatcher,
	notif.NewNotificationService,
)

var DomainSet = wire.NewSet(
	match.NewLedgerRepository,
	ProvideLedgerService,
	chatrepo.NewChatRepository,
	ProvideChatService,
	user.NewUserRepository,
	ProvideUserService,
)

var TransportSet = wire.NewSet(
	ProvideTokenManager,
	ProvideRouter,
	ProvideGRPCServer,
)

func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func ProvideMongo(cfg *config.Config) (*dbmongo.MongoClient, func(), error) {
	mc, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mc.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("disconnect MongoDB")
		}
	}
	return mc, cleanup, nil
}

func ProvideImageStorage(mc *dbmongo.MongoClient, cfg *config.Config) *dbmongo.ImageStorage {
	return dbmongo.NewImageStorage(mc, cfg.Server.MediaBaseURL)
}

func ProvideTokenManager(cfg *config.Config) *common.TokenManager {
	return common.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
}

func ProvideHub(cfg *config.Config) (*realtime.Hub, func()) {
	hub := realtime.NewHub(cfg.Realtime.SubscriberBuffer)
	return hub, hub.Close
}

// ProvideRelay returns nil when no Redis URL is configured.
func ProvideRelay(cfg *config.Config, hub *realtime.Hub) (*realtime.RedisRelay, func(), error) {
	if cfg.Redis.URL == "" {
		return nil, func() {}, nil
	}
	client, err := realtime.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis client")
		}
	}
	return realtime.NewRedisRelay(client, hub, cfg.Redis.ChannelPrefix), cleanup, nil
}

func ProvidePublisher(hub *realtime.Hub, relay *realtime.RedisRelay) realtime.Publisher {
	if relay != nil {
		return relay
	}
	return hub
}

func ProvideTypingRelay(cfg *config.Config, publisher realtime.Publisher, ledger match.LedgerService) *realtime.TypingRelay {
	return realtime.NewTypingRelay(publisher, ledger, cfg.Realtime.TypingRate, cfg.Realtime.TypingBurst)
}

func ProvideEmailConfig(cfg *config.Config) config.EmailConfig {
	return cfg.Email
}

// ProvideNotificationManager subscribes the database observer ahead of email so
// the email outcome can be written onto the stored row.
func ProvideNotificationManager(
	cfg *config.Config,
	repo dbmysql.NotificationRepository,
	emailService common.EmailService,
	renderer *notif.Renderer,
) (*notif.NotificationManager, func()) {
	manager := notif.NewNotificationManager(cfg.Notification.Workers, cfg.Notification.ChannelBufferSize)
	manager.Subscribe(notif.NewDatabaseNotificationObserver(repo))
	manager.Subscribe(notif.NewEmailNotificationObserver(emailService, renderer, repo, cfg.Email.AppURL))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		manager.Shutdown(ctx)
	}
	return manager, cleanup
}

func ProvideDispatcher(cfg *config.Config, manager *notif.NotificationManager, repo match.LedgerRepository) *notif.Dispatcher {
	return notif.NewDispatcher(manager, repo, repo, cfg.Seeds, cfg.Notification)
}

func ProvideLedgerService(repo match.LedgerRepository, tx *dbmysql.Transactor, dispatcher *notif.Dispatcher) match.LedgerService {
	return match.NewLedgerService(repo, tx, dispatcher)
}

func ProvideChatService(
	cfg *config.Config,
	repo chatrepo.ChatRepository,
	tx *dbmysql.Transactor,
	ledger match.LedgerService,
	users match.LedgerRepository,
	images *dbmongo.ImageStorage,
	publisher realtime.Publisher,
	dispatcher *notif.Dispatcher,
) chatsvc.ChatService {
	return chatsvc.NewChatService(repo, tx, ledger, users, images, publisher, dispatcher, cfg.Seeds)
}

func ProvideUserService(
	cfg *config.Config,
	repo user.UserRepository,
	tx *dbmysql.Transactor,
	ledger match.LedgerService,
	tokens *common.TokenManager,
) user.UserService {
	return user.NewUserService(repo, tx, ledger, tokens, cfg.Seeds)
}

func ProvideRouter(
	cfg *config.Config,
	db *gorm.DB,
	tokens *common.TokenManager,
	accounts user.UserService,
	ledger match.LedgerService,
	chat chatsvc.ChatService,
	notifications *notif.NotificationService,
	typing *realtime.TypingRelay,
	hub *realtime.Hub,
) *mux.Router {
	r := httpapi.NewRouter(httpapi.Deps{
		Tokens:        tokens,
		Accounts:      accounts,
		Seeds:         ledger,
		Chat:          chat,
		Notifications: notifications,
		Typing:        typing,
		Streams:       hub,
		MaxImageBytes: cfg.Seeds.MaxImageBytes,
		BillingSecret: cfg.Billing.WebhookSecret,
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})
	r.Use(timeoutMiddleware(cfg.Server.WriteTimeout))
	return r
}

// timeoutMiddleware bounds request contexts; the event stream is exempt.
func timeoutMiddleware(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d <= 0 || r.URL.Path == "/api/v1/events" {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ProvideGRPCServer(tokens *common.TokenManager, svc *realtime.Service) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(common.LoggingUnaryInterceptor, common.AuthInterceptor(tokens, nil)),
		grpc.ChainStreamInterceptor(common.LoggingStreamInterceptor, common.StreamAuthInterceptor(tokens)),
	)
	realtime.RegisterRealtimeServer(server, svc)
	return server
}
