package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	channelUsecases "github.com/miasolution2024/omniconnect/internal/application/channel/usecases"
	connectUsecases "github.com/miasolution2024/omniconnect/internal/application/connect/usecases"
	integrationUsecases "github.com/miasolution2024/omniconnect/internal/application/integration/usecases"
	webhookUsecases "github.com/miasolution2024/omniconnect/internal/application/webhook/usecases"
	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/auth"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/cache"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/config"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/email"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/ratelimit"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/repository"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/social"
	"github.com/miasolution2024/omniconnect/internal/interfaces/http/handlers"
	"github.com/miasolution2024/omniconnect/internal/interfaces/http/middleware"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// linkableSources are the providers the linking flow exposes endpoints for.
var linkableSources = []channel.Source{
	channel.SourceFacebook,
	channel.SourceInstagram,
	channel.SourceZalo,
}

// sessionStoreAdapter bridges the redis session store to the use case port.
type sessionStoreAdapter struct {
	store *cache.RedisOAuthSessionStore
}

func (a *sessionStoreAdapter) Save(ctx context.Context, state string, session connectUsecases.LinkSession) error {
	return a.store.Save(ctx, state, cache.SessionInfo{
		Source:       session.Source,
		CodeVerifier: session.CodeVerifier,
		UserID:       session.UserID,
	})
}

func (a *sessionStoreAdapter) Take(ctx context.Context, state string) (*connectUsecases.LinkSession, error) {
	info, err := a.store.Take(ctx, state)
	if err != nil {
		return nil, err
	}
	return &connectUsecases.LinkSession{
		Source:       info.Source,
		CodeVerifier: info.CodeVerifier,
		UserID:       info.UserID,
	}, nil
}

// Router represents the HTTP router configuration
type Router struct {
	engine             *gin.Engine
	cfg                *config.Config
	connectHandler     *handlers.ConnectHandler
	webhookHandler     *handlers.WebhookHandler
	channelHandler     *handlers.ChannelHandler
	integrationHandler *handlers.IntegrationHandler
	authMiddleware     *middleware.AuthMiddleware
	rateLimiter        *middleware.RateLimiter
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	channelRepo := repository.NewChannelRepository(db, log)
	logRepo := repository.NewIntegrationLogRepository(db, log)
	settingRepo := repository.NewIntegrationSettingRepository(db, log)

	sessionStore := &sessionStoreAdapter{
		store: cache.NewRedisOAuthSessionStore(redisClient, "oauth:session:", 10*time.Minute),
	}
	factory := social.NewConnectorFactory()
	audit := connectUsecases.NewAuditLogger(logRepo, log)

	initiateUC := connectUsecases.NewInitiateChannelLinkUseCase(
		settingRepo, factory, sessionStore, social.GeneratePKCE, audit, cfg.Server.FrontendURL, log,
	)
	callbackUC := connectUsecases.NewHandleLinkCallbackUseCase(
		settingRepo, channelRepo, factory, sessionStore, audit, cfg.Server.FrontendURL, log,
	)
	if cfg.Email.Enabled() {
		notifier := email.NewSMTPAlertService(email.SMTPConfig{
			Host:         cfg.Email.SMTPHost,
			Port:         cfg.Email.SMTPPort,
			Username:     cfg.Email.SMTPUser,
			Password:     cfg.Email.SMTPPassword,
			FromAddress:  cfg.Email.FromAddress,
			FromName:     cfg.Email.FromName,
			AlertAddress: cfg.Email.AlertAddress,
		})
		callbackUC.SetFailureNotifier(notifier)
	}

	verifyUC := webhookUsecases.NewVerifyWebhookUseCase(settingRepo, log)
	relayUC := webhookUsecases.NewRelayEventUseCase(settingRepo, logRepo, nil, log)

	listChannelsUC := channelUsecases.NewListChannelsUseCase(channelRepo, log)
	setEnabledUC := channelUsecases.NewSetChannelEnabledUseCase(channelRepo, log)

	listLogsUC := integrationUsecases.NewListIntegrationLogsUseCase(logRepo, log)
	getLogUC := integrationUsecases.NewGetIntegrationLogUseCase(logRepo, log)
	getSettingsUC := integrationUsecases.NewGetSettingsUseCase(settingRepo, log)
	updateSettingsUC := integrationUsecases.NewUpdateSettingsUseCase(settingRepo, log)
	updateSettingsUC.SetAppWebhookConfigurer(factory)

	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	apiKeys := auth.NewAPIKeyVerifier(cfg.Auth.APIKeyHash)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, apiKeys, log)

	limiter := ratelimit.NewRedisRateLimiter(redisClient)
	rateLimiter := middleware.NewRateLimiter(limiter, ratelimit.RateLimitConfig{
		RequestsPerMinute: 20,
		RequestsPerHour:   200,
	}, log)

	return &Router{
		engine:             engine,
		cfg:                cfg,
		connectHandler:     handlers.NewConnectHandler(initiateUC, callbackUC, log),
		webhookHandler:     handlers.NewWebhookHandler(verifyUC, relayUC, log),
		channelHandler:     handlers.NewChannelHandler(listChannelsUC, setEnabledUC, log),
		integrationHandler: handlers.NewIntegrationHandler(listLogsUC, getLogUC, getSettingsUC, updateSettingsUC, log),
		authMiddleware:     authMiddleware,
		rateLimiter:        rateLimiter,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(logger.NewLogger()))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")
	{
		// Provider-facing endpoints: the webhook handshake and event push.
		api.GET("/webhook", r.webhookHandler.Verify)
		api.POST("/webhook", r.webhookHandler.Receive)

		// Browser-facing linking flow, one pair of routes per provider.
		// Callbacks carry no bearer token; the OAuth state is the credential.
		for _, source := range linkableSources {
			src := string(source)
			api.GET("/"+src+"/auth",
				r.rateLimiter.Limit(),
				r.authMiddleware.OptionalAuth(),
				r.connectHandler.InitiateAuth(src))
			api.GET("/"+src+"/auth/callback", r.connectHandler.HandleCallback(src))
		}

		admin := api.Group("")
		admin.Use(r.authMiddleware.RequireAuth())
		{
			admin.GET("/channels", r.channelHandler.ListChannels)
			admin.PATCH("/channels/:sid", r.channelHandler.SetChannelEnabled)

			admin.GET("/logs", r.integrationHandler.ListLogs)
			admin.GET("/logs/:sid", r.integrationHandler.GetLog)

			admin.GET("/settings", r.integrationHandler.GetSettings)
			admin.PUT("/settings", r.integrationHandler.UpdateSettings)
		}
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
