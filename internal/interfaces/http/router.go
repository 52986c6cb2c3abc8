// Package http wires the application together behind a gin engine.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tailorcv/internal/application/checkout/usecases"
	"tailorcv/internal/application/contact"
	"tailorcv/internal/application/quota"
	"tailorcv/internal/application/tailor"
	"tailorcv/internal/domain/entitlement"
	"tailorcv/internal/infrastructure/ai"
	"tailorcv/internal/infrastructure/config"
	"tailorcv/internal/infrastructure/email"
	"tailorcv/internal/infrastructure/payment"
	"tailorcv/internal/infrastructure/tokens"
	"tailorcv/internal/infrastructure/unlockstore"
	"tailorcv/internal/interfaces/http/handlers"
	"tailorcv/internal/interfaces/http/middleware"
	"tailorcv/internal/interfaces/http/routes"
	"tailorcv/internal/shared/logger"
)

// Router owns the engine and the HTTP server lifecycle.
type Router struct {
	engine *gin.Engine
	server *http.Server
	logger logger.Interface
}

// NewRouter builds the engine with all handlers wired from configuration.
func NewRouter(cfg *config.Config, log logger.Interface) (*Router, error) {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := buildStore(cfg, log)
	if err != nil {
		return nil, err
	}

	catalog := entitlement.NewCatalog(entitlement.PriceIDs{
		Single:  cfg.Stripe.PriceSingle,
		Bundle2: cfg.Stripe.PriceBundle2,
		Bundle5: cfg.Stripe.PriceBundle5,
		Hour:    cfg.Stripe.PriceHour,
	})

	gateway := buildGateway(cfg, log)
	verifier := payment.NewWebhookVerifier(cfg.Stripe.WebhookSecret)
	codec := tokens.NewCodec(cfg.Auth.AccessToken.Secret)

	guard := quota.NewGuard(
		quota.NewCookieCodec(cfg.Auth.AccessToken.Secret),
		cfg.Quota.DailyLimit,
		cfg.Quota.ProLimit,
		log.Named("quota"),
	)

	var aiOpts []ai.OpenAIOption
	if cfg.AI.APIBase != "" {
		aiOpts = append(aiOpts, ai.WithAPIBase(cfg.AI.APIBase))
	}
	completionClient := ai.NewOpenAIClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTokens, log.Named("ai"), aiOpts...)
	tailorSvc := tailor.NewService(completionClient, log.Named("tailor"))

	mailer := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		ContactTo:   cfg.Email.ContactTo,
	})
	contactSvc := contact.NewService(mailer, log.Named("contact"))

	createUC := usecases.NewCreateCheckoutUseCase(catalog, gateway, cfg.Server.BaseURL, log.Named("checkout"))
	confirmUC := usecases.NewConfirmSessionUseCase(store, gateway, catalog, codec, log.Named("checkout"))
	webhookUC := usecases.NewHandleWebhookUseCase(verifier, gateway, store, catalog, log.Named("webhook"))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(log.Named("http")))
	engine.Use(middleware.Recovery())
	if len(cfg.Server.AllowedOrigins) > 0 {
		engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupCheckoutRoutes(engine, &routes.CheckoutRouteConfig{
		CheckoutHandler: handlers.NewCheckoutHandler(createUC, confirmUC, log.Named("checkout")),
		WebhookHandler:  handlers.NewWebhookHandler(webhookUC, log.Named("webhook")),
	})
	routes.SetupAuthRoutes(engine, &routes.AuthRouteConfig{
		VerifyHandler: handlers.NewVerifyHandler(codec, log.Named("verify")),
	})
	routes.SetupTailorRoutes(engine, &routes.TailorRouteConfig{
		TailorHandler: handlers.NewTailorHandler(tailorSvc, codec, guard, log.Named("tailor")),
	})
	routes.SetupContactRoutes(engine, &routes.ContactRouteConfig{
		ContactHandler: handlers.NewContactHandler(contactSvc, log.Named("contact")),
	})

	return &Router{
		engine: engine,
		server: &http.Server{
			Addr:              cfg.Server.GetAddr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}, nil
}

// Engine exposes the gin engine, used by tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run serves until the listener fails or Shutdown is called.
func (r *Router) Run() error {
	r.logger.Infow("http server listening", "addr", r.server.Addr)
	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func buildStore(cfg *config.Config, log logger.Interface) (unlockstore.Store, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return unlockstore.NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return unlockstore.NewRedisStore(client, log.Named("unlockstore")), nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.Store.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return unlockstore.NewGormStore(db)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func buildGateway(cfg *config.Config, log logger.Interface) payment.Gateway {
	if cfg.Stripe.SecretKey == "" {
		log.Warnw("no processor secret key configured, using mock gateway")
		return payment.NewMockGateway()
	}

	var opts []payment.StripeOption
	if cfg.Stripe.APIBase != "" {
		opts = append(opts, payment.WithAPIBase(cfg.Stripe.APIBase))
	}
	return payment.NewStripeClient(cfg.Stripe.SecretKey, log.Named("stripe"), opts...)
}
