package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // America/Sao_Paulo en imágenes sin zoneinfo

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/usecase"
	appwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/webhook"
	domainwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/webhook"
	infrapdf "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/infrastructure/pdf"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/infrastructure/postgres"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/infrastructure/postgres/migrations"
	infraredis "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/infrastructure/redis"
	httpRouter "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/interfaces/http"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/config"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	if cfg.Webhook.ClientSecret == "" {
		log.Warn().Msg("BLING_CLIENT_SECRET vacío: todas las entregas se rechazarán por firma")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Migraciones embebidas antes de abrir el pool
	mg, err := migrations.New(cfg.DB.ConnectionString(), log.Named("migrations"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	if err := mg.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	_ = mg.Close()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	webhookLogRepo := postgres.NewWebhookLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de respuestas: opcional, el log en PostgreSQL sigue siendo la fuente de verdad
	var replayCache appwebhook.ReplayCache
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, se continúa sin caché")
		} else {
			rc := infraredis.NewReplayCache(client, "", cfg.Redis.ReplayTTL())
			defer func() { _ = rc.Close() }()
			replayCache = rc
		}
	}

	webhookSvc := appwebhook.NewService(appwebhook.Config{
		ClientSecret: cfg.Webhook.ClientSecret,
		MaxRetries:   cfg.Webhook.MaxRetries,
		Timeout:      cfg.Webhook.Timeout(),
		Location:     domainwebhook.LoadLocation(cfg.Webhook.Timezone),
		MaxBodyBytes: cfg.Webhook.MaxBodyBytes,
	}, txRunner, webhookLogRepo, replayCache, log.Named("webhook"))

	invoiceUC := usecase.NewInvoiceQueryUseCase(invoiceRepo, infrapdf.NewMarotoPDFGenerator())
	webhookLogUC := usecase.NewWebhookLogUseCase(webhookLogRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    httpRouter.TransportBodyLimit(cfg.Webhook.MaxBodyBytes),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Controle Estoque · Bling Webhooks API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Webhook:      webhookSvc,
		InvoiceUC:    invoiceUC,
		WebhookLogUC: webhookLogUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
