package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/jhoicas/retail-audit-api/docs"
	appanalytics "github.com/jhoicas/retail-audit-api/internal/application/analytics"
	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/application/auth"
	"github.com/jhoicas/retail-audit-api/internal/application/usecase"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
	"github.com/jhoicas/retail-audit-api/internal/infrastructure/cache"
	"github.com/jhoicas/retail-audit-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/retail-audit-api/internal/infrastructure/pdf"
	"github.com/jhoicas/retail-audit-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retail-audit-api/internal/interfaces/http"
	"github.com/jhoicas/retail-audit-api/pkg/config"
	"github.com/jhoicas/retail-audit-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	scoreRepo := postgres.NewScoreRepository(pool)
	actionRepo := postgres.NewActionPlanRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	visitRepo := postgres.NewVisitRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Plantillas de checklist: Redis opcional delante de PostgreSQL.
	var checklistRepo repository.ChecklistRepository = postgres.NewChecklistRepository(pool)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, checklists sin caché")
		} else {
			defer rdb.Close()
			ttl := time.Duration(cfg.Redis.ChecklistTTLSec) * time.Second
			checklistRepo = cache.NewChecklistCache(checklistRepo, rdb, ttl, log.Component("cache"))
			log.Info().Dur("ttl", ttl).Msg("caché de checklists activa")
		}
	}

	mtr := metrics.New(prometheus.DefaultRegisterer)

	deps := auditing.Deps{
		Audits:     auditRepo,
		Scores:     scoreRepo,
		Actions:    actionRepo,
		Comments:   commentRepo,
		Checklists: checklistRepo,
		Stores:     storeRepo,
		Users:      userRepo,
		Visits:     visitRepo,
		Tx:         txRunner,
		Metrics:    mtr,
		Log:        log.Component("auditing"),
		Policy: auditing.Policy{
			RequireAllScored: cfg.Audit.RequireAllScored,
			AutoActions:      cfg.Audit.AutoActions,
			ActionDueDays:    cfg.Audit.ActionDueDays,
		},
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), mtr))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs desactivado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	auditUC := auditing.NewAuditUseCase(deps)
	actionUC := auditing.NewActionUseCase(deps)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(userRepo),
		StoreUC:     usecase.NewStoreUseCase(storeRepo, userRepo, txRunner, log.Component("stores")),
		ChecklistUC: usecase.NewChecklistUseCase(checklistRepo),
		AuditUC:     auditUC,
		ActionUC:    actionUC,
		CommentUC:   auditing.NewCommentUseCase(deps),
		VisitUC:     auditing.NewVisitUseCase(deps),
		ReportUC:    auditing.NewReportUseCase(deps, infrapdf.NewAuditReportGenerator()),
		DashboardUC: appanalytics.NewDashboardUseCase(auditUC, actionUC, nil),
		JWTSecret:   cfg.JWT.Secret,
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
