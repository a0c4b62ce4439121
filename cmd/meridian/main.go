package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian/internal/app"
	"github.com/meridian-erp/meridian/internal/auth"
	"github.com/meridian-erp/meridian/internal/exports"
	"github.com/meridian-erp/meridian/internal/masterdata/customers"
	"github.com/meridian-erp/meridian/internal/masterdata/geo"
	"github.com/meridian-erp/meridian/internal/masterdata/items"
	"github.com/meridian-erp/meridian/internal/masterdata/paymentterms"
	"github.com/meridian-erp/meridian/internal/masterdata/sections"
	"github.com/meridian-erp/meridian/internal/masterdata/suppliers"
	"github.com/meridian-erp/meridian/internal/observability"
	"github.com/meridian-erp/meridian/internal/pages"
	"github.com/meridian-erp/meridian/internal/platform/cache"
	"github.com/meridian-erp/meridian/internal/platform/db"
	"github.com/meridian-erp/meridian/internal/rbac"
	"github.com/meridian-erp/meridian/internal/shared"
	"github.com/meridian-erp/meridian/internal/tenant"
	"github.com/meridian-erp/meridian/internal/users"
	"github.com/meridian-erp/meridian/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "meridian_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	tenantResolver := tenant.NewResolver(tenant.NewRepository(dbpool), redisClient, logger, cfg.BaseDomain)

	rbacService := rbac.NewService(dbpool)
	rbacMiddleware := rbac.Middleware{Source: rbacService, Logger: logger}
	rbacHandler := rbac.NewHandler(logger, rbacService, rbacMiddleware)

	usersService := users.NewService(users.NewRepository(dbpool))
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	pdfClient := exports.NewPDFClient(cfg.GotenbergURL)
	if err := pdfClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg ping", slog.Any("error", err))
	}

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	geoService := geo.NewService(geo.NewRepository(dbpool))
	customersService := customers.NewService(customers.NewRepository(dbpool))
	suppliersService := suppliers.NewService(suppliers.NewRepository(dbpool))
	paymentTermsService := paymentterms.NewService(paymentterms.NewRepository(dbpool))
	itemsService := items.NewService(items.NewRepository(dbpool))
	sectionsService := sections.NewService(sections.NewRepository(dbpool))

	geoHandler := geo.NewHandler(logger, geoService, pdfClient)
	customersHandler := customers.NewHandler(logger, customersService, pdfClient)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService, pdfClient)
	paymentTermsHandler := paymentterms.NewHandler(logger, paymentTermsService, pdfClient)
	itemsHandler := items.NewHandler(logger, itemsService, pdfClient, jobsClient)
	sectionsHandler := sections.NewHandler(logger, sectionsService, pdfClient)

	pagesRegistry := pages.NewRegistry(pages.Deps{
		Logger:       logger,
		Redis:        redisClient,
		PDF:          pdfClient,
		Geo:          geoService,
		Customers:    customersService,
		Suppliers:    suppliersService,
		PaymentTerms: paymentTermsService,
		Items:        itemsService,
		Sections:     sectionsService,
	})
	pagesHandler := pages.NewHandler(logger, pagesRegistry)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessionManager,
		CSRFManager:         csrfManager,
		Metrics:             metrics,
		TenantResolver:      tenantResolver,
		AuthHandler:         authHandler,
		UsersHandler:        usersHandler,
		RBACHandler:         rbacHandler,
		GeoHandler:          geoHandler,
		CustomersHandler:    customersHandler,
		SuppliersHandler:    suppliersHandler,
		PaymentTermsHandler: paymentTermsHandler,
		ItemsHandler:        itemsHandler,
		SectionsHandler:     sectionsHandler,
		PagesHandler:        pagesHandler,
		JobsHandler:         jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
