package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"interviewmaster/server/internal/chat"
	"interviewmaster/server/internal/config"
	"interviewmaster/server/internal/handlers"
	"interviewmaster/server/internal/interview"
	"interviewmaster/server/internal/jobs"
	"interviewmaster/server/internal/llm"
	_ "interviewmaster/server/internal/llm/gemini"
	"interviewmaster/server/internal/prompts"
	"interviewmaster/server/internal/routers"
	"interviewmaster/server/internal/storage"
	"interviewmaster/server/internal/utils"
)

func registerRoutes(
	router *chi.Mux,
	interviewHandler *handlers.InterviewHandler,
	chatHandler *handlers.ChatHandler,
	accountHandler *handlers.AccountHandler,
	badgeHandler *handlers.BadgeHandler,
	exportHandler *handlers.ExportHandler,
	healthHandler *handlers.HealthHandler,
) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler)
	routers.ChatRoutes(router, chatHandler)
	routers.AccountRoutes(router, accountHandler, badgeHandler, exportHandler)
}

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	logger := utils.GetLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("storage", cfg.StorageDriver))

	promptManager, err := prompts.NewManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	gateway, err := llm.NewGateway(cfg.Provider, promptManager)
	if err != nil {
		logger.Fatal("Failed to initialize AI gateway", zap.Error(err))
	}

	db, err := storage.Open(cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	store := storage.NewStore(db)
	storeGateway := storage.NewGateway(store, logger)

	flowManager := interview.NewManager(gateway, storeGateway, logger, cfg.AdvanceDelay, cfg.FlowTTL)
	chatManager := chat.NewManager(context.Background(), gateway, storeGateway, logger)

	interviewHandler := handlers.NewInterviewHandler(flowManager, logger)
	chatHandler := handlers.NewChatHandler(chatManager, logger)
	accountHandler := handlers.NewAccountHandler(storeGateway, logger)
	badgeHandler := handlers.NewBadgeHandler(gateway, logger)
	healthHandler := handlers.NewHealthHandler(gateway, promptManager, db, cfg)

	exporterJob := jobs.NewSessionExporterJob(storeGateway, store, &jobs.ExporterConfig{
		Schedule:      cfg.ExportSchedule,
		ExportDir:     cfg.ExportDir,
		ExportEnabled: cfg.ExportEnabled,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start session exporter job", zap.Error(err))
	}
	exportHandler := handlers.NewExportHandler(exporterJob, logger)

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Logger, chimiddleware.Recoverer)

	registerRoutes(router, interviewHandler, chatHandler, accountHandler, badgeHandler, exportHandler, healthHandler)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Streaming chat responses can outlive a short write timeout.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("interview server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("interview server shutting down...")

	exporterJob.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("interview server exited")
}
