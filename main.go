package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/auth"
	"github.com/agrilend/agrilend-engine/pkg/config"
	"github.com/agrilend/agrilend-engine/pkg/database"
	"github.com/agrilend/agrilend-engine/pkg/handlers"
	"github.com/agrilend/agrilend-engine/pkg/llm"
	"github.com/agrilend/agrilend-engine/pkg/logging"
	"github.com/agrilend/agrilend-engine/pkg/mcp"
	"github.com/agrilend/agrilend-engine/pkg/mcp/tools"
	"github.com/agrilend/agrilend-engine/pkg/middleware"
	"github.com/agrilend/agrilend-engine/pkg/repositories"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.Bool("database_enabled", cfg.Database.Enabled),
		zap.String("database", cfg.Database.Name))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()

	authService := auth.NewAuthService(&cfg.Auth, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	var db *database.DB
	var mcpHandler *handlers.MCPHandler
	if cfg.Database.Enabled {
		db, err = database.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Fatal("Failed to connect to SQL Server", zap.Error(err))
		}
		defer db.Close()

		if err := database.RunMigrations(db.DB, "migrations", logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		mcpHandler = registerLendingStack(mux, cfg, db, authMiddleware, logger)
	} else {
		logger.Warn("Database disabled, serving health endpoints only")
		mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
			_ = handlers.ErrorResponse(w, http.StatusServiceUnavailable,
				"database_unavailable", "Database access is disabled")
		})
	}

	handler := middleware.RequestLogger(logger)(middleware.CORS(cfg.ClientURL)(mux))

	srv := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting agrilend-engine",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.Version))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if mcpHandler != nil {
		if err := mcpHandler.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP server shutdown failed", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// registerLendingStack wires repositories, services, the REST handlers,
// the OpenAI bridge, and the MCP endpoint onto the mux. Returns the MCP
// handler so its sessions can be shut down with the process.
func registerLendingStack(
	mux *http.ServeMux,
	cfg *config.Config,
	db *database.DB,
	authMiddleware *auth.Middleware,
	logger *zap.Logger,
) *handlers.MCPHandler {
	borrowerRepo := repositories.NewBorrowerRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	collateralRepo := repositories.NewCollateralRepository(db)
	conversationRepo := repositories.NewConversationRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	lendingService := services.NewLendingService(borrowerRepo, loanRepo, paymentRepo, collateralRepo, logger)
	riskService := services.NewRiskService(borrowerRepo, loanRepo, paymentRepo, collateralRepo, logger)
	analyticsService := services.NewAnalyticsService(riskService, borrowerRepo, loanRepo, logger)
	auditService := services.NewAuditService(conversationRepo, auditRepo, logger)

	handlers.NewLoanHandler(lendingService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewBorrowerHandler(lendingService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewRiskHandler(riskService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAnalyticsHandler(analyticsService, logger).RegisterRoutes(mux, authMiddleware)

	if client, err := llm.NewClient(&cfg.OpenAI, logger); err != nil {
		logger.Warn("OpenAI bridge disabled", zap.Error(err))
	} else {
		executor := llm.NewLendingToolExecutor(lendingService, riskService, analyticsService, logger)
		bridge := llm.NewBridge(client, executor, cfg.OpenAI.Model, logger)
		handlers.NewOpenAIHandler(bridge, auditService, logger).RegisterRoutes(mux, authMiddleware)
	}

	auditRecorder := mcp.NewAuditRecorder(auditService, logger)
	mcpServer := mcp.NewServer("agrilend-engine", cfg.Version, auditRecorder.Hooks(), logger)

	tools.RegisterHealthTool(mcpServer.MCP(), cfg.Version)
	tools.RegisterLoanTools(mcpServer.MCP(), &tools.LoanToolDeps{Lending: lendingService, Logger: logger})
	tools.RegisterBorrowerTools(mcpServer.MCP(), &tools.BorrowerToolDeps{Lending: lendingService, Logger: logger})
	tools.RegisterRiskTools(mcpServer.MCP(), &tools.RiskToolDeps{
		Risk:      riskService,
		Analytics: analyticsService,
		Logger:    logger,
	})
	tools.RegisterAnalyticsTools(mcpServer.MCP(), &tools.AnalyticsToolDeps{
		Analytics: analyticsService,
		Logger:    logger,
	})

	mcpHandler := handlers.NewMCPHandler(mcpServer, cfg.Version, logger)
	mcpHandler.RegisterRoutes(mux, authMiddleware)
	return mcpHandler
}
