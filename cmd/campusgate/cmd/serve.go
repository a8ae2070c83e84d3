package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/campusworks/campusgate/internal/config"
	"github.com/campusworks/campusgate/internal/database"
	internalhttp "github.com/campusworks/campusgate/internal/http"
	"github.com/campusworks/campusgate/internal/http/handlers"
	"github.com/campusworks/campusgate/internal/models"
	"github.com/campusworks/campusgate/internal/openapi"
	"github.com/campusworks/campusgate/internal/origins"
	"github.com/campusworks/campusgate/internal/repository"
	"github.com/campusworks/campusgate/internal/storage"
	"github.com/campusworks/campusgate/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the campusgate server",
	Long: `Start the campusgate HTTP server.

The server provides:
- REST API for listing the institute's courses
- Uploaded course media at /uploads with byte-range support
- OpenAPI document at /openapi.json and docs UI at /api-docs
- Health check endpoint at /health`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("database", "campusgate.db", "Database DSN (file path for sqlite)")
	serveCmd.Flags().String("upload-dir", "./uploads", "Directory uploaded course media is served from")
	serveCmd.Flags().String("spec-path", "./docs/openapi.json", "On-disk OpenAPI document to publish")
	serveCmd.Flags().String("public-url", "", "Externally visible base URL (overrides per-request resolution)")
	serveCmd.Flags().String("cors-extra-origins", "", "Comma-separated origins added to the allow list")

	// Bind flags to viper
	mustBindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	mustBindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	mustBindPFlag("database.dsn", serveCmd.Flags().Lookup("database"))
	mustBindPFlag("storage.upload_dir", serveCmd.Flags().Lookup("upload-dir"))
	mustBindPFlag("openapi.spec_path", serveCmd.Flags().Lookup("spec-path"))
	mustBindPFlag("server.public_base_url", serveCmd.Flags().Lookup("public-url"))
	mustBindPFlag("server.cors.extra_origins", serveCmd.Flags().Lookup("cors-extra-origins"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	// Initialize database
	db, err := database.New(cfg.Database, logger, nil)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(&models.Course{}); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Initialize repositories
	courseRepo := repository.NewCourseRepository(db.DB)

	// Initialize the upload sandbox. Every /uploads request resolves inside
	// this directory; nothing outside it is ever served.
	sandbox, err := storage.NewSandbox(cfg.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("initializing upload storage: %w", err)
	}

	// Build the cross-origin allow list from fixed and deploy-time origins.
	registry := origins.NewRegistry(cfg.Server.CORS.Origins, cfg.Server.CORS.ExtraOrigins)
	logger.Info("cross-origin allow list built",
		slog.Int("origins", len(registry.Origins())),
	)

	publisher := openapi.NewPublisher(
		cfg.OpenAPI.SpecPath,
		cfg.Server.PublicBaseURL,
		fmt.Sprintf("http://localhost:%d", cfg.Server.Port),
		logger,
	)

	// Initialize HTTP server
	serverConfig := internalhttp.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	serverConfig.ReadTimeout = cfg.Server.ReadTimeout
	serverConfig.WriteTimeout = cfg.Server.WriteTimeout
	serverConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	serverConfig.RequestLogging = cfg.RequestLoggingEnabled()
	server := internalhttp.NewServer(serverConfig, logger, version.Version, registry)

	// Register API handlers
	healthHandler := handlers.NewHealthHandler(version.Version).WithDB(db.DB)
	healthHandler.Register(server.API())

	coursesHandler := handlers.NewCoursesHandler(courseRepo)
	coursesHandler.Register(server.API())

	// Uploaded media is served outside the API framework so byte-range and
	// preflight semantics stay under the handler's direct control. Both the
	// bare prefix and everything under it route there; the handler answers
	// the bare prefix itself with a 404.
	uploadsHandler := handlers.NewUploadsHandler(sandbox, registry, logger)
	server.Router().Handle(internalhttp.UploadsPrefix, uploadsHandler)
	server.Router().Handle(internalhttp.UploadsPrefix+"/*", uploadsHandler)

	// The published document and its docs UI
	openapiHandler := handlers.NewOpenAPIHandler(publisher, logger)
	server.Router().Method(http.MethodGet, "/openapi.json", openapiHandler)

	docsHandler := handlers.NewDocsHandler("campusgate API", "/openapi.json", handlers.WithSystemTheme())
	server.Router().Get("/api-docs", docsHandler.ServeHTTP)

	// Service identity at the root
	rootHandler := handlers.NewRootHandler(version.Version)
	server.Router().Get("/", rootHandler.ServeHTTP)

	// Header echo endpoint, mounted only when explicitly enabled
	if cfg.Debug.ExposeHeaders {
		logger.Warn("header echo endpoint enabled", slog.String("path", "/__headers"))
		server.Router().Get("/__headers", handlers.NewHeadersHandler().ServeHTTP)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	// Start server
	logger.Info("starting campusgate server",
		slog.String("host", serverConfig.Host),
		slog.Int("port", serverConfig.Port),
		slog.String("environment", cfg.Environment),
		slog.String("version", version.Version),
	)

	return server.ListenAndServe(ctx)
}
