package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sirupsen/logrus"

	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/application/usecase/access"
	"github.com/sefworks/partner-portal/application/usecase/directory"
	"github.com/sefworks/partner-portal/application/usecase/provisioning"
	"github.com/sefworks/partner-portal/infrastructure/adapter/postgres"
	"github.com/sefworks/partner-portal/infrastructure/config"
	porthttp "github.com/sefworks/partner-portal/infrastructure/http"
	"github.com/sefworks/partner-portal/infrastructure/http/handler"
	"github.com/sefworks/partner-portal/infrastructure/http/middleware"
	"github.com/sefworks/partner-portal/infrastructure/service/credential"
	"github.com/sefworks/partner-portal/infrastructure/service/identity"
	"github.com/sefworks/partner-portal/infrastructure/service/lock"
	"github.com/sefworks/partner-portal/infrastructure/service/logger"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "partner-portal",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	// Connect to database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to connect to database", err, map[string]interface{}{})
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, map[string]interface{}{})
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", map[string]interface{}{})

	// Initialize the provisioning lock (redis-backed or in-process
	// based on config)
	var provisionLock outbound.ProvisionLock
	{
		lockLogger := logrus.New()
		pl, err := lock.NewProvisionLock(lock.ProvisionLockConfig{
			Enabled:  cfg.ProvisionLockEnabled,
			RedisURL: cfg.RedisURL,
			TTL:      cfg.ProvisionLockTTL,
		}, lockLogger)
		if err != nil {
			structuredLogger.Error(ctx, "Failed to initialize provisioning lock", err, map[string]interface{}{
				"redis_url": cfg.RedisURL,
			})
			log.Fatalf("Failed to initialize provisioning lock: %v", err)
		}
		provisionLock = pl
	}

	// Initialize repositories
	membershipRepo := postgres.NewMembershipRepositoryAdapter(db)
	activityLog := postgres.NewActivityLogAdapter(db)

	// Initialize services
	identityProvider := identity.NewProviderClient(
		cfg.IdentityProviderURL,
		cfg.IdentityServiceKey,
		cfg.IdentityJWTSecret,
		10*time.Second,
		structuredLogger,
	)
	credentialGenerator := credential.NewGenerator(cfg.TempCredentialPrefix)
	allowlist := outbound.NewStaticAllowlist(cfg.SuperadminAllowlist)

	// Core use cases
	resolver := access.NewResolver(membershipRepo, allowlist, cfg.NonProduction())
	guard := access.NewTenantFilterGuard()
	saga := provisioning.NewSaga(identityProvider, membershipRepo, activityLog, provisionLock, credentialGenerator, structuredLogger)
	dir := directory.NewDirectory(membershipRepo, activityLog, guard, structuredLogger)

	// HTTP transport
	accessMiddleware := middleware.NewAccessMiddleware(
		identityProvider,
		resolver,
		structuredLogger,
		cfg.TestRoleOverride,
		cfg.TestTenantOverride,
	)
	server := porthttp.NewServer(
		porthttp.ServerConfig{
			Port:         cfg.ServerPort,
			ReadTimeout:  cfg.ServerReadTimeout,
			WriteTimeout: cfg.ServerWriteTimeout,
			IdleTimeout:  cfg.ServerIdleTimeout,
		},
		accessMiddleware,
		handler.NewProvisioningHandler(saga, structuredLogger),
		handler.NewAccessHandler(),
		handler.NewDirectoryHandler(dir, structuredLogger),
		structuredLogger,
	)

	// Start server and wait for shutdown signal
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		structuredLogger.Error(ctx, "HTTP server failed", err, map[string]interface{}{})
		log.Fatalf("HTTP server failed: %v", err)
	case sig := <-sigCh:
		structuredLogger.Info(ctx, "Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Graceful shutdown failed", err, map[string]interface{}{})
	}
}
