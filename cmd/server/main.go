package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evac-backend/internal/auth"
	"evac-backend/internal/cache"
	"evac-backend/internal/config"
	"evac-backend/internal/database"
	"evac-backend/internal/db"
	"evac-backend/internal/handlers"
	"evac-backend/internal/health"
	h "evac-backend/internal/http"
	"evac-backend/internal/middleware"
	"evac-backend/internal/monitoring"
	"evac-backend/internal/repositories"
	"evac-backend/internal/services"

	"go.uber.org/zap"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// Search cache: Redis in multi-replica deployments, in-process otherwise.
	redisStore := cache.NewRedisStore(cfg, cache.SearchTTL)
	var searchCache cache.Store
	if redisStore != nil {
		searchCache = redisStore
		logger.Info("search cache using redis")
	} else {
		searchCache = cache.NewMemoryStore(cache.SearchTTL)
		logger.Info("search cache using in-process store")
	}

	healthChecker := health.NewHealthChecker(pool, redisStore)
	jwtManager := auth.NewJWTManager(cfg)

	go monitoring.NewMonitoringServer(pool, cfg.Server.MonitoringPort, logger).Start()

	userRepo := repositories.NewUserRepository(pool)
	barangayRepo := repositories.NewBarangayRepository(pool)
	residentRepo := repositories.NewResidentRepository(pool)
	evacueeRepo := repositories.NewEvacueeResidentRepository(pool)
	familyHeadRepo := repositories.NewFamilyHeadRepository(pool)
	registrationRepo := repositories.NewRegistrationRepository(pool)
	eventRepo := repositories.NewEventRepository(pool)
	roomRepo := repositories.NewRoomRepository(pool)

	authService := services.NewAuthService(userRepo, jwtManager, logger)
	registrationService := services.NewRegistrationService(
		evacueeRepo, familyHeadRepo, registrationRepo, eventRepo, roomRepo, searchCache, logger)
	familyService := services.NewFamilyService(
		evacueeRepo, familyHeadRepo, registrationRepo, eventRepo, searchCache, logger)
	searchService := services.NewSearchService(registrationRepo, searchCache, logger)
	roomService := services.NewRoomService(eventRepo, roomRepo, logger)
	reportService := services.NewReportService(registrationRepo, eventRepo, logger)
	lookupService := services.NewLookupService(barangayRepo, eventRepo, logger)
	residentService := services.NewResidentService(residentRepo, searchCache, logger)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	authHandler := handlers.NewAuthHandler(authService, logger)
	evacueeHandler := handlers.NewEvacueeHandler(registrationService, searchService, logger)
	familyHandler := handlers.NewFamilyHandler(familyService, reportService, logger)
	eventHandler := handlers.NewEventHandler(reportService, roomService, lookupService, logger)
	residentHandler := handlers.NewResidentHandler(residentService, logger)
	barangayHandler := handlers.NewBarangayHandler(lookupService, logger)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(authHandler, evacueeHandler, familyHandler, eventHandler,
		residentHandler, barangayHandler, healthHandler, authMiddleware, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      corsMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
