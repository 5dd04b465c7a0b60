package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bnpl-agent/config"
	httpLayer "bnpl-agent/http"
	"bnpl-agent/repository"
	"bnpl-agent/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	userRepo := repository.NewUserRepositoryMemory()
	if err := userRepo.LoadFromFile(cfg.UserDBPath); err != nil {
		log.Fatalf("Error loading user database: %v", err)
	}
	log.Printf("Loaded %d user profiles", len(userRepo.List()))

	var cache repository.CacheRepository
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr)
	} else {
		cache = repository.NewMockCache()
	}

	policy := service.DefaultPolicy()

	snapshotService := service.NewSnapshotService(userRepo, cache, policy)

	var summarizer service.Summarizer
	if ai := service.NewAIService(cfg.OpenAIAPIKey); ai.Enabled() {
		summarizer = ai
		log.Println("AI summarizer enabled")
	}

	optimizerService := service.NewOptimizerService(snapshotService, summarizer, policy)
	calendarService := service.NewCalendarService(snapshotService, optimizerService, policy)

	optimizeHandler := httpLayer.NewOptimizeHandler(optimizerService)
	calendarHandler := httpLayer.NewCalendarHandler(calendarService)
	financesHandler := httpLayer.NewFinancesHandler(snapshotService)

	rateLimiter := httpLayer.NewRateLimiter(5, time.Minute)
	defer rateLimiter.Stop()

	mux := http.NewServeMux()
	mux.Handle(
		"/cart/optimize",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(optimizeHandler.OptimizeCart),
		),
	)

	mux.Handle(
		"/cart/calendar",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(calendarHandler.PaymentCalendar),
		),
	)

	mux.Handle(
		"/finances/available",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(financesHandler.AvailableFunds),
		),
	)

	mux.Handle(
		"/users",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(financesHandler.ListUsers),
		),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 API corriendo en http://localhost%s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
}
