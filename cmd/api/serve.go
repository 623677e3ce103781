package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/georgemunganga/retailops-backend/internal/modules/assistant"
	"github.com/georgemunganga/retailops-backend/internal/modules/auth"
	"github.com/georgemunganga/retailops-backend/internal/modules/dashboard"
	"github.com/georgemunganga/retailops-backend/internal/modules/media"
	"github.com/georgemunganga/retailops-backend/internal/modules/notification"
	"github.com/georgemunganga/retailops-backend/internal/modules/product"
	"github.com/georgemunganga/retailops-backend/internal/modules/profile"
	"github.com/georgemunganga/retailops-backend/internal/modules/recommendation"
	"github.com/georgemunganga/retailops-backend/internal/modules/sales"
	"github.com/georgemunganga/retailops-backend/internal/modules/settings"
	"github.com/georgemunganga/retailops-backend/internal/platform/logging"
	"github.com/georgemunganga/retailops-backend/internal/platform/realtime"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// ── Change feed & notifications ─────────────────────────
	bus := EventBus.New()
	center := notification.NewCenter(notification.DefaultLimit)
	if err := center.Attach(bus); err != nil {
		return err
	}
	defer center.Detach()

	feed := realtime.NewFeed(cfg.DatabaseURL, bus)
	go func() {
		if err := feed.Run(ctx); err != nil {
			zap.S().Errorf("realtime feed stopped: %v", err)
		}
	}()

	// ── Recommendations ─────────────────────────────────────
	productRepo := product.NewPostgresRepository(db)
	recommendationRepo := recommendation.NewPostgresRepository(db)
	recommendationService := recommendation.NewService(recommendationRepo, productRepo, loc)

	scheduler := recommendation.NewScheduler(recommendationService, loc)
	if err := scheduler.SetFrequency(cfg.Schedule.Frequency); err != nil {
		return err
	}
	if cfg.Schedule.Enabled {
		scheduler.Start()
		defer scheduler.Stop()
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger)
	router.Use(middleware.Recoverer)

	tokens := auth.NewTokens(cfg.JWTSecret, auth.DefaultTTL)

	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo)
	profileHandler := profile.NewHandler(profileService)
	profileHandler.RegisterPublicRoutes(router)
	auth.NewHandler(auth.NewService(profileService, tokens)).RegisterRoutes(router)

	settingsService := settings.NewService(settings.NewPostgresRepository(db), func(f settings.Frequency) error {
		return scheduler.SetFrequency(string(f))
	})

	var store media.Store
	if cfg.Storage.URL != "" {
		store = media.NewObjectStore(cfg.Storage.URL, cfg.Storage.Key, cfg.Storage.Bucket)
	} else {
		store = media.NewDiskStore(cfg.Storage.MediaDir, cfg.Storage.PublicURL)
		if strings.HasPrefix(cfg.Storage.PublicURL, "/") {
			prefix := cfg.Storage.PublicURL + "/"
			router.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Storage.MediaDir))))
		}
	}

	var generator assistant.Generator
	if cfg.Gemini.APIKey != "" {
		gemini, err := assistant.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return err
		}
		generator = gemini
	} else {
		zap.S().Warn("GEMINI_API_KEY not set; the assistant will answer with an apology")
	}

	salesRepo := sales.NewPostgresRepository(db)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		profileHandler.RegisterRoutes(r)
		settings.NewHandler(settingsService).RegisterRoutes(r)

		product.NewHandler(product.NewService(productRepo, recommendationService, loc)).RegisterRoutes(r)
		media.NewHandler(media.NewService(store)).RegisterRoutes(r)
		sales.NewHandler(sales.NewService(salesRepo, recommendationService, loc), loc).RegisterRoutes(r)
		recommendation.NewHandler(recommendationService).RegisterRoutes(r)
		dashboard.NewHandler(dashboard.NewService(productRepo, salesRepo, recommendationRepo, loc)).RegisterRoutes(r)
		notification.NewHandler(center, settingsService).RegisterRoutes(r)

		assistantService := assistant.NewService(assistant.NewPostgresSource(db), generator,
			assistant.NewTranscripts(assistant.MaxTranscript))
		assistant.NewHandler(assistantService).RegisterRoutes(r)
	})

	// ── Start Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("RetailOps API server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.S().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
