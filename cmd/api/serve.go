package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/fkhayef/secretsanta/internal/auth"
	"github.com/fkhayef/secretsanta/internal/config"
	"github.com/fkhayef/secretsanta/internal/database"
	"github.com/fkhayef/secretsanta/internal/group"
	"github.com/fkhayef/secretsanta/internal/group/draw"
	"github.com/fkhayef/secretsanta/internal/metrics"
	"github.com/fkhayef/secretsanta/internal/notification"
	"github.com/fkhayef/secretsanta/internal/user"
	"github.com/fkhayef/secretsanta/pkg/middleware"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *options) error {
	cfg, logger := opts.cfg, opts.logger
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Connected to database successfully")

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	defaultLocale, err := language.Parse(cfg.I18n.DefaultLocale)
	if err != nil {
		return fmt.Errorf("parse DEFAULT_LOCALE: %w", err)
	}

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is not set, signing tokens with the development secret", "env", cfg.Env)
	}

	m := metrics.New()

	// Draw Strategy Factory (Factory Pattern)
	drawFactory := draw.NewDrawStrategyFactory(m.ObserveDrawAttempts)
	strategy, err := drawFactory.CreateFromString(cfg.Draw.Strategy)
	if err != nil {
		return err
	}

	var sender notification.Sender
	if cfg.Mail.ResendAPIKey != "" {
		sender = notification.NewResendSender(cfg.Mail.ResendAPIKey)
	} else {
		logger.Warn("RESEND_API_KEY is not set, e-mails will be logged instead of sent")
		sender = notification.NewLogSender(logger)
	}
	dispatcher := notification.NewDispatcher(sender, cfg.Mail.From, cfg.Mail.Concurrency, m, logger)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Auth feature
	authService := auth.NewService(userService, auth.NewTokenManager(cfg.Auth.JWTSecret), dispatcher, auth.Config{
		BaseURL:      cfg.BaseURL,
		MagicLinkTTL: cfg.Auth.MagicLinkTTL,
		SessionTTL:   cfg.Auth.SessionTTL,
	})
	authHandler := auth.NewHandler(authService, cfg.Auth.SessionTTL, cfg.Auth.SecureCookie, defaultLocale)

	// Group feature (with draw strategy injected)
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, middleware.ContextAuthenticator{}, dispatcher, strategy, nil, m, logger)
	groupHandler := group.NewHandler(groupService, defaultLocale)

	router := newRouter(routerDeps{
		logger:   logger,
		sessions: authService,
		metrics:  m,
		auth:     authHandler,
		users:    userHandler,
		groups:   groupHandler,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "draw_strategy", strategy.Type(), "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
