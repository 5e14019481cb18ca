package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concert-storefront/internal/config"
	"concert-storefront/internal/log"
	"concert-storefront/internal/middleware"
	"concert-storefront/internal/server"
	"concert-storefront/internal/services"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log.InitFromString(cfg.Log.Level)

	sandboxConfig := services.DefaultSandboxConfig(cfg.Backend.EventSlug)
	sandboxConfig.ConfirmAfter = cfg.Sandbox.ConfirmAfter
	sandboxConfig.PublicBaseURL = cfg.Sandbox.PublicBaseURL
	sandbox := services.NewSandboxBackend(sandboxConfig)

	limiter := middleware.NewSubmitRateLimiter(30, time.Minute)
	defer limiter.Stop()

	router := server.NewRouter(server.Options{
		Backend:        sandbox,
		Language:       cfg.Backend.Language,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StorefrontURL:  cfg.Server.StorefrontURL,
		SubmitLimiter:  limiter,
	})

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.WithField("addr", httpServer.Addr).
			WithField("env", cfg.Server.Env).
			WithField("event", cfg.Backend.EventSlug).
			WithField("confirm_after", sandboxConfig.ConfirmAfter).
			Info("Sandbox backend listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		logrus.Info("Shutting down sandbox backend")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("Sandbox backend stopped with error")
	}
}
