package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/logger/pkg/logger"
	"github.com/internxt/meet-server/config"
	"github.com/internxt/meet-server/internal/avatar"
	"github.com/internxt/meet-server/internal/jaas"
	"github.com/internxt/meet-server/internal/payments"
	"github.com/internxt/meet-server/internal/postgres"
	"github.com/internxt/meet-server/internal/service"
	httpx "github.com/internxt/meet-server/internal/transport/http"
	"github.com/internxt/meet-server/internal/users"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting meet-server",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	if err := postgres.Migrate(cfg.Postgres.MigrationsPath, cfg.Postgres.DSN); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	db, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	// --- repos ---
	roomRepo := postgres.NewRoomRepository(db.Pool)
	membershipRepo := postgres.NewMembershipRepository(db.Pool)

	// --- external collaborators ---
	privateKey, err := os.ReadFile(cfg.JaaS.PrivateKeyPath)
	if err != nil {
		log.Fatalf("jaas private key: %v", err)
	}
	minter, err := jaas.NewTokenMinter(cfg.JaaS.AppID, cfg.JaaS.APIKey, privateKey)
	if err != nil {
		log.Fatalf("jaas token minter: %v", err)
	}
	jaasClient := jaas.NewClient(cfg.JaaS.APIBase, minter)
	paymentsClient := payments.NewClient(cfg.Payments.URL)
	usersClient := users.NewClient(cfg.Users.URL)
	avatarSigner, err := avatar.NewSigner(avatar.Config{
		Endpoint:        cfg.Avatars.Endpoint,
		Region:          cfg.Avatars.Region,
		Bucket:          cfg.Avatars.Bucket,
		AccessKeyID:     cfg.Avatars.AccessKeyID,
		SecretAccessKey: cfg.Avatars.SecretAccessKey,
	})
	if err != nil {
		log.Fatalf("avatar signer: %v", err)
	}

	// --- services ---
	roomSvc := service.NewRoomService(roomRepo)
	memberSvc := service.NewMemberService(roomRepo, membershipRepo, usersClient, avatarSigner)
	callSvc := service.NewCallService(roomSvc, memberSvc, paymentsClient, minter)
	webhookSvc := service.NewWebhookService(roomRepo, membershipRepo, jaasClient)

	// --- HTTP ---
	handler := httpx.NewHandler(callSvc, memberSvc, webhookSvc)
	router := httpx.NewRouter(handler, cfg.Auth.Secret, cfg.JaaS.WebhookSecret)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
