/**
* Name: 			serve.go
* Description: 		HTTP 서버 기동
* Workflow: 		설정 로드 -> DB 오픈 -> 외부 클라이언트 구성 -> 라우터 -> graceful shutdown
 */
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
	"go.uber.org/zap"

	"record_service/internal/archiver"
	"record_service/internal/auth"
	"record_service/internal/config"
	"record_service/internal/handler"
	"record_service/internal/predict"
	"record_service/internal/record"
	"record_service/internal/storage"
	"record_service/internal/userclient"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(signalCtx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := storage.Open(ctx, cfg.Storage.Path, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	router, err := buildRouter(cfg, store, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Bind,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("record service listening", zap.String("bind", cfg.Server.Bind))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("record service shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildRouter wires the service graph on top of an open store.
func buildRouter(cfg *config.Config, store *storage.Store, logger *zap.Logger) (http.Handler, error) {
	var signer *auth.Signer
	if cfg.UserService.JWTSecret != "" {
		s, err := auth.NewSigner(cfg.UserService.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("service token signer: %w", err)
		}
		signer = s
	}

	directory := userclient.New(cfg.UserService.BaseURL, cfg.UserServiceTimeout(), signer, logger)
	store.UseResolver(directory)

	stager, err := archiver.NewArchiver(cfg.Storage.TempDir, logger)
	if err != nil {
		return nil, fmt.Errorf("upload staging: %w", err)
	}

	svc := record.NewService(
		directory,
		store,
		predict.New(cfg.Predict.URL, cfg.PredictTimeout(), logger),
		stager,
		record.Options{DefaultDeviceType: cfg.Records.DefaultDeviceType, Logger: logger},
	)

	h := handler.NewRecordHandler(svc, cfg.StreamPollInterval(), logger)
	return handler.NewRouter(h, cfg.Server, logger), nil
}
