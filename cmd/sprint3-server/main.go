package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/taiwon1/sprint3/internal/config"
	"github.com/taiwon1/sprint3/internal/logging"
	"github.com/taiwon1/sprint3/internal/server"
	"github.com/taiwon1/sprint3/internal/storage"
)

func newRootCommand() *cobra.Command {
	v := config.New()
	cmd := &cobra.Command{
		Use:          "sprint3-server",
		Short:        "Serve the articles and products API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String(config.KeyConfig, "", "path to a YAML, JSON or TOML config file")
	flags.Int(config.KeyPort, 8080, "port to listen on")
	flags.String(config.KeyDBURL, "", "URL-formatted connection string to the database server. Currently only postgres:// URLs are supported.")
	flags.String(config.KeyPublicKey, "", "URL to the public key used to verify auth tokens on writes. Currently only file:// URLs are supported. Writes are open when empty.")
	flags.String(config.KeyLogLevel, "info", "minimum level to log (debug, info, warn, error)")
	flags.String(config.KeyLogFormat, "text", "log output format (text or json)")
	flags.Duration(config.KeyRequestTimeout, 15*time.Second, "maximum time spent handling a single request")
	flags.String(config.KeyStorage, config.StorageDisk, "where uploaded images are kept (disk or minio)")
	flags.String(config.KeyUploadDir, "uploads", "root directory for the disk image store")
	flags.String(config.KeyMinioEndpoint, "", "host:port of the S3-compatible image store")
	flags.String(config.KeyMinioAccessKey, "", "access key for the S3-compatible image store")
	flags.String(config.KeyMinioSecretKey, "", "secret key for the S3-compatible image store")
	flags.String(config.KeyMinioBucket, "sprint3-images", "bucket holding uploaded images")
	flags.Bool(config.KeyMinioSSL, false, "use TLS when talking to the S3-compatible image store")
	cobra.CheckErr(v.BindPFlags(flags))

	return cmd
}

func openImageStore(ctx context.Context, cfg config.Config) (storage.ImageStore, error) {
	switch cfg.Storage {
	case config.StorageMinio:
		store, err := storage.NewMinioStore(cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return storage.NewDiskStore(cfg.UploadDir)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	publicKey, err := cfg.LoadPublicKey()
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}
	if publicKey == nil {
		logger.Warn("no public key configured, write requests are not authenticated")
	}

	pool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	images, err := openImageStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open image store: %w", err)
	}

	router, err := server.New(server.Env{
		Logger:         logger,
		DB:             pool,
		Images:         images,
		PublicKey:      publicKey,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on specified address: %w", err)
	}
	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		done <- httpServer.Serve(listener)
	}()
	logger.WithFields(logrus.Fields{
		"addr":    listener.Addr().String(),
		"storage": cfg.Storage,
	}).Info("listening")

	select {
	case err = <-done:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
