package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pet-tag/internal/adapters/auth/google"
	"pet-tag/internal/adapters/auth/session"
	kvredis "pet-tag/internal/adapters/kv/redis"
	"pet-tag/internal/adapters/objects/cloudinary"
	"pet-tag/internal/adapters/objects/s3"
	pg "pet-tag/internal/adapters/storage/postgres"
	"pet-tag/internal/config"
	"pet-tag/internal/platform/httpclient"
	"pet-tag/internal/platform/logger"
	"pet-tag/internal/ports/objects"
	"pet-tag/internal/router"
)

// @title Pet Tag API
// @version 1.0
// @description Perfiles de mascotas con tag NFC: registro, pairing, perfil público y scans.
// @BasePath /
func main() {
	// .env es opcional (en prod las vars vienen del entorno)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if s, ok := log.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{Config: cfg, Log: log}

	if cfg.DatabaseDSN != "" {
		db, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := pg.Migrate(ctx, db); err != nil {
			return err
		}
		opts.DB = db
		log.Info("postgres ready", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory repositories", nil)
	}

	if cfg.RedisURL != "" {
		rc, err := kvredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		opts.Redis = rc
		log.Info("redis ready", nil)
	}

	photos, err := newPhotoStore(ctx, cfg)
	if err != nil {
		return err
	}
	opts.Photos = photos

	mgr := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	opts.Sessions = mgr
	if cfg.DevAuth {
		log.Warn("DEV_AUTH enabled: X-Debug-User-ID is trusted", nil)
	} else {
		opts.AuthVerifier = mgr
	}

	if cfg.GoogleEnabled() {
		opts.Identity = google.NewClient(google.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.PublicBaseURL + "/auth/callback",
		}, httpclient.New(httpclient.DefaultTimeout))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(opts),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPhotoStore(ctx context.Context, cfg config.Config) (objects.Store, error) {
	switch cfg.StorageDriver {
	case "s3":
		st, err := s3.New(ctx, s3.Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return st, nil
	case "cloudinary":
		st, err := cloudinary.New(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		// nil => el router usa el store in-memory
		return nil, nil
	}
}
