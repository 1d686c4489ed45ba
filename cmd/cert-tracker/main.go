// cmd/cert-tracker/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"cert-tracker/internal/api"
	answerquestion "cert-tracker/internal/assistant/answer-question"
	"cert-tracker/internal/assistant/llm"
	"cert-tracker/internal/common/auth"
	commonaws "cert-tracker/internal/common/aws"
	"cert-tracker/internal/common/config"
	"cert-tracker/internal/common/database"
	"cert-tracker/internal/common/genai"
	commonhttp "cert-tracker/internal/common/http"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/observability"
	"cert-tracker/internal/common/storage"
	"cert-tracker/internal/notify"
	"cert-tracker/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// connect opens and pings a client with retries. A client that opened but
// failed its ping is closed before the next attempt.
func connect[T pinger](ctx context.Context, open func() (T, error), maxRetries int, initialDelay time.Duration, log *zap.Logger, name string) (T, error) {
	var client T
	err := retryWithBackoff(func() error {
		c, err := open()
		if err != nil {
			return err
		}
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return err
		}
		client = c
		return nil
	}, maxRetries, initialDelay, log, name)
	return client, err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting cert-tracker...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, observability.Options{
		TracingEnabled: cfg.Tracing.Enabled,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	pg, err := connect(ctx, func() (*database.PostgresClient, error) {
		return database.NewPostgres(cfg.Database.Postgres)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := database.Migrate(pg.DB); err != nil {
			zapLog.Fatal("migrations failed", zap.Error(err))
		}
		version, _ := database.MigrationVersion(pg.DB)
		zapLog.Info("Database schema up to date", zap.Int64("version", version))
	}

	// --- Init Redis with retry ---
	var cache *store.SessionCache
	if cfg.Database.Redis.Enabled {
		rdb, err := connect(ctx, func() (*database.RedisClient, error) {
			return database.NewRedis(cfg.Database.Redis)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			// Sessions still work against Postgres alone.
			zapLog.Warn("redis unavailable, session cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			cache = store.NewSessionCache(rdb, log)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Assistant ---
	client, err := genai.NewClient(genai.Config{
		Endpoint:   cfg.Assistant.GenAI.Endpoint,
		APIKey:     cfg.Assistant.GenAI.APIKey,
		Deployment: cfg.Assistant.GenAI.Deployment,
		APIVersion: cfg.Assistant.GenAI.APIVersion,
		Timeout:    config.GetDuration(cfg.Assistant.GenAI.Timeout),
	}, commonhttp.NewClient(config.GetDuration(cfg.Assistant.GenAI.Timeout)))
	if err != nil {
		zapLog.Fatal("failed to create language model client", zap.Error(err))
	}
	model := llm.NewChatModel(client, llm.Config{
		SQLTemperature:       cfg.Assistant.SQLTemperature,
		NarrationTemperature: cfg.Assistant.NarrationTemperature,
	})
	assistant := answerquestion.New(model, pg.DB, answerquestion.Options{
		MaxRows:      cfg.Assistant.MaxRows,
		QueryTimeout: config.GetDuration(cfg.Assistant.QueryTimeout),
	}, obs, log)

	// --- Uploads ---
	uploads, err := newUploadStore(ctx, cfg.Storage)
	if err != nil {
		zapLog.Fatal("failed to initialize upload storage", zap.Error(err))
	}

	// --- Notifications ---
	notifier, err := newNotifier(ctx, cfg.Notifications, log)
	if err != nil {
		zapLog.Fatal("failed to initialize notifications", zap.Error(err))
	}

	cookies := sessions.NewCookieStore([]byte(cfg.Session.SecretKey))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.TTL,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	server := api.NewServer(api.Deps{
		Assistant:   assistant,
		Employees:   store.NewEmployeeStore(pg.DB),
		Users:       store.NewUserStore(pg.DB),
		Sessions:    store.NewSessionStore(pg.DB, cache, time.Duration(cfg.Session.TTL)*time.Second),
		Events:      store.NewEventStore(pg.DB),
		Submissions: store.NewSubmissionStore(pg),
		Uploads:     uploads,
		Notifier:    notifier,
		Hasher:      auth.NewHasher(bcrypt.DefaultCost),
		Cookies:     cookies,
		Ready:       pg.Ping,
		Options: api.Options{
			CookieName:    cfg.Session.CookieName,
			AuthRequired:  cfg.Session.AuthRequired,
			MaxUploadSize: cfg.Server.MaxUploadSize,
		},
		Logger: log,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// --- Graceful Shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server stopped with error", zap.Error(err))
	}
	zapLog.Info("cert-tracker stopped gracefully")
}

func newUploadStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	if cfg.Minio.Enabled {
		return storage.NewMinio(ctx, storage.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
	}
	return storage.NewLocal(cfg.LocalDir)
}

func newNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*notify.Notifier, error) {
	var (
		sesClient notify.SESService
		snsClient notify.SNSService
	)

	if cfg.Email.Enabled || cfg.SNS.Enabled {
		awsCfg, err := commonaws.LoadConfig(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		if cfg.Email.Enabled {
			sesClient = commonaws.NewSESClient(awsCfg)
		}
		if cfg.SNS.Enabled {
			snsClient = commonaws.NewSNSClient(awsCfg)
		}
	}

	return notify.New(&notify.Config{
		EmailEnabled: cfg.Email.Enabled,
		FromEmail:    cfg.Email.FromEmail,
		Domain:       cfg.Email.Domain,
		SNSEnabled:   cfg.SNS.Enabled,
		TopicARN:     cfg.SNS.TopicARN,
	}, sesClient, snsClient, log), nil
}
