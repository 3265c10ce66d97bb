// cmd/intake-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"candidate-intake/internal/collaborators/candidatestore"
	"candidate-intake/internal/collaborators/elasticjobs"
	"candidate-intake/internal/collaborators/notify"
	"candidate-intake/internal/collaborators/parseapi"
	"candidate-intake/internal/collaborators/resumestore"
	"candidate-intake/internal/common/aws"
	"candidate-intake/internal/common/config"
	"candidate-intake/internal/common/database"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/common/objectstore"
	"candidate-intake/internal/common/observability"
	"candidate-intake/internal/intake/dupguard"
	"candidate-intake/internal/intake/listfield"
	"candidate-intake/internal/intake/resume"
	"candidate-intake/internal/intake/validation"
	"candidate-intake/internal/intake/wizard"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("intake-manager")
	defer obs.Shutdown()

	tracing, err := observability.NewTracing("intake-manager", cfg.App.JaegerURL)
	if err != nil {
		zapLog.Fatal("tracing init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init MinIO with retry ---
	var minioClient *objectstore.MinIOClient
	err = retryWithBackoff(func() error {
		var err error
		minioClient, err = objectstore.NewMinIO(ctx, cfg.ObjectStore)
		return err
	}, 10, 2*time.Second, zapLog, "MinIO connection")

	if err != nil {
		zapLog.Fatal("minio failed after retries", zap.Error(err))
	}
	zapLog.Info("MinIO connected successfully")

	// --- Init notification channels (optional) ---
	var emailSender notify.EmailSender
	var smsSender notify.SMSSender
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Warn("ses client init failed, email confirmations disabled", zap.Error(err))
		} else {
			emailSender = sesClient
		}
	}
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Warn("sns client init failed, sms confirmations disabled", zap.Error(err))
		} else {
			smsSender = snsClient
		}
	}

	zapLog.Info("All external service clients initialized")

	// --- Assemble the intake engine ---
	parseTimeout := time.Duration(cfg.APIs.ResumeParser.Timeout) * time.Millisecond

	store := candidatestore.New(pg, log)
	jobs := elasticjobs.New(esClient, cfg.Database.Elasticsearch.JobIndex, log)
	notifier := notify.New(emailSender, smsSender, cfg.Integrations.AWS.SES.FromEmail, log)
	parser := parseapi.New(
		cfg.APIs.ResumeParser.BaseURL,
		cfg.APIs.ResumeParser.APIKey,
		parseTimeout,
		log,
	)
	fileStore := resumestore.NewRedisStore(
		redisClient,
		time.Duration(cfg.Intake.EphemeralFileTTLMinutes)*time.Minute,
	)
	uploader := resumestore.NewMinIOUploader(minioClient, 0)

	lists := listfield.NewManager(cfg.Intake.MaxEducationEntries)
	deps := wizard.Dependencies{
		Aggregator: validation.NewAggregator(lists, log),
		Guard: dupguard.New(store,
			time.Duration(cfg.Intake.DuplicateCheckTimeout)*time.Millisecond, log),
		Pipeline: resume.New(fileStore, parser, uploader, log,
			parseTimeout,
			time.Duration(cfg.Intake.DurableUploadTimeout)*time.Millisecond),
		Lists:         lists,
		Submitter:     store,
		Jobs:          jobs,
		Notifier:      notifier,
		Logger:        log,
		Observer:      obs,
		SubmitTimeout: time.Duration(cfg.Intake.SubmitTimeout) * time.Millisecond,
	}

	// Open a throwaway session to verify the wiring end to end.
	probe := wizard.NewSession(deps)
	zapLog.Info("Intake engine assembled, sessions can be opened",
		zap.String("initial_step", probe.Step().String()))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := pg.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.App.MetricsPort)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping intake manager...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := tracing.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down tracing", zap.Error(err))
	}

	zapLog.Info("Intake manager stopped gracefully")
}
