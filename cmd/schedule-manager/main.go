// cmd/schedule-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tender-scheduler/internal/alert"
	commonaws "tender-scheduler/internal/common/aws"
	"tender-scheduler/internal/common/config"
	"tender-scheduler/internal/common/database"
	apperrors "tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/common/metrics"
	"tender-scheduler/internal/common/observability"
	"tender-scheduler/internal/jobs/invoke"
	"tender-scheduler/internal/jobs/reconcile"
	"tender-scheduler/internal/jobs/rulesync"
	"tender-scheduler/internal/jobs/sweep"
	"tender-scheduler/internal/queue"
	"tender-scheduler/internal/roleauthority"
	"tender-scheduler/internal/rules"
	"tender-scheduler/internal/search"
	"tender-scheduler/internal/store"
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

func errorCode(err error) string {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "UNKNOWN"
}

func main() {
	once := flag.String("once", "", "run one job (sweep|rulesync|reconcile|consume) and exit")
	flag.Parse()

	zapLog := logger.New("info", "console")
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting schedule manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger with the configured level and format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New("schedule-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// A one-shot run still needs the job's clients even when its cron
	// entry is disabled.
	needRules := cfg.Rules.Enabled || *once == "rulesync"
	needReconcile := cfg.Reconcile.Enabled || *once == "reconcile"
	needConsumer := cfg.Consumer.Enabled || *once == "consume"

	// --- Init AWS config with retry ---
	var awsCfg awssdk.Config
	err = retryWithBackoff(func() error {
		var err error
		awsCfg, err = commonaws.NewConfig(ctx, cfg.AWS.Region)
		return err
	}, 10, 2*time.Second, zapLog, "AWS config load")

	if err != nil {
		zapLog.Fatal("aws config failed after retries", zap.Error(err))
	}
	zapLog.Info("AWS config loaded successfully", zap.String("region", cfg.AWS.Region))

	preferenceStore := store.New(dynamodb.NewFromConfig(awsCfg), cfg.Store.TableName, log)
	dispatchQueue := queue.New(sqs.NewFromConfig(awsCfg), cfg.Queue.URL, cfg.Queue.WaitTimeSeconds, cfg.Queue.MaxMessages, log)

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	if needRules {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init alerting ---
	notifier := alert.NewNotifier(nil, "", log)
	if cfg.Alerts.Enabled {
		notifier = alert.NewNotifier(commonaws.NewSNSClient(awsCfg), cfg.Alerts.TopicARN, log)
		zapLog.Info("Run failure alerting enabled", zap.String("topic", cfg.Alerts.TopicARN))
	}

	// --- Construct job handlers ---
	sweepHandler := sweep.NewHandler(
		&sweep.Config{
			DailyHour:      cfg.Sweep.DailyHour,
			UTCOffsetHours: cfg.Schedule.UTCOffsetHours,
			Concurrency:    cfg.Sweep.Concurrency,
			RecordTimeout:  config.GetDuration(cfg.Sweep.RecordTimeout),
		},
		preferenceStore, dispatchQueue, log,
	)

	var rebuildHandler *rulesync.Handler
	if needRules {
		rebuildHandler = rulesync.NewHandler(
			&rulesync.Config{
				DailyHour:       cfg.Rules.DailyHour,
				SearchWorkerARN: cfg.Rules.SearchWorkerARN,
				ProtectedMarker: cfg.Rules.ProtectedMarker,
				LockKey:         cfg.Rules.LockKey,
				LockTTL:         config.GetDuration(cfg.Rules.LockTTL),
			},
			preferenceStore, rules.NewClient(eventbridge.NewFromConfig(awsCfg), log), redisClient, log,
		)
	}

	var reconcileHandler *reconcile.Handler
	if needReconcile {
		roleClient := roleauthority.NewClient(
			cfg.RoleAuthority.BaseURL,
			cfg.RoleAuthority.APIKey,
			config.GetDuration(cfg.RoleAuthority.Timeout),
		)
		reconcileHandler = reconcile.NewHandler(
			&reconcile.Config{
				AuthorizedRoles: cfg.Reconcile.AuthorizedRoles,
				Concurrency:     cfg.Reconcile.Concurrency,
				RecordTimeout:   config.GetDuration(cfg.Reconcile.RecordTimeout),
			},
			preferenceStore, roleClient, log,
		)
	}

	var consumer *invoke.Handler
	if needConsumer {
		workerClient := search.NewWorkerClient(lambda.NewFromConfig(awsCfg), cfg.Rules.SearchWorkerARN, log)
		consumer, err = invoke.NewHandler(
			&invoke.Config{
				RecordTimeout: config.GetDuration(cfg.Consumer.RecordTimeout),
				ErrorPause:    config.GetDuration(cfg.Consumer.ErrorPause),
			},
			dispatchQueue, workerClient, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create queue consumer", zap.Error(err))
		}
	}

	// runJob wraps one job run with a deadline, metrics and failure
	// alerting. Jobs report per-record failures in their Result; an error
	// here means the whole run broke.
	runJob := func(name string, timeout time.Duration, run func(ctx context.Context) (interface{}, error)) error {
		runCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		result, err := run(runCtx)
		duration := time.Since(start)

		metrics.JobRunDuration.WithLabelValues(name).Observe(duration.Seconds())

		if err != nil {
			metrics.JobRunsFailed.WithLabelValues(name, errorCode(err)).Inc()
			obs.RecordRun(context.Background(), name, "failed")
			obs.RecordRunDuration(context.Background(), name, duration, "failed")
			notifier.RunFailed(context.Background(), name, err)
			zapLog.Error("job run failed", zap.String("job", name), zap.Error(err))
			return err
		}

		metrics.JobRunsCompleted.WithLabelValues(name).Inc()
		obs.RecordRun(context.Background(), name, "completed")
		obs.RecordRunDuration(context.Background(), name, duration, "completed")
		zapLog.Info("job run completed",
			zap.String("job", name),
			zap.Duration("duration", duration),
			zap.Any("result", result),
		)
		return nil
	}

	// --- One-shot mode ---
	if *once != "" {
		var runErr error
		switch *once {
		case "sweep":
			runErr = runJob(sweep.JobName, config.GetDuration(cfg.Sweep.Timeout), func(ctx context.Context) (interface{}, error) {
				return sweepHandler.Run(ctx)
			})
		case "rulesync":
			runErr = runJob(rulesync.JobName, config.GetDuration(cfg.Rules.Timeout), func(ctx context.Context) (interface{}, error) {
				return rebuildHandler.Run(ctx)
			})
		case "reconcile":
			runErr = runJob(reconcile.JobName, config.GetDuration(cfg.Reconcile.Timeout), func(ctx context.Context) (interface{}, error) {
				return reconcileHandler.Run(ctx)
			})
		case "consume":
			runErr = runJob(invoke.JobName, time.Minute, func(ctx context.Context) (interface{}, error) {
				return consumer.RunOnce(ctx)
			})
		default:
			zapLog.Fatal("unknown job for -once", zap.String("job", *once))
		}

		if runErr != nil {
			zapLog.Sync()
			os.Exit(1)
		}
		return
	}

	// --- Register cron entries ---
	scheduler := cron.New()

	if cfg.Sweep.Enabled {
		if _, err := scheduler.AddFunc(cfg.Sweep.Cron, func() {
			runJob(sweep.JobName, config.GetDuration(cfg.Sweep.Timeout), func(ctx context.Context) (interface{}, error) {
				return sweepHandler.Run(ctx)
			})
		}); err != nil {
			zapLog.Fatal("sweep cron registration failed", zap.Error(err))
		}
		zapLog.Info("sweep scheduled", zap.String("cron", cfg.Sweep.Cron))
	}

	if cfg.Rules.Enabled {
		if _, err := scheduler.AddFunc(cfg.Rules.Cron, func() {
			runJob(rulesync.JobName, config.GetDuration(cfg.Rules.Timeout), func(ctx context.Context) (interface{}, error) {
				return rebuildHandler.Run(ctx)
			})
		}); err != nil {
			zapLog.Fatal("rule rebuild cron registration failed", zap.Error(err))
		}
		zapLog.Info("rule rebuild scheduled", zap.String("cron", cfg.Rules.Cron))
	}

	if cfg.Reconcile.Enabled {
		if _, err := scheduler.AddFunc(cfg.Reconcile.Cron, func() {
			runJob(reconcile.JobName, config.GetDuration(cfg.Reconcile.Timeout), func(ctx context.Context) (interface{}, error) {
				return reconcileHandler.Run(ctx)
			})
		}); err != nil {
			zapLog.Fatal("reconcile cron registration failed", zap.Error(err))
		}
		zapLog.Info("reconcile scheduled", zap.String("cron", cfg.Reconcile.Cron))
	}

	// --- Start queue consumer ---
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	if cfg.Consumer.Enabled {
		go func() {
			if err := consumer.Consume(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
				zapLog.Error("queue consumer exited", zap.Error(err))
			}
		}()
		zapLog.Info("Queue consumer started")
	}

	scheduler.Start()
	zapLog.Info("All scheduled jobs registered successfully")

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
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping jobs...")
	stopConsumer()

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		zapLog.Warn("running jobs did not finish before the shutdown deadline")
	}

	zapLog.Info("Schedule manager stopped gracefully")
}
