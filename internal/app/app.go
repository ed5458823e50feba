package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/dleiva04/arq-big-data2/internal/domain"
	"github.com/dleiva04/arq-big-data2/internal/generator"
	healthcheck "github.com/dleiva04/arq-big-data2/internal/health"
	"github.com/dleiva04/arq-big-data2/internal/messaging/kafka"
	"github.com/dleiva04/arq-big-data2/internal/metrics"
	"github.com/dleiva04/arq-big-data2/internal/sink"
	"github.com/dleiva04/arq-big-data2/internal/storage/memory"
	"github.com/dleiva04/arq-big-data2/internal/version"
)

// Config описывает настройки одной сессии генератора.
type Config struct {
	// SessionDuration — длительность сессии.
	SessionDuration time.Duration
	// MinOrderDelay/MaxOrderDelay — границы паузы между новыми заказами.
	MinOrderDelay time.Duration
	MaxOrderDelay time.Duration
	// CancelProbability — вероятность отмены при каждой проверке перехода.
	CancelProbability float64
	// KafkaBrokers и KafkaTopic задаются вместе или не задаются вовсе.
	KafkaBrokers []string
	KafkaTopic   string
	// ConsoleOutput включает печать событий в stdout.
	ConsoleOutput bool
	// MetricsAddr — адрес HTTP-сервера метрик и health checks.
	MetricsAddr string
	// Seed сидирует генераторы случайности; ноль — случайный запуск.
	Seed int64
}

// DefaultConfig возвращает параметры по умолчанию: пятиминутная сессия
// с паузами между заказами от 1 до 60 секунд.
func DefaultConfig() Config {
	return Config{
		SessionDuration:   5 * time.Minute,
		MinOrderDelay:     time.Second,
		MaxOrderDelay:     60 * time.Second,
		CancelProbability: 0.08,
		ConsoleOutput:     true,
		MetricsAddr:       ":9090",
	}
}

// Validate проверяет конфигурацию до старта цикла.
func (c Config) Validate() error {
	if c.SessionDuration < 0 {
		return errors.New("duration must be >= 0")
	}
	if c.MinOrderDelay <= 0 {
		return errors.New("min-delay must be > 0")
	}
	if c.MaxOrderDelay < c.MinOrderDelay {
		return errors.New("max-delay must be >= min-delay")
	}
	if c.CancelProbability < 0 || c.CancelProbability > 1 {
		return errors.New("cancel-probability must be between 0 and 1")
	}
	if (len(c.KafkaBrokers) == 0) != (c.KafkaTopic == "") {
		return errors.New("kafka-brokers and kafka-topic must be set together")
	}
	return nil
}

// Run выполняет одну сессию генератора: собирает компоненты, запускает
// цикл и гарантирует закрытие sinks и печать итоговой сводки на любом
// пути завершения.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	policyCfg := domain.DefaultPolicyConfig()
	policyCfg.CancelProbability = cfg.CancelProbability
	policy, err := domain.NewPolicy(policyCfg, rng)
	if err != nil {
		return fmt.Errorf("invalid lifecycle policy: %w", err)
	}

	factory, err := generator.NewFactory(domain.DefaultCatalog(), policy, rng, uint64(cfg.Seed))
	if err != nil {
		return fmt.Errorf("invalid order factory: %w", err)
	}

	genMetrics := metrics.NewGeneratorMetrics()

	// Сборка sinks: консоль и/или Kafka.
	var sinks []sink.Sink
	if cfg.ConsoleOutput {
		sinks = append(sinks, sink.NewConsoleSink(os.Stdout))
	}

	kafkaConfigured := len(cfg.KafkaBrokers) > 0
	kafkaConnected := false
	if kafkaConfigured {
		producer, producerErr := kafka.NewProducer(cfg.KafkaBrokers)
		if producerErr != nil {
			logger.WithError(producerErr).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			sinks = append(sinks, sink.NewKafkaSink(producer, cfg.KafkaTopic))
			kafkaConnected = true
			logger.WithFields(log.Fields{
				"brokers": cfg.KafkaBrokers,
				"topic":   cfg.KafkaTopic,
			}).Info("kafka producer initialized")
		}
	}

	dispatcher := sink.NewDispatcher(
		sinks,
		sink.WithLogger(logger.WithField("layer", "dispatch")),
		sink.WithFailureHook(func(sinkName, _ string) {
			genMetrics.RecordDispatchFailure(sinkName)
		}),
	)

	// HTTP health checks на сервере метрик.
	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if kafkaConfigured {
		healthHandler.RegisterChecker("kafka", healthcheck.NewSimpleChecker("kafka", func() error {
			if !kafkaConnected {
				return errors.New("kafka producer unavailable")
			}
			return nil
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	scheduler, err := generator.NewScheduler(
		generator.SchedulerConfig{
			SessionDuration: cfg.SessionDuration,
			MinOrderDelay:   cfg.MinOrderDelay,
			MaxOrderDelay:   cfg.MaxOrderDelay,
		},
		memory.NewActiveOrderRegistry(),
		memory.NewTimelineRepository(),
		factory,
		policy,
		dispatcher,
		generator.WithLogger(logger.WithField("layer", "scheduler")),
		generator.WithMetrics(genMetrics),
		generator.WithRand(rng),
	)
	if err != nil {
		shutdownHTTP(metricsSrv, logger)
		if closeErr := dispatcher.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close sinks")
		}
		return fmt.Errorf("invalid scheduler config: %w", err)
	}

	report, runErr := scheduler.Run(ctx)

	// Сначала закрываем sinks: Kafka producer должен успеть отправить буфер.
	if closeErr := dispatcher.Close(); closeErr != nil {
		logger.WithError(closeErr).Warn("failed to close sinks")
	} else if kafkaConnected {
		logger.Info("kafka producer closed")
	}
	shutdownHTTP(metricsSrv, logger)

	// Итоговая сводка печатается на любом пути завершения.
	fmt.Print(report.String())

	return runErr
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
