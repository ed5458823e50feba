package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dleiva04/arq-big-data2/internal/app"
	"github.com/dleiva04/arq-big-data2/internal/version"
)

// setupLogger настраивает формат и уровень логирования генератора.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

func parseConfig(args []string) (app.Config, error) {
	cfg := app.DefaultConfig()

	fs := flag.NewFlagSet("sales-generator", flag.ContinueOnError)

	durationMinutes := fs.Int("duration", 5, "duration to run the generator in minutes")
	minDelaySeconds := fs.Int("min-delay", 1, "minimum delay between new orders in seconds")
	maxDelaySeconds := fs.Int("max-delay", 60, "maximum delay between new orders in seconds")
	kafkaBrokers := fs.String("kafka-brokers", "", "comma-separated kafka bootstrap servers (e.g. 'localhost:9092')")
	kafkaTopic := fs.String("kafka-topic", "", "kafka topic to send order events to")
	noConsole := fs.Bool("no-console", false, "disable console output (useful when only sending to kafka)")
	outputConsole := fs.Bool("output-console", false, "force console output even when kafka is configured")
	metricsAddr := fs.String("metrics-addr", cfg.MetricsAddr, "address of the metrics and health HTTP server")
	seed := fs.Int64("seed", 0, "random seed; 0 picks a time-based seed")
	cancelProbability := fs.Float64("cancel-probability", cfg.CancelProbability, "cancellation probability per transition check (0..1)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	// Переменные окружения дополняют незаданные флаги.
	if *kafkaBrokers == "" {
		*kafkaBrokers = os.Getenv("SALESGEN_KAFKA_BROKERS")
	}
	if *kafkaTopic == "" {
		*kafkaTopic = os.Getenv("SALESGEN_KAFKA_TOPIC")
	}
	if v := os.Getenv("SALESGEN_METRICS_ADDR"); v != "" && *metricsAddr == cfg.MetricsAddr {
		*metricsAddr = v
	}

	cfg.SessionDuration = time.Duration(*durationMinutes) * time.Minute
	cfg.MinOrderDelay = time.Duration(*minDelaySeconds) * time.Second
	cfg.MaxOrderDelay = time.Duration(*maxDelaySeconds) * time.Second
	cfg.KafkaTopic = strings.TrimSpace(*kafkaTopic)
	cfg.MetricsAddr = *metricsAddr
	cfg.Seed = *seed
	cfg.CancelProbability = *cancelProbability

	if brokers := strings.TrimSpace(*kafkaBrokers); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	// Консоль включена по умолчанию; при отправке в Kafka выключается,
	// если её не затребовали явно.
	cfg.ConsoleOutput = true
	switch {
	case *noConsole:
		cfg.ConsoleOutput = false
	case *outputConsole:
		cfg.ConsoleOutput = true
	case len(cfg.KafkaBrokers) > 0:
		cfg.ConsoleOutput = false
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	setupLogger()

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"version":   version.GetVersion(),
		"duration":  cfg.SessionDuration,
		"min_delay": cfg.MinOrderDelay,
		"max_delay": cfg.MaxOrderDelay,
		"kafka":     len(cfg.KafkaBrokers) > 0,
		"console":   cfg.ConsoleOutput,
	}).Info("запускаем генератор заказов")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("генератор завершился с ошибкой")
	}

	log.Info("генератор остановлен")
}
