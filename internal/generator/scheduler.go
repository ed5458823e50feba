package generator

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dleiva04/arq-big-data2/internal/domain"
	"github.com/dleiva04/arq-big-data2/internal/messaging/kafka"
	"github.com/dleiva04/arq-big-data2/internal/metrics"
	"github.com/dleiva04/arq-big-data2/internal/sink"
)

const defaultTickInterval = 100 * time.Millisecond

// SchedulerConfig задаёт параметры одной сессии генератора.
type SchedulerConfig struct {
	// SessionDuration — длительность сессии; ноль завершает цикл немедленно.
	SessionDuration time.Duration
	// MinOrderDelay/MaxOrderDelay — границы паузы между новыми заказами.
	MinOrderDelay time.Duration
	MaxOrderDelay time.Duration
	// TickInterval — шаг цикла; ноль подставляет 100ms.
	TickInterval time.Duration
}

// Validate проверяет параметры сессии перед запуском.
func (c SchedulerConfig) Validate() error {
	if c.SessionDuration < 0 {
		return domain.ErrDwellRangeInvalid
	}
	if c.MinOrderDelay < 0 || c.MaxOrderDelay < c.MinOrderDelay {
		return domain.ErrDwellRangeInvalid
	}
	return nil
}

// SchedulerOptions задаёт необязательные зависимости планировщика.
type SchedulerOptions struct {
	Logger  *log.Entry
	Metrics *metrics.GeneratorMetrics
	Rand    *rand.Rand
	Clock   func() time.Time
}

// SchedulerOption настраивает Scheduler.
type SchedulerOption func(*SchedulerOptions)

// WithLogger задаёт logger планировщика.
func WithLogger(logger *log.Entry) SchedulerOption {
	return func(opts *SchedulerOptions) {
		opts.Logger = logger
	}
}

// WithMetrics подключает Prometheus-метрики.
func WithMetrics(m *metrics.GeneratorMetrics) SchedulerOption {
	return func(opts *SchedulerOptions) {
		opts.Metrics = m
	}
}

// WithRand задаёт источник случайности для пауз между заказами.
func WithRand(rng *rand.Rand) SchedulerOption {
	return func(opts *SchedulerOptions) {
		opts.Rand = rng
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(clock func() time.Time) SchedulerOption {
	return func(opts *SchedulerOptions) {
		opts.Clock = clock
	}
}

// Scheduler — однопоточный кооперативный цикл сессии. Владеет реестром
// и счётчиками: все мутации происходят внутри тика, параллельной обработки
// переходов нет.
type Scheduler struct {
	cfg        SchedulerConfig
	registry   domain.ActiveOrderRegistry
	timeline   domain.TimelineRepository
	factory    *Factory
	policy     *domain.Policy
	dispatcher *sink.Dispatcher
	logger     *log.Entry
	metrics    *metrics.GeneratorMetrics
	rng        *rand.Rand
	now        func() time.Time
	stats      *Stats
}

// NewScheduler собирает планировщик сессии.
func NewScheduler(
	cfg SchedulerConfig,
	registry domain.ActiveOrderRegistry,
	timeline domain.TimelineRepository,
	factory *Factory,
	policy *domain.Policy,
	dispatcher *sink.Dispatcher,
	options ...SchedulerOption,
) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}

	opts := SchedulerOptions{}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "scheduler")
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Scheduler{
		cfg:        cfg,
		registry:   registry,
		timeline:   timeline,
		factory:    factory,
		policy:     policy,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    opts.Metrics,
		rng:        rng,
		now:        clock,
	}, nil
}

// Run выполняет сессию до истечения длительности или отмены контекста.
// Любой путь завершения возвращает итоговую сводку; ошибки доставки
// в sinks цикл не прерывают.
func (s *Scheduler) Run(ctx context.Context) (Report, error) {
	start := s.now()
	s.stats = NewStats(start)
	nextArrival := start.Add(s.arrivalDelay())

	s.logger.WithFields(log.Fields{
		"duration":  s.cfg.SessionDuration,
		"min_delay": s.cfg.MinOrderDelay,
		"max_delay": s.cfg.MaxOrderDelay,
		"tick":      s.cfg.TickInterval,
	}).Info("starting order lifecycle session")

	interrupted := false
loop:
	for {
		select {
		case <-ctx.Done():
			interrupted = true
			break loop
		default:
		}

		now := s.now()
		if now.Sub(start) >= s.cfg.SessionDuration {
			break
		}

		if !now.Before(nextArrival) {
			s.admitOrder(now)
			nextArrival = now.Add(s.arrivalDelay())
		}

		s.advanceDue(now)

		if !s.sleepTick(ctx) {
			interrupted = true
			break
		}
	}

	elapsed := s.now().Sub(start)
	report := s.stats.Report(s.registry.Len(), elapsed)

	s.logger.WithFields(log.Fields{
		"interrupted":    interrupted,
		"created":        report.Created,
		"status_updates": report.StatusUpdates,
		"shipped":        report.Shipped,
		"cancelled":      report.Cancelled,
		"active_left":    report.ActiveAtCutoff,
	}).Info("session finished")

	return report, nil
}

// arrivalDelay выбирает паузу до следующего нового заказа.
func (s *Scheduler) arrivalDelay() time.Duration {
	if s.cfg.MaxOrderDelay == s.cfg.MinOrderDelay {
		return s.cfg.MinOrderDelay
	}
	spread := int64(s.cfg.MaxOrderDelay - s.cfg.MinOrderDelay)
	return s.cfg.MinOrderDelay + time.Duration(s.rng.Int63n(spread))
}

// admitOrder создаёт заказ, регистрирует его и рассылает событие создания.
func (s *Scheduler) admitOrder(now time.Time) {
	order := s.factory.New()
	if err := s.registry.Insert(order); err != nil {
		// Фабрика гарантирует уникальность ID; сюда попадать не должны.
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to register new order")
		return
	}

	s.appendTimeline(domain.TimelineEvent{
		OrderID:  order.ID,
		To:       order.Status,
		Occurred: now,
	})
	s.dispatch(kafka.NewOrderEvent(order, now))

	s.stats.OrderCreated()
	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}

	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"product":  order.ProductID,
		"total":    order.Total,
	}).Debug("order created")
}

// advanceDue обрабатывает все заказы, дождавшиеся проверки перехода.
// Снимок due-набора фиксируется до мутаций: переход внутри тика не может
// сделать заказ due повторно в том же тике.
func (s *Scheduler) advanceDue(now time.Time) {
	for _, id := range s.registry.Due(now) {
		order, err := s.registry.Get(id)
		if err != nil {
			s.logger.WithError(err).WithField("order_id", id).Warn("due order vanished from registry")
			continue
		}

		decision, err := s.policy.Decide(&order, now)
		if err != nil {
			s.logger.WithError(err).WithField("order_id", id).Warn("transition check failed")
			continue
		}
		if decision.Kind == domain.DecisionHold {
			continue
		}

		from := order.Status
		s.policy.Apply(&order, decision, now)

		s.appendTimeline(domain.TimelineEvent{
			OrderID:  order.ID,
			From:     from,
			To:       order.Status,
			Reason:   order.CancellationReason,
			Occurred: now,
		})
		s.dispatch(kafka.NewOrderEvent(order, now))

		s.stats.StatusUpdated()
		if s.metrics != nil {
			s.metrics.RecordStatusUpdate()
		}

		if order.Status.IsTerminal() {
			if err := s.registry.Remove(order.ID); err != nil {
				s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to remove terminal order")
			}
			switch order.Status {
			case domain.OrderStatusShipped:
				s.stats.OrderShipped()
				if s.metrics != nil {
					s.metrics.RecordOrderShipped()
				}
			case domain.OrderStatusCancelled:
				s.stats.OrderCancelled()
				if s.metrics != nil {
					s.metrics.RecordOrderCancelled()
				}
			}
			continue
		}

		if err := s.registry.Update(order); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to store transitioned order")
		}
	}
}

// dispatch рассылает событие во все sinks и учитывает неудачные доставки.
func (s *Scheduler) dispatch(event kafka.OrderEvent) {
	started := time.Now()
	failed := s.dispatcher.Dispatch(event)
	if s.metrics != nil {
		s.metrics.RecordDispatchDuration(time.Since(started))
	}
	if failed > 0 {
		s.stats.DispatchFailed(failed)
	}
}

// appendTimeline дополняет историю переходов; ошибка истории не фатальна.
func (s *Scheduler) appendTimeline(event domain.TimelineEvent) {
	if s.timeline == nil {
		return
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithField("order_id", event.OrderID).Warn("failed to append timeline event")
	}
}

// sleepTick ждёт следующий тик; false означает отмену контекста.
func (s *Scheduler) sleepTick(ctx context.Context) bool {
	timer := time.NewTimer(s.cfg.TickInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
