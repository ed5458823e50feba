package sink

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/dleiva04/arq-big-data2/internal/messaging/kafka"
)

// FailureHook вызывается при неудачной доставке события в конкретный sink.
type FailureHook func(sinkName, orderID string)

// DispatcherOptions задаёт параметры диспетчера.
type DispatcherOptions struct {
	Logger    *log.Entry
	OnFailure FailureHook
}

// Option настраивает Dispatcher.
type Option func(*DispatcherOptions)

// WithLogger задаёт logger для диспетчера.
func WithLogger(logger *log.Entry) Option {
	return func(opts *DispatcherOptions) {
		opts.Logger = logger
	}
}

// WithFailureHook задаёт callback для учёта неудачных доставок.
func WithFailureHook(hook FailureHook) Option {
	return func(opts *DispatcherOptions) {
		opts.OnFailure = hook
	}
}

// Dispatcher рассылает каждое событие во все настроенные sinks.
// Доставки независимы: ошибка одного направления логируется как warning
// с идентификатором заказа и не мешает остальным направлениям.
type Dispatcher struct {
	sinks     []Sink
	logger    *log.Entry
	onFailure FailureHook
	closeOnce sync.Once
}

// NewDispatcher создаёт диспетчер поверх нуля и более sinks.
func NewDispatcher(sinks []Sink, options ...Option) *Dispatcher {
	opts := DispatcherOptions{}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "sink-dispatcher")
	}

	return &Dispatcher{
		sinks:     sinks,
		logger:    logger,
		onFailure: opts.OnFailure,
	}
}

// Dispatch доставляет событие во все sinks и возвращает число неудачных доставок.
func (d *Dispatcher) Dispatch(event kafka.OrderEvent) int {
	failed := 0
	for _, s := range d.sinks {
		if err := s.Write(event); err != nil {
			failed++
			d.logger.WithError(err).WithFields(log.Fields{
				"sink":     s.Name(),
				"order_id": event.OrderID,
			}).Warn("failed to deliver order event")
			if d.onFailure != nil {
				d.onFailure(s.Name(), event.OrderID)
			}
		}
	}
	return failed
}

// Close закрывает все sinks ровно один раз и возвращает собранные ошибки.
func (d *Dispatcher) Close() error {
	var errs []error
	d.closeOnce.Do(func() {
		for _, s := range d.sinks {
			if err := s.Close(); err != nil {
				d.logger.WithError(err).WithField("sink", s.Name()).Warn("failed to close sink")
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
