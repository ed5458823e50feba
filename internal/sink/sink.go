package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/dleiva04/arq-big-data2/internal/messaging/kafka"
)

// Sink — одно направление доставки событий жизненного цикла.
type Sink interface {
	// Name идентифицирует sink в логах и предупреждениях.
	Name() string
	// Write доставляет одно событие; ошибка не останавливает генератор.
	Write(event kafka.OrderEvent) error
	// Close освобождает ресурсы направления. Вызывается ровно один раз.
	Close() error
}

// consoleSink печатает события в человекочитаемом виде.
type consoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSink создаёт sink, пишущий pretty-printed JSON в out.
func NewConsoleSink(out io.Writer) Sink {
	return &consoleSink{out: out}
}

func (s *consoleSink) Name() string { return "console" }

func (s *consoleSink) Write(event kafka.OrderEvent) error {
	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.out, "%s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event to console: %w", err)
	}
	return nil
}

func (s *consoleSink) Close() error { return nil }

// kafkaSink отправляет события в топик, используя ID заказа как ключ
// партиционирования: события одного заказа сохраняют порядок эмиссии.
type kafkaSink struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaSink оборачивает producer в sink для заданного топика.
func NewKafkaSink(producer *kafka.Producer, topic string) Sink {
	return &kafkaSink{producer: producer, topic: topic}
}

func (s *kafkaSink) Name() string { return "kafka" }

func (s *kafkaSink) Write(event kafka.OrderEvent) error {
	return s.producer.Publish(s.topic, event.OrderID, event)
}

func (s *kafkaSink) Close() error {
	return s.producer.Close()
}
