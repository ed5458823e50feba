package generator

import (
	"fmt"
	"strings"
	"time"
)

// Stats накапливает счётчики сессии. Мутируется только циклом планировщика.
type Stats struct {
	startedAt        time.Time
	created          int
	statusUpdates    int
	shipped          int
	cancelled        int
	dispatchFailures int
}

// NewStats создаёт счётчики с зафиксированным началом сессии.
func NewStats(startedAt time.Time) *Stats {
	return &Stats{startedAt: startedAt}
}

// OrderCreated учитывает новый заказ.
func (s *Stats) OrderCreated() { s.created++ }

// StatusUpdated учитывает один эмитированный переход.
func (s *Stats) StatusUpdated() { s.statusUpdates++ }

// OrderShipped учитывает успешно завершённый заказ.
func (s *Stats) OrderShipped() { s.shipped++ }

// OrderCancelled учитывает отменённый заказ.
func (s *Stats) OrderCancelled() { s.cancelled++ }

// DispatchFailed учитывает n неудачных доставок одного события.
func (s *Stats) DispatchFailed(n int) { s.dispatchFailures += n }

// Report — итоговая сводка сессии с производными показателями.
type Report struct {
	StartedAt        time.Time     `json:"started_at"`
	Elapsed          time.Duration `json:"-"`
	ElapsedSeconds   float64       `json:"elapsed_seconds"`
	Created          int           `json:"orders_created"`
	StatusUpdates    int           `json:"status_updates"`
	Shipped          int           `json:"orders_shipped"`
	Cancelled        int           `json:"orders_cancelled"`
	ActiveAtCutoff   int           `json:"orders_active_at_cutoff"`
	DispatchFailures int           `json:"dispatch_failures"`
	SuccessRate      float64       `json:"success_rate"`
	CancellationRate float64       `json:"cancellation_rate"`
	OrdersPerMinute  float64       `json:"orders_per_minute"`
}

// Report строит итоговую сводку. При created == 0 обе ставки равны нулю,
// деления на ноль не происходит.
func (s *Stats) Report(activeAtCutoff int, elapsed time.Duration) Report {
	report := Report{
		StartedAt:        s.startedAt.UTC(),
		Elapsed:          elapsed,
		ElapsedSeconds:   elapsed.Seconds(),
		Created:          s.created,
		StatusUpdates:    s.statusUpdates,
		Shipped:          s.shipped,
		Cancelled:        s.cancelled,
		ActiveAtCutoff:   activeAtCutoff,
		DispatchFailures: s.dispatchFailures,
	}

	if s.created > 0 {
		report.SuccessRate = float64(s.shipped) / float64(s.created)
		report.CancellationRate = float64(s.cancelled) / float64(s.created)
	}
	if elapsed > 0 {
		report.OrdersPerMinute = float64(s.created) / elapsed.Minutes()
	}

	return report
}

// String форматирует сводку для печати при завершении сессии.
func (r Report) String() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString("Generator finished.\n")
	fmt.Fprintf(&b, "Total new orders created: %d\n", r.Created)
	fmt.Fprintf(&b, "Total status updates: %d\n", r.StatusUpdates)
	fmt.Fprintf(&b, "Total orders shipped: %d\n", r.Shipped)
	fmt.Fprintf(&b, "Total orders cancelled: %d\n", r.Cancelled)
	fmt.Fprintf(&b, "Active orders (still in pipeline): %d\n", r.ActiveAtCutoff)
	if r.DispatchFailures > 0 {
		fmt.Fprintf(&b, "Failed event deliveries: %d\n", r.DispatchFailures)
	}
	fmt.Fprintf(&b, "Success rate: %.1f%%\n", r.SuccessRate*100)
	fmt.Fprintf(&b, "Cancellation rate: %.1f%%\n", r.CancellationRate*100)
	fmt.Fprintf(&b, "Total time elapsed: %.2f seconds (%.2f minutes)\n", r.Elapsed.Seconds(), r.Elapsed.Minutes())
	fmt.Fprintf(&b, "Average rate: %.2f new orders per minute\n", r.OrdersPerMinute)

	return b.String()
}
