package domain

import (
	"math/rand"
	"time"
)

// DwellRange задаёт границы равномерного распределения времени
// пребывания заказа в статусе.
type DwellRange struct {
	Min time.Duration
	Max time.Duration
}

// PolicyConfig описывает параметры вероятностной модели жизненного цикла.
type PolicyConfig struct {
	// CancelProbability — вероятность отмены при каждой проверке перехода.
	CancelProbability float64
	// DwellRanges — диапазоны ожидания для каждого нетерминального статуса.
	DwellRanges map[OrderStatus]DwellRange
	// CancellationReasons — наборы причин отмены, свои для каждого статуса.
	CancellationReasons map[OrderStatus][]string
}

// DefaultPolicyConfig возвращает параметры по умолчанию:
// 8% отмен и интервалы переходов в десятки секунд.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		CancelProbability: 0.08,
		DwellRanges: map[OrderStatus]DwellRange{
			OrderStatusPending:    {Min: 10 * time.Second, Max: 30 * time.Second},
			OrderStatusConfirmed:  {Min: 15 * time.Second, Max: 45 * time.Second},
			OrderStatusProcessing: {Min: 20 * time.Second, Max: 60 * time.Second},
		},
		CancellationReasons: map[OrderStatus][]string{
			OrderStatusPending: {
				"payment_failed",
				"payment_declined",
				"customer_cancelled",
				"fraud_suspected",
			},
			OrderStatusConfirmed: {
				"inventory_unavailable",
				"customer_cancelled",
				"payment_verification_failed",
				"address_invalid",
			},
			OrderStatusProcessing: {
				"customer_cancelled",
				"inventory_damaged",
				"shipping_address_unreachable",
				"customer_requested_cancellation",
			},
		},
	}
}

// Validate проверяет параметры модели перед запуском сессии.
func (c PolicyConfig) Validate() error {
	if c.CancelProbability < 0 || c.CancelProbability > 1 {
		return ErrProbabilityInvalid
	}
	for _, r := range c.DwellRanges {
		if r.Min < 0 || r.Max < r.Min {
			return ErrDwellRangeInvalid
		}
	}
	return nil
}

// DecisionKind перечисляет исходы проверки перехода.
type DecisionKind int

const (
	// DecisionHold — заказ ещё не дождался своего интервала, ничего не меняем.
	DecisionHold DecisionKind = iota
	// DecisionAdvance — заказ продвигается к следующему статусу.
	DecisionAdvance
	// DecisionCancel — заказ отменяется вместо продвижения.
	DecisionCancel
)

// Decision — результат проверки перехода для одного заказа.
type Decision struct {
	Kind       DecisionKind
	NextStatus OrderStatus
	// Reason заполняется только для DecisionCancel.
	Reason string
	// NextDueIn заполняется для DecisionAdvance в нетерминальный статус.
	NextDueIn time.Duration
}

// Policy реализует вероятностную модель переходов жизненного цикла.
// Не потокобезопасна: предполагается вызов из единственного цикла планировщика.
type Policy struct {
	cfg PolicyConfig
	rng *rand.Rand
}

// NewPolicy создаёт модель с инжектируемым источником случайности.
// Передача nil даёт несидированный запуск (обычный режим генератора).
func NewPolicy(cfg PolicyConfig, rng *rand.Rand) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Policy{cfg: cfg, rng: rng}, nil
}

// Dwell выбирает случайное время пребывания для статуса из его диапазона.
// Для статусов без диапазона (терминальных) возвращает ноль.
func (p *Policy) Dwell(status OrderStatus) time.Duration {
	r, ok := p.cfg.DwellRanges[status]
	if !ok {
		return 0
	}
	if r.Max == r.Min {
		return r.Min
	}
	return r.Min + time.Duration(p.rng.Int63n(int64(r.Max-r.Min)))
}

// Decide выполняет проверку перехода для заказа на момент now.
// Терминальные заказы проверяться не должны: реестр обязан удалить их раньше.
func (p *Policy) Decide(o *Order, now time.Time) (Decision, error) {
	if o.Status.IsTerminal() {
		return Decision{}, ErrTerminalTransition
	}
	if !o.Due(now) {
		return Decision{Kind: DecisionHold}, nil
	}

	if p.rng.Float64() < p.cfg.CancelProbability {
		return Decision{
			Kind:       DecisionCancel,
			NextStatus: OrderStatusCancelled,
			Reason:     p.cancellationReason(o.Status),
		}, nil
	}

	next, err := o.Status.Next()
	if err != nil {
		return Decision{}, err
	}
	decision := Decision{Kind: DecisionAdvance, NextStatus: next}
	if !next.IsTerminal() {
		decision.NextDueIn = p.Dwell(next)
	}
	return decision, nil
}

// Apply переносит решение на заказ. DecisionHold не меняет ничего.
func (p *Policy) Apply(o *Order, d Decision, now time.Time) {
	switch d.Kind {
	case DecisionHold:
	case DecisionAdvance:
		o.Status = d.NextStatus
		o.LastStatusChange = now
		o.NextDueIn = d.NextDueIn
	case DecisionCancel:
		o.Status = OrderStatusCancelled
		o.CancellationReason = d.Reason
		o.LastStatusChange = now
		o.NextDueIn = 0
	}
}

// cancellationReason выбирает причину из набора текущего статуса.
func (p *Policy) cancellationReason(status OrderStatus) string {
	reasons := p.cfg.CancellationReasons[status]
	if len(reasons) == 0 {
		return "order_cancelled"
	}
	return reasons[p.rng.Intn(len(reasons))]
}
