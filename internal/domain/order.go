package domain

import (
	"math"
	"time"
)

// OrderStatus описывает жизненный цикл синтетического заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, оплата ещё не подтверждена.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — оплата подтверждена, заказ принят в работу.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusProcessing — заказ комплектуется на складе.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped — заказ передан в доставку; успешный терминальный статус.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusCancelled — заказ отменён до отгрузки; неуспешный терминальный статус.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// statusFlow задаёт единственный допустимый прямой порядок статусов.
var statusFlow = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
}

// IsValid сообщает, входит ли статус в известное множество.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal сообщает, является ли статус терминальным.
// Из терминального статуса переходов не существует.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusShipped || s == OrderStatusCancelled
}

// Next возвращает следующий статус в прямой последовательности
// pending → confirmed → processing → shipped.
func (s OrderStatus) Next() (OrderStatus, error) {
	if s.IsTerminal() {
		return s, ErrTerminalTransition
	}
	for i, status := range statusFlow {
		if status == s {
			return statusFlow[i+1], nil
		}
	}
	return s, ErrUnknownStatus
}

// Address — адрес доставки заказа.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Order агрегирует коммерческие атрибуты и состояние жизненного цикла
// одного синтетического заказа.
type Order struct {
	ID            string
	ProductID     string
	ProductName   string
	Quantity      int
	Price         float64
	Total         float64
	CustomerID    string
	CustomerEmail string
	PaymentMethod string
	Shipping      Address

	// Статусные поля меняются только переходами жизненного цикла.
	Status             OrderStatus
	CancellationReason string

	// Служебные поля планировщика; наружу не публикуются.
	CreatedAt        time.Time
	LastStatusChange time.Time
	// NextDueIn — сколько заказ должен провести в текущем статусе,
	// прежде чем станет кандидатом на следующий переход.
	NextDueIn time.Duration
}

// Due сообщает, истёк ли интервал ожидания заказа в текущем статусе.
// Терминальные заказы никогда не считаются due.
func (o *Order) Due(now time.Time) bool {
	if o.Status.IsTerminal() {
		return false
	}
	return now.Sub(o.LastStatusChange) >= o.NextDueIn
}

// Round2 округляет денежную величину до двух знаков.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.ID == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.ProductID == "" {
		errs = append(errs, ErrProductRequired)
	}
	if o.Quantity <= 0 {
		errs = append(errs, ErrQuantityInvalid)
	}
	if o.Price < 0 {
		errs = append(errs, ErrPriceInvalid)
	}
	if !o.Status.IsValid() {
		errs = append(errs, ErrUnknownStatus)
	}

	// Сверяем total с quantity * price с точностью до цента.
	if calc := Round2(float64(o.Quantity) * o.Price); math.Abs(calc-o.Total) > 0.005 {
		errs = append(errs, ErrTotalMismatch)
	}

	// Причина отмены присутствует тогда и только тогда, когда заказ отменён.
	if o.Status == OrderStatusCancelled && o.CancellationReason == "" {
		errs = append(errs, ErrCancellationReasonMissing)
	}
	if o.Status != OrderStatusCancelled && o.CancellationReason != "" {
		errs = append(errs, ErrCancellationReasonUnexpected)
	}

	return errs
}
