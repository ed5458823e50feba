package kafka

import (
	"time"

	"github.com/dleiva04/arq-big-data2/internal/domain"
)

// DefaultTopic — топик событий продаж по умолчанию.
const DefaultTopic = "ecommerce-sales"

// OrderEvent — внешнее представление события жизненного цикла заказа.
// Служебные поля планировщика (last_status_change, next_due) наружу не попадают.
type OrderEvent struct {
	OrderID       string         `json:"order_id"`
	Timestamp     string         `json:"timestamp"`
	ProductID     string         `json:"product_id"`
	ProductName   string         `json:"product_name"`
	Quantity      int            `json:"quantity"`
	Price         float64        `json:"price"`
	Total         float64        `json:"total"`
	CustomerID    string         `json:"customer_id"`
	CustomerEmail string         `json:"customer_email"`
	PaymentMethod string         `json:"payment_method"`
	Shipping      domain.Address `json:"shipping_address"`
	Status        string         `json:"status"`
	// CancellationReason присутствует только у отменённых заказов.
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

// NewOrderEvent строит событие из текущего состояния заказа.
// Временная метка — момент перехода в UTC по ISO-8601.
func NewOrderEvent(order domain.Order, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:            order.ID,
		Timestamp:          at.UTC().Format(time.RFC3339),
		ProductID:          order.ProductID,
		ProductName:        order.ProductName,
		Quantity:           order.Quantity,
		Price:              order.Price,
		Total:              order.Total,
		CustomerID:         order.CustomerID,
		CustomerEmail:      order.CustomerEmail,
		PaymentMethod:      order.PaymentMethod,
		Shipping:           order.Shipping,
		Status:             string(order.Status),
		CancellationReason: order.CancellationReason,
	}
}
