package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора заказа.
	ErrOrderIDRequired = errors.New("order_id is required")
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующей ссылки на товар.
	ErrProductRequired = errors.New("product_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// Ошибка, если цена заказа отрицательная.
	ErrPriceInvalid = errors.New("price must be non-negative")
	// Ошибка несоответствия суммы заказа произведению quantity * price.
	ErrTotalMismatch = errors.New("order total does not match quantity * price")
	// Ошибка отсутствия причины у отменённого заказа.
	ErrCancellationReasonMissing = errors.New("cancelled order must carry a cancellation reason")
	// Ошибка, если причина отмены выставлена у неотменённого заказа.
	ErrCancellationReasonUnexpected = errors.New("cancellation reason is set on a non-cancelled order")
	// ErrUnknownStatus возвращается для статуса вне известного множества.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrTerminalTransition сигнализирует о попытке перехода из терминального статуса.
	ErrTerminalTransition = errors.New("no transition from terminal status")
	// ErrOrderNotFound возвращается, если заказа нет в реестре активных.
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateOrderID возвращается при коллизии идентификаторов в реестре.
	ErrDuplicateOrderID = errors.New("order id already registered")
	// ErrCatalogEmpty — фатальная ошибка конфигурации: пустой каталог товаров.
	ErrCatalogEmpty = errors.New("product catalog is empty")
	// ErrDwellRangeInvalid — некорректный диапазон времени пребывания в статусе.
	ErrDwellRangeInvalid = errors.New("dwell range max must be >= min and min must be >= 0")
	// ErrProbabilityInvalid — вероятность отмены вне [0, 1].
	ErrProbabilityInvalid = errors.New("cancellation probability must be within [0, 1]")
)

// IsTerminalTransition проверяет, является ли ошибка попыткой перехода из терминального статуса.
func IsTerminalTransition(err error) bool {
	return errors.Is(err, ErrTerminalTransition)
}
