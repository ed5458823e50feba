package domain

import "time"

// ActiveOrderRegistry хранит ровно нетерминальные заказы текущей сессии.
// Заказ попадает в реестр при создании и удаляется в момент терминального
// перехода; терминальный заказ в реестре существовать не может.
type ActiveOrderRegistry interface {
	// Insert регистрирует новый заказ; коллизия ID — ErrDuplicateOrderID.
	Insert(order Order) error
	// Get возвращает копию заказа или ErrOrderNotFound.
	Get(id string) (Order, error)
	// Update перезаписывает существующий заказ после перехода.
	Update(order Order) error
	// Remove удаляет заказ, ставший терминальным.
	Remove(id string) error
	// Due возвращает снимок идентификаторов заказов, готовых к проверке
	// перехода на момент now. Снимок делается до любых мутаций тика.
	Due(now time.Time) []string
	// Len возвращает число активных заказов.
	Len() int
	// ActiveIDs возвращает идентификаторы всех активных заказов.
	ActiveIDs() []string
}

// TimelineEvent описывает одно событие в истории жизненного цикла заказа.
type TimelineEvent struct {
	ID       string
	OrderID  string
	From     OrderStatus
	To       OrderStatus
	Reason   string
	Occurred time.Time
}

// TimelineRepository хранит историю переходов заказов в рамках сессии.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}
