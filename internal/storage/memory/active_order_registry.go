package memory

import (
	"sync"
	"time"

	"github.com/dleiva04/arq-big-data2/internal/domain"
)

// activeOrderRegistryInMemory — in-memory реестр активных (нетерминальных) заказов.
type activeOrderRegistryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewActiveOrderRegistry возвращает пустой реестр для одной сессии генератора.
func NewActiveOrderRegistry() domain.ActiveOrderRegistry {
	return &activeOrderRegistryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Insert регистрирует новый заказ, если ID ещё не занят.
// Терминальный заказ в реестре существовать не может.
func (r *activeOrderRegistryInMemory) Insert(order domain.Order) error {
	if order.Status.IsTerminal() {
		return domain.ErrTerminalTransition
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrDuplicateOrderID
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	r.items[order.ID] = order
	return nil
}

// Get возвращает копию заказа или ErrOrderNotFound, если его нет.
func (r *activeOrderRegistryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// Update перезаписывает существующий заказ после перехода.
func (r *activeOrderRegistryInMemory) Update(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.items[order.ID] = order
	return nil
}

// Remove удаляет заказ из реестра в момент терминального перехода.
func (r *activeOrderRegistryInMemory) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	return nil
}

// Due возвращает снимок идентификаторов заказов, готовых к проверке
// перехода. Снимок фиксируется до каких-либо мутаций текущего тика,
// поэтому переход внутри тика не может сделать заказ due повторно.
func (r *activeOrderRegistryInMemory) Due(now time.Time) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	due := make([]string, 0, len(r.items))
	for id, order := range r.items {
		if order.Due(now) {
			due = append(due, id)
		}
	}
	return due
}

// Len возвращает число активных заказов.
func (r *activeOrderRegistryInMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// ActiveIDs возвращает идентификаторы всех активных заказов.
func (r *activeOrderRegistryInMemory) ActiveIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	return ids
}

var _ domain.ActiveOrderRegistry = (*activeOrderRegistryInMemory)(nil)
