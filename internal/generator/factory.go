package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/dleiva04/arq-big-data2/internal/domain"
)

// Factory создаёт новые заказы со случайными коммерческими атрибутами.
// Идентификаторы заказов уникальны в пределах сессии. Побочных эффектов
// нет: фабрика не трогает ни реестр, ни sinks.
type Factory struct {
	catalog  []domain.Product
	payments []string
	policy   *domain.Policy
	rng      *rand.Rand
	faker    *gofakeit.Faker
	issued   map[string]struct{}
	now      func() time.Time
}

// NewFactory создаёт фабрику заказов. Пустой каталог — фатальная ошибка конфигурации.
func NewFactory(catalog []domain.Product, policy *domain.Policy, rng *rand.Rand, seed uint64) (*Factory, error) {
	if len(catalog) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Factory{
		catalog:  catalog,
		payments: domain.PaymentMethods(),
		policy:   policy,
		rng:      rng,
		// Seed 0 оставляет faker несидированным — обычный режим генератора.
		faker:  gofakeit.New(seed),
		issued: make(map[string]struct{}),
		now:    time.Now,
	}, nil
}

// WithClock подменяет источник времени (для тестов).
func (f *Factory) WithClock(now func() time.Time) *Factory {
	f.now = now
	return f
}

// New собирает заказ в статусе pending с уже назначенным интервалом ожидания.
func (f *Factory) New() domain.Order {
	product := f.catalog[f.rng.Intn(len(f.catalog))]
	quantity := 1 + f.rng.Intn(5)
	price := domain.Round2(product.PriceMin + f.rng.Float64()*(product.PriceMax-product.PriceMin))
	now := f.now()

	return domain.Order{
		ID:            f.nextOrderID(),
		ProductID:     product.ID,
		ProductName:   product.Name,
		Quantity:      quantity,
		Price:         price,
		Total:         domain.Round2(float64(quantity) * price),
		CustomerID:    fmt.Sprintf("CUST-%06d", 100000+f.rng.Intn(900000)),
		CustomerEmail: f.faker.Email(),
		PaymentMethod: f.payments[f.rng.Intn(len(f.payments))],
		Shipping: domain.Address{
			Street:  f.faker.Street(),
			City:    f.faker.City(),
			State:   f.faker.StateAbr(),
			ZipCode: f.faker.Zip(),
			Country: f.faker.CountryAbr(),
		},
		Status:           domain.OrderStatusPending,
		CreatedAt:        now,
		LastStatusChange: now,
		NextDueIn:        f.policy.Dwell(domain.OrderStatusPending),
	}
}

// nextOrderID выдаёт уникальный в пределах сессии идентификатор ORD-XXXXXXXX.
func (f *Factory) nextOrderID() string {
	for {
		id := fmt.Sprintf("ORD-%08d", 10000000+f.rng.Intn(90000000))
		if _, taken := f.issued[id]; !taken {
			f.issued[id] = struct{}{}
			return id
		}
	}
}
