package generator_test

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/dleiva04/arq-big-data2/internal/domain"
	"github.com/dleiva04/arq-big-data2/internal/generator"
)

func newTestPolicy(t *testing.T) *domain.Policy {
	t.Helper()

	policy, err := domain.NewPolicy(domain.DefaultPolicyConfig(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("new policy failed: %v", err)
	}
	return policy
}

func TestFactory_EmptyCatalog(t *testing.T) {
	_, err := generator.NewFactory(nil, newTestPolicy(t), rand.New(rand.NewSource(7)), 7)
	if err != domain.ErrCatalogEmpty {
		t.Fatalf("expected ErrCatalogEmpty, got %v", err)
	}
}

func TestFactory_New(t *testing.T) {
	catalog := domain.DefaultCatalog()
	factory, err := generator.NewFactory(catalog, newTestPolicy(t), rand.New(rand.NewSource(7)), 7)
	if err != nil {
		t.Fatalf("new factory failed: %v", err)
	}

	priceRanges := make(map[string]domain.Product, len(catalog))
	for _, product := range catalog {
		priceRanges[product.ID] = product
	}
	payments := make(map[string]bool)
	for _, method := range domain.PaymentMethods() {
		payments[method] = true
	}

	pendingRange := domain.DefaultPolicyConfig().DwellRanges[domain.OrderStatusPending]

	for i := 0; i < 200; i++ {
		order := factory.New()

		if errs := order.ValidateInvariants(); len(errs) != 0 {
			t.Fatalf("fresh order violates invariants: %v", errs)
		}
		if order.Status != domain.OrderStatusPending {
			t.Fatalf("new order must start pending, got %s", order.Status)
		}
		if !strings.HasPrefix(order.ID, "ORD-") {
			t.Fatalf("unexpected order id format: %s", order.ID)
		}
		if order.Quantity < 1 || order.Quantity > 5 {
			t.Fatalf("quantity %d outside [1, 5]", order.Quantity)
		}

		product, ok := priceRanges[order.ProductID]
		if !ok {
			t.Fatalf("unknown product %s", order.ProductID)
		}
		if order.Price < product.PriceMin || order.Price > product.PriceMax {
			t.Fatalf("price %.2f outside product range [%.2f, %.2f]", order.Price, product.PriceMin, product.PriceMax)
		}
		if !payments[order.PaymentMethod] {
			t.Fatalf("unknown payment method %s", order.PaymentMethod)
		}
		if order.CustomerEmail == "" || order.Shipping.City == "" {
			t.Fatal("faker-backed fields must be populated")
		}
		if order.NextDueIn < pendingRange.Min || order.NextDueIn > pendingRange.Max {
			t.Fatalf("initial dwell %v outside pending range", order.NextDueIn)
		}
	}
}

func TestFactory_UniqueIDs(t *testing.T) {
	factory, err := generator.NewFactory(domain.DefaultCatalog(), newTestPolicy(t), rand.New(rand.NewSource(7)), 7)
	if err != nil {
		t.Fatalf("new factory failed: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		order := factory.New()
		if seen[order.ID] {
			t.Fatalf("duplicate order id %s", order.ID)
		}
		seen[order.ID] = true
	}
}

func TestFactory_WithClock(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	factory, err := generator.NewFactory(domain.DefaultCatalog(), newTestPolicy(t), rand.New(rand.NewSource(7)), 7)
	if err != nil {
		t.Fatalf("new factory failed: %v", err)
	}
	factory.WithClock(func() time.Time { return fixed })

	order := factory.New()
	if !order.CreatedAt.Equal(fixed) || !order.LastStatusChange.Equal(fixed) {
		t.Fatal("factory must stamp orders with the injected clock")
	}
}
