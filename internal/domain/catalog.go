package domain

// Product описывает позицию каталога с диапазоном розничной цены.
type Product struct {
	ID       string
	Name     string
	PriceMin float64
	PriceMax float64
}

// DefaultCatalog возвращает фиксированный каталог из 15 товаров,
// по которому генерируются синтетические продажи.
func DefaultCatalog() []Product {
	return []Product{
		{ID: "PROD-001", Name: "Wireless Bluetooth Headphones", PriceMin: 29.99, PriceMax: 199.99},
		{ID: "PROD-002", Name: "Smart Watch", PriceMin: 99.99, PriceMax: 499.99},
		{ID: "PROD-003", Name: "Laptop Stand", PriceMin: 19.99, PriceMax: 89.99},
		{ID: "PROD-004", Name: "USB-C Cable", PriceMin: 9.99, PriceMax: 29.99},
		{ID: "PROD-005", Name: "Mechanical Keyboard", PriceMin: 59.99, PriceMax: 299.99},
		{ID: "PROD-006", Name: "Wireless Mouse", PriceMin: 19.99, PriceMax: 129.99},
		{ID: "PROD-007", Name: "Phone Case", PriceMin: 14.99, PriceMax: 49.99},
		{ID: "PROD-008", Name: "Portable Charger", PriceMin: 24.99, PriceMax: 79.99},
		{ID: "PROD-009", Name: "LED Desk Lamp", PriceMin: 29.99, PriceMax: 89.99},
		{ID: "PROD-010", Name: "Webcam HD", PriceMin: 39.99, PriceMax: 199.99},
		{ID: "PROD-011", Name: "External Hard Drive", PriceMin: 49.99, PriceMax: 199.99},
		{ID: "PROD-012", Name: "Monitor 27 inch", PriceMin: 199.99, PriceMax: 699.99},
		{ID: "PROD-013", Name: "Gaming Chair", PriceMin: 149.99, PriceMax: 499.99},
		{ID: "PROD-014", Name: "Desk Organizer", PriceMin: 12.99, PriceMax: 39.99},
		{ID: "PROD-015", Name: "Bluetooth Speaker", PriceMin: 29.99, PriceMax: 249.99},
	}
}

// PaymentMethods возвращает допустимые способы оплаты.
func PaymentMethods() []string {
	return []string{
		"credit_card",
		"debit_card",
		"paypal",
		"apple_pay",
		"google_pay",
		"bank_transfer",
	}
}
