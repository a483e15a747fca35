package domain

// ShippingOption is one entry of a shipping quote.
type ShippingOption struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	EstimatedDays string  `json:"estimatedDays"`
}

// Order is the result of a successful order creation.
type Order struct {
	OrderID string  `json:"orderId"`
	Status  string  `json:"status"`
	Total   float64 `json:"total"`
}

// ShippingCost maps a selected option id to its cost. The table is fixed
// and recomputed at review time rather than captured from the quote.
func ShippingCost(optionID string) float64 {
	switch optionID {
	case "overnight":
		return 24.99
	case "express":
		return 12.99
	default:
		return 5.99
	}
}
