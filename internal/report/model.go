package report

// ProductDiscount is one overridden product in a customer's savings report.
type ProductDiscount struct {
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	BasePrice      int64   `json:"base_price"`
	OverridePrice  int64   `json:"override_price"`
	SavingsPerUnit int64   `json:"savings_per_unit"`
	DiscountPct    float64 `json:"discount_pct"`
}

// CustomerReport aggregates a customer's pricing position. Potential savings
// compare active overrides against current base prices; realized savings are
// summed from the frozen line snapshots of dispatched orders.
type CustomerReport struct {
	CustomerID       string            `json:"customer_id"`
	PotentialSavings int64             `json:"potential_savings"`
	RealizedSavings  int64             `json:"realized_savings"`
	TopDiscounted    []ProductDiscount `json:"top_discounted_products"`
}

// CustomerDiscount is one customer's standing in a per-product override
// ranking. DiscountPct is negative when the override exceeds the base price.
type CustomerDiscount struct {
	CustomerID    string  `json:"customer_id"`
	OverridePrice int64   `json:"override_price"`
	BasePrice     int64   `json:"base_price"`
	DiscountPct   float64 `json:"discount_pct"`
}
