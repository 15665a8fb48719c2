package pricing

import "time"

// Override is a customer-specific unit price replacing the catalog base price
// for one product. At most one exists per (customer, product) pair.
type Override struct {
	ID         string
	CustomerID string
	ProductID  string
	UnitPrice  int64 // cents
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ResolvedPrice is the effective unit price for a (customer, product) pair.
type ResolvedPrice struct {
	UnitPrice  int64
	IsOverride bool
}
