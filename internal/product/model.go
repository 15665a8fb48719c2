package product

import "time"

type Product struct {
	ID                string
	Name              string
	Category          string
	Make              string
	Model             string
	BasePrice         int64 // cents
	Stock             int
	GSTRate           float64 // percentage, e.g. 18 for 18%
	LowStockThreshold int
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LowStock reports whether the product has fallen to or below its threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.LowStockThreshold
}
