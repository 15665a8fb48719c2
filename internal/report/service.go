package report

import (
	"context"
	"errors"
	"sort"

	"procurehub-be/internal/identity"
	"procurehub-be/internal/logger"
	"procurehub-be/internal/order"
	"procurehub-be/internal/pricing"
	"procurehub-be/internal/product"

	"go.uber.org/zap"
)

var ErrForbidden = errors.New("forbidden")

const topDiscountedLimit = 5

type Service interface {
	CustomerReport(ctx context.Context, customerID string) (*CustomerReport, error)
	ProductDiscountRanking(ctx context.Context, productID string) ([]CustomerDiscount, error)
}

// service is a read-side consumer: it scans persisted orders and pricing
// records and never mutates them.
type service struct {
	overrides pricing.Repository
	products  product.Repository
	orders    order.Repository
}

func NewService(overrides pricing.Repository, products product.Repository, orders order.Repository) Service {
	return &service{
		overrides: overrides,
		products:  products,
		orders:    orders,
	}
}

func (s *service) CustomerReport(ctx context.Context, customerID string) (*CustomerReport, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CustomerReport"),
		zap.String("customer_id", customerID),
	)

	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	if !actor.Role.IsVendor() && actor.OrganizationID != customerID {
		return nil, ErrForbidden
	}

	report := &CustomerReport{CustomerID: customerID}

	overrides, err := s.overrides.ListOverridesForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	for _, o := range overrides {
		p, err := s.products.GetProduct(ctx, o.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				log.Warn("override references missing product",
					zap.String("product_id", o.ProductID),
				)
				continue
			}
			return nil, err
		}

		saving := pricing.ComputeSavings(p.BasePrice, o.UnitPrice)
		if saving > 0 {
			report.PotentialSavings += saving
		}

		var pct float64
		if p.BasePrice > 0 {
			pct = float64(saving) / float64(p.BasePrice) * 100
		}

		report.TopDiscounted = append(report.TopDiscounted, ProductDiscount{
			ProductID:      p.ID,
			ProductName:    p.Name,
			BasePrice:      p.BasePrice,
			OverridePrice:  o.UnitPrice,
			SavingsPerUnit: saving,
			DiscountPct:    pct,
		})
	}

	sort.Slice(report.TopDiscounted, func(i, j int) bool {
		return report.TopDiscounted[i].DiscountPct > report.TopDiscounted[j].DiscountPct
	})
	if len(report.TopDiscounted) > topDiscountedLimit {
		report.TopDiscounted = report.TopDiscounted[:topDiscountedLimit]
	}

	// Realized savings come from the base-price snapshot frozen on each line
	// at creation, so they do not drift when catalog prices change later.
	lines, err := s.orders.ListDispatchedLines(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		report.RealizedSavings += pricing.ComputeSavings(l.BaseUnitPrice, l.UnitPrice) * int64(l.Quantity)
	}

	log.Info("customer report built",
		zap.Int64("potential_savings", report.PotentialSavings),
		zap.Int64("realized_savings", report.RealizedSavings),
		zap.Int("overrides", len(overrides)),
	)

	return report, nil
}

func (s *service) ProductDiscountRanking(ctx context.Context, productID string) ([]CustomerDiscount, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok || !actor.Role.IsVendor() {
		return nil, ErrForbidden
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	overrides, err := s.overrides.ListOverridesForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var ranking []CustomerDiscount
	for _, o := range overrides {
		var pct float64
		if p.BasePrice > 0 {
			pct = float64(p.BasePrice-o.UnitPrice) / float64(p.BasePrice) * 100
		}
		ranking = append(ranking, CustomerDiscount{
			CustomerID:    o.CustomerID,
			OverridePrice: o.UnitPrice,
			BasePrice:     p.BasePrice,
			DiscountPct:   pct,
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		return ranking[i].DiscountPct > ranking[j].DiscountPct
	})

	return ranking, nil
}
