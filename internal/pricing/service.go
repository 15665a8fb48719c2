package pricing

import (
	"context"
	"errors"
	"fmt"

	"procurehub-be/internal/identity"
	"procurehub-be/internal/logger"
	"procurehub-be/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	ResolvePrice(ctx context.Context, customerID, productID string) (*ResolvedPrice, error)
	SetOverride(ctx context.Context, customerID, productID string, unitPrice int64) (*Override, error)
	RemoveOverride(ctx context.Context, customerID, productID string) error
	ListCustomerOverrides(ctx context.Context, customerID string) ([]*Override, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// ComputeSavings is the per-unit saving against the catalog base price. A
// negative result means the override exceeds the base price; that is accepted
// and surfaced, not rejected.
func ComputeSavings(basePrice, usedPrice int64) int64 {
	return basePrice - usedPrice
}

// ResolvePrice returns the effective unit price for the pair: the customer's
// override when one exists, the catalog base price otherwise.
func (s *service) ResolvePrice(ctx context.Context, customerID, productID string) (*ResolvedPrice, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ResolvePrice"),
		zap.String("customer_id", customerID),
		zap.String("product_id", productID),
	)

	p, err := s.productRepo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		log.Error("failed to load product", zap.Error(err))
		return nil, err
	}
	if !p.Active {
		log.Warn("price requested for inactive product")
		return nil, ErrProductNotFound
	}

	o, err := s.repo.GetOverride(ctx, customerID, productID)
	if err != nil {
		if errors.Is(err, ErrOverrideNotFound) {
			return &ResolvedPrice{UnitPrice: p.BasePrice, IsOverride: false}, nil
		}
		log.Error("failed to load override", zap.Error(err))
		return nil, err
	}

	log.Debug("override price applied",
		zap.Int64("base_price", p.BasePrice),
		zap.Int64("override_price", o.UnitPrice),
	)

	return &ResolvedPrice{UnitPrice: o.UnitPrice, IsOverride: true}, nil
}

func (s *service) SetOverride(ctx context.Context, customerID, productID string, unitPrice int64) (*Override, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok || !actor.CanManageOverrides() {
		return nil, ErrForbidden
	}

	if unitPrice <= 0 {
		return nil, fmt.Errorf("%w: override price must be positive", ErrValidation)
	}

	p, err := s.productRepo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	o := &Override{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		ProductID:  productID,
		UnitPrice:  unitPrice,
		CreatedBy:  actor.ID,
	}

	if err := s.repo.UpsertOverride(ctx, o); err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx)
	if unitPrice > p.BasePrice {
		// Flagged rather than rejected: see ComputeSavings.
		log.Warn("override set above catalog base price",
			zap.String("customer_id", customerID),
			zap.String("product_id", productID),
			zap.Int64("base_price", p.BasePrice),
			zap.Int64("override_price", unitPrice),
		)
	}

	log.Info("customer price override set",
		zap.String("customer_id", customerID),
		zap.String("product_id", productID),
		zap.Int64("unit_price", unitPrice),
	)

	return o, nil
}

func (s *service) RemoveOverride(ctx context.Context, customerID, productID string) error {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok || !actor.CanManageOverrides() {
		return ErrForbidden
	}

	return s.repo.DeleteOverride(ctx, customerID, productID)
}

func (s *service) ListCustomerOverrides(ctx context.Context, customerID string) ([]*Override, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	if !actor.Role.IsVendor() && actor.OrganizationID != customerID {
		return nil, ErrForbidden
	}

	return s.repo.ListOverridesForCustomer(ctx, customerID)
}
