package product

import (
	"context"
	"fmt"

	"procurehub-be/internal/identity"
	"procurehub-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, activeOnly bool, limit, page int32) ([]*Product, error)
	Create(ctx context.Context, input NewProduct) (*Product, error)
	Update(ctx context.Context, input UpdateProduct) (*Product, error)
}

type NewProduct struct {
	Name              string
	Category          string
	Make              string
	Model             string
	BasePrice         int64
	Stock             int
	GSTRate           float64
	LowStockThreshold int
}

type UpdateProduct struct {
	ID                string
	Name              *string
	Category          *string
	Make              *string
	Model             *string
	BasePrice         *int64
	Stock             *int
	GSTRate           *float64
	LowStockThreshold *int
	Active            *bool
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *service) List(ctx context.Context, activeOnly bool, limit, page int32) ([]*Product, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	return s.repo.ListProducts(ctx, activeOnly, limit, offset)
}

func (s *service) Create(ctx context.Context, input NewProduct) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	actor, ok := identity.ActorFromContext(ctx)
	if !ok || !actor.Role.IsVendor() {
		return nil, ErrForbidden
	}

	if input.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if input.BasePrice <= 0 {
		return nil, fmt.Errorf("%w: base price must be positive", ErrValidation)
	}
	if input.GSTRate < 0 {
		return nil, fmt.Errorf("%w: gst rate cannot be negative", ErrValidation)
	}

	p := &Product{
		ID:                uuid.NewString(),
		Name:              input.Name,
		Category:          input.Category,
		Make:              input.Make,
		Model:             input.Model,
		BasePrice:         input.BasePrice,
		Stock:             input.Stock,
		GSTRate:           input.GSTRate,
		LowStockThreshold: input.LowStockThreshold,
		Active:            true,
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
	)

	return p, nil
}

// Update mutates the catalog record only. Orders priced before the update keep
// their frozen line prices.
func (s *service) Update(ctx context.Context, input UpdateProduct) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.String("product_id", input.ID),
	)

	actor, ok := identity.ActorFromContext(ctx)
	if !ok || !actor.Role.IsVendor() {
		return nil, ErrForbidden
	}

	p, err := s.repo.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.Make != nil {
		p.Make = *input.Make
	}
	if input.Model != nil {
		p.Model = *input.Model
	}
	if input.BasePrice != nil {
		if *input.BasePrice <= 0 {
			return nil, fmt.Errorf("%w: base price must be positive", ErrValidation)
		}
		p.BasePrice = *input.BasePrice
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if input.GSTRate != nil {
		p.GSTRate = *input.GSTRate
	}
	if input.LowStockThreshold != nil {
		p.LowStockThreshold = *input.LowStockThreshold
	}
	if input.Active != nil {
		p.Active = *input.Active
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	if p.LowStock() {
		log.Warn("product at or below low-stock threshold",
			zap.Int("stock", p.Stock),
			zap.Int("threshold", p.LowStockThreshold),
		)
	}

	return p, nil
}
