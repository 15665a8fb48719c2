package report

import (
	"context"
	"database/sql"
	"testing"

	"procurehub-be/internal/identity"
	"procurehub-be/internal/order"
	"procurehub-be/internal/pricing"
	"procurehub-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOverrides struct {
	mock.Mock
}

func (m *mockOverrides) GetOverride(ctx context.Context, customerID, productID string) (*pricing.Override, error) {
	args := m.Called(ctx, customerID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Override), args.Error(1)
}

func (m *mockOverrides) ListOverridesForCustomer(ctx context.Context, customerID string) ([]*pricing.Override, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.Override), args.Error(1)
}

func (m *mockOverrides) ListOverridesForProduct(ctx context.Context, productID string) ([]*pricing.Override, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.Override), args.Error(1)
}

func (m *mockOverrides) UpsertOverride(ctx context.Context, o *pricing.Override) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOverrides) DeleteOverride(ctx context.Context, customerID, productID string) error {
	args := m.Called(ctx, customerID, productID)
	return args.Error(0)
}

type mockProducts struct {
	mock.Mock
}

func (m *mockProducts) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *mockProducts) ListProducts(ctx context.Context, activeOnly bool, limit, offset int32) ([]*product.Product, error) {
	args := m.Called(ctx, activeOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *mockProducts) CreateProduct(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProducts) UpdateProduct(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProducts) ReserveStock(ctx context.Context, tx *sql.Tx, productID string, qty int) (bool, error) {
	args := m.Called(ctx, tx, productID, qty)
	return args.Bool(0), args.Error(1)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) CreateOrderTx(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrders) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrders) ListOrders(ctx context.Context, filter order.Filter, limit, offset int32) ([]*order.Order, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *mockOrders) ApplyTransition(ctx context.Context, o *order.Order, entry order.TrailEntry) error {
	args := m.Called(ctx, o, entry)
	return args.Error(0)
}

func (m *mockOrders) ListDispatchedLines(ctx context.Context, customerID string) ([]order.Line, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Line), args.Error(1)
}

func vendorCtx() context.Context {
	return identity.SetActorContext(context.Background(), identity.Actor{
		ID:   "ven-1",
		Role: identity.RoleVendorNormal,
	})
}

func customerCtx(orgID string) context.Context {
	return identity.SetActorContext(context.Background(), identity.Actor{
		ID:             "emp-1",
		Role:           identity.RoleCustomerEmployee,
		OrganizationID: orgID,
	})
}

func TestService_CustomerReport(t *testing.T) {
	t.Run("SavingsAndRanking", func(t *testing.T) {
		overrides := new(mockOverrides)
		products := new(mockProducts)
		orders := new(mockOrders)
		svc := NewService(overrides, products, orders)

		overrides.On("ListOverridesForCustomer", mock.Anything, "org-a").Return([]*pricing.Override{
			{CustomerID: "org-a", ProductID: "p1", UnitPrice: 9000},  // 25% off 12000
			{CustomerID: "org-a", ProductID: "p2", UnitPrice: 4500},  // 10% off 5000
			{CustomerID: "org-a", ProductID: "p3", UnitPrice: 11000}, // above base: negative
		}, nil)
		products.On("GetProduct", mock.Anything, "p1").Return(&product.Product{ID: "p1", Name: "Widget", BasePrice: 12000}, nil)
		products.On("GetProduct", mock.Anything, "p2").Return(&product.Product{ID: "p2", Name: "Gadget", BasePrice: 5000}, nil)
		products.On("GetProduct", mock.Anything, "p3").Return(&product.Product{ID: "p3", Name: "Gizmo", BasePrice: 10000}, nil)
		orders.On("ListDispatchedLines", mock.Anything, "org-a").Return([]order.Line{
			{ProductID: "p1", Quantity: 2, UnitPrice: 9000, BaseUnitPrice: 12000}, // 2 * 3000
			{ProductID: "p2", Quantity: 1, UnitPrice: 5000, BaseUnitPrice: 5000},  // no discount used
		}, nil)

		report, err := svc.CustomerReport(vendorCtx(), "org-a")

		require.NoError(t, err)
		// Negative p3 saving is excluded from the potential total but still listed.
		assert.Equal(t, int64(3500), report.PotentialSavings)
		assert.Equal(t, int64(6000), report.RealizedSavings)
		require.Len(t, report.TopDiscounted, 3)
		assert.Equal(t, "p1", report.TopDiscounted[0].ProductID)
		assert.Equal(t, "p2", report.TopDiscounted[1].ProductID)
		assert.Equal(t, "p3", report.TopDiscounted[2].ProductID)
		assert.Negative(t, report.TopDiscounted[2].SavingsPerUnit)
	})

	t.Run("TopFiveOnly", func(t *testing.T) {
		overrides := new(mockOverrides)
		products := new(mockProducts)
		orders := new(mockOrders)
		svc := NewService(overrides, products, orders)

		var ovs []*pricing.Override
		for i := 0; i < 7; i++ {
			id := string(rune('a' + i))
			ovs = append(ovs, &pricing.Override{CustomerID: "org-a", ProductID: id, UnitPrice: int64(10000 - i*1000)})
			products.On("GetProduct", mock.Anything, id).Return(&product.Product{ID: id, BasePrice: 10000}, nil)
		}
		overrides.On("ListOverridesForCustomer", mock.Anything, "org-a").Return(ovs, nil)
		orders.On("ListDispatchedLines", mock.Anything, "org-a").Return([]order.Line{}, nil)

		report, err := svc.CustomerReport(vendorCtx(), "org-a")
		require.NoError(t, err)
		require.Len(t, report.TopDiscounted, 5)
		// Deepest discount first.
		assert.Equal(t, "g", report.TopDiscounted[0].ProductID)
	})

	t.Run("SkipsMissingProducts", func(t *testing.T) {
		overrides := new(mockOverrides)
		products := new(mockProducts)
		orders := new(mockOrders)
		svc := NewService(overrides, products, orders)

		overrides.On("ListOverridesForCustomer", mock.Anything, "org-a").Return([]*pricing.Override{
			{CustomerID: "org-a", ProductID: "gone", UnitPrice: 9000},
		}, nil)
		products.On("GetProduct", mock.Anything, "gone").Return(nil, product.ErrNotFound)
		orders.On("ListDispatchedLines", mock.Anything, "org-a").Return([]order.Line{}, nil)

		report, err := svc.CustomerReport(vendorCtx(), "org-a")
		require.NoError(t, err)
		assert.Zero(t, report.PotentialSavings)
		assert.Empty(t, report.TopDiscounted)
	})

	t.Run("CustomerSeesOwnReport", func(t *testing.T) {
		overrides := new(mockOverrides)
		products := new(mockProducts)
		orders := new(mockOrders)
		svc := NewService(overrides, products, orders)

		overrides.On("ListOverridesForCustomer", mock.Anything, "org-a").Return([]*pricing.Override{}, nil)
		orders.On("ListDispatchedLines", mock.Anything, "org-a").Return([]order.Line{}, nil)

		_, err := svc.CustomerReport(customerCtx("org-a"), "org-a")
		assert.NoError(t, err)
	})

	t.Run("CustomerCannotSeeOtherOrg", func(t *testing.T) {
		svc := NewService(new(mockOverrides), new(mockProducts), new(mockOrders))

		_, err := svc.CustomerReport(customerCtx("org-a"), "org-b")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestService_ProductDiscountRanking(t *testing.T) {
	t.Run("RanksDeepestFirst", func(t *testing.T) {
		overrides := new(mockOverrides)
		products := new(mockProducts)
		svc := NewService(overrides, products, new(mockOrders))

		products.On("GetProduct", mock.Anything, "p1").Return(&product.Product{ID: "p1", BasePrice: 10000}, nil)
		overrides.On("ListOverridesForProduct", mock.Anything, "p1").Return([]*pricing.Override{
			{CustomerID: "org-a", ProductID: "p1", UnitPrice: 9000},
			{CustomerID: "org-b", ProductID: "p1", UnitPrice: 7000},
			{CustomerID: "org-c", ProductID: "p1", UnitPrice: 11000},
		}, nil)

		ranking, err := svc.ProductDiscountRanking(vendorCtx(), "p1")

		require.NoError(t, err)
		require.Len(t, ranking, 3)
		assert.Equal(t, "org-b", ranking[0].CustomerID)
		assert.Equal(t, "org-a", ranking[1].CustomerID)
		assert.Equal(t, "org-c", ranking[2].CustomerID)
		assert.Negative(t, ranking[2].DiscountPct)
	})

	t.Run("CustomerForbidden", func(t *testing.T) {
		svc := NewService(new(mockOverrides), new(mockProducts), new(mockOrders))

		_, err := svc.ProductDiscountRanking(customerCtx("org-a"), "p1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("MissingProduct", func(t *testing.T) {
		overrides := new(mockOverrides)
		products := new(mockProducts)
		svc := NewService(overrides, products, new(mockOrders))

		products.On("GetProduct", mock.Anything, "gone").Return(nil, product.ErrNotFound)

		_, err := svc.ProductDiscountRanking(vendorCtx(), "gone")
		assert.ErrorIs(t, err, product.ErrNotFound)
	})
}
