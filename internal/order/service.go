package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"procurehub-be/internal/identity"
	"procurehub-be/internal/logger"
	"procurehub-be/internal/metrics"
	"procurehub-be/internal/notify"
	"procurehub-be/internal/pricing"
	"procurehub-be/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, customerID string, lines []NewLine) (*Order, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context, filter Filter, limit, page int32) ([]*Order, error)
	ApproveDept(ctx context.Context, orderID string, approve bool, comment string) (*Order, error)
	ApproveHR(ctx context.Context, orderID string, approve bool, comment string) (*Order, error)
	MarkPacked(ctx context.Context, orderID string, packed map[int]bool) (*Order, error)
	ApproveDispatch(ctx context.Context, orderID string, approve bool, comment string) (*Order, error)
	Dispatch(ctx context.Context, orderID string) (*Order, error)
}

type NewLine struct {
	ProductID string
	Quantity  int
}

type service struct {
	repo     Repository
	products product.Repository
	pricing  pricing.Service
	notifier notify.Notifier
	stats    *metrics.Registry
}

func NewService(repo Repository, products product.Repository, pricingSvc pricing.Service, notifier notify.Notifier, stats *metrics.Registry) Service {
	return &service{
		repo:     repo,
		products: products,
		pricing:  pricingSvc,
		notifier: notifier,
		stats:    stats,
	}
}

func (s *service) Create(ctx context.Context, customerID string, lines []NewLine) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.String("customer_id", customerID),
		zap.Int("line_count", len(lines)),
	)

	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	if !actor.Role.IsCustomer() || actor.OrganizationID != customerID {
		return nil, ErrForbidden
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one line", ErrValidation)
	}

	now := time.Now()
	o := &Order{
		ID:         uuid.Must(uuid.NewV7()),
		CustomerID: customerID,
		UserID:     actor.ID,
		Packed:     map[int]bool{},
		Version:    1,
		CreatedAt:  now,
	}
	if actor.DepartmentID != "" {
		deptID := actor.DepartmentID
		o.DepartmentID = &deptID
	}

	for i, line := range lines {
		logLine := log.With(
			zap.Int("line_index", i),
			zap.String("product_id", line.ProductID),
			zap.Int("quantity", line.Quantity),
		)

		if line.Quantity <= 0 {
			logLine.Warn("invalid quantity")
			return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}

		p, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, line.ProductID)
			}
			logLine.Error("failed to load product", zap.Error(err))
			return nil, err
		}
		if !p.Active {
			logLine.Warn("product inactive")
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, p.ID)
		}
		// Point-in-time check; the authoritative reservation happens inside
		// the create transaction.
		if p.Stock < line.Quantity {
			logLine.Warn("insufficient stock", zap.Int("stock", p.Stock))
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, p.ID)
		}

		resolved, err := s.pricing.ResolvePrice(ctx, customerID, line.ProductID)
		if err != nil {
			logLine.Error("failed to resolve price", zap.Error(err))
			return nil, err
		}
		if resolved.UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrPriceUnavailable, p.ID)
		}

		o.Lines = append(o.Lines, Line{
			ProductID:     p.ID,
			ProductName:   p.Name,
			Quantity:      line.Quantity,
			UnitPrice:     resolved.UnitPrice,
			BaseUnitPrice: p.BasePrice,
			GSTRate:       p.GSTRate,
			LineTotal:     int64(line.Quantity) * resolved.UnitPrice,
			IsOverride:    resolved.IsOverride,
		})
	}

	o.RecomputeTotals()

	status, autoApprove, err := initialStatus(actor.Role)
	if err != nil {
		return nil, err
	}
	o.Status = status

	o.Trail = append(o.Trail, TrailEntry{
		ID:        uuid.NewString(),
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Action:    "created",
		Message:   "order created",
		CreatedAt: now,
	})
	if autoApprove {
		o.Trail = append(o.Trail, TrailEntry{
			ID:        uuid.NewString(),
			ActorID:   actor.ID,
			ActorRole: string(actor.Role),
			Action:    "auto_approved",
			Message:   fmt.Sprintf("auto-approved at creation by %s", actor.Role),
			CreatedAt: now,
		})
	}

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		s.stats.OrderCreateFailures.Inc()
		log.Error("failed to persist order", zap.Error(err))
		return nil, err
	}

	s.stats.OrdersCreated.Inc()
	s.emit(ctx, o, actor, "created")

	log.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("status", string(o.Status)),
		zap.Int64("total_payable", o.TotalPayable),
	)

	return o, nil
}

func (s *service) Get(ctx context.Context, orderID string) (*Order, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.CanView(o.CustomerID) {
		return nil, ErrForbidden
	}

	return o, nil
}

func (s *service) List(ctx context.Context, filter Filter, limit, page int32) ([]*Order, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	// Customers only ever see their own organization's orders, whatever the
	// filter says.
	if !actor.Role.IsVendor() {
		orgID := actor.OrganizationID
		filter.CustomerID = &orgID
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	return s.repo.ListOrders(ctx, filter, limit, offset)
}

func (s *service) ApproveDept(ctx context.Context, orderID string, approve bool, comment string) (*Order, error) {
	action := ActionApproveDept
	tag := "dept_approved"
	if !approve {
		action = ActionRejectDept
		tag = "dept_rejected"
	}
	return s.decide(ctx, orderID, action, tag, approve, comment)
}

func (s *service) ApproveHR(ctx context.Context, orderID string, approve bool, comment string) (*Order, error) {
	action := ActionApproveHR
	tag := "hr_approved"
	if !approve {
		action = ActionRejectHR
		tag = "hr_rejected"
	}
	return s.decide(ctx, orderID, action, tag, approve, comment)
}

// decide runs an approve/reject transition. The ownership gate is evaluated
// before the state-graph check, so a wrong-org approver sees Forbidden, not
// InvalidTransition.
func (s *service) decide(ctx context.Context, orderID string, action Action, tag string, approve bool, comment string) (*Order, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	if !approve && comment == "" {
		return nil, fmt.Errorf("%w: rejection comment required", ErrValidation)
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !allowed(actor, o, action) {
		s.stats.TransitionsRejected.Inc()
		return nil, ErrForbidden
	}

	next, err := nextStatus(o.Status, action)
	if err != nil {
		s.stats.TransitionsRejected.Inc()
		return nil, err
	}
	o.Status = next

	if err := s.applyTransition(ctx, o, actor, tag, comment); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *service) MarkPacked(ctx context.Context, orderID string, packed map[int]bool) (*Order, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !allowed(actor, o, ActionMarkPacked) {
		s.stats.TransitionsRejected.Inc()
		return nil, ErrForbidden
	}

	// Partial packing keeps the order in approved, so the graph check is on
	// the current status, not the would-be target.
	if _, err := nextStatus(o.Status, ActionMarkPacked); err != nil {
		s.stats.TransitionsRejected.Inc()
		return nil, err
	}

	for i := range packed {
		if i < 0 || i >= len(o.Lines) {
			return nil, fmt.Errorf("%w: packed index %d out of range", ErrValidation, i)
		}
	}
	for i, v := range packed {
		o.Packed[i] = v
	}

	tag := "partial_packed"
	message := "partial packing recorded"
	if o.AllPacked() {
		o.Status = StatusPacked
		tag = "packed"
		message = "all lines packed"
	}

	if err := s.applyTransition(ctx, o, actor, tag, message); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *service) ApproveDispatch(ctx context.Context, orderID string, approve bool, comment string) (*Order, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	action := ActionApproveDispatch
	tag := "dispatch_approved"
	if !approve {
		action = ActionRejectDispatch
		tag = "dispatch_rejected"
		if comment == "" {
			return nil, fmt.Errorf("%w: rejection comment required", ErrValidation)
		}
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !allowed(actor, o, action) {
		s.stats.TransitionsRejected.Inc()
		return nil, ErrForbidden
	}

	next, err := nextStatus(o.Status, action)
	if err != nil {
		s.stats.TransitionsRejected.Inc()
		return nil, err
	}
	o.Status = next

	if approve {
		actorID := actor.ID
		o.DispatchApprovedBy = &actorID
	} else {
		// Back to the vendor floor for re-packing.
		o.DispatchApprovedBy = nil
		o.Packed = map[int]bool{}
	}

	if err := s.applyTransition(ctx, o, actor, tag, comment); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *service) Dispatch(ctx context.Context, orderID string) (*Order, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !allowed(actor, o, ActionDispatch) {
		s.stats.TransitionsRejected.Inc()
		return nil, ErrForbidden
	}

	next, err := nextStatus(o.Status, ActionDispatch)
	if err != nil {
		s.stats.TransitionsRejected.Inc()
		return nil, err
	}
	o.Status = next

	now := time.Now()
	actorID := actor.ID
	o.DispatchedBy = &actorID
	o.DispatchedAt = &now

	if err := s.applyTransition(ctx, o, actor, "dispatched", "order dispatched"); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *service) applyTransition(ctx context.Context, o *Order, actor identity.Actor, tag, message string) error {
	entry := TrailEntry{
		ID:        uuid.NewString(),
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Action:    tag,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := s.repo.ApplyTransition(ctx, o, entry); err != nil {
		if errors.Is(err, ErrConflict) {
			s.stats.TransitionConflicts.Inc()
		}
		return err
	}

	s.stats.Transitions.Inc()
	s.emit(ctx, o, actor, tag)
	return nil
}

// emit hands the event to the notifier. Delivery is best-effort and never
// fails the mutation that triggered it.
func (s *service) emit(ctx context.Context, o *Order, actor identity.Actor, action string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Notify(ctx, notify.Event{
		OrderID:    o.ID.String(),
		CustomerID: o.CustomerID,
		ActorID:    actor.ID,
		Action:     action,
		Status:     string(o.Status),
	})
}
