package order

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft            Status = "draft"
	StatusPendingDept      Status = "pending_dept_approval"
	StatusPendingHR        Status = "pending_hr_approval"
	StatusApproved         Status = "approved"
	StatusPacked           Status = "packed"
	StatusReadyForDispatch Status = "ready_for_dispatch"
	StatusDispatched       Status = "dispatched"
	StatusRejected         Status = "rejected"
)

// Terminal reports whether no further transition leaves the status.
func (s Status) Terminal() bool {
	return s == StatusDispatched || s == StatusRejected
}

type Order struct {
	ID                 uuid.UUID
	CustomerID         string
	UserID             string
	DepartmentID       *string
	Status             Status
	Lines              []Line
	TotalTax           int64
	TotalPayable       int64
	Trail              []TrailEntry
	Packed             map[int]bool
	DispatchApprovedBy *string
	DispatchedBy       *string
	DispatchedAt       *time.Time
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Line is a frozen snapshot taken at order creation. Unit price, base price
// and GST rate are never re-resolved, regardless of later catalog or override
// changes.
type Line struct {
	ProductID     string
	ProductName   string
	Quantity      int
	UnitPrice     int64 // cents, resolved at creation
	BaseUnitPrice int64 // cents, catalog price at creation
	GSTRate       float64
	LineTotal     int64
	IsOverride    bool
}

func (l Line) Tax() int64 {
	return int64(math.Round(float64(l.Quantity) * float64(l.UnitPrice) * l.GSTRate / 100))
}

type TrailEntry struct {
	ID        string
	ActorID   string
	ActorRole string
	Action    string
	Message   string
	CreatedAt time.Time
}

// RecomputeTotals derives the aggregate amounts from the lines. Totals are
// never stored stale; every mutation path recomputes them.
func (o *Order) RecomputeTotals() {
	var subtotal, tax int64
	for _, l := range o.Lines {
		subtotal += l.LineTotal
		tax += l.Tax()
	}
	o.TotalTax = tax
	o.TotalPayable = subtotal + tax
}

// AllPacked reports whether every line index is present and true in the
// packed map.
func (o *Order) AllPacked() bool {
	if len(o.Lines) == 0 {
		return false
	}
	for i := range o.Lines {
		if !o.Packed[i] {
			return false
		}
	}
	return true
}

func (o *Order) departmentID() string {
	if o.DepartmentID == nil {
		return ""
	}
	return *o.DepartmentID
}
