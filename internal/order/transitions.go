package order

import "procurehub-be/internal/identity"

// Action is a transition request against an order.
type Action string

const (
	ActionApproveDept     Action = "approve_dept"
	ActionRejectDept      Action = "reject_dept"
	ActionApproveHR       Action = "approve_hr"
	ActionRejectHR        Action = "reject_hr"
	ActionMarkPacked      Action = "mark_packed"
	ActionApproveDispatch Action = "approve_dispatch"
	ActionRejectDispatch  Action = "reject_dispatch"
	ActionDispatch        Action = "dispatch"
)

// transitions is the complete legal state graph. Anything not listed here is
// an invalid transition.
var transitions = map[Status]map[Action]Status{
	StatusPendingDept: {
		ActionApproveDept: StatusPendingHR,
		ActionRejectDept:  StatusRejected,
	},
	StatusPendingHR: {
		ActionApproveHR: StatusApproved,
		ActionRejectHR:  StatusRejected,
	},
	StatusApproved: {
		ActionMarkPacked: StatusPacked,
	},
	StatusPacked: {
		ActionApproveDispatch: StatusReadyForDispatch,
		ActionRejectDispatch:  StatusApproved,
	},
	StatusReadyForDispatch: {
		ActionDispatch: StatusDispatched,
	},
}

// nextStatus resolves the target status for an action from the current one.
func nextStatus(current Status, action Action) (Status, error) {
	next, ok := transitions[current][action]
	if !ok {
		return current, ErrInvalidTransition
	}
	return next, nil
}

// initialStatus maps the creator's role to the status a fresh order enters.
// Department heads and HR admins skip the stages they would themselves
// approve; the skip is recorded as an auto-approval trail entry.
func initialStatus(role identity.Role) (Status, bool, error) {
	switch role {
	case identity.RoleCustomerEmployee:
		return StatusPendingDept, false, nil
	case identity.RoleCustomerDeptHead:
		return StatusPendingHR, true, nil
	case identity.RoleCustomerHRAdmin:
		return StatusApproved, true, nil
	default:
		return "", false, ErrForbidden
	}
}

// allowed evaluates the role/ownership gate for an action. It runs before the
// state-graph check; a caller who fails it gets Forbidden even when the
// transition itself would be legal.
func allowed(actor identity.Actor, o *Order, action Action) bool {
	switch action {
	case ActionApproveDept, ActionRejectDept:
		return actor.CanApproveDept(o.CustomerID, o.departmentID())
	case ActionApproveHR, ActionRejectHR:
		return actor.CanApproveHR(o.CustomerID)
	case ActionMarkPacked, ActionDispatch:
		return actor.Role.IsVendor()
	case ActionApproveDispatch, ActionRejectDispatch:
		return actor.Role.IsVendorAdmin()
	default:
		return false
	}
}
