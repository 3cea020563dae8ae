package order

import (
	"fmt"

	"kedai-be/internal/auth"
)

type Status string

const (
	StatusNew       Status = "NEW"
	StatusConfirmed Status = "CONFIRMED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusPickedUp  Status = "PICKED_UP"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the single source of truth for the lifecycle. A (current,
// next) pair absent from this table is invalid for every role, which also
// makes self-transitions invalid.
var transitions = map[Status][]Status{
	StatusNew:       {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusPickedUp, StatusCancelled},
	StatusPickedUp:  {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func ParseStatus(s string) (Status, error) {
	if _, ok := transitions[Status(s)]; !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
	return Status(s), nil
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether the order is immutable from here on.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// customerCancellable: customers lose the right to cancel once preparation
// has started.
var customerCancellable = map[Status]bool{
	StatusNew:       true,
	StatusConfirmed: true,
}

// AuthorizeTransition applies the role rules, then the transition table.
// ownsStore is the precomputed "actor owns order.StoreID" fact; it only
// matters for STORE_OWNER.
//
// Authorization failures come back as ErrForbidden, table violations as
// ErrInvalidStatusTransition; the table is checked last so a forbidden actor
// never learns which transitions exist.
func AuthorizeTransition(actor auth.Actor, o *Order, ownsStore bool, requested Status) error {
	switch actor.Role {
	case auth.RoleCustomer:
		if actor.ID != o.CustomerID {
			return ErrForbidden
		}
		if requested != StatusCancelled || !customerCancellable[o.Status] {
			return ErrForbidden
		}
	case auth.RoleStoreOwner:
		if !ownsStore {
			return ErrForbidden
		}
	case auth.RoleAdmin:
		// unrestricted
	default:
		return ErrForbidden
	}

	if !o.Status.CanTransitionTo(requested) {
		return ErrInvalidStatusTransition
	}

	return nil
}
