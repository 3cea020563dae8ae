package order

import (
	"testing"

	"kedai-be/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{
	StatusNew, StatusConfirmed, StatusPreparing, StatusReady,
	StatusPickedUp, StatusDelivered, StatusCancelled,
}

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusNew:       {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusPreparing: true, StatusCancelled: true},
		StatusPreparing: {StatusReady: true, StatusCancelled: true},
		StatusReady:     {StatusPickedUp: true, StatusCancelled: true},
		StatusPickedUp:  {StatusDelivered: true},
		StatusDelivered: {},
		StatusCancelled: {},
	}

	// Full matrix, self-transitions included.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range allStatuses {
		assert.Equal(t, s == StatusDelivered || s == StatusCancelled, s.IsTerminal(), "%s", s)
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, s := range allStatuses {
			parsed, err := ParseStatus(string(s))
			assert.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseStatus("SHIPPED")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestAuthorizeTransition(t *testing.T) {
	customerID := uuid.New()
	customer := auth.Actor{ID: customerID, Role: auth.RoleCustomer}
	otherCustomer := auth.Actor{ID: uuid.New(), Role: auth.RoleCustomer}
	owner := auth.Actor{ID: uuid.New(), Role: auth.RoleStoreOwner}
	admin := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}

	orderIn := func(s Status) *Order {
		return &Order{ID: uuid.New(), CustomerID: customerID, StoreID: uuid.New(), Status: s}
	}

	t.Run("TableViolationsRejectedForEveryRole", func(t *testing.T) {
		for _, from := range allStatuses {
			for _, to := range allStatuses {
				if from.CanTransitionTo(to) {
					continue
				}
				// Admin is unrestricted by role, so a rejection can only
				// come from the table.
				err := AuthorizeTransition(admin, orderIn(from), false, to)
				assert.ErrorIs(t, err, ErrInvalidStatusTransition, "%s -> %s", from, to)
			}
		}
	})

	t.Run("AdminAllowedOnEveryTablePair", func(t *testing.T) {
		for _, from := range allStatuses {
			for _, to := range transitions[from] {
				assert.NoError(t, AuthorizeTransition(admin, orderIn(from), false, to),
					"%s -> %s", from, to)
			}
		}
	})

	t.Run("OwnerAllowedOnEveryTablePair", func(t *testing.T) {
		for _, from := range allStatuses {
			for _, to := range transitions[from] {
				assert.NoError(t, AuthorizeTransition(owner, orderIn(from), true, to),
					"%s -> %s", from, to)
			}
		}
	})

	t.Run("NonOwnerForbiddenOnEveryTablePair", func(t *testing.T) {
		for _, from := range allStatuses {
			for _, to := range transitions[from] {
				err := AuthorizeTransition(owner, orderIn(from), false, to)
				assert.ErrorIs(t, err, ErrForbidden, "%s -> %s", from, to)
			}
		}
	})

	t.Run("CustomerCancelsOwnEarlyOrder", func(t *testing.T) {
		assert.NoError(t, AuthorizeTransition(customer, orderIn(StatusNew), false, StatusCancelled))
		assert.NoError(t, AuthorizeTransition(customer, orderIn(StatusConfirmed), false, StatusCancelled))
	})

	t.Run("CustomerCannotCancelOncePreparing", func(t *testing.T) {
		for _, from := range []Status{StatusPreparing, StatusReady, StatusPickedUp} {
			err := AuthorizeTransition(customer, orderIn(from), false, StatusCancelled)
			assert.ErrorIs(t, err, ErrForbidden, "%s", from)
		}
	})

	t.Run("CustomerCannotAdvance", func(t *testing.T) {
		err := AuthorizeTransition(customer, orderIn(StatusNew), false, StatusConfirmed)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("CustomerCannotTouchOthersOrder", func(t *testing.T) {
		err := AuthorizeTransition(otherCustomer, orderIn(StatusNew), false, StatusCancelled)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("UnknownRoleForbidden", func(t *testing.T) {
		weird := auth.Actor{ID: uuid.New(), Role: auth.Role("COURIER")}
		err := AuthorizeTransition(weird, orderIn(StatusNew), false, StatusConfirmed)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
