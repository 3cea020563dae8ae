package order

import (
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrValidation              = errors.New("validation error")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrItemUnavailable         = errors.New("item unavailable")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrMinimumOrderNotMet      = errors.New("minimum order not met")
	ErrMaximumOrderExceeded    = errors.New("maximum order exceeded")
	ErrPersistence             = errors.New("persistence failure")
)

// IsTransientPersistence reports whether a repository failure is worth one
// retry: serialization conflicts on the order-counter row, deadlocks, or a
// dropped connection. Business-rule rejections never classify as transient.
func IsTransientPersistence(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", // serialization_failure
			"40P01": // deadlock_detected
			return true
		}
	}

	return false
}
