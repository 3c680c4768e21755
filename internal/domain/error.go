package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// Checkout errors
	ErrPriceMismatch = errors.New("client and server totals disagree")

	// Bounded code-generation retry loops (coupon and referral codes) give up
	// with this instead of looping forever under persistent collisions.
	ErrCodeSpaceExhausted = errors.New("unique code generation exhausted retries")

	// Payment gateway errors
	ErrGatewayConfig      = errors.New("payment gateway credentials missing")
	ErrGatewayUnavailable = errors.New("payment gateway unreachable")
	ErrAuthenticity       = errors.New("callback digest verification failed")
)

// GatewayRejectedError is returned when the processor accepted our request at
// the transport level but rejected it as a business error. Reason is the
// processor's own text and is meant for operators, not customers.
type GatewayRejectedError struct {
	Reason string
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("payment gateway rejected request: %s", e.Reason)
}

// IsGatewayRejected reports whether err is (or wraps) a processor rejection.
func IsGatewayRejected(err error) bool {
	var gr *GatewayRejectedError
	return errors.As(err, &gr)
}
