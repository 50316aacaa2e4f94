package scaleup

import (
	"errors"
	"fmt"
)

// Errors returned by the calculator. Check them with errors.Is.
var (
	// ErrInvalidMethod is returned when the similarity method is not one of
	// TipSpeed or TipDistance. No computation is attempted.
	ErrInvalidMethod = errors.New("scaleup: invalid method")

	// ErrDomain is matched by every *DomainError.
	ErrDomain = errors.New("scaleup: input outside domain")

	// ErrUnknownQuantity is returned by Solve when the request does not name
	// duration or speed as its unknown.
	ErrUnknownQuantity = errors.New("scaleup: unknown quantity to solve for")
)

// DomainError reports a physical input that is zero, negative or not finite,
// or a result that overflowed.
type DomainError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("scaleup: %s %s (got %v)", e.Field, e.Reason, e.Value)
}

// Is makes errors.Is(err, ErrDomain) true for any DomainError.
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

func invalidMethod(m Method) error {
	return fmt.Errorf("%w: %q", ErrInvalidMethod, string(m))
}
