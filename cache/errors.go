package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned by the constructors when the
// requested capacity is below 1. No instance is produced.
var ErrInvalidConfiguration = errors.New("cache: invalid configuration")

func invalidCapacity(capacity int) error {
	return fmt.Errorf("%w: capacity must be >= 1, got %d", ErrInvalidConfiguration, capacity)
}
