package utxo

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned when a sum cannot be represented in a uint64.
var ErrOverflow = errors.New("sum overflowed")

func ErrOverflowOnQuantity() error {
	return fmt.Errorf("%w: dimension=quantity", ErrOverflow)
}

func ErrOverflowOnAsset(id AssetID) error {
	return fmt.Errorf("%w: dimension=asset %s", ErrOverflow, id)
}

// InvariantError is the panic value raised when Difference is called with
// a minuend that does not dominate the subtrahend.
type InvariantError struct {
	Dimension string
	Minuend   uint64
	Sub       uint64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated: difference underflows on %s (%d - %d)", e.Dimension, e.Minuend, e.Sub)
}
