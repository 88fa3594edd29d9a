package binding

import (
	"errors"
	"fmt"

	"github.com/TEENet-io/cardano-utxo/utxo"
)

var (
	// ErrOutputsOverflowed is returned when the outputs cannot be summed.
	ErrOutputsOverflowed = errors.New("outputs overflowed")
	// ErrRequirementOverflowed is returned when outputs + threshold, or the
	// selected inputs, cannot be summed.
	ErrRequirementOverflowed = errors.New("requirement overflowed")
)

// Select picks inputs for the outputs of req.
//
// The excess output is larger than or equal to the threshold.
// Returns ok == false if the inputs are not enough for the outputs plus
// threshold. Errors are returned for malformed documents and overflows.
func Select(req *SelectRequest) (*SelectResult, bool, error) {
	inputs, err := ToRecords(req.Inputs)
	if err != nil {
		return nil, false, fmt.Errorf("inputs: %w", err)
	}
	total, threshold, err := Requirement(req.Outputs, req.Threshold)
	if err != nil {
		return nil, false, err
	}

	sel, ok, err := utxo.Select(inputs, total, threshold)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrRequirementOverflowed, err)
	}
	if !ok {
		return nil, false, nil
	}

	return &SelectResult{
		Selected:   FromRecords(sel.Selected),
		Unselected: FromRecords(sel.Unselected),
		Excess:     FromRecord(sel.Excess),
	}, true, nil
}

// Requirement converts the outputs into a single target record and the
// optional threshold into a record (zero when missing).
func Requirement(outputs []Output, threshold *Output) (utxo.Record, utxo.Record, error) {
	recs, err := ToRecords(outputs)
	if err != nil {
		return utxo.Record{}, utxo.Record{}, fmt.Errorf("outputs: %w", err)
	}
	th := utxo.Zero()
	if threshold != nil {
		if th, err = ToRecord(*threshold); err != nil {
			return utxo.Record{}, utxo.Record{}, fmt.Errorf("threshold: %w", err)
		}
	}
	total, err := utxo.Combine(recs...)
	if err != nil {
		return utxo.Record{}, utxo.Record{}, fmt.Errorf("%w: %w", ErrOutputsOverflowed, err)
	}
	return total, th, nil
}
