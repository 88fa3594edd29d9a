/*
This file contains the selection of inputs for a set of outputs.

Selection runs in two greedy phases over the inputs:
 1. for every asset required (in AssetID order) draw the inputs holding the
    smallest positive amount of that asset until the asset is covered;
 2. if the base quantity is still short, draw the remaining inputs in
    ascending quantity until it is covered.

Both phases pick smallest first to keep the excess low. The result is not
guaranteed to be the globally minimal excess.
*/
package utxo

import (
	"cmp"
	"slices"
)

// Selection is the outcome of a successful Select.
type Selection struct {
	Selected   []Record // in the order they were drawn
	Unselected []Record // in their original relative order
	Excess     Record   // combined(Selected) - (target + threshold)
}

type selector struct {
	inputs []Record
	picked []bool
	order  []int
	sum    Record
}

func (s *selector) draw(i int) error {
	sum, err := Combine(s.sum, s.inputs[i])
	if err != nil {
		return err
	}
	s.picked[i] = true
	s.order = append(s.order, i)
	s.sum = sum
	return nil
}

// smallestHolder returns the unpicked input holding the least positive
// amount of the asset, -1 if none. Ties go to the earliest input.
func (s *selector) smallestHolder(id AssetID) int {
	best := -1
	for i, in := range s.inputs {
		q := in.Assets[id]
		if s.picked[i] || q == 0 {
			continue
		}
		if best < 0 || q < s.inputs[best].Assets[id] {
			best = i
		}
	}
	return best
}

func (s *selector) coverAsset(id AssetID, need uint64) (bool, error) {
	for s.sum.Assets[id] < need {
		i := s.smallestHolder(id)
		if i < 0 {
			return false, nil
		}
		if err := s.draw(i); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *selector) coverQuantity(need uint64) (bool, error) {
	if s.sum.Quantity >= need {
		return true, nil
	}

	rest := make([]int, 0, len(s.inputs))
	for i, in := range s.inputs {
		// zero-quantity inputs cannot make progress here
		if !s.picked[i] && in.Quantity > 0 {
			rest = append(rest, i)
		}
	}
	slices.SortStableFunc(rest, func(a, b int) int {
		return cmp.Compare(s.inputs[a].Quantity, s.inputs[b].Quantity)
	})

	for _, i := range rest {
		if err := s.draw(i); err != nil {
			return false, err
		}
		if s.sum.Quantity >= need {
			return true, nil
		}
	}
	return false, nil
}

// Select chooses inputs whose combined value covers target + threshold on
// the base quantity and on every asset held by target or threshold.
//
// It returns ok == false when the inputs are not enough; that is a normal
// outcome, not an error. ErrOverflow is returned when target + threshold,
// or the sum of the selected inputs, cannot be represented.
//
// inputs is left untouched; the returned slices are freshly allocated and
// share the records (not copies) with inputs.
func Select(inputs []Record, target, threshold Record) (*Selection, bool, error) {
	need, err := Combine(target, threshold)
	if err != nil {
		return nil, false, err
	}

	s := &selector{
		inputs: inputs,
		picked: make([]bool, len(inputs)),
		sum:    Zero(),
	}

	for _, id := range need.Assets.Keys() {
		ok, err := s.coverAsset(id, need.Assets[id])
		if err != nil || !ok {
			return nil, false, err
		}
	}

	ok, err := s.coverQuantity(need.Quantity)
	if err != nil || !ok {
		return nil, false, err
	}

	selection := &Selection{
		Selected:   make([]Record, 0, len(s.order)),
		Unselected: make([]Record, 0, len(inputs)-len(s.order)),
		Excess:     Difference(s.sum, need),
	}
	for _, i := range s.order {
		selection.Selected = append(selection.Selected, inputs[i])
	}
	for i, in := range inputs {
		if !s.picked[i] {
			selection.Unselected = append(selection.Unselected, in)
		}
	}
	return selection, true, nil
}
