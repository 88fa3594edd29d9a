/*
This file contains the arithmetic over records.
Every addition is checked; nothing wraps or saturates.
*/
package utxo

import (
	"math/bits"
)

func add(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// Combine sums records element-wise: base quantities are added and assets
// are merged with per-key addition. The result has no identity.
// Returns ErrOverflow if any dimension cannot be represented.
func Combine(records ...Record) (Record, error) {
	total := Zero()
	for _, r := range records {
		var ok bool
		if total.Quantity, ok = add(total.Quantity, r.Quantity); !ok {
			return Record{}, ErrOverflowOnQuantity()
		}
		for k, v := range r.Assets {
			if v == 0 {
				continue
			}
			if total.Assets[k], ok = add(total.Assets[k], v); !ok {
				return Record{}, ErrOverflowOnAsset(k)
			}
		}
	}
	return total, nil
}

// Difference returns a - b. It must only be called when a dominates b;
// otherwise it panics with *InvariantError.
// Assets of a absent from b are kept; entries that reach zero are dropped.
func Difference(a, b Record) Record {
	if a.Quantity < b.Quantity {
		panic(&InvariantError{Dimension: "quantity", Minuend: a.Quantity, Sub: b.Quantity})
	}
	out := Record{
		Quantity: a.Quantity - b.Quantity,
		Assets:   a.Assets.Clone(),
	}
	for k, v := range b.Assets {
		if v == 0 {
			continue
		}
		have := out.Assets[k]
		if have < v {
			panic(&InvariantError{Dimension: "asset " + k.String(), Minuend: have, Sub: v})
		}
		out.InsertAsset(k, have-v)
	}
	return out
}

// AddAsset adds quantity to the asset held by r.
// Returns ErrOverflow if the new quantity cannot be represented.
func (r *Record) AddAsset(id AssetID, quantity uint64) error {
	sum, ok := add(r.Assets[id], quantity)
	if !ok {
		return ErrOverflowOnAsset(id)
	}
	r.InsertAsset(id, sum)
	return nil
}
