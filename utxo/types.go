/*
This file contains the low-level data structures of the multi-asset ledger model.
  - TransactionID: the locator of a spendable output (tx hash + output index).
  - AssetID: the compound key of a native asset (policy id + asset name).
  - Assets: asset quantities keyed by AssetID.
  - Record: the value carried by an output (base quantity + assets).
*/
package utxo

import (
	"cmp"
	"fmt"
	"slices"
)

// TransactionID locates an output on chain.
// The selection engine never interprets it.
type TransactionID struct {
	Hash  string // source transaction hash, human readable
	Index uint32 // exact index of the Tx's outputs to be spent
}

func (id TransactionID) String() string {
	return fmt.Sprintf("%s#%d", id.Hash, id.Index)
}

// AssetID identifies a native asset by its minting policy and name.
type AssetID struct {
	PolicyID  string
	AssetName string
}

func (a AssetID) String() string {
	return a.PolicyID + "/" + a.AssetName
}

// Compare orders asset ids by policy id, then by asset name.
func (a AssetID) Compare(b AssetID) int {
	if c := cmp.Compare(a.PolicyID, b.PolicyID); c != 0 {
		return c
	}
	return cmp.Compare(a.AssetName, b.AssetName)
}

// Assets maps asset ids to quantities.
// A missing key and a zero quantity mean the same thing.
type Assets map[AssetID]uint64

// Keys returns the asset ids holding a positive quantity, sorted.
func (as Assets) Keys() []AssetID {
	keys := make([]AssetID, 0, len(as))
	for k, v := range as {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, AssetID.Compare)
	return keys
}

// Get returns the quantity of the asset, 0 if absent.
func (as Assets) Get(id AssetID) uint64 {
	return as[id]
}

// Clone returns a copy without zero-valued entries.
func (as Assets) Clone() Assets {
	out := make(Assets, len(as))
	for k, v := range as {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// Equal reports whether both hold the same positive quantities.
func (as Assets) Equal(other Assets) bool {
	for k, v := range as {
		if other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if as[k] != v {
			return false
		}
	}
	return true
}

// Record is the value carried by an output: a base quantity (lovelace)
// plus any number of native assets.
// ID is nil for synthetic records (targets, thresholds, excess).
type Record struct {
	ID       *TransactionID
	Quantity uint64
	Assets   Assets
}

// Zero returns the neutral record.
func Zero() Record {
	return Record{Assets: Assets{}}
}

// InsertAsset sets the quantity of an asset. Setting 0 removes it.
func (r *Record) InsertAsset(id AssetID, quantity uint64) {
	if quantity == 0 {
		delete(r.Assets, id)
		return
	}
	if r.Assets == nil {
		r.Assets = Assets{}
	}
	r.Assets[id] = quantity
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := Record{
		Quantity: r.Quantity,
		Assets:   r.Assets.Clone(),
	}
	if r.ID != nil {
		id := *r.ID
		out.ID = &id
	}
	return out
}

// IsZero reports whether the record carries no value at all.
func (r Record) IsZero() bool {
	return r.Quantity == 0 && len(r.Assets.Keys()) == 0
}

// Equal compares value only; identities are ignored.
func (r Record) Equal(other Record) bool {
	return r.Quantity == other.Quantity && r.Assets.Equal(other.Assets)
}

// SameIdentity reports whether both records point to the same output.
func (r Record) SameIdentity(other Record) bool {
	if r.ID == nil || other.ID == nil {
		return r.ID == nil && other.ID == nil
	}
	return *r.ID == *other.ID
}

// Dominates reports whether r covers need on the base quantity and on
// every asset held by need. Assets absent from need are ignored.
func (r Record) Dominates(need Record) bool {
	if r.Quantity < need.Quantity {
		return false
	}
	for k, v := range need.Assets {
		if r.Assets[k] < v {
			return false
		}
	}
	return true
}

func (r Record) String() string {
	id := "-"
	if r.ID != nil {
		id = r.ID.String()
	}
	s := fmt.Sprintf("{id=%s quantity=%d", id, r.Quantity)
	for _, k := range r.Assets.Keys() {
		s += fmt.Sprintf(" %s=%d", k, r.Assets[k])
	}
	return s + "}"
}
