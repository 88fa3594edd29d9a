package binding

import (
	"errors"
	"fmt"

	"github.com/TEENet-io/cardano-utxo/utxo"
)

var ErrEmptyTxHash = errors.New("transaction id has an empty hash")

// ToRecord converts an output document into a record.
// Repeated entries of the same asset are summed.
func ToRecord(o Output) (utxo.Record, error) {
	r := utxo.Record{
		Quantity: o.Lovelace,
		Assets:   utxo.Assets{},
	}
	if o.ID != nil {
		if o.ID.Hash == "" {
			return utxo.Record{}, ErrEmptyTxHash
		}
		r.ID = &utxo.TransactionID{Hash: o.ID.Hash, Index: o.ID.Index}
	}

	for _, a := range o.Assets {
		id := utxo.AssetID{PolicyID: a.PolicyID, AssetName: a.AssetName}
		if err := r.AddAsset(id, a.Quantity); err != nil {
			return utxo.Record{}, err
		}
	}
	return r, nil
}

func ToRecords(outputs []Output) ([]utxo.Record, error) {
	records := make([]utxo.Record, 0, len(outputs))
	for i, o := range outputs {
		r, err := ToRecord(o)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// FromRecord converts a record into an output document.
// Assets are listed by policy id, then asset name.
func FromRecord(r utxo.Record) Output {
	o := Output{
		Lovelace: r.Quantity,
		Assets:   []Asset{},
	}
	if r.ID != nil {
		o.ID = &TransactionID{Hash: r.ID.Hash, Index: r.ID.Index}
	}
	for _, k := range r.Assets.Keys() {
		o.Assets = append(o.Assets, Asset{
			PolicyID:  k.PolicyID,
			AssetName: k.AssetName,
			Quantity:  r.Assets[k],
		})
	}
	return o
}

func FromRecords(records []utxo.Record) []Output {
	outputs := make([]Output, 0, len(records))
	for _, r := range records {
		outputs = append(outputs, FromRecord(r))
	}
	return outputs
}
