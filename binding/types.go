/*
This file contains the documents exchanged with callers.
They mirror the shapes used by the JavaScript wallets:

	Output       = { id?: TransactionID, lovelace, assets: Asset[] }
	SelectResult = { selected: Output[], unselected: Output[], excess: Output }
*/
package binding

type TransactionID struct {
	Hash  string `json:"hash" yaml:"hash"`
	Index uint32 `json:"index" yaml:"index"`
}

type Asset struct {
	PolicyID  string `json:"policyId" yaml:"policyId"`
	AssetName string `json:"assetName" yaml:"assetName"`
	Quantity  uint64 `json:"quantity" yaml:"quantity"`
}

type Output struct {
	ID       *TransactionID `json:"id,omitempty" yaml:"id,omitempty"`
	Lovelace uint64         `json:"lovelace" yaml:"lovelace"`
	Assets   []Asset        `json:"assets" yaml:"assets"`
}

// SelectRequest asks for inputs covering the sum of outputs plus threshold.
// A missing threshold means zero.
type SelectRequest struct {
	Inputs    []Output `json:"inputs" yaml:"inputs"`
	Outputs   []Output `json:"outputs" yaml:"outputs"`
	Threshold *Output  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

type SelectResult struct {
	Selected   []Output `json:"selected" yaml:"selected"`
	Unselected []Output `json:"unselected" yaml:"unselected"`
	Excess     Output   `json:"excess" yaml:"excess"`
}
