package utxo

// Filter returns the records for which wanted returns true, in order.
func Filter(inputs []Record, wanted func(Record) bool) []Record {
	var r []Record
	for _, item := range inputs {
		if wanted(item) {
			r = append(r, item)
		}
	}
	return r
}

// HasAsset matches records holding a positive amount of the asset.
func HasAsset(id AssetID) func(Record) bool {
	return func(r Record) bool {
		return r.Assets[id] > 0
	}
}

// PureLovelace matches records without any native asset.
func PureLovelace(r Record) bool {
	return len(r.Assets.Keys()) == 0
}
