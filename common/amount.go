package common

import (
	"errors"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// One ADA is 1e6 lovelace.
const LOVELACE_DECIMALS int32 = 6

var (
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrAmountPrecision = errors.New("amount has more than 6 decimals")
	ErrAmountTooLarge  = errors.New("amount does not fit in 64 bits")

	maxLovelace = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)
)

// LovelaceToAda returns a human readable amount in ADA
// eg. 1_500_000 (lovelace) = 1.5 (ADA)
func LovelaceToAda(lovelace uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lovelace), -LOVELACE_DECIMALS)
}

// FormatAda prints the amount with all 6 decimals, eg. "1.500000".
func FormatAda(lovelace uint64) string {
	return LovelaceToAda(lovelace).StringFixed(LOVELACE_DECIMALS)
}

// AdaToLovelace parses a human readable ADA amount.
func AdaToLovelace(ada string) (uint64, error) {
	d, err := decimal.NewFromString(ada)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	l := d.Shift(LOVELACE_DECIMALS)
	if !l.Equal(l.Truncate(0)) {
		return 0, ErrAmountPrecision
	}
	if l.GreaterThan(maxLovelace) {
		return 0, ErrAmountTooLarge
	}
	return l.BigInt().Uint64(), nil
}
