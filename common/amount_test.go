package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAda(t *testing.T) {
	assert.Equal(t, "0.000000", FormatAda(0))
	assert.Equal(t, "1.500000", FormatAda(1_500_000))
	assert.Equal(t, "0.001200", FormatAda(1200))
	assert.Equal(t, "18446744073709.551615", FormatAda(math.MaxUint64))
}

func TestAdaToLovelace(t *testing.T) {
	l, err := AdaToLovelace("1.5")
	assert.NoError(t, err)
	assert.Equal(t, uint64(1_500_000), l)

	l, err = AdaToLovelace("18446744073709.551615")
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), l)

	_, err = AdaToLovelace("18446744073709.551616")
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	_, err = AdaToLovelace("-1")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = AdaToLovelace("0.0000001")
	assert.ErrorIs(t, err, ErrAmountPrecision)

	_, err = AdaToLovelace("ada")
	assert.Error(t, err)
}
