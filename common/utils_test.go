package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandTxHash(t *testing.T) {
	h := RandTxHash()
	assert.Len(t, h, 64)
	assert.True(t, IsHexString(h))
	assert.NotEqual(t, h, RandTxHash())
}

func TestIsHexString(t *testing.T) {
	assert.True(t, IsHexString("0xabCD01"))
	assert.True(t, IsHexString(""))
	assert.False(t, IsHexString("abc"))
	assert.False(t, IsHexString("hash1!"))
}

func TestIsHash(t *testing.T) {
	h := RandTxHash()
	assert.True(t, IsHash(h))
	assert.True(t, IsHash("0x"+h))
	assert.False(t, IsHash("ab"))
	assert.False(t, IsHash("0xab"))
	assert.False(t, IsHash(h+"00"))
	assert.False(t, IsHash(h[:62]+"zz"))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abcd...6789", Shorten("0xabcdef0123456789", 4))
	assert.Equal(t, "abcd", Shorten("abcd", 4))
}
