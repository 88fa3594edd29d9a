package common

import (
	"crypto/rand"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// The returned string has No 0x prefix
func ByteSliceToPureHexStr(b []byte) string {
	return Trim0xPrefix(ethcommon.Bytes2Hex(b))
}

// HexStrToHash converts a hex string (with/without prefix 0x) to ethcommon.Hash
func HexStrToHash(hexStr string) ethcommon.Hash {
	return ethcommon.HexToHash(hexStr)
}

// Trim 0x or 0X prefix off the string.
func Trim0xPrefix(str string) string {
	s := strings.TrimPrefix(str, "0x")
	return strings.TrimPrefix(s, "0X")
}

// RandBytes32 generates [32]byte with random values
func RandBytes32() [32]byte {
	var b [32]byte
	n, err := rand.Read(b[:])
	if err != nil || n != 32 {
		return [32]byte{}
	}
	return b
}

// RandTxHash returns a random 64-character tx hash (no 0x prefix),
// shaped like a Cardano transaction hash.
func RandTxHash() string {
	b := RandBytes32()
	return ByteSliceToPureHexStr(b[:])
}

// Shorten shortens a hex string so that both sides have n characters and
// the rest is replaced with "..."
func Shorten(hexStr string, n int) string {
	str := Trim0xPrefix(hexStr)

	if len(str) <= n*2 {
		return str
	}
	return str[:n] + "..." + str[len(str)-n:]
}

// IsHexString reports whether s (without prefix) only contains hex
// characters and has an even length.
func IsHexString(s string) bool {
	s = Trim0xPrefix(s)
	if len(s)%2 != 0 {
		return false
	}
	for _, c := range s {
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsHash reports whether s (with or without prefix) is exactly 32 bytes
// of hex, eg. a lock id.
func IsHash(s string) bool {
	return len(Trim0xPrefix(s)) == 2*ethcommon.HashLength && IsHexString(s)
}
