package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMentorShare(t *testing.T) {
	assert.Equal(t, 8.0, MentorShare(10))
	assert.Equal(t, 0.08, MentorShare(0.1))
	assert.Equal(t, 0.0, MentorShare(0))

	// Rounded to six decimal places
	assert.Equal(t, 0.266667, MentorShare(0.333333333))
}

func TestWeiToNative(t *testing.T) {
	// 1 ETH-style unit = 1e18 wei
	v, err := WeiToNative("0xde0b6b3a7640000")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = WeiToNative("0x0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	// 0.5 native units
	v, err = WeiToNative("0x6f05b59d3b20000")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	_, err = WeiToNative("")
	assert.Error(t, err)

	_, err = WeiToNative("0xzz")
	assert.Error(t, err)
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0xabcdef", NormalizeAddress("0xABCdef"))
	assert.Equal(t, "0xabc", NormalizeAddress("  0xAbC  "))
}

func TestGenerateUniqueCode(t *testing.T) {
	code := GenerateUniqueCode()
	require.Len(t, code, 7)

	for _, r := range code[:5] {
		assert.True(t, r >= '0' && r <= '9', "first five characters must be digits")
	}
	for _, r := range code[5:] {
		assert.True(t, r >= 'A' && r <= 'Z', "last two characters must be uppercase letters")
	}
}
