package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenGenerator(t *testing.T) {
	g := NewTokenGenerator()

	card := g.CardToken()
	receipt := g.ReceiptCode()
	assert.True(t, strings.HasPrefix(card, "CARD-"))
	assert.True(t, strings.HasPrefix(receipt, "RCP-"))

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := g.ReceiptCode()
		assert.False(t, seen[code], "receipt codes must be unique")
		seen[code] = true
	}
}

func TestRandomLast4(t *testing.T) {
	for i := 0; i < 100; i++ {
		last4, err := RandomLast4()
		require.NoError(t, err)
		require.Len(t, last4, 4)
		for _, c := range last4 {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestNormalizeAccountKind(t *testing.T) {
	assert.Equal(t, "checking", NormalizeAccountKind(""))
	assert.Equal(t, "checking", NormalizeAccountKind("  "))
	assert.Equal(t, "savings", NormalizeAccountKind("savings"))
	assert.Equal(t, "checking", NormalizeAccountKind("Checking"))
}
