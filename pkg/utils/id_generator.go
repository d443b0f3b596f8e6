package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TokenGenerator generates opaque identifiers for cards and receipts.
// ULIDs are sortable and URL-safe, which keeps card tokens usable as
// path/query values without escaping.
type TokenGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// CardToken generates a card token.
// Format: CARD-{ULID}
// Example: CARD-01ARZ3NDEKTSV4RRFFQ69G5FAV
func (g *TokenGenerator) CardToken() string {
	return "CARD-" + g.generateULID()
}

// ReceiptCode generates a reference code for a committed ledger operation.
// Format: RCP-{ULID}
func (g *TokenGenerator) ReceiptCode() string {
	return "RCP-" + g.generateULID()
}

func (g *TokenGenerator) generateULID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
	return id.String()
}

// RandomLast4 returns four random digits for a freshly issued card.
// The real PAN never exists in this system, only a display suffix.
func RandomLast4() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate last4: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// NormalizeAccountKind lowercases and trims a caller-supplied account kind
// label, defaulting to "checking".
func NormalizeAccountKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return "checking"
	}
	return kind
}
