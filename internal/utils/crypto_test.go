// internal/utils/crypto_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTicketCode(t *testing.T) {
	code, err := GenerateTicketCode()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "np_"))
	assert.Len(t, code, 35)

	other, err := GenerateTicketCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestPurchaseIdempotencyKeyIsStable(t *testing.T) {
	a := PurchaseIdempotencyKey("user-1", "event-1", "group", 3, "nonce-abc")
	b := PurchaseIdempotencyKey("user-1", "event-1", "group", 3, "nonce-abc")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestPurchaseIdempotencyKeyChangesWithCart(t *testing.T) {
	base := PurchaseIdempotencyKey("user-1", "event-1", "group", 3, "nonce-abc")

	assert.NotEqual(t, base, PurchaseIdempotencyKey("user-2", "event-1", "group", 3, "nonce-abc"))
	assert.NotEqual(t, base, PurchaseIdempotencyKey("user-1", "event-2", "group", 3, "nonce-abc"))
	assert.NotEqual(t, base, PurchaseIdempotencyKey("user-1", "event-1", "individual", 3, "nonce-abc"))
	assert.NotEqual(t, base, PurchaseIdempotencyKey("user-1", "event-1", "group", 2, "nonce-abc"))
	assert.NotEqual(t, base, PurchaseIdempotencyKey("user-1", "event-1", "group", 3, "nonce-xyz"))
}

func TestIdempotencyKeySeparatorMatters(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide.
	assert.NotEqual(t, IdempotencyKey("ab", "c"), IdempotencyKey("a", "bc"))
}

func TestGenerateRandomStringLength(t *testing.T) {
	s, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 16)
}
