// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateTicketCode returns the opaque token encoded into the ticket's QR
// code. The "np_" prefix makes scanned junk easy to reject.
func GenerateTicketCode() (string, error) {
	randomPart, err := GenerateRandomString(32)
	if err != nil {
		return "", err
	}
	return "np_" + randomPart, nil
}

// IdempotencyKey derives a stable key for a purchase submission from the
// identifying cart fields. Retrying the same cart with the same nonce hashes
// to the same key, so the payment intent is created at most once.
func IdempotencyKey(parts ...string) string {
	hasher := sha256.New()
	hasher.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hasher.Sum(nil))
}

// PurchaseIdempotencyKey builds the key for a ticket purchase.
func PurchaseIdempotencyKey(userID, eventID, ticketType string, quantity int, nonce string) string {
	return IdempotencyKey(userID, eventID, ticketType, fmt.Sprintf("%d", quantity), nonce)
}

func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}
