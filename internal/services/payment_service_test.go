// internal/services/payment_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/models"
)

// Losing the insert race on the idempotency_key index must be recognizable
// so the loser can resume the winner's intent instead of failing the cart.
func TestUniqueViolationDetection(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New(
		`pq: duplicate key value violates unique constraint "idx_payment_transactions_idempotency_key"`)))

	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
}

func TestResumeIntentRejectsCompletedTransaction(t *testing.T) {
	s := &PaymentService{}
	tx := &models.PaymentTransaction{
		Status:          models.TransactionStatusCompleted,
		PaymentIntentID: "pi_123",
	}

	resp, err := s.resumeIntent(tx, nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "already been completed")
}

func TestResumeIntentWithoutIntentAsksForRetry(t *testing.T) {
	s := &PaymentService{}
	tx := &models.PaymentTransaction{Status: models.TransactionStatusProcessing}

	resp, err := s.resumeIntent(tx, nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "retry")
}
