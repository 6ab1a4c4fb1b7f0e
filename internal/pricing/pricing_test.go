// internal/pricing/pricing_test.go
package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightpulse/backend/internal/models"
)

func TestServiceFeeIsTenPercentRounded(t *testing.T) {
	cases := []struct {
		subtotal string
		fee      string
	}{
		{"0", "0"},
		{"10.00", "1.00"},
		{"149.97", "15.00"},
		{"0.05", "0.01"},
		{"99.99", "10.00"},
		{"33.33", "3.33"},
	}

	for _, tc := range cases {
		subtotal, err := decimal.NewFromString(tc.subtotal)
		require.NoError(t, err)
		expected, err := decimal.NewFromString(tc.fee)
		require.NoError(t, err)

		fee := ServiceFee(subtotal)
		assert.True(t, expected.Equal(fee), "subtotal %s: expected fee %s, got %s", tc.subtotal, tc.fee, fee)
	}
}

func TestTotalIsSubtotalPlusFee(t *testing.T) {
	quote, err := NewQuote(25.50, 2, models.TicketTypeIndividual)
	require.NoError(t, err)

	assert.True(t, quote.Total.Equal(quote.Subtotal.Add(quote.ServiceFee)))
}

func TestGroupQuoteExample(t *testing.T) {
	// $49.99 x 3 group tickets
	quote, err := NewQuote(49.99, 3, models.TicketTypeGroup)
	require.NoError(t, err)

	assert.Equal(t, "149.97", quote.Subtotal.StringFixed(2))
	assert.Equal(t, "15.00", quote.ServiceFee.StringFixed(2))
	assert.Equal(t, "164.97", quote.Total.StringFixed(2))
	assert.Equal(t, int64(164), quote.BasePoints)
	assert.Equal(t, int64(16), quote.BonusPoints)
	assert.Equal(t, int64(180), quote.TotalPoints)
}

func TestIndividualTicketsEarnNoBonus(t *testing.T) {
	quote, err := NewQuote(49.99, 3, models.TicketTypeIndividual)
	require.NoError(t, err)

	assert.Equal(t, int64(164), quote.BasePoints)
	assert.Equal(t, int64(0), quote.BonusPoints)
	assert.Equal(t, int64(164), quote.TotalPoints)
}

func TestQuoteRejectsBadInput(t *testing.T) {
	_, err := NewQuote(10.00, 0, models.TicketTypeIndividual)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewQuote(-1.00, 1, models.TicketTypeIndividual)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestQuoteCentsConversion(t *testing.T) {
	quote, err := NewQuote(49.99, 3, models.TicketTypeGroup)
	require.NoError(t, err)

	assert.Equal(t, int64(16497), quote.TotalCents())
	assert.Equal(t, int64(1500), quote.FeeCents())
}

func TestFreeTicketsQuoteToZero(t *testing.T) {
	quote, err := NewQuote(0, 5, models.TicketTypeGroup)
	require.NoError(t, err)

	assert.True(t, quote.Total.IsZero())
	assert.Equal(t, int64(0), quote.TotalPoints)
}
