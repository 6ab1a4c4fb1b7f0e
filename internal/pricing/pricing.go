// internal/pricing/pricing.go
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/nightpulse/backend/internal/models"
)

// ServiceFeeRate is the platform's cut of every ticket sale.
var ServiceFeeRate = decimal.NewFromFloat(0.10)

// GroupBonusRate is the extra points rate for group tickets.
var GroupBonusRate = decimal.NewFromFloat(0.10)

var (
	ErrInvalidQuantity = errors.New("pricing: quantity must be at least 1")
	ErrInvalidPrice    = errors.New("pricing: unit price must not be negative")
)

// Quote is the full price and points breakdown shown to the user before
// purchase and recorded on the transaction afterwards. The same quote feeds
// every display site so the numbers never diverge.
type Quote struct {
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	Total       decimal.Decimal `json:"total"`
	BasePoints  int64           `json:"base_points"`
	BonusPoints int64           `json:"bonus_points"`
	TotalPoints int64           `json:"total_points"`
}

// NewQuote computes subtotal, service fee, total and points for a cart line.
func NewQuote(unitPrice float64, quantity int, ticketType models.TicketType) (*Quote, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return nil, ErrInvalidPrice
	}

	unit := decimal.NewFromFloat(unitPrice).Round(2)
	subtotal := unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	fee := ServiceFee(subtotal)
	total := subtotal.Add(fee)

	base, bonus := PointsFor(total, ticketType)

	return &Quote{
		UnitPrice:   unit,
		Quantity:    quantity,
		Subtotal:    subtotal,
		ServiceFee:  fee,
		Total:       total,
		BasePoints:  base,
		BonusPoints: bonus,
		TotalPoints: base + bonus,
	}, nil
}

// ServiceFee returns the 10% platform fee rounded to two decimal places.
func ServiceFee(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(ServiceFeeRate).Round(2)
}

// PointsFor returns base and bonus loyalty points for a charged total.
// Base points are the whole-dollar part of the total; group tickets earn an
// extra 10%, floored.
func PointsFor(total decimal.Decimal, ticketType models.TicketType) (base, bonus int64) {
	base = total.Floor().IntPart()
	if ticketType == models.TicketTypeGroup {
		bonus = total.Mul(GroupBonusRate).Floor().IntPart()
	}
	return base, bonus
}

// FeeCents and TotalCents convert the quote to Stripe's minor units.
func (q *Quote) FeeCents() int64 {
	return q.ServiceFee.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (q *Quote) TotalCents() int64 {
	return q.Total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
