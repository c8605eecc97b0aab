package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentCard           PaymentMethod = "card"
)

// Order is a placed order as returned by the backend.
type Order struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	Currency        string          `json:"currency"`
	FinancialStatus string          `json:"financialStatus"`
	SubtotalPrice   decimal.Decimal `json:"subtotalPrice"`
	TotalDiscounts  decimal.Decimal `json:"totalDiscounts"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Lines           []OrderLine     `json:"lineItems"`
	ShippingAddress *Address        `json:"shippingAddress,omitempty"`
}

// OrderLine is an ordered product line.
type OrderLine struct {
	ProductID int64           `json:"productId,omitempty"`
	VariantID int64           `json:"variantId,omitempty"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// DiscountType distinguishes percentage and fixed-amount rules.
type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// PriceRule is a promotional rule. Its title doubles as the coupon code.
type PriceRule struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	ValueType DiscountType    `json:"valueType"`
	Value     decimal.Decimal `json:"value"`
	StartsAt  *time.Time      `json:"startsAt,omitempty"`
	EndsAt    *time.Time      `json:"endsAt,omitempty"`
}

// Amount is the positive discount magnitude of the rule.
func (r PriceRule) Amount() decimal.Decimal {
	return r.Value.Abs()
}

// Active reports whether the rule applies at now.
func (r PriceRule) Active(now time.Time) bool {
	if r.StartsAt != nil && now.Before(*r.StartsAt) {
		return false
	}
	if r.EndsAt != nil && now.After(*r.EndsAt) {
		return false
	}
	return true
}

// Discount computes the discount applied to subtotal, never exceeding it.
func (r PriceRule) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch r.ValueType {
	case DiscountPercentage:
		d = subtotal.Mul(r.Amount()).Div(decimal.NewFromInt(100)).Round(2)
	default:
		d = r.Amount()
	}
	if d.GreaterThan(subtotal) {
		return subtotal
	}
	return d
}
