package domain

import "github.com/shopspring/decimal"

// CartLine is one real product line of the cart draft order.
type CartLine struct {
	LineItemID int64           `json:"lineItemId,omitempty"`
	ProductID  int64           `json:"productId"`
	VariantID  int64           `json:"variantId,omitempty"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	ImageURL   string          `json:"imageUrl,omitempty"`
}

// Total is the line price multiplied by its quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the cart draft order without its placeholder item.
type Cart struct {
	ListID    int64           `json:"listId"`
	Lines     []CartLine      `json:"lineItems"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Currency  string          `json:"currency,omitempty"`
}

// NewCart computes the derived totals for lines.
func NewCart(listID int64, lines []CartLine, currency string) Cart {
	if lines == nil {
		lines = []CartLine{}
	}
	cart := Cart{ListID: listID, Lines: lines, Currency: currency, Subtotal: decimal.Zero}
	for _, l := range lines {
		cart.ItemCount += l.Quantity
		cart.Subtotal = cart.Subtotal.Add(l.Total())
	}
	return cart
}

// Favorite is one product tagged in the favorites draft order.
type Favorite struct {
	ProductID int64           `json:"productId"`
	VariantID int64           `json:"variantId,omitempty"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
}

// Favorites is the favorites draft order without its placeholder item.
type Favorites struct {
	ListID int64      `json:"listId"`
	Items  []Favorite `json:"items"`
}
