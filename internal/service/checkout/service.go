package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/payment"
	"shopfront/internal/service/address"
	"shopfront/internal/service/cart"
)

type carts interface {
	Get(ctx context.Context, sess cart.Session) (domain.Cart, error)
	Clear(ctx context.Context, sess cart.Session) (domain.Cart, error)
}

type addresses interface {
	Get(ctx context.Context, sess address.Session, addressID int64) (domain.Address, error)
	Default(ctx context.Context, sess address.Session) (domain.Address, error)
}

type orders interface {
	ListPriceRules(ctx context.Context) ([]commerce.PriceRule, error)
	CreateOrder(ctx context.Context, in commerce.OrderRequest) (*commerce.Order, error)
	GetOrder(ctx context.Context, id int64) (*commerce.Order, error)
	ListOrders(ctx context.Context, customerID int64) ([]commerce.Order, error)
}

type gateway interface {
	CreateSession(ctx context.Context, lines []domain.CartLine, discount decimal.Decimal, currency string) (payment.Session, error)
	Outcome(url string) payment.Outcome
	Confirm(ctx context.Context, sessionID string, total decimal.Decimal, currency string) error
}

// Service prices carts and turns them into orders.
type Service struct {
	carts     carts
	addresses addresses
	orders    orders
	payments  gateway
	logger    *zap.Logger
	now       func() time.Time
}

func New(carts carts, addresses addresses, orders orders, payments gateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{carts: carts, addresses: addresses, orders: orders, payments: payments, logger: logger, now: time.Now}
}

// Quote is the price of the current cart with an optional coupon applied.
type Quote struct {
	Subtotal decimal.Decimal   `json:"subtotal"`
	Discount decimal.Decimal   `json:"discount"`
	Total    decimal.Decimal   `json:"total"`
	Currency string            `json:"currency"`
	Rule     *domain.PriceRule `json:"priceRule,omitempty"`
}

// PlaceOrderInput selects how the cart is ordered. AddressID zero uses the default address.
type PlaceOrderInput struct {
	AddressID     int64                `json:"addressId"`
	CouponCode    string               `json:"couponCode"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	// RedirectURL is where the payer landed after a card checkout, PaymentSessionID the checkout
	// it belongs to. Both are required for card payments.
	RedirectURL      string `json:"redirectUrl"`
	PaymentSessionID string `json:"paymentSessionId"`
}

// PriceRules lists the rules active now.
func (s *Service) PriceRules(ctx context.Context) ([]domain.PriceRule, error) {
	rules, err := s.orders.ListPriceRules(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]domain.PriceRule, 0, len(rules))
	for _, r := range rules {
		if d := r.Domain(); d.Active(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

// PreviewCoupon prices the cart with code applied. An empty code prices it without discount.
func (s *Service) PreviewCoupon(ctx context.Context, sess cart.Session, code string) (Quote, error) {
	c, err := s.carts.Get(ctx, sess)
	if err != nil {
		return Quote{}, err
	}
	rule, err := s.resolveCoupon(ctx, code)
	if err != nil {
		return Quote{}, err
	}
	return quote(c, rule), nil
}

// StartCardPayment opens a hosted checkout for the cart.
func (s *Service) StartCardPayment(ctx context.Context, sess cart.Session, code string) (payment.Session, error) {
	if !sess.Snapshot().LoggedIn {
		return payment.Session{}, domain.ErrNotLoggedIn
	}
	c, err := s.carts.Get(ctx, sess)
	if err != nil {
		return payment.Session{}, err
	}
	if len(c.Lines) == 0 {
		return payment.Session{}, domain.ErrEmptyCart
	}
	rule, err := s.resolveCoupon(ctx, code)
	if err != nil {
		return payment.Session{}, err
	}
	q := quote(c, rule)
	return s.payments.CreateSession(ctx, c.Lines, q.Discount, c.Currency)
}

// ResolveRedirect classifies where a payer navigated.
func (s *Service) ResolveRedirect(url string) payment.Outcome {
	return s.payments.Outcome(url)
}

// PlaceOrder submits the cart as one order and empties the cart.
func (s *Service) PlaceOrder(ctx context.Context, sess cart.Session, in PlaceOrderInput) (domain.Order, error) {
	st := sess.Snapshot()
	if !st.LoggedIn || st.CustomerID <= 0 {
		return domain.Order{}, domain.ErrNotLoggedIn
	}
	financialStatus, err := s.financialStatus(in)
	if err != nil {
		return domain.Order{}, err
	}
	c, err := s.carts.Get(ctx, sess)
	if err != nil {
		return domain.Order{}, err
	}
	if len(c.Lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}
	addr, err := s.shippingAddress(ctx, sess, in.AddressID)
	if err != nil {
		return domain.Order{}, err
	}
	rule, err := s.resolveCoupon(ctx, in.CouponCode)
	if err != nil {
		return domain.Order{}, err
	}
	q := quote(c, rule)
	if in.PaymentMethod == domain.PaymentCard {
		if err := s.payments.Confirm(ctx, in.PaymentSessionID, q.Total, c.Currency); err != nil {
			return domain.Order{}, err
		}
	}

	wireAddr := commerce.AddressFromDomain(addr)
	wireAddr.ID = 0
	req := commerce.OrderRequest{
		Customer:        &commerce.CustomerRef{ID: st.CustomerID},
		Email:           st.Email,
		ShippingAddress: &wireAddr,
		BillingAddress:  &wireAddr,
		FinancialStatus: financialStatus,
		Currency:        c.Currency,
		SendReceipt:     true,
	}
	for _, l := range c.Lines {
		req.LineItems = append(req.LineItems, commerce.OrderLineItem{
			VariantID: l.VariantID,
			Title:     l.Title,
			Price:     commerce.FormatPrice(l.Price),
			Quantity:  l.Quantity,
		})
	}
	if rule != nil {
		req.DiscountCodes = []commerce.DiscountCode{{
			Code:   rule.Title,
			Amount: commerce.FormatPrice(q.Discount),
			Type:   string(domain.DiscountFixedAmount),
		}}
	}

	placed, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Warn("place order", zap.Int64("customer_id", st.CustomerID), zap.Error(err))
		return domain.Order{}, err
	}
	s.logger.Info("order placed", zap.Int64("customer_id", st.CustomerID), zap.Int64("order_id", placed.ID))
	if _, err := s.carts.Clear(ctx, sess); err != nil {
		s.logger.Warn("clear cart after order", zap.Int64("order_id", placed.ID), zap.Error(err))
	}
	return placed.Domain(), nil
}

// Orders lists the customer's orders.
func (s *Service) Orders(ctx context.Context, sess cart.Session) ([]domain.Order, error) {
	st := sess.Snapshot()
	if !st.LoggedIn || st.CustomerID <= 0 {
		return nil, domain.ErrNotLoggedIn
	}
	list, err := s.orders.ListOrders(ctx, st.CustomerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(list))
	for _, o := range list {
		out = append(out, o.Domain())
	}
	return out, nil
}

// Order returns one of the customer's orders. Orders of other customers are not found.
func (s *Service) Order(ctx context.Context, sess cart.Session, id int64) (domain.Order, error) {
	st := sess.Snapshot()
	if !st.LoggedIn || st.CustomerID <= 0 {
		return domain.Order{}, domain.ErrNotLoggedIn
	}
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Customer == nil || o.Customer.ID != st.CustomerID {
		return domain.Order{}, domain.NewError(domain.KindNotFound, "order not found")
	}
	return o.Domain(), nil
}

func (s *Service) financialStatus(in PlaceOrderInput) (string, error) {
	switch in.PaymentMethod {
	case domain.PaymentCashOnDelivery:
		return "pending", nil
	case domain.PaymentCard:
		if s.payments == nil || s.payments.Outcome(in.RedirectURL) != payment.OutcomeCompleted {
			return "", domain.ErrPaymentIncomplete
		}
		return "paid", nil
	default:
		return "", domain.NewValidationError("paymentMethod", "payment method must be cod or card")
	}
}

func (s *Service) shippingAddress(ctx context.Context, sess cart.Session, addressID int64) (domain.Address, error) {
	if addressID > 0 {
		return s.addresses.Get(ctx, sess, addressID)
	}
	return s.addresses.Default(ctx, sess)
}

// resolveCoupon finds the active rule titled code. An empty code resolves to no rule.
func (s *Service) resolveCoupon(ctx context.Context, code string) (*domain.PriceRule, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	rules, err := s.PriceRules(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range rules {
		if r.Title == code {
			return &r, nil
		}
	}
	return nil, domain.ErrInvalidCoupon
}

func quote(c domain.Cart, rule *domain.PriceRule) Quote {
	q := Quote{Subtotal: c.Subtotal, Discount: decimal.Zero, Currency: c.Currency, Rule: rule}
	if rule != nil {
		q.Discount = rule.Discount(c.Subtotal)
	}
	q.Total = q.Subtotal.Sub(q.Discount)
	return q
}
