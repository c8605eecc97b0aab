package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/payment"
	"shopfront/internal/service/address"
	"shopfront/internal/service/cart"
	"shopfront/internal/session"
)

type fakeSession struct{ st session.State }

func (f fakeSession) DeviceID() string { return "dev" }
func (f fakeSession) Snapshot() session.State { return f.st }
func (f fakeSession) SetCartListID(context.Context, int64) error { return nil }

var customer = fakeSession{st: session.State{LoggedIn: true, CustomerID: 7, Email: "ann@test", Currency: "USD"}}

type stubCarts struct {
	cart    domain.Cart
	cleared int
}

func (s *stubCarts) Get(context.Context, cart.Session) (domain.Cart, error) { return s.cart, nil }

func (s *stubCarts) Clear(context.Context, cart.Session) (domain.Cart, error) {
	s.cleared++
	return domain.NewCart(s.cart.ListID, nil, s.cart.Currency), nil
}

type stubAddresses struct {
	def *domain.Address
}

func (s stubAddresses) Get(_ context.Context, _ address.Session, id int64) (domain.Address, error) {
	if s.def != nil && s.def.ID == id {
		return *s.def, nil
	}
	return domain.Address{}, domain.NewError(domain.KindNotFound, "address not found")
}

func (s stubAddresses) Default(context.Context, address.Session) (domain.Address, error) {
	if s.def == nil {
		return domain.Address{}, domain.ErrMissingAddress
	}
	return *s.def, nil
}

type stubOrders struct {
	rules     []commerce.PriceRule
	requests  []commerce.OrderRequest
	createErr error
	order     *commerce.Order
}

func (s *stubOrders) ListPriceRules(context.Context) ([]commerce.PriceRule, error) {
	return s.rules, nil
}

func (s *stubOrders) CreateOrder(_ context.Context, in commerce.OrderRequest) (*commerce.Order, error) {
	s.requests = append(s.requests, in)
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &commerce.Order{ID: 1001, Name: "#1001", TotalPrice: "35.00"}, nil
}

func (s *stubOrders) GetOrder(context.Context, int64) (*commerce.Order, error) {
	return s.order, nil
}

func (s *stubOrders) ListOrders(context.Context, int64) ([]commerce.Order, error) {
	return []commerce.Order{{ID: 1}, {ID: 2}}, nil
}

type stubGateway struct {
	discount decimal.Decimal
	paid     map[string]decimal.Decimal
}

func (g *stubGateway) CreateSession(_ context.Context, _ []domain.CartLine, discount decimal.Decimal, _ string) (payment.Session, error) {
	g.discount = discount
	return payment.Session{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil
}

func (g *stubGateway) Outcome(url string) payment.Outcome {
	if url == "https://shop.test/success" {
		return payment.OutcomeCompleted
	}
	return payment.OutcomePending
}

func (g *stubGateway) Confirm(_ context.Context, sessionID string, total decimal.Decimal, _ string) error {
	amount, ok := g.paid[sessionID]
	if !ok || !amount.Equal(total) {
		return domain.ErrPaymentIncomplete
	}
	return nil
}

func testCart() domain.Cart {
	return domain.NewCart(9, []domain.CartLine{
		{ProductID: 1, VariantID: 11, Title: "Shoe", Price: decimal.RequireFromString("20.00"), Quantity: 2},
	}, "USD")
}

func rules() []commerce.PriceRule {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	return []commerce.PriceRule{
		{ID: 1, Title: "TENOFF", ValueType: "percentage", Value: "-10.0", StartsAt: &past},
		{ID: 2, Title: "FIVE", ValueType: "fixed_amount", Value: "-5.00"},
		{ID: 3, Title: "LATER", ValueType: "fixed_amount", Value: "-5.00", StartsAt: &future},
	}
}

func setup(c domain.Cart, def *domain.Address) (*Service, *stubCarts, *stubOrders, *stubGateway) {
	carts := &stubCarts{cart: c}
	orders := &stubOrders{rules: rules()}
	gw := &stubGateway{}
	return New(carts, stubAddresses{def: def}, orders, gw, nil), carts, orders, gw
}

func home() *domain.Address {
	return &domain.Address{ID: 3, Address1: "1 Main St", City: "Springfield", Country: "US", Phone: "5551234567", Default: true}
}

func TestPriceRulesSkipsInactive(t *testing.T) {
	svc, _, _, _ := setup(testCart(), nil)

	list, err := svc.PriceRules(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "TENOFF", list[0].Title)
}

func TestPreviewCoupon(t *testing.T) {
	svc, _, _, _ := setup(testCart(), nil)

	q, err := svc.PreviewCoupon(context.Background(), customer, "TENOFF")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("4").Equal(q.Discount), q.Discount.String())
	assert.True(t, decimal.RequireFromString("36").Equal(q.Total), q.Total.String())

	q, err = svc.PreviewCoupon(context.Background(), customer, "")
	require.NoError(t, err)
	assert.True(t, q.Discount.IsZero())

	_, err = svc.PreviewCoupon(context.Background(), customer, "tenoff")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.PreviewCoupon(context.Background(), customer, "LATER")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlaceOrderCashOnDelivery(t *testing.T) {
	svc, carts, orders, _ := setup(testCart(), home())

	o, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		CouponCode:    "FIVE",
		PaymentMethod: domain.PaymentCashOnDelivery,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1001), o.ID)
	require.Len(t, orders.requests, 1)
	req := orders.requests[0]
	assert.Equal(t, int64(7), req.Customer.ID)
	assert.Equal(t, "pending", req.FinancialStatus)
	assert.Equal(t, "Springfield", req.ShippingAddress.City)
	require.Len(t, req.LineItems, 1)
	assert.Equal(t, commerce.OrderLineItem{VariantID: 11, Title: "Shoe", Price: "20.00", Quantity: 2}, req.LineItems[0])
	require.Len(t, req.DiscountCodes, 1)
	assert.Equal(t, "5.00", req.DiscountCodes[0].Amount)
	assert.Equal(t, 1, carts.cleared)
}

func TestPlaceOrderPreconditions(t *testing.T) {
	cases := map[string]struct {
		sess   fakeSession
		cart   domain.Cart
		addr   *domain.Address
		input  PlaceOrderInput
		target error
	}{
		"guest":          {sess: fakeSession{}, cart: testCart(), addr: home(), input: PlaceOrderInput{PaymentMethod: domain.PaymentCashOnDelivery}, target: domain.ErrUnauthorized},
		"empty cart":     {sess: customer, cart: domain.NewCart(9, nil, "USD"), addr: home(), input: PlaceOrderInput{PaymentMethod: domain.PaymentCashOnDelivery}, target: domain.ErrBusiness},
		"no address":     {sess: customer, cart: testCart(), input: PlaceOrderInput{PaymentMethod: domain.PaymentCashOnDelivery}, target: domain.ErrBusiness},
		"bad coupon":     {sess: customer, cart: testCart(), addr: home(), input: PlaceOrderInput{PaymentMethod: domain.PaymentCashOnDelivery, CouponCode: "NOPE"}, target: domain.ErrValidation},
		"unpaid card":    {sess: customer, cart: testCart(), addr: home(), input: PlaceOrderInput{PaymentMethod: domain.PaymentCard, RedirectURL: "https://checkout.test/cs_1"}, target: domain.ErrPayment},
		"forged card":    {sess: customer, cart: testCart(), addr: home(), input: PlaceOrderInput{PaymentMethod: domain.PaymentCard, RedirectURL: "https://shop.test/success", PaymentSessionID: "cs_never_paid"}, target: domain.ErrPayment},
		"unknown method": {sess: customer, cart: testCart(), addr: home(), input: PlaceOrderInput{PaymentMethod: "barter"}, target: domain.ErrValidation},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc, carts, orders, _ := setup(tc.cart, tc.addr)

			_, err := svc.PlaceOrder(context.Background(), tc.sess, tc.input)

			assert.ErrorIs(t, err, tc.target)
			assert.Empty(t, orders.requests)
			assert.Zero(t, carts.cleared)
		})
	}
}

func TestPlaceOrderPaidByCard(t *testing.T) {
	svc, _, orders, gw := setup(testCart(), home())
	gw.paid = map[string]decimal.Decimal{"cs_1": decimal.NewFromInt(40)}

	_, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		AddressID:        3,
		PaymentMethod:    domain.PaymentCard,
		RedirectURL:      "https://shop.test/success",
		PaymentSessionID: "cs_1",
	})

	require.NoError(t, err)
	assert.Equal(t, "paid", orders.requests[0].FinancialStatus)
}

func TestPlaceOrderRejectsUnderpaidCardSession(t *testing.T) {
	svc, carts, orders, gw := setup(testCart(), home())
	gw.paid = map[string]decimal.Decimal{"cs_1": decimal.NewFromInt(1)}

	_, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		PaymentMethod:    domain.PaymentCard,
		RedirectURL:      "https://shop.test/success",
		PaymentSessionID: "cs_1",
	})

	assert.ErrorIs(t, err, domain.ErrPayment)
	assert.Empty(t, orders.requests)
	assert.Zero(t, carts.cleared)
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	svc, carts, orders, _ := setup(testCart(), home())
	orders.createErr = domain.NewError(domain.KindRateLimited, "slow down")

	_, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderInput{PaymentMethod: domain.PaymentCashOnDelivery})

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Len(t, orders.requests, 1)
	assert.Zero(t, carts.cleared)
}

func TestStartCardPaymentAppliesCoupon(t *testing.T) {
	svc, _, _, gw := setup(testCart(), home())

	s, err := svc.StartCardPayment(context.Background(), customer, "TENOFF")

	require.NoError(t, err)
	assert.Equal(t, "cs_1", s.ID)
	assert.True(t, decimal.NewFromInt(4).Equal(gw.discount))
}

func TestOrderOfAnotherCustomerIsNotFound(t *testing.T) {
	svc, _, orders, _ := setup(testCart(), nil)
	orders.order = &commerce.Order{ID: 5, Customer: &commerce.CustomerRef{ID: 8}}

	_, err := svc.Order(context.Background(), customer, 5)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	orders.order.Customer.ID = 7
	o, err := svc.Order(context.Background(), customer, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), o.ID)

	list, err := svc.Orders(context.Background(), customer)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
