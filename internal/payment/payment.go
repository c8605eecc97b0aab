// Package payment starts hosted card checkouts and classifies where the payer ended up.
package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"shopfront/internal/domain"
)

// Outcome is the state a payment redirect reveals.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
)

// Session is a hosted checkout the payer is sent to.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Config holds the gateway credentials and the redirect targets.
type Config struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Logger     *zap.Logger
}

type checkoutSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Gateway creates Stripe checkout sessions.
type Gateway struct {
	sessions   checkoutSessions
	successURL string
	cancelURL  string
	logger     *zap.Logger
}

func New(cfg Config) (*Gateway, error) {
	if cfg.SuccessURL == "" || cfg.CancelURL == "" {
		return nil, errors.New("payment success and cancel URLs are required")
	}
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)
	return newGateway(sc.CheckoutSessions, cfg), nil
}

func newGateway(sessions checkoutSessions, cfg Config) *Gateway {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{sessions: sessions, successURL: cfg.SuccessURL, cancelURL: cfg.CancelURL, logger: logger.Named("payment")}
}

// CreateSession opens a checkout for lines. A discount collapses the lines into one charge for
// the discounted total, since the gateway cannot apply an ad-hoc rebate to itemized lines.
func (g *Gateway) CreateSession(ctx context.Context, lines []domain.CartLine, discount decimal.Decimal, currency string) (Session, error) {
	if len(lines) == 0 {
		return Session{}, domain.ErrEmptyCart
	}
	cur := strings.ToLower(currency)
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}
	params.Context = ctx
	if discount.IsPositive() {
		total := decimal.Zero
		count := 0
		for _, l := range lines {
			total = total.Add(l.Total())
			count += l.Quantity
		}
		total = total.Sub(discount)
		if !total.IsPositive() {
			return Session{}, domain.NewError(domain.KindPayment, "discounted total must be positive for card payments")
		}
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{
			lineItem(cur, fmt.Sprintf("Order of %d items", count), total, 1),
		}
	} else {
		for _, l := range lines {
			params.LineItems = append(params.LineItems, lineItem(cur, l.Title, l.Price, l.Quantity))
		}
	}

	s, err := g.sessions.New(params)
	if err != nil {
		g.logger.Warn("create checkout session", zap.Error(err))
		return Session{}, domain.WrapKind(domain.KindPayment, err, "payment session could not be created")
	}
	return Session{ID: s.ID, URL: s.URL}, nil
}

func lineItem(currency, name string, unit decimal.Decimal, quantity int) *stripe.CheckoutSessionLineItemParams {
	return &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(currency),
			UnitAmount: stripe.Int64(minorUnits(unit)),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(name),
			},
		},
		Quantity: stripe.Int64(int64(quantity)),
	}
}

func minorUnits(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Confirm checks with the gateway that checkout sessionID was paid in full for total.
func (g *Gateway) Confirm(ctx context.Context, sessionID string, total decimal.Decimal, currency string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.ErrPaymentIncomplete
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := g.sessions.Get(sessionID, params)
	if err != nil {
		g.logger.Warn("fetch checkout session", zap.String("session_id", sessionID), zap.Error(err))
		return domain.WrapKind(domain.KindPayment, err, "payment session could not be verified")
	}
	if s.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return domain.ErrPaymentIncomplete
	}
	if s.AmountTotal != minorUnits(total) || !strings.EqualFold(string(s.Currency), currency) {
		g.logger.Warn("checkout session amount mismatch",
			zap.String("session_id", sessionID),
			zap.Int64("paid", s.AmountTotal),
			zap.Int64("expected", minorUnits(total)))
		return domain.NewError(domain.KindPayment, "paid amount does not match the order")
	}
	return nil
}

// Outcome classifies a URL the payer navigated to.
func (g *Gateway) Outcome(url string) Outcome {
	switch {
	case strings.HasPrefix(url, g.successURL):
		return OutcomeCompleted
	case strings.HasPrefix(url, g.cancelURL):
		return OutcomeCancelled
	default:
		return OutcomePending
	}
}
