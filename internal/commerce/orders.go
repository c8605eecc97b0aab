package commerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type priceRulesEnvelope struct {
	PriceRules []PriceRule `json:"price_rules"`
}

type orderEnvelope struct {
	Order Order `json:"order"`
}

type orderRequestEnvelope struct {
	Order OrderRequest `json:"order"`
}

type ordersEnvelope struct {
	Orders []Order `json:"orders"`
}

// ListPriceRules lists every promotional rule.
func (c *Client) ListPriceRules(ctx context.Context) ([]PriceRule, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageLimit))
	return listAll(ctx, c, "/price_rules.json", q, func(env *priceRulesEnvelope) []PriceRule { return env.PriceRules })
}

// CreateOrder places an order. It is never retried.
func (c *Client) CreateOrder(ctx context.Context, in OrderRequest) (*Order, error) {
	var env orderEnvelope
	if _, err := c.do(ctx, http.MethodPost, "/orders.json", nil, orderRequestEnvelope{Order: in}, &env); err != nil {
		return nil, err
	}
	return &env.Order, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id int64) (*Order, error) {
	var env orderEnvelope
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d.json", id), nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Order, nil
}

// ListOrders lists every order of a customer, newest first as returned by the backend.
func (c *Client) ListOrders(ctx context.Context, customerID int64) ([]Order, error) {
	q := url.Values{}
	q.Set("customer_id", strconv.FormatInt(customerID, 10))
	q.Set("status", "any")
	q.Set("limit", strconv.Itoa(c.pageLimit))
	return listAll(ctx, c, "/orders.json", q, func(env *ordersEnvelope) []Order { return env.Orders })
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
