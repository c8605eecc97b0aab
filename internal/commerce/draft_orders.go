package commerce

import (
	"context"
	"fmt"
	"net/http"
)

// GetDraftOrder fetches a draft order.
func (c *Client) GetDraftOrder(ctx context.Context, id int64) (*DraftOrder, error) {
	var env draftOrderEnvelope
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/draft_orders/%d.json", id), nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.DraftOrder, nil
}

// UpdateDraftOrder replaces the whole line-item list of a draft order.
func (c *Client) UpdateDraftOrder(ctx context.Context, id int64, items []LineItem) (*DraftOrder, error) {
	req := draftOrderEnvelope{DraftOrder: DraftOrder{ID: id, LineItems: items}}
	var env draftOrderEnvelope
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/draft_orders/%d.json", id), nil, req, &env); err != nil {
		return nil, err
	}
	return &env.DraftOrder, nil
}

// CreateDraftOrder creates a draft order holding items.
func (c *Client) CreateDraftOrder(ctx context.Context, items []LineItem) (*DraftOrder, error) {
	req := draftOrderEnvelope{DraftOrder: DraftOrder{LineItems: items}}
	var env draftOrderEnvelope
	if _, err := c.do(ctx, http.MethodPost, "/draft_orders.json", nil, req, &env); err != nil {
		return nil, err
	}
	return &env.DraftOrder, nil
}
