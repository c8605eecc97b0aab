package draftorder

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shopfront/internal/commerce"
	"shopfront/internal/draftlist"
)

type backend interface {
	GetDraftOrder(ctx context.Context, id int64) (*commerce.DraftOrder, error)
	UpdateDraftOrder(ctx context.Context, id int64, items []commerce.LineItem) (*commerce.DraftOrder, error)
	CreateDraftOrder(ctx context.Context, items []commerce.LineItem) (*commerce.DraftOrder, error)
	GetProduct(ctx context.Context, id int64) (*commerce.Product, error)
	ListProducts(ctx context.Context, vendor string) ([]commerce.Product, error)
}

type commerceRepo struct {
	api    backend
	logger *zap.Logger
}

// NewCommerce stores lists as draft orders of the commerce backend.
func NewCommerce(api backend, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &commerceRepo{api: api, logger: logger}
}

func (r *commerceRepo) Fetch(ctx context.Context, listID int64) (*commerce.DraftOrder, error) {
	order, err := r.api.GetDraftOrder(ctx, listID)
	if err != nil {
		r.logger.Debug("draft order fetch failed", zap.Int64("list_id", listID), zap.Error(err))
		return nil, errors.WithMessagef(err, "fetch draft order %d", listID)
	}
	return order, nil
}

// Replace writes items, reinstating the placeholder at index 0 if it is missing.
func (r *commerceRepo) Replace(ctx context.Context, listID int64, items []commerce.LineItem) (*commerce.DraftOrder, error) {
	items = draftlist.WithPlaceholder(items)
	order, err := r.api.UpdateDraftOrder(ctx, listID, items)
	if err != nil {
		r.logger.Debug("draft order update failed", zap.Int64("list_id", listID), zap.Int("items", len(items)), zap.Error(err))
		return nil, errors.WithMessagef(err, "update draft order %d", listID)
	}
	r.logger.Debug("draft order updated", zap.Int64("list_id", listID), zap.Int("items", len(items)))
	return order, nil
}

// Create starts a list holding only the placeholder.
func (r *commerceRepo) Create(ctx context.Context) (*commerce.DraftOrder, error) {
	order, err := r.api.CreateDraftOrder(ctx, draftlist.Cleared())
	if err != nil {
		return nil, errors.WithMessage(err, "create draft order")
	}
	r.logger.Info("draft order created", zap.Int64("list_id", order.ID))
	return order, nil
}

func (r *commerceRepo) Product(ctx context.Context, id int64) (*commerce.Product, error) {
	p, err := r.api.GetProduct(ctx, id)
	if err != nil {
		return nil, errors.WithMessagef(err, "get product %d", id)
	}
	return p, nil
}

func (r *commerceRepo) BrandProducts(ctx context.Context, vendor string) ([]commerce.Product, error) {
	products, err := r.api.ListProducts(ctx, vendor)
	if err != nil {
		return nil, errors.WithMessagef(err, "list products of %q", vendor)
	}
	return products, nil
}
