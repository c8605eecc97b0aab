package draftorder

import (
	"context"

	"shopfront/internal/commerce"
)

// Repository is the storage view of carts and favorites lists: draft orders whose line items
// are replaced wholesale on every change.
type Repository interface {
	Fetch(ctx context.Context, listID int64) (*commerce.DraftOrder, error)
	Replace(ctx context.Context, listID int64, items []commerce.LineItem) (*commerce.DraftOrder, error)
	Create(ctx context.Context) (*commerce.DraftOrder, error)
	Product(ctx context.Context, id int64) (*commerce.Product, error)
	BrandProducts(ctx context.Context, vendor string) ([]commerce.Product, error)
}
