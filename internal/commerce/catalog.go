package commerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// maxPages caps how many Link-header pages one listing follows.
const maxPages = 20

type productEnvelope struct {
	Product Product `json:"product"`
}

type productsEnvelope struct {
	Products []Product `json:"products"`
}

type smartCollectionsEnvelope struct {
	SmartCollections []SmartCollection `json:"smart_collections"`
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var env productEnvelope
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d.json", id), nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Product, nil
}

// ListProducts lists products, optionally restricted to one vendor, following pagination.
func (c *Client) ListProducts(ctx context.Context, vendor string) ([]Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageLimit))
	if vendor != "" {
		q.Set("vendor", vendor)
	}
	return listAll(ctx, c, "/products.json", q, func(env *productsEnvelope) []Product { return env.Products })
}

// ListSmartCollections lists the vendor collections shown as brands, following pagination.
func (c *Client) ListSmartCollections(ctx context.Context) ([]SmartCollection, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageLimit))
	return listAll(ctx, c, "/smart_collections.json", q, func(env *smartCollectionsEnvelope) []SmartCollection {
		return env.SmartCollections
	})
}

// listAll reads path page by page through the Link header, at most maxPages pages.
func listAll[E, T any](ctx context.Context, c *Client, path string, q url.Values, items func(*E) []T) ([]T, error) {
	var all []T
	for page := 0; page < maxPages && path != ""; page++ {
		var env E
		h, err := c.do(ctx, http.MethodGet, path, q, nil, &env)
		if err != nil {
			return nil, err
		}
		all = append(all, items(&env)...)
		// The next link already carries page_info and limit.
		path, q = nextPageURL(h), nil
	}
	return all, nil
}
