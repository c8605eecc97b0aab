package domain

import "github.com/shopspring/decimal"

// Product is a catalog product as browsed by the client.
type Product struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"productType,omitempty"`
	Description string           `json:"description,omitempty"`
	Tags        string           `json:"tags,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Variants    []ProductVariant `json:"variants"`
	IsFavorite  bool             `json:"isFavorite"`
}

// ProductVariant is a purchasable variant of a product.
type ProductVariant struct {
	ID                int64           `json:"id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventoryQuantity"`
}

// DefaultVariant returns the variant with id, or the first one when id is zero.
func (p Product) DefaultVariant(id int64) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if id == 0 || v.ID == id {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// Brand is a vendor collection.
type Brand struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
}
