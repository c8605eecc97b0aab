// Package draftlist converts between typed cart/favorite lines and the draft-order line items
// that store them. The backend schema has no fields for a product id or image, so both are
// packed into the sku as "<productId>*<imageUrl>" and mirrored in a ProductImage property.
//
// Index 0 of every stored list is a placeholder item titled "dummy": the backend mishandles an
// empty line-item list, so a cleared list is [placeholder], never [].
package draftlist

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
)

const (
	// PlaceholderTitle marks the sentinel line item.
	PlaceholderTitle = "dummy"

	skuSeparator       = "*"
	imagePropertyStart = "ProductImage(src="
)

// Placeholder returns a fresh sentinel line item.
func Placeholder() commerce.LineItem {
	return commerce.LineItem{Title: PlaceholderTitle, Price: "0.00", Quantity: 1}
}

// Cleared is the list written when a cart or favorites list is emptied.
func Cleared() []commerce.LineItem {
	return []commerce.LineItem{Placeholder()}
}

// IsProduct reports whether li is a real product line rather than the sentinel or a foreign item.
func IsProduct(li commerce.LineItem) bool {
	return li.Title != PlaceholderTitle && li.ProductID != nil && li.SKU != nil
}

// Products returns the real product lines of items.
func Products(items []commerce.LineItem) []commerce.LineItem {
	out := make([]commerce.LineItem, 0, len(items))
	for _, li := range items {
		if IsProduct(li) {
			out = append(out, li)
		}
	}
	return out
}

// EncodeSKU packs a product id and an image URL into a sku.
func EncodeSKU(productID int64, imageURL string) string {
	return strconv.FormatInt(productID, 10) + skuSeparator + imageURL
}

// DecodeSKU splits a sku into its product id segment and image URL.
func DecodeSKU(sku string) (idSegment, imageURL string) {
	idSegment, imageURL, _ = strings.Cut(sku, skuSeparator)
	return idSegment, imageURL
}

func imageProperty(src string) commerce.Property {
	return commerce.Property{Name: imagePropertyStart + src + ")", Value: src}
}

func imageFromProperties(props []commerce.Property) string {
	for _, p := range props {
		if src, ok := strings.CutPrefix(p.Name, imagePropertyStart); ok {
			if p.Value != "" {
				return p.Value
			}
			return strings.TrimSuffix(src, ")")
		}
	}
	return ""
}

// Matches reports whether li refers to productID. The sku id segment is compared as a string
// against the decimal form of productID; when the segment is not numeric the variant id is
// compared instead.
func Matches(li commerce.LineItem, productID int64) bool {
	if li.Title == PlaceholderTitle {
		return false
	}
	if li.SKU != nil {
		segment, _ := DecodeSKU(*li.SKU)
		if _, err := strconv.ParseInt(segment, 10, 64); err == nil {
			return segment == strconv.FormatInt(productID, 10)
		}
	}
	return li.VariantID != nil && *li.VariantID == productID
}

// NewLine synthesizes the line item stored for a product added to a list.
func NewLine(p commerce.Product, variant commerce.Variant) commerce.LineItem {
	image := p.PrimaryImage()
	sku := EncodeSKU(p.ID, image)
	productID := p.ID
	variantID := variant.ID
	return commerce.LineItem{
		VariantID:  &variantID,
		ProductID:  &productID,
		Title:      p.Title,
		Price:      variant.Price,
		Quantity:   1,
		SKU:        &sku,
		Vendor:     p.Vendor,
		Properties: []commerce.Property{imageProperty(image)},
	}
}

// WithPlaceholder guarantees the sentinel sits at index 0.
func WithPlaceholder(items []commerce.LineItem) []commerce.LineItem {
	if len(items) > 0 && items[0].Title == PlaceholderTitle {
		return items
	}
	out := make([]commerce.LineItem, 0, len(items)+1)
	out = append(out, Placeholder())
	return append(out, items...)
}

// Append returns items with li added at the end.
func Append(items []commerce.LineItem, li commerce.LineItem) []commerce.LineItem {
	out := WithPlaceholder(clone(items))
	return append(out, li)
}

// Remove drops every line matching productID. It reports how many were removed.
func Remove(items []commerce.LineItem, productID int64) ([]commerce.LineItem, int) {
	out := make([]commerce.LineItem, 0, len(items))
	removed := 0
	for _, li := range items {
		if Matches(li, productID) {
			removed++
			continue
		}
		out = append(out, li)
	}
	return WithPlaceholder(out), removed
}

// SetQuantity sets the quantity of every line matching productID. It reports how many changed.
func SetQuantity(items []commerce.LineItem, productID int64, quantity int) ([]commerce.LineItem, int) {
	out := clone(items)
	changed := 0
	for i := range out {
		if Matches(out[i], productID) && out[i].Quantity != quantity {
			out[i].Quantity = quantity
			changed++
		}
	}
	return WithPlaceholder(out), changed
}

// Contains reports whether any line matches productID.
func Contains(items []commerce.LineItem, productID int64) bool {
	for _, li := range items {
		if Matches(li, productID) {
			return true
		}
	}
	return false
}

func clone(items []commerce.LineItem) []commerce.LineItem {
	out := make([]commerce.LineItem, len(items))
	copy(out, items)
	return out
}

// CartLine decodes a real product line.
func CartLine(li commerce.LineItem) domain.CartLine {
	line := domain.CartLine{
		Title:    li.Title,
		Price:    commerce.ParsePrice(li.Price),
		Quantity: li.Quantity,
	}
	if li.ID != nil {
		line.LineItemID = *li.ID
	}
	if li.VariantID != nil {
		line.VariantID = *li.VariantID
	}
	line.ProductID, line.ImageURL = identity(li)
	return line
}

// Favorite decodes a real favorites line.
func Favorite(li commerce.LineItem) domain.Favorite {
	fav := domain.Favorite{Title: li.Title, Price: commerce.ParsePrice(li.Price)}
	if li.VariantID != nil {
		fav.VariantID = *li.VariantID
	}
	fav.ProductID, fav.ImageURL = identity(li)
	return fav
}

// identity resolves the product id and image of a line, preferring the sku encoding.
func identity(li commerce.LineItem) (int64, string) {
	var productID int64
	var image string
	if li.SKU != nil {
		segment, url := DecodeSKU(*li.SKU)
		if id, err := strconv.ParseInt(segment, 10, 64); err == nil {
			productID = id
		}
		image = url
	}
	if productID == 0 && li.ProductID != nil {
		productID = *li.ProductID
	}
	if image == "" {
		image = imageFromProperties(li.Properties)
	}
	return productID, image
}

// CartLines decodes every real product line of items.
func CartLines(items []commerce.LineItem) []domain.CartLine {
	products := Products(items)
	out := make([]domain.CartLine, 0, len(products))
	for _, li := range products {
		out = append(out, CartLine(li))
	}
	return out
}

// Favorites decodes every real favorites line of items.
func Favorites(items []commerce.LineItem) []domain.Favorite {
	products := Products(items)
	out := make([]domain.Favorite, 0, len(products))
	for _, li := range products {
		out = append(out, Favorite(li))
	}
	return out
}

// Subtotal sums price times quantity over the real product lines.
func Subtotal(items []commerce.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range CartLines(items) {
		total = total.Add(l.Total())
	}
	return total
}
