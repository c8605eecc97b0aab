package commerce

import (
	"strings"

	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
)

// ParsePrice reads a backend price string. Unparseable values are zero.
func ParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatPrice renders a price the way the backend expects it.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Domain converts the product for clients.
func (p Product) Domain() domain.Product {
	out := domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Description: p.BodyHTML,
		Tags:        p.Tags,
		Variants:    make([]domain.ProductVariant, 0, len(p.Variants)),
	}
	if img := p.PrimaryImage(); img != "" {
		out.ImageURL = img
	}
	for _, img := range p.Images {
		if img.Src != "" {
			out.Images = append(out.Images, img.Src)
		}
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, domain.ProductVariant{
			ID:                v.ID,
			Title:             v.Title,
			Price:             ParsePrice(v.Price),
			InventoryQuantity: v.InventoryQuantity,
		})
	}
	return out
}

// PrimaryImage is the featured image, falling back to the first gallery image.
func (p Product) PrimaryImage() string {
	if p.Image != nil && p.Image.Src != "" {
		return p.Image.Src
	}
	for _, img := range p.Images {
		if img.Src != "" {
			return img.Src
		}
	}
	return ""
}

// Domain converts the collection to a brand.
func (s SmartCollection) Domain() domain.Brand {
	b := domain.Brand{ID: s.ID, Title: s.Title}
	if s.Image != nil {
		b.ImageURL = s.Image.Src
	}
	return b
}

// Domain converts the customer record.
func (c Customer) Domain() domain.Customer {
	out := domain.Customer{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Currency:  c.Currency,
		Note:      c.Note,
		Tags:      c.Tags,
	}
	for _, a := range c.Addresses {
		out.Addresses = append(out.Addresses, a.Domain())
	}
	return out
}

// Domain converts the address.
func (a Address) Domain() domain.Address {
	return domain.Address{
		ID:          a.ID,
		CustomerID:  a.CustomerID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Name:        a.Name,
		Company:     a.Company,
		Address1:    a.Address1,
		Address2:    a.Address2,
		City:        a.City,
		Province:    a.Province,
		Country:     a.Country,
		CountryCode: a.CountryCode,
		CountryName: a.CountryName,
		Zip:         a.Zip,
		Phone:       a.Phone,
		Default:     a.Default,
	}
}

// AddressFromDomain converts a client address to the wire shape.
func AddressFromDomain(a domain.Address) Address {
	return Address{
		ID:          a.ID,
		CustomerID:  a.CustomerID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Name:        a.Name,
		Company:     a.Company,
		Address1:    a.Address1,
		Address2:    a.Address2,
		City:        a.City,
		Province:    a.Province,
		Country:     a.Country,
		CountryCode: a.CountryCode,
		CountryName: a.CountryName,
		Zip:         a.Zip,
		Phone:       a.Phone,
		Default:     a.Default,
	}
}

// Domain converts the price rule.
func (r PriceRule) Domain() domain.PriceRule {
	return domain.PriceRule{
		ID:        r.ID,
		Title:     r.Title,
		ValueType: domain.DiscountType(r.ValueType),
		Value:     ParsePrice(r.Value),
		StartsAt:  r.StartsAt,
		EndsAt:    r.EndsAt,
	}
}

// Domain converts the order.
func (o Order) Domain() domain.Order {
	out := domain.Order{
		ID:              o.ID,
		Name:            o.Name,
		Email:           o.Email,
		CreatedAt:       o.CreatedAt,
		Currency:        o.Currency,
		FinancialStatus: o.FinancialStatus,
		SubtotalPrice:   ParsePrice(o.SubtotalPrice),
		TotalDiscounts:  ParsePrice(o.TotalDiscounts),
		TotalPrice:      ParsePrice(o.TotalPrice),
		Lines:           make([]domain.OrderLine, 0, len(o.LineItems)),
	}
	for _, li := range o.LineItems {
		line := domain.OrderLine{Title: li.Title, Price: ParsePrice(li.Price), Quantity: li.Quantity}
		if li.ProductID != nil {
			line.ProductID = *li.ProductID
		}
		if li.VariantID != nil {
			line.VariantID = *li.VariantID
		}
		out.Lines = append(out.Lines, line)
	}
	if o.ShippingAddress != nil {
		addr := o.ShippingAddress.Domain()
		out.ShippingAddress = &addr
	}
	return out
}
