package commerce

import "time"

// DraftOrder is the backend's editable order. Carts and favorites lists are both draft orders.
type DraftOrder struct {
	ID        int64      `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Currency  string     `json:"currency,omitempty"`
	Status    string     `json:"status,omitempty"`
	LineItems []LineItem `json:"line_items"`
}

// LineItem is one entry of a draft order or order.
type LineItem struct {
	ID         *int64     `json:"id,omitempty"`
	VariantID  *int64     `json:"variant_id,omitempty"`
	ProductID  *int64     `json:"product_id,omitempty"`
	Title      string     `json:"title,omitempty"`
	Price      string     `json:"price"`
	Quantity   int        `json:"quantity"`
	SKU        *string    `json:"sku,omitempty"`
	Vendor     string     `json:"vendor,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Property is a free-form name/value pair attached to a line item.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type draftOrderEnvelope struct {
	DraftOrder DraftOrder `json:"draft_order"`
}

// Product is a catalog product.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Tags        string    `json:"tags"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
	Image       *Image    `json:"image"`
}

// Variant is a purchasable product variant.
type Variant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	SKU               string `json:"sku"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// Image is a product or collection image.
type Image struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src"`
}

// SmartCollection groups products of one vendor; the client shows them as brands.
type SmartCollection struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Image *Image `json:"image"`
}

// Customer is a backend customer record. Note and Tags carry the favorites and cart list markers.
type Customer struct {
	ID        int64     `json:"id,omitempty"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	Note      string    `json:"note,omitempty"`
	Tags      string    `json:"tags,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
}

// CustomerUpdate is a partial customer update; nil fields are left untouched.
type CustomerUpdate struct {
	ID    int64   `json:"id"`
	Note  *string `json:"note,omitempty"`
	Tags  *string `json:"tags,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// Address is a customer address.
type Address struct {
	ID          int64  `json:"id,omitempty"`
	CustomerID  int64  `json:"customer_id,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Name        string `json:"name,omitempty"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address1,omitempty"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city,omitempty"`
	Province    string `json:"province,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	CountryName string `json:"country_name,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Default     bool   `json:"default"`
}

// PriceRule is a promotional rule; its title is the coupon code customers type.
type PriceRule struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	ValueType string     `json:"value_type"`
	Value     string     `json:"value"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
}

// Order is a placed order.
type Order struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	CreatedAt       time.Time    `json:"created_at"`
	Currency        string       `json:"currency"`
	FinancialStatus string       `json:"financial_status"`
	SubtotalPrice   string       `json:"subtotal_price"`
	TotalDiscounts  string       `json:"total_discounts"`
	TotalPrice      string       `json:"total_price"`
	LineItems       []LineItem   `json:"line_items"`
	ShippingAddress *Address     `json:"shipping_address"`
	Customer        *CustomerRef `json:"customer"`
}

// OrderRequest is the payload of an order creation.
type OrderRequest struct {
	LineItems       []OrderLineItem `json:"line_items"`
	Customer        *CustomerRef    `json:"customer,omitempty"`
	Email           string          `json:"email,omitempty"`
	ShippingAddress *Address        `json:"shipping_address,omitempty"`
	BillingAddress  *Address        `json:"billing_address,omitempty"`
	DiscountCodes   []DiscountCode  `json:"discount_codes,omitempty"`
	FinancialStatus string          `json:"financial_status,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	Note            string          `json:"note,omitempty"`
	SendReceipt     bool            `json:"send_receipt"`
}

// OrderLineItem is an ordered variant.
type OrderLineItem struct {
	VariantID int64  `json:"variant_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Price     string `json:"price,omitempty"`
	Quantity  int    `json:"quantity"`
}

// CustomerRef points at an existing customer.
type CustomerRef struct {
	ID int64 `json:"id"`
}

// DiscountCode applies a resolved price rule to an order.
type DiscountCode struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
	Type   string `json:"type"`
}
