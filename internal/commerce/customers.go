package commerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"shopfront/internal/domain"
)

type customerEnvelope struct {
	Customer Customer `json:"customer"`
}

type customerUpdateEnvelope struct {
	Customer CustomerUpdate `json:"customer"`
}

type customersEnvelope struct {
	Customers []Customer `json:"customers"`
}

type addressEnvelope struct {
	Address Address `json:"customer_address"`
}

type addressRequest struct {
	Address Address `json:"address"`
}

type addressesEnvelope struct {
	Addresses []Address `json:"addresses"`
}

// FindCustomerByEmail returns the customer registered with email or a not-found error.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	q := url.Values{}
	q.Set("query", "email:"+email)
	var env customersEnvelope
	if _, err := c.do(ctx, http.MethodGet, "/customers/search.json", q, nil, &env); err != nil {
		return nil, err
	}
	for i := range env.Customers {
		if equalFoldTrim(env.Customers[i].Email, email) {
			return &env.Customers[i], nil
		}
	}
	return nil, domain.NewError(domain.KindNotFound, "customer not found")
}

// GetCustomer fetches a customer by id.
func (c *Client) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	var env customerEnvelope
	path := fmt.Sprintf("/customers/%d.json", id)
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Customer, nil
}

// CreateCustomer registers a customer.
func (c *Client) CreateCustomer(ctx context.Context, in Customer) (*Customer, error) {
	var env customerEnvelope
	if _, err := c.do(ctx, http.MethodPost, "/customers.json", nil, customerEnvelope{Customer: in}, &env); err != nil {
		return nil, err
	}
	return &env.Customer, nil
}

// UpdateCustomer applies a partial update.
func (c *Client) UpdateCustomer(ctx context.Context, in CustomerUpdate) (*Customer, error) {
	var env customerEnvelope
	path := fmt.Sprintf("/customers/%d.json", in.ID)
	if _, err := c.do(ctx, http.MethodPut, path, nil, customerUpdateEnvelope{Customer: in}, &env); err != nil {
		return nil, err
	}
	return &env.Customer, nil
}

// ListAddresses lists the addresses of a customer.
func (c *Client) ListAddresses(ctx context.Context, customerID int64) ([]Address, error) {
	var env addressesEnvelope
	path := fmt.Sprintf("/customers/%d/addresses.json", customerID)
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Addresses, nil
}

// CreateAddress adds an address to a customer.
func (c *Client) CreateAddress(ctx context.Context, customerID int64, addr Address) (*Address, error) {
	var env addressEnvelope
	path := fmt.Sprintf("/customers/%d/addresses.json", customerID)
	if _, err := c.do(ctx, http.MethodPost, path, nil, addressRequest{Address: addr}, &env); err != nil {
		return nil, err
	}
	return &env.Address, nil
}

// UpdateAddress replaces the fields of an existing address.
func (c *Client) UpdateAddress(ctx context.Context, customerID int64, addr Address) (*Address, error) {
	var env addressEnvelope
	path := fmt.Sprintf("/customers/%d/addresses/%d.json", customerID, addr.ID)
	if _, err := c.do(ctx, http.MethodPut, path, nil, addressRequest{Address: addr}, &env); err != nil {
		return nil, err
	}
	return &env.Address, nil
}

// SetDefaultAddress marks an address as the customer's default.
func (c *Client) SetDefaultAddress(ctx context.Context, customerID, addressID int64) (*Address, error) {
	var env addressEnvelope
	path := fmt.Sprintf("/customers/%d/addresses/%d/default.json", customerID, addressID)
	if _, err := c.do(ctx, http.MethodPut, path, nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Address, nil
}

// DeleteAddress removes an address.
func (c *Client) DeleteAddress(ctx context.Context, customerID, addressID int64) error {
	path := fmt.Sprintf("/customers/%d/addresses/%d.json", customerID, addressID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}
