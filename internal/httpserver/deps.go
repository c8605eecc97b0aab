package httpserver

import (
	"context"

	"shopfront/internal/domain"
	"shopfront/internal/payment"
	"shopfront/internal/service/address"
	"shopfront/internal/service/cart"
	"shopfront/internal/service/checkout"
	"shopfront/internal/service/customer"
	"shopfront/internal/service/device"
	"shopfront/internal/service/favorites"
	"shopfront/internal/session"
	"shopfront/internal/state"
)

type deviceService interface {
	Issue(ctx context.Context) (device.Registration, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type sessionSource interface {
	Get(ctx context.Context, deviceID string) (*session.Session, error)
	Forget(deviceID string)
}

type catalogService interface {
	Brands(ctx context.Context) ([]domain.Brand, error)
	BrandProducts(ctx context.Context, sess favorites.Session, vendor string) ([]domain.Product, error)
	Product(ctx context.Context, sess favorites.Session, id int64) (domain.Product, error)
}

type cartService interface {
	Get(ctx context.Context, sess cart.Session) (domain.Cart, error)
	Add(ctx context.Context, sess cart.Session, productID, variantID int64) (domain.Cart, error)
	Remove(ctx context.Context, sess cart.Session, productID int64) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, sess cart.Session, productID int64, quantity int) (domain.Cart, error)
	Clear(ctx context.Context, sess cart.Session) (domain.Cart, error)
	States(deviceID string) *state.Store[domain.Cart]
}

type favoritesService interface {
	List(ctx context.Context, sess favorites.Session) (domain.Favorites, error)
	Add(ctx context.Context, sess favorites.Session, productID int64) (domain.Favorites, error)
	Remove(ctx context.Context, sess favorites.Session, productID int64) (domain.Favorites, error)
	IsFavorite(ctx context.Context, sess favorites.Session, productID int64) (bool, error)
	Membership(ctx context.Context, sess favorites.Session, productIDs []int64) (map[int64]bool, error)
}

type addressService interface {
	List(ctx context.Context, sess address.Session) ([]domain.Address, error)
	Get(ctx context.Context, sess address.Session, addressID int64) (domain.Address, error)
	Add(ctx context.Context, sess address.Session, in domain.Address) (domain.Address, error)
	Update(ctx context.Context, sess address.Session, in domain.Address) (domain.Address, error)
	SetDefault(ctx context.Context, sess address.Session, addressID int64) (domain.Address, error)
	Delete(ctx context.Context, sess address.Session, addressID int64) error
}

type customerService interface {
	Login(ctx context.Context, sess customer.Session, idToken string) (domain.Customer, error)
	Logout(ctx context.Context, sess customer.Session) error
}

type checkoutService interface {
	PriceRules(ctx context.Context) ([]domain.PriceRule, error)
	PreviewCoupon(ctx context.Context, sess cart.Session, code string) (checkout.Quote, error)
	StartCardPayment(ctx context.Context, sess cart.Session, code string) (payment.Session, error)
	ResolveRedirect(url string) payment.Outcome
	PlaceOrder(ctx context.Context, sess cart.Session, in checkout.PlaceOrderInput) (domain.Order, error)
	Orders(ctx context.Context, sess cart.Session) ([]domain.Order, error)
	Order(ctx context.Context, sess cart.Session, id int64) (domain.Order, error)
}

// Deps groups the services behind the API. Devices and Sessions are required.
type Deps struct {
	Devices   deviceService
	Sessions  sessionSource
	Catalog   catalogService
	Cart      cartService
	Favorites favoritesService
	Addresses addressService
	Customers customerService
	Checkout  checkoutService
}
