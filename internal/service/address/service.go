package address

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/keylock"
	"shopfront/internal/session"
)

// Session identifies the customer whose addresses are managed.
type Session interface {
	Snapshot() session.State
}

type addressBook interface {
	ListAddresses(ctx context.Context, customerID int64) ([]commerce.Address, error)
	CreateAddress(ctx context.Context, customerID int64, addr commerce.Address) (*commerce.Address, error)
	UpdateAddress(ctx context.Context, customerID int64, addr commerce.Address) (*commerce.Address, error)
	SetDefaultAddress(ctx context.Context, customerID, addressID int64) (*commerce.Address, error)
	DeleteAddress(ctx context.Context, customerID, addressID int64) error
}

// Service manages the addresses of logged-in customers. Changes for one customer are serialized
// so at most one default switch is in flight.
type Service struct {
	book     addressBook
	validate *validator.Validate
	locks    *keylock.Map[int64]
	logger   *zap.Logger
}

func New(book addressBook, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{book: book, validate: newValidator(), locks: keylock.New[int64](), logger: logger}
}

func customerOf(sess Session) (int64, error) {
	st := sess.Snapshot()
	if !st.LoggedIn || st.CustomerID <= 0 {
		return 0, domain.ErrNotLoggedIn
	}
	return st.CustomerID, nil
}

// List returns the customer's addresses, default first.
func (s *Service) List(ctx context.Context, sess Session) ([]domain.Address, error) {
	customerID, err := customerOf(sess)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, customerID)
}

func (s *Service) list(ctx context.Context, customerID int64) ([]domain.Address, error) {
	addrs, err := s.book.ListAddresses(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Address, 0, len(addrs))
	for _, a := range addrs {
		if a.Default {
			out = append([]domain.Address{a.Domain()}, out...)
			continue
		}
		out = append(out, a.Domain())
	}
	return out, nil
}

// Default returns the customer's default address.
func (s *Service) Default(ctx context.Context, sess Session) (domain.Address, error) {
	list, err := s.List(ctx, sess)
	if err != nil {
		return domain.Address{}, err
	}
	for _, a := range list {
		if a.Default {
			return a, nil
		}
	}
	return domain.Address{}, domain.ErrMissingAddress
}

// Get returns one address of the customer.
func (s *Service) Get(ctx context.Context, sess Session, addressID int64) (domain.Address, error) {
	list, err := s.List(ctx, sess)
	if err != nil {
		return domain.Address{}, err
	}
	for _, a := range list {
		if a.ID == addressID {
			return a, nil
		}
	}
	return domain.Address{}, domain.NewError(domain.KindNotFound, "address not found")
}

// Add validates and stores a new address. It becomes the default when asked to or when it is
// the customer's first one.
func (s *Service) Add(ctx context.Context, sess Session, in domain.Address) (domain.Address, error) {
	customerID, err := customerOf(sess)
	if err != nil {
		return domain.Address{}, err
	}
	if err := validate(s.validate, in); err != nil {
		return domain.Address{}, err
	}
	unlock := s.locks.Lock(customerID)
	defer unlock()

	existing, err := s.book.ListAddresses(ctx, customerID)
	if err != nil {
		return domain.Address{}, err
	}
	wire := commerce.AddressFromDomain(in)
	wire.ID = 0
	wire.CustomerID = customerID
	created, err := s.book.CreateAddress(ctx, customerID, wire)
	if err != nil {
		return domain.Address{}, err
	}
	if (in.Default || len(existing) == 0) && !created.Default {
		if created, err = s.book.SetDefaultAddress(ctx, customerID, created.ID); err != nil {
			return domain.Address{}, err
		}
	}
	s.logger.Info("address added", zap.Int64("customer_id", customerID), zap.Int64("address_id", created.ID))
	return created.Domain(), nil
}

// Update validates and replaces an address.
func (s *Service) Update(ctx context.Context, sess Session, in domain.Address) (domain.Address, error) {
	customerID, err := customerOf(sess)
	if err != nil {
		return domain.Address{}, err
	}
	if in.ID <= 0 {
		return domain.Address{}, domain.NewValidationError("id", "address id is required")
	}
	if err := validate(s.validate, in); err != nil {
		return domain.Address{}, err
	}
	unlock := s.locks.Lock(customerID)
	defer unlock()

	wire := commerce.AddressFromDomain(in)
	wire.CustomerID = customerID
	updated, err := s.book.UpdateAddress(ctx, customerID, wire)
	if err != nil {
		return domain.Address{}, err
	}
	if in.Default && !updated.Default {
		if updated, err = s.book.SetDefaultAddress(ctx, customerID, updated.ID); err != nil {
			return domain.Address{}, err
		}
	}
	return updated.Domain(), nil
}

// SetDefault makes addressID the only default address.
func (s *Service) SetDefault(ctx context.Context, sess Session, addressID int64) (domain.Address, error) {
	customerID, err := customerOf(sess)
	if err != nil {
		return domain.Address{}, err
	}
	unlock := s.locks.Lock(customerID)
	defer unlock()

	a, err := s.book.SetDefaultAddress(ctx, customerID, addressID)
	if err != nil {
		return domain.Address{}, err
	}
	return a.Domain(), nil
}

// Delete removes a non-default address.
func (s *Service) Delete(ctx context.Context, sess Session, addressID int64) error {
	customerID, err := customerOf(sess)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(customerID)
	defer unlock()

	list, err := s.list(ctx, customerID)
	if err != nil {
		return err
	}
	for _, a := range list {
		if a.ID != addressID {
			continue
		}
		if a.Default {
			return domain.ErrDefaultAddress
		}
		return s.book.DeleteAddress(ctx, customerID, addressID)
	}
	return domain.NewError(domain.KindNotFound, "address not found")
}
