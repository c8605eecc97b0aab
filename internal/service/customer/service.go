package customer

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/identity"
	"shopfront/internal/repository/draftorder"
	"shopfront/internal/session"
)

// Session is the device session a login switches.
type Session interface {
	Snapshot() session.State
	LogIn(ctx context.Context, id session.Identity) error
	LogOut(ctx context.Context) error
}

type verifier interface {
	Verify(ctx context.Context, idToken string) (identity.Claims, error)
}

type customers interface {
	FindCustomerByEmail(ctx context.Context, email string) (*commerce.Customer, error)
	CreateCustomer(ctx context.Context, in commerce.Customer) (*commerce.Customer, error)
	UpdateCustomer(ctx context.Context, in commerce.CustomerUpdate) (*commerce.Customer, error)
}

// Service logs devices in with identity-provider tokens and out again.
type Service struct {
	verifier  verifier
	customers customers
	logger    *zap.Logger
}

func New(verifier verifier, customers customers, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{verifier: verifier, customers: customers, logger: logger}
}

// Login verifies idToken, finds or registers the matching customer and switches the session to
// it. Lists remembered on the customer win over the device's lists; lists the device brings in
// are remembered on the customer when it had none.
func (s *Service) Login(ctx context.Context, sess Session, idToken string) (domain.Customer, error) {
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return domain.Customer{}, err
	}
	cust, err := s.findOrCreate(ctx, claims)
	if err != nil {
		return domain.Customer{}, err
	}
	out := cust.Domain()
	name := out.FullName()
	if name == "" {
		name = claims.Name
	}
	if err := sess.LogIn(ctx, session.Identity{
		CustomerID: cust.ID,
		Name:       name,
		Email:      cust.Email,
		Phone:      cust.Phone,
		CartListID: draftorder.CartMarker.Parse(cust.Tags),
		FavListID:  draftorder.FavoritesMarker.Parse(cust.Note),
	}); err != nil {
		return domain.Customer{}, err
	}
	s.rememberLists(ctx, cust, sess.Snapshot())
	s.logger.Info("customer logged in", zap.Int64("customer_id", cust.ID))
	return out, nil
}

// Logout returns the session to guest mode.
func (s *Service) Logout(ctx context.Context, sess Session) error {
	if !sess.Snapshot().LoggedIn {
		return domain.ErrNotLoggedIn
	}
	return sess.LogOut(ctx)
}

func (s *Service) findOrCreate(ctx context.Context, claims identity.Claims) (*commerce.Customer, error) {
	cust, err := s.customers.FindCustomerByEmail(ctx, claims.Email)
	if err == nil {
		return cust, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	first, last := splitName(claims.Name)
	cust, err = s.customers.CreateCustomer(ctx, commerce.Customer{Email: claims.Email, FirstName: first, LastName: last})
	if err != nil {
		return nil, err
	}
	s.logger.Info("customer registered", zap.Int64("customer_id", cust.ID))
	return cust, nil
}

func (s *Service) rememberLists(ctx context.Context, cust *commerce.Customer, st session.State) {
	update := commerce.CustomerUpdate{ID: cust.ID}
	if draftorder.CartMarker.Parse(cust.Tags) == 0 && st.CartListID > 0 {
		tags := draftorder.CartMarker.Merge(cust.Tags, st.CartListID)
		update.Tags = &tags
	}
	if draftorder.FavoritesMarker.Parse(cust.Note) == 0 && st.FavListID > 0 {
		note := draftorder.FavoritesMarker.Merge(cust.Note, st.FavListID)
		update.Note = &note
	}
	if update.Tags == nil && update.Note == nil {
		return
	}
	if _, err := s.customers.UpdateCustomer(ctx, update); err != nil {
		s.logger.Warn("remember lists on customer", zap.Int64("customer_id", cust.ID), zap.Error(err))
	}
}

func splitName(name string) (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(last)
}
