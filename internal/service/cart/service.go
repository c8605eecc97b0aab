package cart

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/draftlist"
	"shopfront/internal/repository/draftorder"
	"shopfront/internal/session"
	"shopfront/internal/state"
)

// Session is the part of a device session the cart reads and updates.
type Session interface {
	DeviceID() string
	Snapshot() session.State
	SetCartListID(ctx context.Context, id int64) error
}

type customerRecorder interface {
	GetCustomer(ctx context.Context, id int64) (*commerce.Customer, error)
	UpdateCustomer(ctx context.Context, in commerce.CustomerUpdate) (*commerce.Customer, error)
}

// Service edits the cart draft order of a device and publishes every outcome to the device's
// cart state.
type Service struct {
	editor    *draftorder.Editor
	customers customerRecorder
	states    *state.Registry[domain.Cart]
	logger    *zap.Logger
}

func New(editor *draftorder.Editor, customers customerRecorder, states *state.Registry[domain.Cart], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if states == nil {
		states = state.NewRegistry[domain.Cart]()
	}
	return &Service{editor: editor, customers: customers, states: states, logger: logger}
}

// States returns the published cart results of a device.
func (s *Service) States(deviceID string) *state.Store[domain.Cart] {
	return s.states.For(deviceID)
}

// Get returns the real items of the cart. A device without a cart gets an empty one without
// creating a list.
func (s *Service) Get(ctx context.Context, sess Session) (domain.Cart, error) {
	st := sess.Snapshot()
	if st.CartListID <= 0 {
		cart := domain.NewCart(0, nil, st.Currency)
		s.States(sess.DeviceID()).Publish(state.Success(cart))
		return cart, nil
	}
	return s.run(ctx, sess, func(ctx context.Context, listID int64) (*commerce.DraftOrder, error) {
		return s.editor.Read(ctx, listID)
	})
}

// Add appends the product to the cart. A zero variantID selects the first variant.
func (s *Service) Add(ctx context.Context, sess Session, productID, variantID int64) (domain.Cart, error) {
	return s.mutate(ctx, sess, func(ctx context.Context, listID int64) (*commerce.DraftOrder, error) {
		line, err := s.newLine(ctx, productID, variantID)
		if err != nil {
			return nil, err
		}
		return s.editor.Edit(ctx, listID, func(items []commerce.LineItem) ([]commerce.LineItem, bool, error) {
			return draftlist.Append(items, line), true, nil
		})
	})
}

// Remove drops every line of the product.
func (s *Service) Remove(ctx context.Context, sess Session, productID int64) (domain.Cart, error) {
	return s.mutate(ctx, sess, func(ctx context.Context, listID int64) (*commerce.DraftOrder, error) {
		return s.editor.Edit(ctx, listID, func(items []commerce.LineItem) ([]commerce.LineItem, bool, error) {
			next, removed := draftlist.Remove(items, productID)
			return next, removed > 0, nil
		})
	})
}

// UpdateQuantity sets the quantity of every line of the product. Quantities below one are
// rejected before anything is fetched.
func (s *Service) UpdateQuantity(ctx context.Context, sess Session, productID int64, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	return s.mutate(ctx, sess, func(ctx context.Context, listID int64) (*commerce.DraftOrder, error) {
		return s.editor.Edit(ctx, listID, func(items []commerce.LineItem) ([]commerce.LineItem, bool, error) {
			next, changed := draftlist.SetQuantity(items, productID, quantity)
			return next, changed > 0, nil
		})
	})
}

// Clear empties the cart, leaving only the placeholder.
func (s *Service) Clear(ctx context.Context, sess Session) (domain.Cart, error) {
	return s.mutate(ctx, sess, func(ctx context.Context, listID int64) (*commerce.DraftOrder, error) {
		return s.editor.Edit(ctx, listID, func([]commerce.LineItem) ([]commerce.LineItem, bool, error) {
			return draftlist.Cleared(), true, nil
		})
	})
}

type step func(ctx context.Context, listID int64) (*commerce.DraftOrder, error)

func (s *Service) mutate(ctx context.Context, sess Session, fn step) (domain.Cart, error) {
	store := s.States(sess.DeviceID())
	store.Publish(state.Loading[domain.Cart]())
	listID, err := s.ensure(ctx, sess)
	if err != nil {
		return s.fail(store, sess, err)
	}
	return s.finish(ctx, store, sess, listID, fn)
}

func (s *Service) run(ctx context.Context, sess Session, fn step) (domain.Cart, error) {
	store := s.States(sess.DeviceID())
	store.Publish(state.Loading[domain.Cart]())
	return s.finish(ctx, store, sess, sess.Snapshot().CartListID, fn)
}

func (s *Service) finish(ctx context.Context, store *state.Store[domain.Cart], sess Session, listID int64, fn step) (domain.Cart, error) {
	order, err := fn(ctx, listID)
	if err != nil {
		return s.fail(store, sess, err)
	}
	cart := domain.NewCart(listID, draftlist.CartLines(order.LineItems), sess.Snapshot().Currency)
	store.Publish(state.Success(cart))
	return cart, nil
}

func (s *Service) fail(store *state.Store[domain.Cart], sess Session, err error) (domain.Cart, error) {
	s.logger.Warn("cart operation failed",
		zap.String("device_id", sess.DeviceID()),
		zap.String("kind", string(domain.KindOf(err))),
		zap.Error(err))
	store.Publish(state.Failure[domain.Cart](err))
	return domain.Cart{}, err
}

func (s *Service) ensure(ctx context.Context, sess Session) (int64, error) {
	return s.editor.Ensure(ctx, draftorder.EnsureKey(sess.DeviceID(), "cart"),
		func() int64 { return sess.Snapshot().CartListID },
		func(ctx context.Context, id int64) error {
			if err := sess.SetCartListID(ctx, id); err != nil {
				return err
			}
			s.record(ctx, sess.Snapshot(), id)
			return nil
		})
}

// record remembers the cart among the customer tags so other devices resume it after login.
func (s *Service) record(ctx context.Context, st session.State, listID int64) {
	if !st.LoggedIn || st.CustomerID <= 0 || s.customers == nil {
		return
	}
	cust, err := s.customers.GetCustomer(ctx, st.CustomerID)
	if err != nil {
		s.logger.Warn("remember cart on customer", zap.Int64("customer_id", st.CustomerID), zap.Error(err))
		return
	}
	tags := draftorder.CartMarker.Merge(cust.Tags, listID)
	if _, err := s.customers.UpdateCustomer(ctx, commerce.CustomerUpdate{ID: st.CustomerID, Tags: &tags}); err != nil {
		s.logger.Warn("remember cart on customer", zap.Int64("customer_id", st.CustomerID), zap.Error(err))
	}
}

func (s *Service) newLine(ctx context.Context, productID, variantID int64) (commerce.LineItem, error) {
	p, err := s.editor.Repository().Product(ctx, productID)
	if err != nil {
		return commerce.LineItem{}, err
	}
	variant, ok := pickVariant(p.Variants, variantID)
	if !ok {
		return commerce.LineItem{}, errors.WithStack(domain.NewValidationError("variantId", "product has no such variant"))
	}
	return draftlist.NewLine(*p, variant), nil
}

func pickVariant(variants []commerce.Variant, id int64) (commerce.Variant, bool) {
	if len(variants) == 0 {
		return commerce.Variant{}, false
	}
	if id == 0 {
		return variants[0], true
	}
	for _, v := range variants {
		if v.ID == id {
			return v, true
		}
	}
	return commerce.Variant{}, false
}
