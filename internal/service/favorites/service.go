package favorites

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/draftlist"
	"shopfront/internal/repository/draftorder"
	"shopfront/internal/session"
)

// Session is the part of a device session favorites read and update.
type Session interface {
	DeviceID() string
	Snapshot() session.State
	SetFavListID(ctx context.Context, id int64) error
}

type customerRecorder interface {
	GetCustomer(ctx context.Context, id int64) (*commerce.Customer, error)
	UpdateCustomer(ctx context.Context, in commerce.CustomerUpdate) (*commerce.Customer, error)
}

// Service keeps the favorites draft order of a device. Products appear at most once.
type Service struct {
	editor    *draftorder.Editor
	customers customerRecorder
	logger    *zap.Logger
}

func New(editor *draftorder.Editor, customers customerRecorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{editor: editor, customers: customers, logger: logger}
}

// List returns the favorite products. A device without a list gets an empty one.
func (s *Service) List(ctx context.Context, sess Session) (domain.Favorites, error) {
	listID := sess.Snapshot().FavListID
	if listID <= 0 {
		return domain.Favorites{Items: []domain.Favorite{}}, nil
	}
	order, err := s.editor.Read(ctx, listID)
	if err != nil {
		return domain.Favorites{}, err
	}
	return favoritesOf(listID, order), nil
}

// Add tags the product as favorite. Adding a product that is already tagged changes nothing.
func (s *Service) Add(ctx context.Context, sess Session, productID int64) (domain.Favorites, error) {
	listID, err := s.ensure(ctx, sess)
	if err != nil {
		return domain.Favorites{}, err
	}
	order, err := s.editor.Edit(ctx, listID, func(items []commerce.LineItem) ([]commerce.LineItem, bool, error) {
		if draftlist.Contains(items, productID) {
			return items, false, nil
		}
		p, err := s.editor.Repository().Product(ctx, productID)
		if err != nil {
			return nil, false, err
		}
		if len(p.Variants) == 0 {
			return nil, false, errors.WithStack(domain.NewValidationError("productId", "product has no variants"))
		}
		return draftlist.Append(items, draftlist.NewLine(*p, p.Variants[0])), true, nil
	})
	if err != nil {
		s.logger.Warn("add favorite", zap.String("device_id", sess.DeviceID()), zap.Int64("product_id", productID), zap.Error(err))
		return domain.Favorites{}, err
	}
	return favoritesOf(listID, order), nil
}

// Remove untags the product, dropping every duplicate.
func (s *Service) Remove(ctx context.Context, sess Session, productID int64) (domain.Favorites, error) {
	listID := sess.Snapshot().FavListID
	if listID <= 0 {
		return domain.Favorites{Items: []domain.Favorite{}}, nil
	}
	order, err := s.editor.Edit(ctx, listID, func(items []commerce.LineItem) ([]commerce.LineItem, bool, error) {
		next, removed := draftlist.Remove(items, productID)
		return next, removed > 0, nil
	})
	if err != nil {
		s.logger.Warn("remove favorite", zap.String("device_id", sess.DeviceID()), zap.Int64("product_id", productID), zap.Error(err))
		return domain.Favorites{}, err
	}
	return favoritesOf(listID, order), nil
}

// IsFavorite reports whether the product is tagged. It never creates a list.
func (s *Service) IsFavorite(ctx context.Context, sess Session, productID int64) (bool, error) {
	m, err := s.Membership(ctx, sess, []int64{productID})
	if err != nil {
		return false, err
	}
	return m[productID], nil
}

// Membership looks up many products with one fetch of the list.
func (s *Service) Membership(ctx context.Context, sess Session, productIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		out[id] = false
	}
	listID := sess.Snapshot().FavListID
	if listID <= 0 || len(productIDs) == 0 {
		return out, nil
	}
	order, err := s.editor.Read(ctx, listID)
	if err != nil {
		return nil, err
	}
	for _, li := range draftlist.Products(order.LineItems) {
		for _, id := range productIDs {
			if draftlist.Matches(li, id) {
				out[id] = true
			}
		}
	}
	return out, nil
}

func (s *Service) ensure(ctx context.Context, sess Session) (int64, error) {
	return s.editor.Ensure(ctx, draftorder.EnsureKey(sess.DeviceID(), "favorites"),
		func() int64 { return sess.Snapshot().FavListID },
		func(ctx context.Context, id int64) error {
			if err := sess.SetFavListID(ctx, id); err != nil {
				return err
			}
			s.record(ctx, sess.Snapshot(), id)
			return nil
		})
}

// record remembers the list on its own line of the customer note.
func (s *Service) record(ctx context.Context, st session.State, listID int64) {
	if !st.LoggedIn || st.CustomerID <= 0 || s.customers == nil {
		return
	}
	cust, err := s.customers.GetCustomer(ctx, st.CustomerID)
	if err != nil {
		s.logger.Warn("remember favorites on customer", zap.Int64("customer_id", st.CustomerID), zap.Error(err))
		return
	}
	note := draftorder.FavoritesMarker.Merge(cust.Note, listID)
	if _, err := s.customers.UpdateCustomer(ctx, commerce.CustomerUpdate{ID: st.CustomerID, Note: &note}); err != nil {
		s.logger.Warn("remember favorites on customer", zap.Int64("customer_id", st.CustomerID), zap.Error(err))
	}
}

func favoritesOf(listID int64, order *commerce.DraftOrder) domain.Favorites {
	return domain.Favorites{ListID: listID, Items: draftlist.Favorites(order.LineItems)}
}
