package catalog

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/service/favorites"
)

type products interface {
	Product(ctx context.Context, id int64) (*commerce.Product, error)
	BrandProducts(ctx context.Context, vendor string) ([]commerce.Product, error)
}

type collections interface {
	ListSmartCollections(ctx context.Context) ([]commerce.SmartCollection, error)
}

type favoriteLookup interface {
	Membership(ctx context.Context, sess favorites.Session, productIDs []int64) (map[int64]bool, error)
}

// Service serves brands and products, annotated with the device's favorites.
type Service struct {
	products    products
	collections collections
	favorites   favoriteLookup
	logger      *zap.Logger
}

func New(products products, collections collections, favorites favoriteLookup, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{products: products, collections: collections, favorites: favorites, logger: logger}
}

// Brands lists the brand collections ordered by title.
func (s *Service) Brands(ctx context.Context) ([]domain.Brand, error) {
	cols, err := s.collections.ListSmartCollections(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Brand, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.Domain())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// BrandProducts lists the products of vendor.
func (s *Service) BrandProducts(ctx context.Context, sess favorites.Session, vendor string) ([]domain.Product, error) {
	list, err := s.products.BrandProducts(ctx, vendor)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(list))
	ids := make([]int64, 0, len(list))
	for _, p := range list {
		out = append(out, p.Domain())
		ids = append(ids, p.ID)
	}
	s.annotate(ctx, sess, out, ids)
	return out, nil
}

// Product returns one product.
func (s *Service) Product(ctx context.Context, sess favorites.Session, id int64) (domain.Product, error) {
	p, err := s.products.Product(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	out := []domain.Product{p.Domain()}
	s.annotate(ctx, sess, out, []int64{id})
	return out[0], nil
}

// annotate marks favorites in place. A failed lookup leaves every product unmarked.
func (s *Service) annotate(ctx context.Context, sess favorites.Session, list []domain.Product, ids []int64) {
	if s.favorites == nil || sess == nil || len(ids) == 0 {
		return
	}
	m, err := s.favorites.Membership(ctx, sess, ids)
	if err != nil {
		s.logger.Warn("favorite lookup failed", zap.String("device_id", sess.DeviceID()), zap.Error(err))
		return
	}
	for i := range list {
		list[i].IsFavorite = m[list[i].ID]
	}
}
