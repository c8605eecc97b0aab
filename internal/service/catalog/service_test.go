package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/commerce"
	"shopfront/internal/kvstore"
	"shopfront/internal/service/favorites"
	"shopfront/internal/session"
)

type stubCatalog struct {
	products []commerce.Product
	cols     []commerce.SmartCollection
	vendor   string
}

func (s *stubCatalog) Product(_ context.Context, id int64) (*commerce.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errors.New("missing")
}

func (s *stubCatalog) BrandProducts(_ context.Context, vendor string) ([]commerce.Product, error) {
	s.vendor = vendor
	return s.products, nil
}

func (s *stubCatalog) ListSmartCollections(context.Context) ([]commerce.SmartCollection, error) {
	return s.cols, nil
}

type stubFavorites struct {
	calls  int
	tagged map[int64]bool
	err    error
}

func (s *stubFavorites) Membership(_ context.Context, _ favorites.Session, ids []int64) (map[int64]bool, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = s.tagged[id]
	}
	return out, nil
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.Load(context.Background(), kvstore.NewMemory(), "dev", nil)
	require.NoError(t, err)
	return sess
}

func TestBrandsSortedByTitle(t *testing.T) {
	cat := &stubCatalog{cols: []commerce.SmartCollection{
		{ID: 2, Title: "Zeta", Image: &commerce.Image{Src: "z.png"}},
		{ID: 1, Title: "Acme"},
	}}
	svc := New(cat, cat, nil, nil)

	brands, err := svc.Brands(context.Background())

	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, "Acme", brands[0].Title)
	assert.Equal(t, "z.png", brands[1].ImageURL)
}

func TestBrandProductsAnnotatedInOneLookup(t *testing.T) {
	cat := &stubCatalog{products: []commerce.Product{
		{ID: 1, Title: "A", Variants: []commerce.Variant{{ID: 10, Price: "5.00"}}},
		{ID: 2, Title: "B"},
	}}
	fav := &stubFavorites{tagged: map[int64]bool{2: true}}
	svc := New(cat, cat, fav, nil)

	list, err := svc.BrandProducts(context.Background(), testSession(t), "Acme")

	require.NoError(t, err)
	assert.Equal(t, "Acme", cat.vendor)
	assert.Equal(t, 1, fav.calls)
	require.Len(t, list, 2)
	assert.False(t, list[0].IsFavorite)
	assert.True(t, list[1].IsFavorite)
	assert.Equal(t, "5", list[0].Variants[0].Price.String())
}

func TestProductSurvivesFavoriteLookupFailure(t *testing.T) {
	cat := &stubCatalog{products: []commerce.Product{{ID: 4, Title: "D"}}}
	fav := &stubFavorites{err: errors.New("boom")}
	svc := New(cat, cat, fav, nil)

	p, err := svc.Product(context.Background(), testSession(t), 4)

	require.NoError(t, err)
	assert.Equal(t, "D", p.Title)
	assert.False(t, p.IsFavorite)
}
