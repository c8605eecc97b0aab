package draftorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/draftlist"
)

type stubBackend struct {
	getErr      error
	lastUpdate  []commerce.LineItem
	lastCreate  []commerce.LineItem
	createdID   int64
	updateCalls int
}

func (s *stubBackend) GetDraftOrder(_ context.Context, id int64) (*commerce.DraftOrder, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &commerce.DraftOrder{ID: id, LineItems: draftlist.Cleared()}, nil
}

func (s *stubBackend) UpdateDraftOrder(_ context.Context, id int64, items []commerce.LineItem) (*commerce.DraftOrder, error) {
	s.updateCalls++
	s.lastUpdate = items
	return &commerce.DraftOrder{ID: id, LineItems: items}, nil
}

func (s *stubBackend) CreateDraftOrder(_ context.Context, items []commerce.LineItem) (*commerce.DraftOrder, error) {
	s.lastCreate = items
	return &commerce.DraftOrder{ID: s.createdID, LineItems: items}, nil
}

func (s *stubBackend) GetProduct(_ context.Context, id int64) (*commerce.Product, error) {
	return &commerce.Product{ID: id}, nil
}

func (s *stubBackend) ListProducts(_ context.Context, vendor string) ([]commerce.Product, error) {
	return []commerce.Product{{ID: 1, Vendor: vendor}}, nil
}

func TestReplaceNeverSendsEmptyList(t *testing.T) {
	api := &stubBackend{}
	repo := NewCommerce(api, nil)

	_, err := repo.Replace(context.Background(), 5, nil)

	require.NoError(t, err)
	assert.Equal(t, draftlist.Cleared(), api.lastUpdate)
}

func TestCreateStartsWithPlaceholder(t *testing.T) {
	api := &stubBackend{createdID: 77}
	repo := NewCommerce(api, nil)

	order, err := repo.Create(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(77), order.ID)
	assert.Equal(t, draftlist.Cleared(), api.lastCreate)
}

func TestFetchKeepsErrorKind(t *testing.T) {
	api := &stubBackend{getErr: domain.NewError(domain.KindRateLimited, "slow down")}
	repo := NewCommerce(api, nil)

	_, err := repo.Fetch(context.Background(), 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, domain.KindRateLimited, domain.KindOf(err))
	assert.Contains(t, err.Error(), "fetch draft order 5")
}
