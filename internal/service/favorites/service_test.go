package favorites

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/draftlist"
	"shopfront/internal/kvstore"
	"shopfront/internal/repository/draftorder"
	"shopfront/internal/session"
)

type memRepo struct {
	mu           sync.Mutex
	lists        map[int64][]commerce.LineItem
	fetchCalls   int
	replaceCalls int
	createCalls  int
}

func newMemRepo() *memRepo {
	return &memRepo{lists: make(map[int64][]commerce.LineItem)}
}

func (r *memRepo) Fetch(_ context.Context, id int64) (*commerce.DraftOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchCalls++
	items, ok := r.lists[id]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "draft order not found")
	}
	return &commerce.DraftOrder{ID: id, LineItems: append([]commerce.LineItem(nil), items...)}, nil
}

func (r *memRepo) Replace(_ context.Context, id int64, items []commerce.LineItem) (*commerce.DraftOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++
	r.lists[id] = draftlist.WithPlaceholder(items)
	return &commerce.DraftOrder{ID: id, LineItems: r.lists[id]}, nil
}

func (r *memRepo) Create(context.Context) (*commerce.DraftOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	id := int64(900 + r.createCalls)
	r.lists[id] = draftlist.Cleared()
	return &commerce.DraftOrder{ID: id, LineItems: draftlist.Cleared()}, nil
}

func (r *memRepo) Product(_ context.Context, id int64) (*commerce.Product, error) {
	return &commerce.Product{
		ID:       id,
		Title:    "Bag",
		Image:    &commerce.Image{Src: "https://cdn.test/bag.png"},
		Variants: []commerce.Variant{{ID: id * 10, Price: "30.00"}},
	}, nil
}

func (r *memRepo) BrandProducts(context.Context, string) ([]commerce.Product, error) {
	return nil, nil
}

type stubCustomers struct {
	current commerce.Customer
	updates []commerce.CustomerUpdate
}

func (s *stubCustomers) GetCustomer(_ context.Context, id int64) (*commerce.Customer, error) {
	c := s.current
	c.ID = id
	return &c, nil
}

func (s *stubCustomers) UpdateCustomer(_ context.Context, in commerce.CustomerUpdate) (*commerce.Customer, error) {
	s.updates = append(s.updates, in)
	return &commerce.Customer{ID: in.ID}, nil
}

func setup(t *testing.T) (*Service, *memRepo, *session.Session, *stubCustomers) {
	t.Helper()
	repo := newMemRepo()
	customers := &stubCustomers{}
	sess, err := session.Load(context.Background(), kvstore.NewMemory(), "dev-1", nil)
	require.NoError(t, err)
	return New(draftorder.NewEditor(repo), customers, nil), repo, sess, customers
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo, sess, _ := setup(t)

	_, err := svc.Add(ctx, sess, 3)
	require.NoError(t, err)
	writes := repo.replaceCalls
	favs, err := svc.Add(ctx, sess, 3)
	require.NoError(t, err)

	assert.Equal(t, writes, repo.replaceCalls)
	require.Len(t, favs.Items, 1)
	assert.Equal(t, int64(3), favs.Items[0].ProductID)
	assert.Equal(t, "https://cdn.test/bag.png", favs.Items[0].ImageURL)
	assert.Equal(t, int64(901), sess.Snapshot().FavListID)
}

func TestAddRecordsListOnCustomerNote(t *testing.T) {
	ctx := context.Background()
	svc, _, sess, customers := setup(t)
	require.NoError(t, sess.LogIn(ctx, session.Identity{CustomerID: 5}))

	_, err := svc.Add(ctx, sess, 3)

	require.NoError(t, err)
	require.Len(t, customers.updates, 1)
	assert.Equal(t, "shopfront-favorites:901", *customers.updates[0].Note)
	assert.Nil(t, customers.updates[0].Tags)
}

func TestRemoveDropsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, repo, sess, _ := setup(t)
	_, err := svc.Add(ctx, sess, 3)
	require.NoError(t, err)
	listID := sess.Snapshot().FavListID
	repo.lists[listID] = append(repo.lists[listID], repo.lists[listID][1])

	favs, err := svc.Remove(ctx, sess, 3)

	require.NoError(t, err)
	assert.Empty(t, favs.Items)
	assert.Equal(t, draftlist.Cleared(), repo.lists[listID])
}

func TestIsFavoriteWithoutListCreatesNothing(t *testing.T) {
	svc, repo, sess, _ := setup(t)

	ok, err := svc.IsFavorite(context.Background(), sess, 3)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, repo.createCalls)
	assert.Zero(t, repo.fetchCalls)
}

func TestMembershipUsesOneFetch(t *testing.T) {
	ctx := context.Background()
	svc, repo, sess, _ := setup(t)
	for _, id := range []int64{1, 3} {
		_, err := svc.Add(ctx, sess, id)
		require.NoError(t, err)
	}
	fetches := repo.fetchCalls

	m, err := svc.Membership(ctx, sess, []int64{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 2: false, 3: true}, m)
	assert.Equal(t, fetches+1, repo.fetchCalls)
}
