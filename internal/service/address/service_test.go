package address

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/session"
)

type fakeSession struct{ st session.State }

func (f fakeSession) Snapshot() session.State { return f.st }

var loggedIn = fakeSession{st: session.State{LoggedIn: true, CustomerID: 7}}

type stubBook struct {
	addrs       []commerce.Address
	nextID      int64
	defaultSets []int64
	deleted     []int64
}

func (b *stubBook) ListAddresses(context.Context, int64) ([]commerce.Address, error) {
	return b.addrs, nil
}

func (b *stubBook) CreateAddress(_ context.Context, _ int64, a commerce.Address) (*commerce.Address, error) {
	b.nextID++
	a.ID = b.nextID
	a.Default = false
	b.addrs = append(b.addrs, a)
	return &a, nil
}

func (b *stubBook) UpdateAddress(_ context.Context, _ int64, a commerce.Address) (*commerce.Address, error) {
	a.Default = false
	return &a, nil
}

func (b *stubBook) SetDefaultAddress(_ context.Context, _ int64, id int64) (*commerce.Address, error) {
	b.defaultSets = append(b.defaultSets, id)
	var out *commerce.Address
	for i := range b.addrs {
		b.addrs[i].Default = b.addrs[i].ID == id
		if b.addrs[i].ID == id {
			a := b.addrs[i]
			out = &a
		}
	}
	if out == nil {
		return nil, domain.NewError(domain.KindNotFound, "address not found")
	}
	return out, nil
}

func (b *stubBook) DeleteAddress(_ context.Context, _ int64, id int64) error {
	b.deleted = append(b.deleted, id)
	return nil
}

func validAddress() domain.Address {
	return domain.Address{Address1: "1 Main St", City: "Springfield", Country: "US", CountryCode: "US", Phone: "5551234567"}
}

func TestRequiresLogin(t *testing.T) {
	svc := New(&stubBook{}, nil)

	_, err := svc.List(context.Background(), fakeSession{})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAddValidatesFields(t *testing.T) {
	svc := New(&stubBook{}, nil)
	in := validAddress()
	in.Phone = "123"

	_, err := svc.Add(context.Background(), loggedIn, in)

	require.ErrorIs(t, err, domain.ErrValidation)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "phone", derr.Field)

	in = validAddress()
	in.City = ""
	_, err = svc.Add(context.Background(), loggedIn, in)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "city", derr.Field)
	assert.Equal(t, "city is required", derr.Message)
}

func TestFirstAddressBecomesDefault(t *testing.T) {
	book := &stubBook{}
	svc := New(book, nil)

	first, err := svc.Add(context.Background(), loggedIn, validAddress())
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), loggedIn, validAddress())
	require.NoError(t, err)

	assert.True(t, first.Default)
	assert.False(t, second.Default)
	assert.Equal(t, []int64{1}, book.defaultSets)
}

func TestListPutsDefaultFirst(t *testing.T) {
	book := &stubBook{addrs: []commerce.Address{{ID: 1}, {ID: 2, Default: true}}}
	svc := New(book, nil)

	list, err := svc.List(context.Background(), loggedIn)

	require.NoError(t, err)
	assert.Equal(t, int64(2), list[0].ID)
	def, err := svc.Default(context.Background(), loggedIn)
	require.NoError(t, err)
	assert.Equal(t, int64(2), def.ID)
}

func TestDeleteDefaultIsRejected(t *testing.T) {
	book := &stubBook{addrs: []commerce.Address{{ID: 1, Default: true}, {ID: 2}}}
	svc := New(book, nil)

	err := svc.Delete(context.Background(), loggedIn, 1)
	assert.ErrorIs(t, err, domain.ErrBusiness)
	assert.Empty(t, book.deleted)

	require.NoError(t, svc.Delete(context.Background(), loggedIn, 2))
	assert.Equal(t, []int64{2}, book.deleted)

	err = svc.Delete(context.Background(), loggedIn, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetDefaultSwitchesDefault(t *testing.T) {
	book := &stubBook{addrs: []commerce.Address{{ID: 1, Default: true}, {ID: 2}}}
	svc := New(book, nil)

	a, err := svc.SetDefault(context.Background(), loggedIn, 2)

	require.NoError(t, err)
	assert.True(t, a.Default)
	assert.False(t, book.addrs[0].Default)
}

func TestUpdateRequiresID(t *testing.T) {
	svc := New(&stubBook{}, nil)

	_, err := svc.Update(context.Background(), loggedIn, validAddress())

	assert.ErrorIs(t, err, domain.ErrValidation)
}
