package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	users  []User
	hashes map[int64]string
	nextID int64
}

func (f *fakeRepo) ListByTenant(_ context.Context, tenantID int64) ([]User, error) {
	out := []User{}
	for _, u := range f.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, tenantID int64, in CreateInput, passwordHash string) (User, error) {
	f.nextID++
	user := User{ID: f.nextID, TenantID: tenantID, Email: in.Email, Name: in.Name, Audience: in.Audience, IsActive: true}
	f.users = append(f.users, user)
	if f.hashes == nil {
		f.hashes = make(map[int64]string)
	}
	f.hashes[user.ID] = passwordHash
	return user, nil
}

func (f *fakeRepo) SetActive(_ context.Context, tenantID, id int64, active bool) (User, error) {
	for i := range f.users {
		if f.users[i].TenantID == tenantID && f.users[i].ID == id {
			f.users[i].IsActive = active
			return f.users[i], nil
		}
	}
	return User{}, context.Canceled
}

func TestCreateHashesPassword(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	user, err := svc.Create(context.Background(), 4, CreateInput{
		Email:    "clerk@acme.test",
		Name:     "Clerk",
		Password: "supersecret",
		Audience: "tenant_user",
	})
	require.NoError(t, err)

	hash := repo.hashes[user.ID]
	require.NotEmpty(t, hash)
	require.NotEqual(t, "supersecret", hash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("supersecret")))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(&fakeRepo{})

	cases := []CreateInput{
		{Email: "not-an-email", Name: "X", Password: "supersecret", Audience: "tenant_user"},
		{Email: "ok@acme.test", Name: "X", Password: "short", Audience: "tenant_user"},
		{Email: "ok@acme.test", Name: "X", Password: "supersecret", Audience: "platform"},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), 4, in)
		require.Error(t, err, "input %+v", in)
	}
}

func TestListScopedByTenant(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 4, CreateInput{Email: "a@acme.test", Name: "A", Password: "supersecret", Audience: "tenant_user"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 5, CreateInput{Email: "b@other.test", Name: "B", Password: "supersecret", Audience: "tenant_user"})
	require.NoError(t, err)

	users, err := svc.List(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "a@acme.test", users[0].Email)
}

func TestDeactivateTogglesFlag(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	user, err := svc.Create(context.Background(), 4, CreateInput{
		Email:    "clerk@acme.test",
		Name:     "Clerk",
		Password: "supersecret",
		Audience: "tenant_user",
	})
	require.NoError(t, err)

	updated, err := svc.Deactivate(context.Background(), 4, user.ID)
	require.NoError(t, err)
	require.False(t, updated.IsActive)

	restored, err := svc.Activate(context.Background(), 4, user.ID)
	require.NoError(t, err)
	require.True(t, restored.IsActive)
}
