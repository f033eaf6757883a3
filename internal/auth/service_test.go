package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryAuthRepo struct {
	users  map[int64]User
	nextID int64
}

func newMemoryAuthRepo() *memoryAuthRepo {
	return &memoryAuthRepo{users: make(map[int64]User)}
}

func (r *memoryAuthRepo) CreateUser(ctx context.Context, user User) (User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return User{}, ErrEmailTaken
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryAuthRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryAuthRepo) ListUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *memoryAuthRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Status = status
	r.users[id] = user
	return nil
}

func newTestService() (*Service, *memoryAuthRepo) {
	repo := newMemoryAuthRepo()
	return NewService(repo, NewTokenManager("test-secret", time.Hour)), repo
}

func TestRegisterStartsPending(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@cherry.test", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, StatusPending, user.Status)
	require.Equal(t, RoleUser, user.Role)
	require.NotEqual(t, "secret123", user.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@cherry.test", Password: "secret123"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginApprovalGate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@cherry.test", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ana@cherry.test", "secret123")
	require.ErrorIs(t, err, ErrAccountPending)

	require.NoError(t, svc.SetStatus(ctx, user.ID, StatusRejected))
	_, _, err = svc.Login(ctx, "ana@cherry.test", "secret123")
	require.ErrorIs(t, err, ErrAccountRejected)

	require.NoError(t, svc.SetStatus(ctx, user.ID, StatusApproved))
	token, logged, err := svc.Login(ctx, "ana@cherry.test", "secret123")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)
	require.NotEmpty(t, token)
}

func TestLoginDoesNotLeakExistence(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@cherry.test", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(ctx, user.ID, StatusApproved))

	_, _, wrongPassword := svc.Login(ctx, "ana@cherry.test", "nope-nope")
	_, _, unknownEmail := svc.Login(ctx, "ghost@cherry.test", "secret123")
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	raw, err := tokens.Issue(User{ID: 42, Name: "Ana", Role: RoleAdmin})
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID())
	require.Equal(t, RoleAdmin, claims.Role)
	require.Equal(t, "Ana", claims.Name)

	_, err = tokens.Parse(raw + "tampered")
	require.Error(t, err)

	other := NewTokenManager("other-secret", time.Hour)
	_, err = other.Parse(raw)
	require.Error(t, err)
}

func TestSetStatusValidatesValue(t *testing.T) {
	svc, _ := newTestService()
	err := svc.SetStatus(context.Background(), 1, Status("frozen"))
	require.ErrorIs(t, err, ErrValidation)
}
