package repository

import (
	"testing"
	"time"

	"github.com/panaah/panaah/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id, email string) *model.User {
	return &model.User{
		ID:           id,
		Name:         "Alice",
		Email:        email,
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(newUser("u1", "a@x.com")))

	byID, err := repo.ByID("u1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
	assert.Nil(t, byID.EmailVerifiedAt)

	byEmail, err := repo.ByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	_, err = repo.ByID("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.ByEmail("missing@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(newUser("u1", "a@x.com")))

	err := repo.Create(newUser("u2", "a@x.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_SetEmailVerified(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(newUser("u1", "a@x.com")))

	verifiedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.SetEmailVerified("u1", verifiedAt))

	user, err := repo.ByID("u1")
	require.NoError(t, err)
	require.NotNil(t, user.EmailVerifiedAt)
	assert.Equal(t, verifiedAt.Unix(), user.EmailVerifiedAt.Unix())

	err = repo.SetEmailVerified("missing", verifiedAt)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
