package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/panaah/panaah/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToken(identifier, token string) *model.VerificationToken {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.VerificationToken{
		Identifier: identifier,
		Token:      token,
		ExpiresAt:  now.Add(24 * time.Hour),
		CreatedAt:  now,
	}
}

func TestTokenRepository_CreateAndByToken(t *testing.T) {
	repo := NewTokenRepository(newTestDB(t))

	created := newToken("a@x.com", "tok-1")
	require.NoError(t, repo.Create(created))

	got, err := repo.ByToken("tok-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Identifier)
	assert.Equal(t, created.ExpiresAt.Unix(), got.ExpiresAt.Unix())

	_, err = repo.ByToken("unknown")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenRepository_Consume(t *testing.T) {
	repo := NewTokenRepository(newTestDB(t))

	require.NoError(t, repo.Create(newToken("a@x.com", "tok-1")))

	require.NoError(t, repo.Consume("tok-1"))

	err := repo.Consume("tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound, "a consumed token is gone")

	_, err = repo.ByToken("tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenRepository_Consume_Concurrent(t *testing.T) {
	repo := NewTokenRepository(newTestDB(t))

	require.NoError(t, repo.Create(newToken("a@x.com", "tok-1")))

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Consume("tok-1")
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrTokenNotFound)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent consume succeeds")
}

func TestTokenRepository_DeleteByIdentifier(t *testing.T) {
	repo := NewTokenRepository(newTestDB(t))

	require.NoError(t, repo.Create(newToken("a@x.com", "tok-1")))
	require.NoError(t, repo.Create(newToken("a@x.com", "tok-2")))
	require.NoError(t, repo.Create(newToken("b@x.com", "tok-3")))

	require.NoError(t, repo.DeleteByIdentifier("a@x.com"))

	_, err := repo.ByToken("tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, err = repo.ByToken("tok-2")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// Other identifiers keep their tokens
	_, err = repo.ByToken("tok-3")
	assert.NoError(t, err)
}
