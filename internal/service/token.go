package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/panaah/panaah/internal/model"
	"github.com/panaah/panaah/internal/repository"
)

var (
	ErrTokenNotFound = errors.New("verification token not found")
	ErrTokenMismatch = errors.New("token does not belong to this email")
	ErrTokenExpired  = errors.New("verification token has expired")
)

// TokenService issues and checks email verification tokens. A token is an
// opaque 256-bit random value bound to the email address it authorizes, valid
// for a fixed window from issuance.
type TokenService struct {
	tokenRepository repository.TokenRepository
	expiry          time.Duration
}

func NewTokenService(tokenRepository repository.TokenRepository, expiry time.Duration) *TokenService {
	return &TokenService{
		tokenRepository: tokenRepository,
		expiry:          expiry,
	}
}

// Issue persists a fresh token for the identifier and returns it. It does not
// check for existing live tokens; callers wanting single-live-token semantics
// must call InvalidateAll first.
func (s *TokenService) Issue(identifier string) (*model.VerificationToken, error) {
	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	token := &model.VerificationToken{
		Identifier: identifier,
		Token:      hex.EncodeToString(raw),
		ExpiresAt:  now.Add(s.expiry),
		CreatedAt:  now,
	}

	err = s.tokenRepository.Create(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}

// Validate checks a token against the supplied identifier without mutating
// state. The three failure modes are distinct so callers can tell an unknown
// link apart from one that belongs to another email.
func (s *TokenService) Validate(token, identifier string) error {
	t, err := s.tokenRepository.ByToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	if t.Identifier != identifier {
		return ErrTokenMismatch
	}

	if t.IsExpired() {
		return ErrTokenExpired
	}

	return nil
}

// Consume deletes the token. At most one of two concurrent calls succeeds,
// the other gets ErrTokenNotFound.
func (s *TokenService) Consume(token string) error {
	err := s.tokenRepository.Consume(token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to consume token: %w", err)
	}
	return nil
}

// InvalidateAll deletes every token for the identifier. Used before
// re-issuance so stale tokens don't accumulate.
func (s *TokenService) InvalidateAll(identifier string) error {
	return s.tokenRepository.DeleteByIdentifier(identifier)
}
