package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/panaah/panaah/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Create(token *model.VerificationToken) error
	ByToken(token string) (*model.VerificationToken, error)
	Consume(token string) error
	DeleteByIdentifier(identifier string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (identifier, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(query,
		token.Identifier,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

func (r *tokenRepository) ByToken(token string) (*model.VerificationToken, error) {
	var t model.VerificationToken
	query := `SELECT * FROM verification_tokens WHERE token = $1`

	err := r.db.Get(&t, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// Consume atomically deletes the token row. The single DELETE is the
// check-and-delete: of two concurrent calls with the same token, exactly one
// observes a deleted row, the other gets ErrTokenNotFound. This holds across
// multiple service instances because the database arbitrates.
func (r *tokenRepository) Consume(token string) error {
	query := `DELETE FROM verification_tokens WHERE token = $1`

	result, err := r.db.Exec(query, token)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTokenNotFound
	}

	return nil
}

func (r *tokenRepository) DeleteByIdentifier(identifier string) error {
	query := `DELETE FROM verification_tokens WHERE identifier = $1`
	_, err := r.db.Exec(query, identifier)
	return err
}
