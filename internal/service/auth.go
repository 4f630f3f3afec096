package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/panaah/panaah/internal/model"
	"github.com/panaah/panaah/internal/repository"
	"github.com/panaah/panaah/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrNoAccount          = errors.New("no account found with this email")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrEmailSendFailed    = errors.New("failed to send verification email")
)

// bcryptCost is deliberately above the library default; signup is rare and
// slow hashing is the point.
const bcryptCost = 12

// TokenStore is the verification token lifecycle used by the auth flows.
// Implemented by TokenService.
type TokenStore interface {
	Issue(identifier string) (*model.VerificationToken, error)
	Validate(token, identifier string) error
	Consume(token string) error
	InvalidateAll(identifier string) error
}

// EmailSender dispatches transactional email. Implemented by EmailService.
type EmailSender interface {
	SendVerificationEmail(email, token, name string) error
}

type AuthService struct {
	userRepository repository.UserRepository
	tokens         TokenStore
	email          EmailSender
	jwtSecret      string
	jwtExpiry      time.Duration
	isProduction   bool
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokens TokenStore,
	email EmailSender,
	jwtSecret string,
	jwtExpiry time.Duration,
	isProduction bool,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		tokens:         tokens,
		email:          email,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
		isProduction:   isProduction,
	}
}

// Signup creates an unverified account, issues a verification token and sends
// the verification email. A failed email send does not roll anything back:
// the account is worth more than the email and the user can request a resend.
func (s *AuthService) Signup(name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateName(name)
	if err != nil {
		return "", err
	}
	err = validation.ValidateEmail(email)
	if err != nil {
		return "", err
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return "", err
	}

	// Not atomic with the INSERT below; a concurrent signup for the same
	// email can pass this check and then hit the unique constraint.
	existing, err := s.userRepository.ByEmail(email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return "", ErrEmailAlreadyExists
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedBytes),
		CreatedAt:    time.Now(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost the race against a concurrent signup
			return "", ErrEmailAlreadyExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return "", fmt.Errorf("failed to issue verification token: %w", err)
	}

	err = s.email.SendVerificationEmail(email, token.Token, name)
	if err != nil {
		// Deliberately swallowed: the user can request a resend
		slog.Warn("failed to send verification email", "error", err, "email", email)
	}

	slog.Info("user signed up", "user_id", user.ID, "email", email)
	return user.ID, nil
}

// VerifyEmail consumes the token and marks the account verified. Consumption
// is the gate: if another request consumed the token first, the user update
// does not run. A second call with the same token gets ErrTokenNotFound.
func (s *AuthService) VerifyEmail(token, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	err := s.tokens.Validate(token, email)
	if err != nil {
		return err
	}

	err = s.tokens.Consume(token)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.userRepository.SetEmailVerified(user.ID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	slog.Info("email verified", "user_id", user.ID, "email", email)
	return nil
}

// ResendVerification invalidates previous tokens and sends a fresh link.
// Unlike signup, a failed send is surfaced: sending the email is the whole
// point of a resend.
func (s *AuthService) ResendVerification(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNoAccount
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsVerified() {
		return ErrAlreadyVerified
	}

	err = s.tokens.InvalidateAll(email)
	if err != nil {
		return fmt.Errorf("failed to invalidate old tokens: %w", err)
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	err = s.email.SendVerificationEmail(email, token.Token, user.Name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmailSendFailed, err)
	}

	slog.Info("verification email resent", "user_id", user.ID, "email", email)
	return nil
}

// Login checks credentials and requires a verified email.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified() {
		return nil, ErrEmailNotVerified
	}

	return user, nil
}

func (s *AuthService) UserByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
