package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/panaah/panaah/internal/service"
	"github.com/panaah/panaah/internal/validation"
)

type authHandler struct {
	authService *service.AuthService
	jwtExpiry   time.Duration
}

func NewAuthHandler(authService *service.AuthService, jwtExpiry time.Duration) *authHandler {
	return &authHandler{
		authService: authService,
		jwtExpiry:   jwtExpiry,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := h.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			respondError(w, http.StatusConflict, "User with this email already exists")
			return
		}
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("signup failed", "error", err, "email", req.Email)
		respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"userId":  userID,
		"message": "Account created successfully! Please check your email to verify your account.",
	})
}

type verifyEmailRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (h *authHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	err := decodeJSON(r, &req)
	if err != nil || req.Token == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "token and email are required")
		return
	}

	err = h.authService.VerifyEmail(req.Token, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound),
			errors.Is(err, service.ErrTokenMismatch),
			errors.Is(err, service.ErrTokenExpired):
			// The service keeps the three failures distinct; the end user
			// gets one generic message for all of them.
			slog.Warn("email verification failed", "error", err, "email", req.Email)
			respondError(w, http.StatusBadRequest, "Invalid or expired verification link")
		default:
			slog.Error("email verification failed", "error", err, "email", req.Email)
			respondError(w, http.StatusInternalServerError, "verification failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Email verified successfully! You can now sign in.",
	})
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

func (h *authHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	err := decodeJSON(r, &req)
	if err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	err = h.authService.ResendVerification(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAccount):
			respondError(w, http.StatusNotFound, "No account found with this email")
		case errors.Is(err, service.ErrAlreadyVerified):
			respondError(w, http.StatusConflict, "Email is already verified")
		case errors.Is(err, service.ErrEmailSendFailed):
			slog.Error("resend verification failed", "error", err, "email", req.Email)
			respondError(w, http.StatusBadGateway, "Failed to send verification email")
		default:
			slog.Error("resend verification failed", "error", err, "email", req.Email)
			respondError(w, http.StatusInternalServerError, "resend failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Verification email sent successfully!",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err != nil || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrEmailNotVerified):
			respondError(w, http.StatusForbidden, "Please verify your email first")
		default:
			slog.Error("login failed", "error", err, "email", req.Email)
			respondError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(h.jwtExpiry))

	respondJSON(w, http.StatusOK, map[string]any{
		"userId": user.ID,
		"name":   user.Name,
		"email":  user.Email,
	})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// isValidationError reports whether the error came from input validation
// rather than a downstream failure.
func isValidationError(err error) bool {
	var verr validation.Error
	return errors.As(err, &verr)
}
