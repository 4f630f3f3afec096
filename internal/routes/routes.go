package routes

import (
	"net/http"

	"github.com/panaah/panaah/internal/app"
	"github.com/panaah/panaah/internal/handler"
	"github.com/panaah/panaah/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	auth := handler.NewAuthHandler(a.AuthService, a.Cfg.JWTExpiry)
	listing := handler.NewListingHandler(a.ListingService)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Auth flow (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("POST /api/auth/verify-email", auth.VerifyEmail)
	mux.HandleFunc("POST /api/auth/resend-verification", rateLimiter(auth.ResendVerification))

	// Listings
	mux.HandleFunc("GET /api/listings/{id}", listing.Show)
	mux.HandleFunc("GET /api/listings/mine", middleware.RequireAuth(listing.Mine))
	mux.HandleFunc("POST /api/listings", middleware.RequireAuth(listing.Create))
	mux.HandleFunc("POST /api/listings/{id}/images", middleware.RequireAuth(listing.UploadImages))
	mux.HandleFunc("PUT /api/listings/{id}/images", middleware.RequireAuth(listing.UpdateImages))

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(a.AuthService),
	)
}
