package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/panaah/panaah/internal/ctxkeys"
	"github.com/panaah/panaah/internal/model"
	"github.com/panaah/panaah/internal/service"
	"github.com/panaah/panaah/internal/validation"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// files spill to temp files.
const maxUploadMemory = 32 << 20

type listingHandler struct {
	listingService *service.ListingService
}

func NewListingHandler(listingService *service.ListingService) *listingHandler {
	return &listingHandler{
		listingService: listingService,
	}
}

type createListingRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Subcategory   string     `json:"subcategory"`
	RoomType      string     `json:"roomType"`
	GenderAllowed string     `json:"genderAllowed"`
	Price         *int64     `json:"price"`
	IsFree        bool       `json:"isFree"`
	Amenities     []string   `json:"amenities"`
	Locality      string     `json:"locality"`
	Area          string     `json:"area"`
	City          string     `json:"city"`
	District      string     `json:"district"`
	State         string     `json:"state"`
	AvailableFrom *time.Time `json:"availableFrom"`
}

// Create is phase one of posting a listing: the row is created with no
// images, and the client uploads them afterwards against the returned ID.
func (h *listingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createListingRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing := &model.Listing{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		RoomType:      req.RoomType,
		GenderAllowed: req.GenderAllowed,
		Price:         req.Price,
		IsFree:        req.IsFree,
		Amenities:     model.StringList(req.Amenities),
		Locality:      req.Locality,
		Area:          req.Area,
		City:          req.City,
		District:      req.District,
		State:         req.State,
		AvailableFrom: req.AvailableFrom,
	}

	id, err := h.listingService.Create(user.ID, listing)
	if err != nil {
		var verr validation.Error
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to create listing", "error", err, "owner_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// UploadImages runs phases two and three: store each file under the listing's
// key space, then attach whatever survived. With zero surviving uploads the
// attach is skipped and the listing keeps its current images.
func (h *listingHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	listingID := r.PathValue("id")

	err := r.ParseMultipartForm(maxUploadMemory)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	urls := h.listingService.UploadImages(listingID, files)
	if len(urls) == 0 {
		respondJSON(w, http.StatusOK, map[string]any{"urls": []string{}})
		return
	}

	listing, err := h.listingService.UpdateImages(listingID, urls)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			respondError(w, http.StatusNotFound, "listing not found")
			return
		}
		slog.Error("failed to attach images", "error", err, "listing_id", listingID)
		respondError(w, http.StatusInternalServerError, "failed to attach images")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"urls":    urls,
		"listing": listing,
	})
}

type updateImagesRequest struct {
	URLs []string `json:"urls"`
}

// UpdateImages overwrites the stored image URLs in the supplied order.
func (h *listingHandler) UpdateImages(w http.ResponseWriter, r *http.Request) {
	listingID := r.PathValue("id")

	var req updateImagesRequest
	err := decodeJSON(r, &req)
	if err != nil || req.URLs == nil {
		respondError(w, http.StatusBadRequest, "urls are required")
		return
	}

	listing, err := h.listingService.UpdateImages(listingID, req.URLs)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			respondError(w, http.StatusNotFound, "listing not found")
			return
		}
		slog.Error("failed to update images", "error", err, "listing_id", listingID)
		respondError(w, http.StatusInternalServerError, "failed to update images")
		return
	}

	respondJSON(w, http.StatusOK, listing)
}

func (h *listingHandler) Show(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listingService.ByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			respondError(w, http.StatusNotFound, "listing not found")
			return
		}
		slog.Error("failed to get listing", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get listing")
		return
	}

	respondJSON(w, http.StatusOK, listing)
}

func (h *listingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	listings, err := h.listingService.ByOwner(user.ID)
	if err != nil {
		slog.Error("failed to list listings", "error", err, "owner_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to list listings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"listings": listings})
}
