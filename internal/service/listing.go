package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/panaah/panaah/internal/model"
	"github.com/panaah/panaah/internal/repository"
	"github.com/panaah/panaah/internal/storage"
	"github.com/panaah/panaah/internal/validation"
)

var (
	ErrListingNotFound = errors.New("listing not found")
)

// ListingService runs the three-phase listing creation flow: create the row,
// upload assets, attach the surviving URLs. The phases are deliberately not
// wrapped in one transaction; a listing whose uploads never complete persists
// with empty images.
type ListingService struct {
	listingRepository repository.ListingRepository
	storage           storage.Storage
}

func NewListingService(listingRepository repository.ListingRepository, storage storage.Storage) *ListingService {
	return &ListingService{
		listingRepository: listingRepository,
		storage:           storage,
	}
}

// Create persists a listing with no images. Phase one of the flow: the row
// must exist before assets can be keyed under its ID.
func (s *ListingService) Create(ownerID string, listing *model.Listing) (string, error) {
	err := validation.ValidateListing(listing)
	if err != nil {
		return "", err
	}

	listing.ID = uuid.New().String()
	listing.OwnerID = ownerID
	listing.Images = model.StringList{}
	listing.CreatedAt = time.Now()

	err = s.listingRepository.Create(listing)
	if err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}

	slog.Info("listing created", "listing_id", listing.ID, "owner_id", ownerID)
	return listing.ID, nil
}

// UploadImages stores each file under a key scoped to the listing and returns
// the public URLs of the files that made it. Failed files are logged and
// skipped; the batch never aborts. Phase two of the flow.
func (s *ListingService) UploadImages(listingID string, files []*multipart.FileHeader) []string {
	urls := make([]string, 0, len(files))

	for _, header := range files {
		err := validation.ValidateFile(header, validation.ImageConstraints)
		if err != nil {
			slog.Warn("skipping invalid image", "error", err, "listing_id", listingID, "filename", header.Filename)
			continue
		}

		file, err := header.Open()
		if err != nil {
			slog.Warn("failed to open uploaded image", "error", err, "listing_id", listingID, "filename", header.Filename)
			continue
		}

		ext := filepath.Ext(header.Filename)
		path := fmt.Sprintf("listings/%s/%s%s", listingID, uuid.New().String(), ext)

		err = s.storage.Save(path, file, header.Header.Get("Content-Type"))
		_ = file.Close()
		if err != nil {
			slog.Warn("failed to upload image", "error", err, "listing_id", listingID, "filename", header.Filename)
			continue
		}

		urls = append(urls, s.storage.URL(path))
	}

	return urls
}

// UpdateImages overwrites the listing's images with the supplied URLs in
// order. Phase three of the flow. The URLs are trusted as-is; nothing checks
// that they point at assets belonging to this listing.
func (s *ListingService) UpdateImages(listingID string, urls []string) (*model.Listing, error) {
	err := s.listingRepository.UpdateImages(listingID, model.StringList(urls))
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to update images: %w", err)
	}

	listing, err := s.listingRepository.ByID(listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return listing, nil
}

func (s *ListingService) ByID(id string) (*model.Listing, error) {
	listing, err := s.listingRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *ListingService) ByOwner(ownerID string) ([]*model.Listing, error) {
	return s.listingRepository.ByOwner(ownerID)
}
