package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/panaah/panaah/internal/model"
)

var (
	ErrListingNotFound = errors.New("listing not found")
)

type ListingRepository interface {
	Create(listing *model.Listing) error
	ByID(id string) (*model.Listing, error)
	ByOwner(ownerID string) ([]*model.Listing, error)
	UpdateImages(id string, images model.StringList) error
}

type listingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(listing *model.Listing) error {
	query := `
		INSERT INTO listings (
			id, owner_id, title, description, category, subcategory, room_type,
			gender_allowed, price, is_free, amenities, locality, area, city,
			district, state, available_from, images, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`
	_, err := r.db.Exec(query,
		listing.ID,
		listing.OwnerID,
		listing.Title,
		listing.Description,
		listing.Category,
		listing.Subcategory,
		listing.RoomType,
		listing.GenderAllowed,
		listing.Price,
		listing.IsFree,
		listing.Amenities,
		listing.Locality,
		listing.Area,
		listing.City,
		listing.District,
		listing.State,
		listing.AvailableFrom,
		listing.Images,
		listing.CreatedAt,
	)
	return err
}

func (r *listingRepository) ByID(id string) (*model.Listing, error) {
	listing := &model.Listing{}
	query := `SELECT * FROM listings WHERE id = $1`

	err := r.db.Get(listing, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrListingNotFound
	}

	return listing, err
}

func (r *listingRepository) ByOwner(ownerID string) ([]*model.Listing, error) {
	var listings []*model.Listing
	query := `SELECT * FROM listings WHERE owner_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&listings, query, ownerID)
	if err != nil {
		return nil, err
	}

	return listings, nil
}

// UpdateImages overwrites the images column. Last write wins on concurrent
// calls; no version check is applied.
func (r *listingRepository) UpdateImages(id string, images model.StringList) error {
	query := `UPDATE listings SET images = $1 WHERE id = $2`

	result, err := r.db.Exec(query, images, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrListingNotFound
	}

	return nil
}
