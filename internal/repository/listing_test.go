package repository

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/panaah/panaah/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListing(id, ownerID string) *model.Listing {
	price := int64(9000)
	return &model.Listing{
		ID:            id,
		OwnerID:       ownerID,
		Title:         "2 BHK near the lake",
		Description:   "Furnished flat with balcony and parking.",
		Category:      model.CategoryFlat,
		Subcategory:   "2 BHK",
		GenderAllowed: model.GenderAllowedAll,
		Price:         &price,
		Amenities:     model.StringList{"Parking", "Balcony", "WiFi"},
		Locality:      "Ulsoor",
		City:          "Bengaluru",
		District:      "Bengaluru Urban",
		State:         "Karnataka",
		Images:        model.StringList{},
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func listingTestDB(t *testing.T) *sqlx.DB {
	conn := newTestDB(t)
	users := NewUserRepository(conn)
	require.NoError(t, users.Create(newUser("owner-1", "owner@x.com")))
	return conn
}

func TestListingRepository_CreateAndByID(t *testing.T) {
	repo := NewListingRepository(listingTestDB(t))

	require.NoError(t, repo.Create(newListing("L1", "owner-1")))

	got, err := repo.ByID("L1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.Equal(t, model.StringList{"Parking", "Balcony", "WiFi"}, got.Amenities, "amenity order survives the round trip")
	assert.Equal(t, model.StringList{}, got.Images)
	require.NotNil(t, got.Price)
	assert.Equal(t, int64(9000), *got.Price)

	_, err = repo.ByID("missing")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListingRepository_UpdateImages(t *testing.T) {
	repo := NewListingRepository(listingTestDB(t))

	require.NoError(t, repo.Create(newListing("L1", "owner-1")))

	urls := model.StringList{"https://s/1.png", "https://s/2.png"}
	require.NoError(t, repo.UpdateImages("L1", urls))

	got, err := repo.ByID("L1")
	require.NoError(t, err)
	assert.Equal(t, urls, got.Images, "stored sequence preserves upload order")

	err = repo.UpdateImages("missing", urls)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListingRepository_ByOwner(t *testing.T) {
	conn := listingTestDB(t)
	repo := NewListingRepository(conn)

	first := newListing("L1", "owner-1")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(newListing("L2", "owner-1")))

	listings, err := repo.ByOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "L2", listings[0].ID, "newest first")

	listings, err = repo.ByOwner("someone-else")
	require.NoError(t, err)
	assert.Empty(t, listings)
}
