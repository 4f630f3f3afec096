package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/panaah/panaah/internal/model"
	"github.com/panaah/panaah/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeListingRepository is an in-memory ListingRepository.
type fakeListingRepository struct {
	mu       sync.Mutex
	listings map[string]*model.Listing
}

func newFakeListingRepository() *fakeListingRepository {
	return &fakeListingRepository{listings: make(map[string]*model.Listing)}
}

func (r *fakeListingRepository) Create(listing *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := *listing
	r.listings[listing.ID] = &l
	return nil
}

func (r *fakeListingRepository) ByID(id string) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *fakeListingRepository) ByOwner(ownerID string) ([]*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Listing
	for _, l := range r.listings {
		if l.OwnerID == ownerID {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeListingRepository) UpdateImages(id string, images model.StringList) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return repository.ErrListingNotFound
	}
	l.Images = images
	return nil
}

// fakeStorage records saves and can be told to fail the Nth call.
type fakeStorage struct {
	mu        sync.Mutex
	saved     []string
	calls     int
	failCalls map[int]bool
}

func (s *fakeStorage) Save(path string, file io.Reader, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failCalls[s.calls] {
		return errors.New("storage unavailable")
	}
	s.saved = append(s.saved, path)
	return nil
}

func (s *fakeStorage) Delete(path string) error { return nil }

func (s *fakeStorage) URL(path string) string {
	return "https://cdn.test/" + path
}

func validListing() *model.Listing {
	price := int64(7500)
	return &model.Listing{
		Title:         "Sunny room near campus",
		Description:   "A bright private room with an attached bathroom.",
		Category:      model.CategoryPG,
		Subcategory:   "Private Room PG",
		GenderAllowed: model.GenderAllowedAll,
		Price:         &price,
		Amenities:     model.StringList{"WiFi", "Laundry"},
		Locality:      "Koramangala",
		City:          "Bengaluru",
		District:      "Bengaluru Urban",
		State:         "Karnataka",
	}
}

func TestListingService_Create(t *testing.T) {
	repo := newFakeListingRepository()
	svc := NewListingService(repo, &fakeStorage{})

	id, err := svc.Create("owner-1", validListing())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored, err := repo.ByID(id)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", stored.OwnerID)
	assert.NotNil(t, stored.Images)
	assert.Empty(t, stored.Images, "a new listing has no images, regardless of what the caller will upload")
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestListingService_Create_RejectsBadInput(t *testing.T) {
	repo := newFakeListingRepository()
	svc := NewListingService(repo, &fakeStorage{})

	bad := validListing()
	bad.Subcategory = "Penthouse"

	_, err := svc.Create("owner-1", bad)
	assert.Error(t, err)
	assert.Empty(t, repo.listings, "nothing may be persisted for invalid input")
}

type uploadFile struct {
	name        string
	contentType string
	content     []byte
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func pngFile(name string) uploadFile {
	return uploadFile{
		name:        name,
		contentType: "image/png",
		content:     append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...),
	}
}

// makeFileHeaders builds real multipart file headers so header.Open works.
func makeFileHeaders(t *testing.T, files []uploadFile) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.name))
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["files"]
}

func TestListingService_UploadImages(t *testing.T) {
	t.Run("uploads all files in order", func(t *testing.T) {
		store := &fakeStorage{}
		svc := NewListingService(newFakeListingRepository(), store)

		headers := makeFileHeaders(t, []uploadFile{pngFile("one.png"), pngFile("two.png")})
		urls := svc.UploadImages("L1", headers)

		require.Len(t, urls, 2)
		for i, url := range urls {
			assert.Equal(t, "https://cdn.test/"+store.saved[i], url)
			assert.True(t, strings.HasPrefix(store.saved[i], "listings/L1/"), "keys are scoped to the listing")
			assert.True(t, strings.HasSuffix(store.saved[i], ".png"))
		}
	})

	t.Run("skips failed uploads without aborting the batch", func(t *testing.T) {
		store := &fakeStorage{failCalls: map[int]bool{2: true}}
		svc := NewListingService(newFakeListingRepository(), store)

		headers := makeFileHeaders(t, []uploadFile{pngFile("one.png"), pngFile("two.png"), pngFile("three.png")})
		urls := svc.UploadImages("L1", headers)

		assert.Len(t, urls, 2, "the failed file is omitted, the rest survive")
	})

	t.Run("skips files that are not images", func(t *testing.T) {
		store := &fakeStorage{}
		svc := NewListingService(newFakeListingRepository(), store)

		headers := makeFileHeaders(t, []uploadFile{
			{name: "notes.txt", contentType: "text/plain", content: []byte("just text")},
			pngFile("one.png"),
		})
		urls := svc.UploadImages("L1", headers)

		require.Len(t, urls, 1)
		assert.Equal(t, 1, store.calls, "rejected files never reach storage")
	})

	t.Run("returns empty slice when every upload fails", func(t *testing.T) {
		store := &fakeStorage{failCalls: map[int]bool{1: true, 2: true}}
		svc := NewListingService(newFakeListingRepository(), store)

		headers := makeFileHeaders(t, []uploadFile{pngFile("one.png"), pngFile("two.png")})
		urls := svc.UploadImages("L1", headers)

		assert.Empty(t, urls)
	})
}

func TestListingService_UpdateImages(t *testing.T) {
	repo := newFakeListingRepository()
	svc := NewListingService(repo, &fakeStorage{})

	id, err := svc.Create("owner-1", validListing())
	require.NoError(t, err)

	urls := []string{"https://s/1.png", "https://s/2.png", "https://s/3.png"}
	listing, err := svc.UpdateImages(id, urls)
	require.NoError(t, err)
	assert.Equal(t, model.StringList(urls), listing.Images, "input order is preserved exactly")

	// Overwrite, not append
	listing, err = svc.UpdateImages(id, []string{"https://s/9.png"})
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"https://s/9.png"}, listing.Images)
}

func TestListingService_UpdateImages_NotFound(t *testing.T) {
	svc := NewListingService(newFakeListingRepository(), &fakeStorage{})

	_, err := svc.UpdateImages("missing", []string{"https://s/1.png"})
	assert.ErrorIs(t, err, ErrListingNotFound)
}
