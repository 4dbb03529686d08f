// AngelaMos | 2026
// fakes_test.go

package place

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/beanscore/internal/config"
	"github.com/carterperez-dev/beanscore/internal/core"
)

type storedPlace struct {
	place     Place
	photo     []byte
	thumbnail []byte
	seq       int
}

// memRepo mirrors the owner scoping of the SQL repository.
type memRepo struct {
	mu     sync.Mutex
	places map[string]*storedPlace
	clock  time.Time
	seq    int
	reads  int
}

func newMemRepo() *memRepo {
	return &memRepo{
		places: make(map[string]*storedPlace),
		clock:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memRepo) owned(id, ownerID string) (*storedPlace, bool) {
	sp, ok := r.places[id]
	if !ok || sp.place.UserID != ownerID {
		return nil, false
	}
	return sp, true
}

func (r *memRepo) snapshot(sp *storedPlace) Place {
	p := sp.place
	p.HasPhoto = sp.photo != nil
	return p
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID string) ([]Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]*storedPlace, 0)
	for _, sp := range r.places {
		if sp.place.UserID == ownerID {
			stored = append(stored, sp)
		}
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].seq < stored[j].seq })

	places := make([]Place, 0, len(stored))
	for _, sp := range stored {
		places = append(places, r.snapshot(sp))
	}
	return places, nil
}

func (r *memRepo) FindByIDAndOwner(_ context.Context, id, ownerID string) (*Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.owned(id, ownerID)
	if !ok {
		return nil, fmt.Errorf("find place: %w", core.ErrNotFound)
	}
	p := r.snapshot(sp)
	return &p, nil
}

func (r *memRepo) Create(_ context.Context, place *Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.tick()
	place.CreatedAt = now
	place.UpdatedAt = now

	r.seq++
	r.places[place.ID] = &storedPlace{place: *place, seq: r.seq}
	return nil
}

func (r *memRepo) Update(_ context.Context, place *Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.owned(place.ID, place.UserID)
	if !ok {
		return fmt.Errorf("update place: %w", core.ErrNotFound)
	}

	place.UpdatedAt = r.tick()
	place.PhotoContentType = sp.place.PhotoContentType
	place.CreatedAt = sp.place.CreatedAt
	sp.place = *place
	return nil
}

func (r *memRepo) DeleteByIDAndOwner(_ context.Context, id, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(id, ownerID); !ok {
		return 0, nil
	}
	delete(r.places, id)
	return 1, nil
}

func (r *memRepo) DeleteAllByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, sp := range r.places {
		if sp.place.UserID == ownerID {
			delete(r.places, id)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) SetPhoto(_ context.Context, id, ownerID string, upload PhotoUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.owned(id, ownerID)
	if !ok {
		return fmt.Errorf("set photo: %w", core.ErrNotFound)
	}

	ct := upload.ContentType
	sp.photo = bytes.Clone(upload.Photo)
	sp.thumbnail = bytes.Clone(upload.Thumbnail)
	sp.place.PhotoContentType = &ct
	sp.place.UpdatedAt = r.tick()
	return nil
}

func (r *memRepo) ClearPhoto(_ context.Context, id, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.owned(id, ownerID)
	if !ok {
		return 0, nil
	}

	sp.photo = nil
	sp.thumbnail = nil
	sp.place.PhotoContentType = nil
	sp.place.UpdatedAt = r.tick()
	return 1, nil
}

func (r *memRepo) GetAsset(
	_ context.Context,
	id, ownerID string,
	kind AssetKind,
) (*Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reads++

	sp, ok := r.owned(id, ownerID)
	if !ok {
		return nil, fmt.Errorf("get asset: %w", core.ErrNotFound)
	}
	if sp.photo == nil || sp.place.PhotoContentType == nil {
		return nil, fmt.Errorf("get asset: %w", ErrNoPhoto)
	}

	data := sp.photo
	if kind == AssetThumbnail {
		data = sp.thumbnail
	}

	return &Asset{
		Data:        bytes.Clone(data),
		ContentType: *sp.place.PhotoContentType,
		Version:     sp.place.UpdatedAt,
	}, nil
}

func (r *memRepo) WithTx(core.DBTX) Repository {
	return r
}

func (r *memRepo) assetReads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

type passthroughTx struct {
	calls int
}

func (p *passthroughTx) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	p.calls++
	return fn(nil)
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	}
	return data, ok
}

func (c *memCache) Set(_ context.Context, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = bytes.Clone(data)
}

type testEnv struct {
	svc   *Service
	repo  *memRepo
	tx    *passthroughTx
	cache *memCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newMemRepo()
	tx := &passthroughTx{}
	cache := newMemCache()

	return &testEnv{
		svc: NewService(repo, tx, cache, config.PhotoConfig{
			ThumbnailMaxEdge: 800,
			CacheTTL:         time.Hour,
		}),
		repo:  repo,
		tx:    tx,
		cache: cache,
	}
}

func validFields() Fields {
	handle := "bluebottle"
	return Fields{
		Name:            "Blue Bottle",
		Address:         "1 Ferry Building, San Francisco",
		InstagramHandle: &handle,
		CoffeeQuality:   5,
		Ambient:         4,
		HasVegMilk:      true,
	}
}

func mustCreate(t *testing.T, env *testEnv, ownerID string) *Place {
	t.Helper()

	p, err := env.svc.Create(context.Background(), ownerID, validFields())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func newOwnerID() string {
	return uuid.New().String()
}

func encodeTestImage(t *testing.T, contentType string, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 120,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	var err error
	switch contentType {
	case ContentTypeJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case ContentTypePNG:
		err = png.Encode(&buf, img)
	default:
		t.Fatalf("unsupported test image type %q", contentType)
	}
	if err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}
