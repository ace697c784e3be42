package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"palmnazi/internal/domain"
)

var uploadKinds = map[string]bool{"properties": true, "rooms": true}

type CatalogService struct {
	repo    domain.PropertyRepository
	queries *QueryService
	geo     domain.Geocoder
	blobs   domain.BlobStore

	maxUpload int64
	now       func() time.Time
	newID     func() string
}

func NewCatalogService(r domain.PropertyRepository, q *QueryService, geo domain.Geocoder, blobs domain.BlobStore, maxUploadBytes int64) *CatalogService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &CatalogService{
		repo: r, queries: q, geo: geo, blobs: blobs,
		maxUpload: maxUploadBytes,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *CatalogService) Create(ctx context.Context, p domain.Property) (domain.Property, error) {
	normalizeProperty(&p)
	if err := p.Validate(); err != nil {
		return domain.Property{}, err
	}
	s.fillLocations(ctx, &p)

	now := s.now().UTC()
	p.ID = s.newID()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return domain.Property{}, storeErr("create property", err)
	}
	s.queries.InvalidateProperty(ctx, "")
	log.Info().Str("property_id", p.ID).Str("name", p.Name).Msg("property created")
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, p domain.Property) (domain.Property, error) {
	if strings.TrimSpace(p.ID) == "" {
		return domain.Property{}, domain.Invalid("id is required")
	}
	normalizeProperty(&p)
	if err := p.Validate(); err != nil {
		return domain.Property{}, err
	}
	cur, err := s.repo.GetProperty(ctx, p.ID)
	if err != nil {
		return domain.Property{}, storeErr("load property", err)
	}
	s.fillLocations(ctx, &p)

	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateProperty(ctx, p); err != nil {
		return domain.Property{}, storeErr("update property", err)
	}
	s.queries.InvalidateProperty(ctx, p.ID)
	return p, nil
}

// Delete leaves bookings that reference the property untouched.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		return storeErr("delete property", err)
	}
	s.queries.InvalidateProperty(ctx, id)
	return nil
}

func (s *CatalogService) AddRoom(ctx context.Context, id string, r domain.RoomType) (domain.Property, error) {
	return s.edit(ctx, id, func(p *domain.Property) error { return p.AddRoom(normalizeRoom(r)) })
}

func (s *CatalogService) ReplaceRoom(ctx context.Context, id string, i int, r domain.RoomType) (domain.Property, error) {
	return s.edit(ctx, id, func(p *domain.Property) error { return p.ReplaceRoom(i, normalizeRoom(r)) })
}

// RemoveRoom refuses to drop the last room; a property always offers one.
func (s *CatalogService) RemoveRoom(ctx context.Context, id string, i int) (domain.Property, error) {
	return s.edit(ctx, id, func(p *domain.Property) error { return p.RemoveRoom(i) })
}

// RemoveImage only edits the gallery; the stored blob is left in place.
func (s *CatalogService) RemoveImage(ctx context.Context, id string, i int) (domain.Property, error) {
	return s.edit(ctx, id, func(p *domain.Property) error { return p.RemoveImage(i) })
}

// edit applies a positional change to the stored property and saves it whole.
func (s *CatalogService) edit(ctx context.Context, id string, change func(*domain.Property) error) (domain.Property, error) {
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, storeErr("load property", err)
	}
	p.Rooms = slices.Clone(p.Rooms)
	p.ImageURLs = slices.Clone(p.ImageURLs)
	if err := change(&p); err != nil {
		return domain.Property{}, err
	}
	if err := p.Validate(); err != nil {
		return domain.Property{}, err
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateProperty(ctx, p); err != nil {
		return domain.Property{}, storeErr("update property", err)
	}
	s.queries.InvalidateProperty(ctx, p.ID)
	return p, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Property, error) {
	return s.queries.GetProperty(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Property, error) {
	return s.queries.ListProperties(ctx)
}

func (s *CatalogService) Amenities(ctx context.Context, id string) (domain.AmenitySet, error) {
	p, err := s.queries.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.UniqueAmenities(), nil
}

func normalizeProperty(p *domain.Property) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	for i := range p.Rooms {
		p.Rooms[i] = normalizeRoom(p.Rooms[i])
	}
}

func normalizeRoom(r domain.RoomType) domain.RoomType {
	r.Label = strings.TrimSpace(r.Label)
	r.Amenities = domain.NewAmenitySet(r.Amenities...)
	return r
}

// fillLocations derives share links and, when a geocoder is configured,
// resolves missing addresses. Lookup failures keep the pin without an address.
func (s *CatalogService) fillLocations(ctx context.Context, p *domain.Property) {
	for i := range p.Locations {
		l := &p.Locations[i]
		if l.ShareURL == "" {
			l.ShareURL = domain.MapsURL(l.Lat, l.Lng)
		}
		if l.Address != "" || s.geo == nil {
			continue
		}
		addr, err := s.geo.Reverse(ctx, l.Lat, l.Lng)
		if err != nil {
			log.Warn().Err(err).Float64("lat", l.Lat).Float64("lng", l.Lng).Msg("reverse geocode failed")
			continue
		}
		l.Address = addr
	}
}

// Upload stores an image under <kind>/<unixMillis>_<filename> and returns its URL.
func (s *CatalogService) Upload(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	if !uploadKinds[kind] {
		return "", domain.Invalid(fmt.Sprintf("unknown upload kind %q", kind))
	}
	name := cleanFilename(filename)
	if name == "" {
		return "", domain.Invalid("filename is required")
	}
	buf, err := io.ReadAll(io.LimitReader(r, s.maxUpload+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(buf)) > s.maxUpload {
		return "", domain.Invalid("file is too large")
	}
	if _, err := imaging.Decode(bytes.NewReader(buf)); err != nil {
		return "", domain.Invalid("file is not a supported image")
	}
	if s.blobs == nil {
		return "", fmt.Errorf("%w: no image storage configured", domain.ErrPersistence)
	}

	key := fmt.Sprintf("%s/%d_%s", kind, s.now().UnixMilli(), name)
	url, err := s.blobs.Put(ctx, key, bytes.NewReader(buf), http.DetectContentType(buf))
	if err != nil {
		return "", fmt.Errorf("%w: store image: %w", domain.ErrPersistence, err)
	}
	return url, nil
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == '/' {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
}
