package domain

import (
	"fmt"
	"strings"
	"time"
)

type Property struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Locations   []Location `json:"location"`
	Description string     `json:"description"`
	ImageURLs   []string   `json:"imageUrls"`
	Rooms       []RoomType `json:"servicesOffered"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Location struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Address  string  `json:"address"`
	ShareURL string  `json:"shareUrl"`
}

// RoomType is embedded in a Property and has no identity of its own.
type RoomType struct {
	Label         string     `json:"roomType"`
	PricePerNight float64    `json:"pricePerNight"`
	Amenities     AmenitySet `json:"amenities"`
	Images        []string   `json:"images"`
}

// MapsURL is the shareable link stored alongside a pinned location.
func MapsURL(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%g,%g", lat, lng)
}

// Validate applies the admin form rules; it runs on every create and update.
func (p Property) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return Invalid("name is required")
	case strings.TrimSpace(p.Email) == "":
		return Invalid("email is required")
	case strings.TrimSpace(p.Phone) == "":
		return Invalid("phone is required")
	case len(p.Rooms) == 0:
		return Invalid("at least one room type is required")
	}
	for i, r := range p.Rooms {
		if err := r.Validate(); err != nil {
			return Invalid(fmt.Sprintf("servicesOffered[%d]: %s", i, err.Error()))
		}
	}
	for i, l := range p.Locations {
		if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
			return Invalid(fmt.Sprintf("location[%d]: coordinates out of range", i))
		}
	}
	return nil
}

func (r RoomType) Validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return Invalid("roomType is required")
	}
	if r.PricePerNight < 0 {
		return Invalid("pricePerNight must not be negative")
	}
	return nil
}

// FindRoom matches a room label case-insensitively.
func (p Property) FindRoom(label string) (RoomType, bool) {
	want := strings.TrimSpace(label)
	for _, r := range p.Rooms {
		if strings.EqualFold(strings.TrimSpace(r.Label), want) {
			return r, true
		}
	}
	return RoomType{}, false
}

func (p *Property) AddRoom(r RoomType) error {
	if err := r.Validate(); err != nil {
		return err
	}
	p.Rooms = append(p.Rooms, r)
	return nil
}

func (p *Property) ReplaceRoom(i int, r RoomType) error {
	if i < 0 || i >= len(p.Rooms) {
		return Invalid(fmt.Sprintf("room index %d out of range", i))
	}
	if err := r.Validate(); err != nil {
		return err
	}
	p.Rooms[i] = r
	return nil
}

func (p *Property) RemoveRoom(i int) error {
	if i < 0 || i >= len(p.Rooms) {
		return Invalid(fmt.Sprintf("room index %d out of range", i))
	}
	p.Rooms = append(p.Rooms[:i], p.Rooms[i+1:]...)
	return nil
}

// RemoveImage drops a reference from the property gallery. The blob stays in storage.
func (p *Property) RemoveImage(i int) error {
	if i < 0 || i >= len(p.ImageURLs) {
		return Invalid(fmt.Sprintf("image index %d out of range", i))
	}
	p.ImageURLs = append(p.ImageURLs[:i], p.ImageURLs[i+1:]...)
	return nil
}

// UniqueAmenities merges the amenity tags of every room, first spelling wins.
func (p Property) UniqueAmenities() AmenitySet {
	var out AmenitySet
	for _, r := range p.Rooms {
		out = out.Union(r.Amenities)
	}
	if out == nil {
		out = AmenitySet{}
	}
	return out
}

// WithAmenity keeps the properties where at least one room offers tag.
func WithAmenity(ps []Property, tag string) []Property {
	out := []Property{}
	for _, p := range ps {
		for _, r := range p.Rooms {
			if r.Amenities.Contains(tag) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
