package domain

import (
	"context"
	"io"
	"time"
)

type PropertyRepository interface {
	CreateProperty(ctx context.Context, p Property) error
	UpdateProperty(ctx context.Context, p Property) error
	DeleteProperty(ctx context.Context, id string) error
	GetProperty(ctx context.Context, id string) (Property, error)
	ListProperties(ctx context.Context) ([]Property, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) error
	UpdateBooking(ctx context.Context, b Booking) error
	DeleteBooking(ctx context.Context, id string) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	// CreateBookingIfFree stores b unless a stay for the same property and room
	// already intersects it. Check and insert are atomic; a clash is ErrConflict.
	CreateBookingIfFree(ctx context.Context, b Booking) error
}

type TestimonialRepository interface {
	CreateTestimonial(ctx context.Context, t Testimonial) error
	DeleteTestimonial(ctx context.Context, id string) error
	ListTestimonials(ctx context.Context) ([]Testimonial, error)
}

type ContentRepository interface {
	CreateContent(ctx context.Context, c Content) error
	UpdateContent(ctx context.Context, c Content) error
	DeleteContent(ctx context.Context, id string) error
	ListContent(ctx context.Context) ([]Content, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Email is a rendered HTML message ready for the transport.
type Email struct {
	To      string
	Subject string
	HTML    string
	Headers map[string]string
}

type Mailer interface {
	Send(ctx context.Context, m Email) error
}

type Notifications interface {
	GuestConfirmation(b Booking, p Property, reservationNo string) (Email, error)
	OwnerAlert(b Booking, p Property, at time.Time) (Email, error)
}

type BlobStore interface {
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	RoomType   string    `json:"room_type,omitempty"`
	FromDate   time.Time `json:"from_date"`
	EndDate    time.Time `json:"end_date"`
	People     int       `json:"people"`
	CreatedAt  time.Time `json:"created_at"`
}

type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev BookingEvent) error
}
