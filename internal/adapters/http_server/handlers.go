package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"palmnazi/internal/app"
	"palmnazi/internal/auth"
	"palmnazi/internal/domain"
)

const maxJSONBody = 1 << 20

type BookingAPI interface {
	Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	Update(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	View(ctx context.Context, f domain.BookingFilter) (app.BookingView, error)
}

type CatalogAPI interface {
	Create(ctx context.Context, p domain.Property) (domain.Property, error)
	Update(ctx context.Context, p domain.Property) (domain.Property, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.Property, error)
	List(ctx context.Context) ([]domain.Property, error)
	Amenities(ctx context.Context, id string) (domain.AmenitySet, error)
	AddRoom(ctx context.Context, id string, r domain.RoomType) (domain.Property, error)
	ReplaceRoom(ctx context.Context, id string, i int, r domain.RoomType) (domain.Property, error)
	RemoveRoom(ctx context.Context, id string, i int) (domain.Property, error)
	RemoveImage(ctx context.Context, id string, i int) (domain.Property, error)
	Upload(ctx context.Context, kind, filename string, r io.Reader) (string, error)
}

type TestimonialAPI interface {
	Create(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f domain.TestimonialFilter) ([]domain.Testimonial, error)
	Summary(ctx context.Context) (domain.RatingSummary, error)
}

type ContentAPI interface {
	List(ctx context.Context) ([]domain.Content, error)
	Hero(ctx context.Context) (domain.Content, error)
	Create(ctx context.Context, c domain.Content) (domain.Content, error)
	Update(ctx context.Context, c domain.Content) (domain.Content, error)
	Delete(ctx context.Context, id string) error
}

type AdminAPI interface {
	Authenticator
	Login(ctx context.Context, password string) (auth.Token, error)
}

type Handlers struct {
	Bookings     BookingAPI
	Catalog      CatalogAPI
	Testimonials TestimonialAPI
	Content      ContentAPI
	Admin        AdminAPI

	MaxUploadBytes int64
}

func (s *Server) MountHandlers(h *Handlers) {
	m := s.mux
	m.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// public
	m.Post("/bookings", h.createBooking)
	m.Get("/properties", h.listProperties)
	m.Get("/properties/{id}", h.getProperty)
	m.Get("/properties/{id}/amenities", h.propertyAmenities)
	m.Get("/testimonials", h.listTestimonials)
	m.Post("/testimonials", h.createTestimonial)
	m.Get("/testimonials/summary", h.testimonialSummary)
	m.Get("/content", h.listContent)
	m.Get("/content/hero", h.hero)
	m.Post("/admin/login", h.login)

	// back office
	m.Group(func(r chi.Router) {
		r.Use(RequireAdmin(h.Admin))

		r.Get("/bookings", h.listBookings)
		r.Put("/bookings", h.updateBooking)
		r.Get("/bookings/{id}", h.getBooking)
		r.Delete("/bookings/{id}", h.deleteBooking)
		r.Get("/admin/bookings/view", h.bookingView)

		r.Get("/admin/properties", h.listProperties)
		r.Post("/admin/properties", h.createProperty)
		r.Put("/admin/properties", h.updateProperty)
		r.Delete("/admin/properties/{id}", h.deleteProperty)
		r.Post("/admin/properties/{id}/rooms", h.addRoom)
		r.Put("/admin/properties/{id}/rooms/{index}", h.replaceRoom)
		r.Delete("/admin/properties/{id}/rooms/{index}", h.removeRoom)
		r.Delete("/admin/properties/{id}/images/{index}", h.removeImage)
		r.Post("/admin/uploads/{kind}", h.upload)

		r.Get("/admin/testimonials", h.adminTestimonials)
		r.Delete("/admin/testimonials/{id}", h.deleteTestimonial)

		r.Post("/admin/content", h.createContent)
		r.Put("/admin/content/{id}", h.updateContent)
		r.Delete("/admin/content/{id}", h.deleteContent)
	})
}

type errorBody struct {
	Error string `json:"error"`
	ID    string `json:"id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeFailure maps service errors onto status codes. notFound is the message
// used for 404s so callers can name the missing resource.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, domain.ValidationMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "room is already booked for these dates")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, app.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrDispatch):
		writeError(w, http.StatusBadGateway, "notification could not be sent")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, domain.ErrValidation) {
			msg = domain.ValidationMessage(err)
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached serves public reads with a weak ETag and honors If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}
