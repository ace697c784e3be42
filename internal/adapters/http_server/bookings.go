package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"palmnazi/internal/adapters/observability"
	"palmnazi/internal/domain"
)

func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrDispatch):
		return "dispatch_error"
	default:
		return "store_error"
	}
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if !decodeJSON(w, r, &req) {
		observability.ObserveBooking("invalid")
		return
	}
	b, err := h.Bookings.Create(r.Context(), req)
	observability.ObserveBooking(bookingOutcome(err))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, b)
	case errors.Is(err, domain.ErrDispatch) && b.ID != "":
		// saved, but the guest or owner was not told
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "booking saved but notification failed", ID: b.ID})
	default:
		writeFailure(w, r, err, "property not found")
	}
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.List(r.Context())
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.Bookings.Update(r.Context(), req)
	if err != nil {
		writeFailure(w, r, err, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Bookings.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "booking deleted", "id": id})
}

func (h *Handlers) bookingView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.Bookings.View(r.Context(), domain.BookingFilter{
		Search: q.Get("q"),
		Range:  domain.ParseTimeRange(q.Get("range")),
	})
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
