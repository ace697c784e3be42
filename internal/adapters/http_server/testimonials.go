package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"palmnazi/internal/domain"
)

type testimonialRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

func (h *Handlers) listTestimonials(w http.ResponseWriter, r *http.Request) {
	ts, err := h.Testimonials.List(r.Context(), domain.TestimonialFilter{})
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (h *Handlers) createTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.Testimonials.Create(r.Context(), domain.Testimonial{
		Name: req.Name, Email: req.Email, Message: req.Message, Rating: req.Rating,
	})
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) testimonialSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Testimonials.Summary(r.Context())
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handlers) adminTestimonials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.TestimonialFilter{Search: q.Get("q")}
	if rs := q.Get("rating"); rs != "" && rs != "all" {
		n, err := strconv.Atoi(rs)
		if err != nil || n < 1 || n > 5 {
			writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
			return
		}
		f.Rating = n
	}
	ts, err := h.Testimonials.List(r.Context(), f)
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (h *Handlers) deleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Testimonials.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err, "testimonial not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "testimonial deleted", "id": id})
}
