package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"palmnazi/internal/domain"
)

func (h *Handlers) listContent(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Content.List(r.Context())
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	writeCached(w, r, cs)
}

func (h *Handlers) hero(w http.ResponseWriter, r *http.Request) {
	c, err := h.Content.Hero(r.Context())
	if err != nil {
		writeFailure(w, r, err, "no content found")
		return
	}
	writeCached(w, r, c)
}

func (h *Handlers) createContent(w http.ResponseWriter, r *http.Request) {
	var c domain.Content
	if !decodeJSON(w, r, &c) {
		return
	}
	out, err := h.Content.Create(r.Context(), c)
	if err != nil {
		writeFailure(w, r, err, "content not found")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateContent(w http.ResponseWriter, r *http.Request) {
	var c domain.Content
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID = chi.URLParam(r, "id")
	out, err := h.Content.Update(r.Context(), c)
	if err != nil {
		writeFailure(w, r, err, "content not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Content.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err, "content not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "content deleted", "id": id})
}
