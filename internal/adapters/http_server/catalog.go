package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"palmnazi/internal/domain"
)

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.List(r.Context())
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	if tag := r.URL.Query().Get("amenity"); tag != "" {
		ps = domain.WithAmenity(ps, tag)
	}
	writeCached(w, r, ps)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err, "property not found")
		return
	}
	writeCached(w, r, p)
}

func (h *Handlers) propertyAmenities(w http.ResponseWriter, r *http.Request) {
	a, err := h.Catalog.Amenities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err, "property not found")
		return
	}
	writeCached(w, r, a)
}

func (h *Handlers) createProperty(w http.ResponseWriter, r *http.Request) {
	var p domain.Property
	if !decodeJSON(w, r, &p) {
		return
	}
	out, err := h.Catalog.Create(r.Context(), p)
	if err != nil {
		writeFailure(w, r, err, "property not found")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateProperty(w http.ResponseWriter, r *http.Request) {
	var p domain.Property
	if !decodeJSON(w, r, &p) {
		return
	}
	out, err := h.Catalog.Update(r.Context(), p)
	if err != nil {
		writeFailure(w, r, err, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "property deleted", "id": id})
}

// pathIndex reads the {index} path segment; false means a 400 was written.
func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be a number")
		return 0, false
	}
	return i, true
}

func (h *Handlers) addRoom(w http.ResponseWriter, r *http.Request) {
	var room domain.RoomType
	if !decodeJSON(w, r, &room) {
		return
	}
	p, err := h.Catalog.AddRoom(r.Context(), chi.URLParam(r, "id"), room)
	if err != nil {
		writeFailure(w, r, err, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) replaceRoom(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var room domain.RoomType
	if !decodeJSON(w, r, &room) {
		return
	}
	p, err := h.Catalog.ReplaceRoom(r.Context(), chi.URLParam(r, "id"), i, room)
	if err != nil {
		writeFailure(w, r, err, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) removeRoom(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}
	p, err := h.Catalog.RemoveRoom(r.Context(), chi.URLParam(r, "id"), i)
	if err != nil {
		writeFailure(w, r, err, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) removeImage(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}
	p, err := h.Catalog.RemoveImage(r.Context(), chi.URLParam(r, "id"), i)
	if err != nil {
		writeFailure(w, r, err, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) upload(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart form with a file field is required")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer f.Close()

	url, err := h.Catalog.Upload(r.Context(), chi.URLParam(r, "kind"), hdr.Filename, f)
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
