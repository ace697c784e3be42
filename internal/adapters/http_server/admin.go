package httpserver

import "net/http"

type loginRequest struct {
	Password string `json:"password"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tok, err := h.Admin.Login(r.Context(), req.Password)
	if err != nil {
		writeFailure(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, tok)
}
