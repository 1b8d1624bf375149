package rest

import (
	"net/http"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type signupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Error    string `json:"error,omitempty"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.auth.Signup(r.Context(), req.Username, req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := signupResponse{Username: res.User.Username, Email: res.User.Email}
	if !res.Delivered {
		resp.Error = "failed to send message."
	}
	writeJSON(w, http.StatusOK, resp)
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.auth.Exchange(r.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
