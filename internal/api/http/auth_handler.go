package http

import (
	"net/http"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/security"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authResponse struct {
	User   *domain.User        `json:"user"`
	Tokens *security.TokenPair `json:"tokens"`
}

func (h *handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, pair, err := h.svc.Auth.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Tokens: pair})
}

func (h *handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, pair, err := h.svc.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Tokens: pair})
}

// refresh and signOut run behind the refresh-token check; the session
// carries the raw token.
func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pair, err := h.svc.Auth.Refresh(r.Context(), sess.RawToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *handler) signOut(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Auth.SignOut(r.Context(), sess.RawToken); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.Auth.GetUser(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
