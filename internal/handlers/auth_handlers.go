package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
	"github.com/PAUBookIt/book-it-backend/internal/http/response"
)

// Signup handles user registration
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.ToUserInfo())
}

// Login handles user authentication
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated actor's profile
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	actor := getActor(r)

	user, err := h.userService.GetUser(r.Context(), actor.ID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToUserInfo())
}
