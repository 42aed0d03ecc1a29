package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
	"github.com/PAUBookIt/book-it-backend/internal/http/response"
)

// ListReservations returns every reservation partitioned by status
func (h *Handlers) ListReservations(w http.ResponseWriter, r *http.Request) {
	list, err := h.reservationService.List(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to retrieve reservations")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// GetReservation returns a single reservation with display fields
func (h *Handlers) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid reservation ID")
		return
	}

	view, err := h.reservationService.Get(r.Context(), id)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// CreateReservation files a PENDING reservation for the authenticated actor
func (h *Handlers) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")

	reservation, err := h.reservationService.Create(r.Context(), getActor(r), &req, idempotencyKey)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reservation)
}

// DecideReservation approves or denies a pending reservation
func (h *Handlers) DecideReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid reservation ID")
		return
	}

	var req domain.DecideReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	reservation, err := h.reservationService.Decide(r.Context(), getActor(r), id, req.Status)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reservation)
}

// DeleteReservation hard-deletes a reservation (admin only)
func (h *Handlers) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid reservation ID")
		return
	}

	if err := h.reservationService.Remove(r.Context(), getActor(r), id); err != nil {
		response.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
