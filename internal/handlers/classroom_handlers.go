package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
	"github.com/PAUBookIt/book-it-backend/internal/http/response"
)

// ListClassrooms returns classrooms grouped by campus zone, optionally
// filtered with ?location=
func (h *Handlers) ListClassrooms(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")

	grouped, err := h.classroomService.List(r.Context(), location)
	if err != nil {
		response.InternalError(w, "Failed to retrieve classrooms")
		return
	}

	writeJSON(w, http.StatusOK, grouped)
}

// GetClassroom returns a single classroom with its note history
func (h *Handlers) GetClassroom(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid classroom ID")
		return
	}

	classroom, err := h.classroomService.Get(r.Context(), id)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, classroom)
}

// CreateClassroom registers a new schedulable room
func (h *Handlers) CreateClassroom(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClassroomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	classroom, err := h.classroomService.Create(r.Context(), getActor(r), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, classroom)
}

// UpdateClassroomState applies a status/utilities change and an optional
// note append in one shot
func (h *Handlers) UpdateClassroomState(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid classroom ID")
		return
	}

	var patch domain.ClassroomStatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	classroom, err := h.classroomService.UpdateState(r.Context(), getActor(r), id, patch)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, classroom)
}

// DeleteClassroom removes a room from the registry
func (h *Handlers) DeleteClassroom(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid classroom ID")
		return
	}

	if err := h.classroomService.Remove(r.Context(), getActor(r), id); err != nil {
		response.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
