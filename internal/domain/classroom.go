package domain

import (
	"strings"
	"time"
)

const ClassroomAvailable = "AVAILABLE"

// Utility conditions tracked per classroom.
const (
	UtilityWorking = "WORKING"
	UtilityBroken  = "BROKEN"
)

type Classroom struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Location  string            `json:"location"`
	Capacity  int               `json:"capacity"`
	Status    string            `json:"status"`
	Utilities map[string]string `json:"utilities"`
	Notes     []Note            `json:"notes"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Note is one entry of a classroom's append-only free-text log.
type Note struct {
	ID          int64     `json:"id"`
	ClassroomID int64     `json:"classroom_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateClassroomRequest struct {
	Name      string            `json:"name"`
	Location  string            `json:"location"`
	Capacity  int               `json:"capacity"`
	Status    string            `json:"status"`
	Utilities map[string]string `json:"utilities"`
}

func (r *CreateClassroomRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Location = strings.TrimSpace(r.Location)
	if r.Status == "" {
		r.Status = ClassroomAvailable
	}
	if r.Utilities == nil {
		r.Utilities = map[string]string{
			"projector": UtilityWorking,
			"ac":        UtilityWorking,
			"power":     UtilityWorking,
		}
	}
}

func (r *CreateClassroomRequest) Validate() error {
	if r.Name == "" || r.Location == "" {
		return ErrMissingFields
	}
	if r.Capacity <= 0 {
		return ErrMissingFields
	}
	return nil
}

// ClassroomStatePatch carries the optional state mutations applied in a
// single transaction: a new status, a utilities snapshot, a note to
// append, or any combination.
type ClassroomStatePatch struct {
	Status    *string           `json:"status,omitempty"`
	Utilities map[string]string `json:"utilities,omitempty"`
	Note      *string           `json:"note,omitempty"`
}

func (p *ClassroomStatePatch) IsEmpty() bool {
	return p.Status == nil && p.Utilities == nil && p.Note == nil
}
