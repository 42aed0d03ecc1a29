package domain

import (
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "PENDING"
	ReservationApproved ReservationStatus = "APPROVED"
	ReservationDenied   ReservationStatus = "DENIED"
)

func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case ReservationPending, ReservationApproved, ReservationDenied:
		return ReservationStatus(s), true
	default:
		return "", false
	}
}

// Decided reports whether the status is absorbing: once a reservation is
// approved or denied no further transition is accepted.
func (s ReservationStatus) Decided() bool {
	return s == ReservationApproved || s == ReservationDenied
}

const DefaultPurpose = "Class Session"

type Reservation struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	ClassroomID int64             `json:"classroom_id"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Purpose     string            `json:"purpose"`
	Status      ReservationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type CreateReservationRequest struct {
	ClassroomID int64     `json:"classroom_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Purpose     string    `json:"purpose"`
}

func (r *CreateReservationRequest) Normalize() {
	r.Purpose = strings.TrimSpace(r.Purpose)
	if r.Purpose == "" {
		r.Purpose = DefaultPurpose
	}
}

func (r *CreateReservationRequest) Validate() error {
	if r.ClassroomID == 0 || r.StartTime.IsZero() || r.EndTime.IsZero() {
		return ErrMissingFields
	}
	if !r.EndTime.After(r.StartTime) {
		return ErrInvalidInterval
	}
	return nil
}

type DecideReservationRequest struct {
	Status string `json:"status"`
}

// ReservationView is the listing projection: the reservation plus the
// owner's display fields and the classroom name. The owner's password
// hash never appears here.
type ReservationView struct {
	ID            int64             `json:"id"`
	Status        ReservationStatus `json:"status"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	Purpose       string            `json:"purpose"`
	UserID        int64             `json:"user_id"`
	UserName      string            `json:"user_name"`
	UserEmail     string            `json:"user_email"`
	ClassroomID   int64             `json:"classroom_id"`
	ClassroomName string            `json:"classroom_name"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ReservationList partitions every reservation by current status.
type ReservationList struct {
	Pending    []ReservationView `json:"pending"`
	Approved   []ReservationView `json:"approved"`
	Denied     []ReservationView `json:"denied"`
	LastUpdate time.Time         `json:"last_update"`
}
