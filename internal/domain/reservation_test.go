package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
)

func TestCreateReservationRequestValidate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		req     domain.CreateReservationRequest
		wantErr error
	}{
		{
			"valid",
			domain.CreateReservationRequest{ClassroomID: 1, StartTime: now, EndTime: now.Add(time.Hour)},
			nil,
		},
		{
			"missing classroom",
			domain.CreateReservationRequest{StartTime: now, EndTime: now.Add(time.Hour)},
			domain.ErrMissingFields,
		},
		{
			"zero start",
			domain.CreateReservationRequest{ClassroomID: 1, EndTime: now},
			domain.ErrMissingFields,
		},
		{
			"end before start",
			domain.CreateReservationRequest{ClassroomID: 1, StartTime: now, EndTime: now.Add(-time.Hour)},
			domain.ErrInvalidInterval,
		},
		{
			"end equals start",
			domain.CreateReservationRequest{ClassroomID: 1, StartTime: now, EndTime: now},
			domain.ErrInvalidInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateReservationRequestNormalize(t *testing.T) {
	req := domain.CreateReservationRequest{Purpose: "   "}
	req.Normalize()
	if req.Purpose != domain.DefaultPurpose {
		t.Errorf("purpose = %q, want default %q", req.Purpose, domain.DefaultPurpose)
	}

	req = domain.CreateReservationRequest{Purpose: " Robotics club demo "}
	req.Normalize()
	if req.Purpose != "Robotics club demo" {
		t.Errorf("purpose = %q, want trimmed", req.Purpose)
	}
}

func TestReservationStatusDecided(t *testing.T) {
	if domain.ReservationPending.Decided() {
		t.Error("PENDING should not be decided")
	}
	if !domain.ReservationApproved.Decided() {
		t.Error("APPROVED should be decided")
	}
	if !domain.ReservationDenied.Decided() {
		t.Error("DENIED should be decided")
	}
}

func TestParseReservationStatus(t *testing.T) {
	if _, ok := domain.ParseReservationStatus("APPROVED"); !ok {
		t.Error("APPROVED should parse")
	}
	if _, ok := domain.ParseReservationStatus("approved"); ok {
		t.Error("lowercase should not parse; statuses are uppercase on the wire")
	}
	if _, ok := domain.ParseReservationStatus("CANCELLED"); ok {
		t.Error("unknown status should not parse")
	}
}
