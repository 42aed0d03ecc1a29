package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
)

type ReservationRepository interface {
	Create(ctx context.Context, userID int64, req *domain.CreateReservationRequest) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetViewByID(ctx context.Context, id int64) (*domain.ReservationView, error)
	ListViews(ctx context.Context) ([]domain.ReservationView, error)
	Decide(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type reservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &reservationRepository{pool: pool}
}

const reservationCols = `id, user_id, classroom_id, start_time, end_time, purpose, status, created_at, updated_at`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID, &res.UserID, &res.ClassroomID,
		&res.StartTime, &res.EndTime, &res.Purpose, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) Create(ctx context.Context, userID int64, req *domain.CreateReservationRequest) (*domain.Reservation, error) {
	const q = `INSERT INTO reservations (user_id, classroom_id, start_time, end_time, purpose, status)
	VALUES ($1,$2,$3,$4,$5,'PENDING')
	RETURNING ` + reservationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanReservation(r.pool.QueryRow(ctx, q,
		userID, req.ClassroomID, req.StartTime, req.EndTime, req.Purpose,
	))
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := scanReservation(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return res, err
}

const reservationViewCols = `r.id, r.status, r.start_time, r.end_time, r.purpose,
r.user_id, u.name, u.email,
r.classroom_id, c.name,
r.created_at, r.updated_at`

const reservationViewFrom = ` FROM reservations r
JOIN users u ON u.id = r.user_id
JOIN classrooms c ON c.id = r.classroom_id`

func scanReservationView(row pgx.Row) (*domain.ReservationView, error) {
	var v domain.ReservationView
	err := row.Scan(
		&v.ID, &v.Status, &v.StartTime, &v.EndTime, &v.Purpose,
		&v.UserID, &v.UserName, &v.UserEmail,
		&v.ClassroomID, &v.ClassroomName,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *reservationRepository) GetViewByID(ctx context.Context, id int64) (*domain.ReservationView, error) {
	const q = `SELECT ` + reservationViewCols + reservationViewFrom + ` WHERE r.id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	v, err := scanReservationView(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *reservationRepository) ListViews(ctx context.Context) ([]domain.ReservationView, error) {
	const q = `SELECT ` + reservationViewCols + reservationViewFrom + ` ORDER BY r.created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []domain.ReservationView
	for rows.Next() {
		v, err := scanReservationView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}

// Decide transitions a PENDING reservation to APPROVED or DENIED. The
// status guard in the WHERE clause makes the transition race-safe: a
// concurrent decision leaves no row to update.
func (r *reservationRepository) Decide(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	const q = `UPDATE reservations SET status=$2, updated_at=now()
	WHERE id=$1 AND status='PENDING'
	RETURNING ` + reservationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := scanReservation(r.pool.QueryRow(ctx, q, id, status))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return res, err
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM reservations WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
