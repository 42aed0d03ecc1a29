package repository

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
)

type ClassroomRepository interface {
	Create(ctx context.Context, req *domain.CreateClassroomRequest) (*domain.Classroom, error)
	GetByID(ctx context.Context, id int64) (*domain.Classroom, error)
	List(ctx context.Context, location string) ([]domain.Classroom, error)
	UpdateState(ctx context.Context, id int64, patch domain.ClassroomStatePatch) (*domain.Classroom, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type classroomRepository struct {
	pool *pgxpool.Pool
}

func NewClassroomRepository(pool *pgxpool.Pool) ClassroomRepository {
	return &classroomRepository{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const classroomCols = `id, name, location, capacity, status, utilities, created_at, updated_at`

func scanClassroom(row pgx.Row) (*domain.Classroom, error) {
	var c domain.Classroom
	var utilities []byte
	err := row.Scan(
		&c.ID, &c.Name, &c.Location, &c.Capacity, &c.Status,
		&utilities, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(utilities) > 0 {
		if err := json.Unmarshal(utilities, &c.Utilities); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (r *classroomRepository) Create(ctx context.Context, req *domain.CreateClassroomRequest) (*domain.Classroom, error) {
	const q = `INSERT INTO classrooms (name, location, capacity, status, utilities)
	VALUES ($1,$2,$3,$4,$5)
	RETURNING ` + classroomCols

	utilities, err := json.Marshal(req.Utilities)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanClassroom(r.pool.QueryRow(ctx, q, req.Name, req.Location, req.Capacity, req.Status, utilities))
}

func (r *classroomRepository) GetByID(ctx context.Context, id int64) (*domain.Classroom, error) {
	const q = `SELECT ` + classroomCols + ` FROM classrooms WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanClassroom(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	notes, err := r.listNotes(ctx, r.pool, []int64{id})
	if err != nil {
		return nil, err
	}
	c.Notes = notes[id]
	return c, nil
}

func (r *classroomRepository) List(ctx context.Context, location string) ([]domain.Classroom, error) {
	qb := psql.Select(classroomCols).From("classrooms").OrderBy("location", "name")
	if location != "" {
		qb = qb.Where(sq.Eq{"location": location})
	}
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classrooms []domain.Classroom
	var ids []int64
	for rows.Next() {
		c, err := scanClassroom(rows)
		if err != nil {
			return nil, err
		}
		classrooms = append(classrooms, *c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	notes, err := r.listNotes(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range classrooms {
		classrooms[i].Notes = notes[classrooms[i].ID]
	}
	return classrooms, nil
}

// UpdateState applies the status/utilities change and the note append in
// one transaction: both persist or neither does.
func (r *classroomRepository) UpdateState(ctx context.Context, id int64, patch domain.ClassroomStatePatch) (*domain.Classroom, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ub := psql.Update("classrooms").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + classroomCols)
	if patch.Status != nil {
		ub = ub.Set("status", *patch.Status)
	}
	if patch.Utilities != nil {
		utilities, err := json.Marshal(patch.Utilities)
		if err != nil {
			return nil, err
		}
		ub = ub.Set("utilities", utilities)
	}
	q, args, err := ub.ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanClassroom(tx.QueryRow(ctx, q, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if patch.Note != nil && *patch.Note != "" {
		const noteQ = `INSERT INTO classroom_notes (classroom_id, text) VALUES ($1,$2)`
		if _, err := tx.Exec(ctx, noteQ, id, *patch.Note); err != nil {
			return nil, err
		}
	}

	notes, err := r.listNotes(ctx, tx, []int64{id})
	if err != nil {
		return nil, err
	}
	c.Notes = notes[id]

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *classroomRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM classrooms WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *classroomRepository) listNotes(ctx context.Context, q querier, classroomIDs []int64) (map[int64][]domain.Note, error) {
	if len(classroomIDs) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select("id", "classroom_id", "text", "created_at").
		From("classroom_notes").
		Where(sq.Eq{"classroom_id": classroomIDs}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make(map[int64][]domain.Note)
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.ClassroomID, &n.Text, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes[n.ClassroomID] = append(notes[n.ClassroomID], n)
	}
	return notes, rows.Err()
}
