package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tkrasny/park-tracker-backend/internal/db"
	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectVisit = `
	SELECT id, user_id, park_id, visit_date, COALESCE(notes,''), weather, created_at, updated_at
	FROM visits`

// Service reads and writes visits for a single caller. Every lookup carries
// the owner's user id in the WHERE clause, so another user's visit is
// indistinguishable from a missing one.
type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, userID string, input CreateVisitInput) (Visit, error) {
	if err := s.parkExists(ctx, input.ParkID); err != nil {
		return Visit{}, err
	}

	v := Visit{
		ID:        uuid.NewString(),
		UserID:    userID,
		ParkID:    input.ParkID,
		VisitDate: input.VisitDate,
		Notes:     input.Notes,
		Weather:   input.Weather,
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO visits (id, user_id, park_id, visit_date, notes, weather)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, v.ID, v.UserID, v.ParkID, v.VisitDate, v.Notes, v.Weather)
	if err := row.Scan(&v.CreatedAt, &v.UpdatedAt); err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return Visit{}, fmt.Errorf("%w: park %s", apperr.ErrNotFound, input.ParkID)
		}
		return Visit{}, err
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Visit, error) {
	v, err := scanVisit(s.db.QueryRow(ctx, selectVisit+` WHERE id=$1 AND user_id=$2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Visit{}, fmt.Errorf("%w: visit %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return Visit{}, err
	}
	return v, nil
}

// List returns the caller's visits, newest first, optionally for one park.
func (s *Service) List(ctx context.Context, userID, parkID string) ([]Visit, error) {
	query := selectVisit + ` WHERE user_id=$1 ORDER BY visit_date DESC`
	args := []any{userID}
	if parkID != "" {
		query = selectVisit + ` WHERE user_id=$1 AND park_id=$2 ORDER BY visit_date DESC`
		args = append(args, parkID)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, patch UpdateVisitInput) (Visit, error) {
	v, err := s.Get(ctx, userID, id)
	if err != nil {
		return Visit{}, err
	}
	if patch.VisitDate != nil {
		v.VisitDate = *patch.VisitDate
	}
	if patch.Notes != nil {
		v.Notes = *patch.Notes
	}
	if patch.Weather != nil {
		v.Weather = *patch.Weather
	}

	row := s.db.QueryRow(ctx, `
		UPDATE visits
		SET visit_date=$3, notes=$4, weather=$5, updated_at=NOW()
		WHERE id=$1 AND user_id=$2
		RETURNING updated_at
	`, v.ID, userID, v.VisitDate, v.Notes, v.Weather)
	if err := row.Scan(&v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Visit{}, fmt.Errorf("%w: visit %s", apperr.ErrNotFound, id)
		}
		return Visit{}, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM visits WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: visit %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (s *Service) parkExists(ctx context.Context, parkID string) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM parks WHERE id=$1)`, parkID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: park %s", apperr.ErrNotFound, parkID)
	}
	return nil
}

func scanVisit(row pgx.Row) (Visit, error) {
	var v Visit
	err := row.Scan(&v.ID, &v.UserID, &v.ParkID, &v.VisitDate, &v.Notes, &v.Weather, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}
