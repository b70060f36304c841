package hike

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

const selectHike = `
	SELECT h.id, h.visit_id, COALESCE(h.trail_id::text,''), h.hike_date, COALESCE(h.duration_minutes,0),
	       COALESCE(h.distance_km,0), h.completed, COALESCE(h.notes,''), h.created_at, h.updated_at
	FROM hike_records h
	JOIN visits v ON v.id = h.visit_id`

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, userID string, input CreateHikeInput) (HikeRecord, error) {
	if err := s.visitOwned(ctx, userID, input.VisitID); err != nil {
		return HikeRecord{}, err
	}
	if input.TrailID != "" {
		if err := s.trailExists(ctx, input.TrailID); err != nil {
			return HikeRecord{}, err
		}
	}

	h := HikeRecord{
		ID:              uuid.NewString(),
		VisitID:         input.VisitID,
		TrailID:         input.TrailID,
		HikeDate:        input.HikeDate,
		DurationMinutes: input.DurationMinutes,
		DistanceKm:      input.DistanceKm,
		Completed:       input.Completed,
		Notes:           input.Notes,
	}
	if h.HikeDate.IsZero() {
		h.HikeDate = time.Now().UTC()
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO hike_records (id, visit_id, trail_id, hike_date, duration_minutes, distance_km, completed, notes)
		VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at
	`, h.ID, h.VisitID, h.TrailID, h.HikeDate, h.DurationMinutes, h.DistanceKm, h.Completed, h.Notes)
	if err := row.Scan(&h.CreatedAt, &h.UpdatedAt); err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return HikeRecord{}, fmt.Errorf("%w: visit or trail", apperr.ErrNotFound)
		}
		return HikeRecord{}, err
	}
	return h, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (HikeRecord, error) {
	h, err := scanHike(s.db.QueryRow(ctx, selectHike+` WHERE h.id=$1 AND v.user_id=$2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return HikeRecord{}, fmt.Errorf("%w: hike record %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return HikeRecord{}, err
	}
	return h, nil
}

// List returns the caller's hike records, optionally for one visit.
func (s *Service) List(ctx context.Context, userID, visitID string) ([]HikeRecord, error) {
	query := selectHike + ` WHERE v.user_id=$1 ORDER BY h.created_at DESC`
	args := []any{userID}
	if visitID != "" {
		query = selectHike + ` WHERE v.user_id=$1 AND h.visit_id=$2 ORDER BY h.created_at DESC`
		args = append(args, visitID)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hikes []HikeRecord
	for rows.Next() {
		h, err := scanHike(rows)
		if err != nil {
			return nil, err
		}
		hikes = append(hikes, h)
	}
	return hikes, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, patch UpdateHikeInput) (HikeRecord, error) {
	h, err := s.Get(ctx, userID, id)
	if err != nil {
		return HikeRecord{}, err
	}
	if patch.TrailID != nil {
		if *patch.TrailID != "" {
			if err := s.trailExists(ctx, *patch.TrailID); err != nil {
				return HikeRecord{}, err
			}
		}
		h.TrailID = *patch.TrailID
	}
	if patch.HikeDate != nil {
		h.HikeDate = *patch.HikeDate
	}
	if patch.DurationMinutes != nil {
		h.DurationMinutes = *patch.DurationMinutes
	}
	if patch.DistanceKm != nil {
		h.DistanceKm = *patch.DistanceKm
	}
	if patch.Completed != nil {
		h.Completed = *patch.Completed
	}
	if patch.Notes != nil {
		h.Notes = *patch.Notes
	}

	row := s.db.QueryRow(ctx, `
		UPDATE hike_records h
		SET trail_id=NULLIF($3,''), hike_date=$4, duration_minutes=$5, distance_km=$6, completed=$7, notes=$8, updated_at=NOW()
		FROM visits v
		WHERE h.id=$1 AND v.id=h.visit_id AND v.user_id=$2
		RETURNING h.updated_at
	`, h.ID, userID, h.TrailID, h.HikeDate, h.DurationMinutes, h.DistanceKm, h.Completed, h.Notes)
	if err := row.Scan(&h.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return HikeRecord{}, fmt.Errorf("%w: hike record %s", apperr.ErrNotFound, id)
		}
		return HikeRecord{}, err
	}
	return h, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM hike_records h
		USING visits v
		WHERE h.id=$1 AND h.visit_id=v.id AND v.user_id=$2
	`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: hike record %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (s *Service) visitOwned(ctx context.Context, userID, visitID string) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM visits WHERE id=$1 AND user_id=$2)`, visitID, userID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: visit %s", apperr.ErrNotFound, visitID)
	}
	return nil
}

func (s *Service) trailExists(ctx context.Context, trailID string) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trails WHERE id=$1)`, trailID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: trail %s", apperr.ErrNotFound, trailID)
	}
	return nil
}

func scanHike(row pgx.Row) (HikeRecord, error) {
	var h HikeRecord
	err := row.Scan(&h.ID, &h.VisitID, &h.TrailID, &h.HikeDate, &h.DurationMinutes, &h.DistanceKm,
		&h.Completed, &h.Notes, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}
