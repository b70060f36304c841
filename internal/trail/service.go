package trail

import (
	"context"
	"errors"
	"fmt"

	"github.com/tkrasny/park-tracker-backend/internal/db"
	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectTrail = `
	SELECT id, park_id, name, COALESCE(description,''), COALESCE(difficulty,''),
	       COALESCE(length_km,0), COALESCE(elevation_gain_m,0), path,
	       created_at, updated_at
	FROM trails`

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, input Trail) (Trail, error) {
	if !validDifficulty(input.Difficulty) {
		return Trail{}, fmt.Errorf("%w: difficulty must be one of Easy, Moderate, Difficult, Strenuous", apperr.ErrInvalidInput)
	}
	if err := s.parkExists(ctx, input.ParkID); err != nil {
		return Trail{}, err
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO trails (id, park_id, name, description, difficulty, length_km, elevation_gain_m, path)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at
	`, input.ID, input.ParkID, input.Name, input.Description, input.Difficulty,
		input.LengthKm, input.ElevationGainM, input.Path)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return Trail{}, fmt.Errorf("%w: park %s", apperr.ErrNotFound, input.ParkID)
		}
		return Trail{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Trail, error) {
	tr, err := scanTrail(s.db.QueryRow(ctx, selectTrail+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Trail{}, fmt.Errorf("%w: trail %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return Trail{}, err
	}
	return tr, nil
}

// List returns all trails, optionally narrowed to one park.
func (s *Service) List(ctx context.Context, parkID string) ([]Trail, error) {
	query := selectTrail + ` ORDER BY name`
	args := []any{}
	if parkID != "" {
		query = selectTrail + ` WHERE park_id=$1 ORDER BY name`
		args = append(args, parkID)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trails []Trail
	for rows.Next() {
		tr, err := scanTrail(rows)
		if err != nil {
			return nil, err
		}
		trails = append(trails, tr)
	}
	return trails, nil
}

func (s *Service) Update(ctx context.Context, id string, patch UpdateTrailInput) (Trail, error) {
	if patch.Difficulty != nil && !validDifficulty(*patch.Difficulty) {
		return Trail{}, fmt.Errorf("%w: difficulty must be one of Easy, Moderate, Difficult, Strenuous", apperr.ErrInvalidInput)
	}

	tr, err := s.Get(ctx, id)
	if err != nil {
		return Trail{}, err
	}
	if patch.Name != nil {
		tr.Name = *patch.Name
	}
	if patch.Description != nil {
		tr.Description = *patch.Description
	}
	if patch.Difficulty != nil {
		tr.Difficulty = *patch.Difficulty
	}
	if patch.LengthKm != nil {
		tr.LengthKm = *patch.LengthKm
	}
	if patch.ElevationGainM != nil {
		tr.ElevationGainM = *patch.ElevationGainM
	}
	if patch.Path != nil {
		tr.Path = *patch.Path
	}

	row := s.db.QueryRow(ctx, `
		UPDATE trails
		SET name=$2, description=$3, difficulty=$4, length_km=$5, elevation_gain_m=$6, path=$7, updated_at=NOW()
		WHERE id=$1
		RETURNING updated_at
	`, tr.ID, tr.Name, tr.Description, tr.Difficulty, tr.LengthKm, tr.ElevationGainM, tr.Path)
	if err := row.Scan(&tr.UpdatedAt); err != nil {
		return Trail{}, err
	}
	return tr, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trails WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: trail %s", apperr.ErrNotFound, id)
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

func scanTrail(row pgx.Row) (Trail, error) {
	var tr Trail
	err := row.Scan(&tr.ID, &tr.ParkID, &tr.Name, &tr.Description, &tr.Difficulty,
		&tr.LengthKm, &tr.ElevationGainM, &tr.Path, &tr.CreatedAt, &tr.UpdatedAt)
	return tr, err
}
