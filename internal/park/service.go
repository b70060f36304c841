package park

import (
	"context"
	"errors"
	"fmt"

	"github.com/tkrasny/park-tracker-backend/internal/db"
	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectPark = `
	SELECT id, name, code, COALESCE(description,''), COALESCE(state,''), COALESCE(region,''),
	       COALESCE(image_url,''), COALESCE(website_url,''),
	       ST_Y(location::geometry), ST_X(location::geometry),
	       created_at, updated_at
	FROM parks`

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Create stores a new park. ST_MakePoint is strict, so a park without
// coordinates keeps a NULL location and never matches proximity search.
func (s *Service) Create(ctx context.Context, input Park) (Park, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO parks (id, name, code, description, state, region, image_url, website_url, location)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, ST_SetSRID(ST_MakePoint($9,$10), 4326)::geography)
		RETURNING created_at, updated_at
	`, input.ID, input.Name, input.Code, input.Description, input.State, input.Region,
		input.ImageURL, input.WebsiteURL, input.Lng, input.Lat)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Park{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Park, error) {
	p, err := scanPark(s.db.QueryRow(ctx, selectPark+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Park{}, fmt.Errorf("%w: park %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return Park{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Park, error) {
	rows, err := s.db.Query(ctx, selectPark+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parks []Park
	for rows.Next() {
		p, err := scanPark(rows)
		if err != nil {
			return nil, err
		}
		parks = append(parks, p)
	}
	return parks, nil
}

// ListWithVisits returns all parks plus the caller's latest visit to each.
func (s *Service) ListWithVisits(ctx context.Context, userID string) ([]ParkWithVisit, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, p.code, COALESCE(p.description,''), COALESCE(p.state,''), COALESCE(p.region,''),
		       COALESCE(p.image_url,''), COALESCE(p.website_url,''),
		       ST_Y(p.location::geometry), ST_X(p.location::geometry),
		       p.created_at, p.updated_at,
		       COALESCE(v.id::text,''), v.visit_date
		FROM parks p
		LEFT JOIN LATERAL (
			SELECT id, visit_date FROM visits
			WHERE park_id = p.id AND user_id = $1
			ORDER BY visit_date DESC
			LIMIT 1
		) v ON true
		ORDER BY p.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parks []ParkWithVisit
	for rows.Next() {
		var p ParkWithVisit
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Description, &p.State, &p.Region,
			&p.ImageURL, &p.WebsiteURL, &p.Lat, &p.Lng, &p.CreatedAt, &p.UpdatedAt,
			&p.VisitID, &p.LastVisitDate); err != nil {
			return nil, err
		}
		p.HasVisited = p.VisitID != ""
		parks = append(parks, p)
	}
	return parks, nil
}

func (s *Service) Search(ctx context.Context, lat, lng, radiusKm float64) ([]Park, error) {
	rows, err := s.db.Query(ctx, selectPark+`
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY name
	`, lng, lat, radiusKm*1000)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parks []Park
	for rows.Next() {
		p, err := scanPark(rows)
		if err != nil {
			return nil, err
		}
		parks = append(parks, p)
	}
	return parks, nil
}

func (s *Service) Update(ctx context.Context, id string, patch UpdateParkInput) (Park, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Park{}, err
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Code != nil {
		p.Code = *patch.Code
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.State != nil {
		p.State = *patch.State
	}
	if patch.Region != nil {
		p.Region = *patch.Region
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.WebsiteURL != nil {
		p.WebsiteURL = *patch.WebsiteURL
	}
	if patch.Lat != nil {
		p.Lat = patch.Lat
	}
	if patch.Lng != nil {
		p.Lng = patch.Lng
	}

	row := s.db.QueryRow(ctx, `
		UPDATE parks
		SET name=$2, code=$3, description=$4, state=$5, region=$6, image_url=$7, website_url=$8,
		    location=ST_SetSRID(ST_MakePoint($9,$10), 4326)::geography, updated_at=NOW()
		WHERE id=$1
		RETURNING updated_at
	`, p.ID, p.Name, p.Code, p.Description, p.State, p.Region, p.ImageURL, p.WebsiteURL, p.Lng, p.Lat)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		return Park{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM parks WHERE id=$1`, id)
	if err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: park still has trails or visits", apperr.ErrConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: park %s", apperr.ErrNotFound, id)
	}
	return nil
}

func scanPark(row pgx.Row) (Park, error) {
	var p Park
	err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Description, &p.State, &p.Region,
		&p.ImageURL, &p.WebsiteURL, &p.Lat, &p.Lng, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
