package photo

import (
	"context"
	"errors"
	"fmt"

	"github.com/tkrasny/park-tracker-backend/internal/db"
	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectPhoto = `
	SELECT id, user_id, COALESCE(visit_id::text,''), COALESCE(hike_record_id::text,''),
	       url, COALESCE(caption,''), taken_on,
	       ST_Y(location::geometry), ST_X(location::geometry),
	       created_at, updated_at
	FROM photos`

// Service stores photo metadata scoped to the owning user. A photo may point
// at one of the owner's visits or hike records, and both references must be
// theirs; anything else reads as missing.
type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, userID string, input CreatePhotoInput) (Photo, error) {
	if input.VisitID != "" {
		if err := s.visitOwned(ctx, userID, input.VisitID); err != nil {
			return Photo{}, err
		}
	}
	if input.HikeRecordID != "" {
		if err := s.hikeOwned(ctx, userID, input.HikeRecordID); err != nil {
			return Photo{}, err
		}
	}

	p := Photo{
		ID:           uuid.NewString(),
		UserID:       userID,
		VisitID:      input.VisitID,
		HikeRecordID: input.HikeRecordID,
		URL:          input.URL,
		Caption:      input.Caption,
		TakenOn:      input.TakenOn,
		Lat:          input.Lat,
		Lng:          input.Lng,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO photos (id, user_id, visit_id, hike_record_id, url, caption, taken_on, location)
		VALUES ($1,$2,NULLIF($3,'')::uuid,NULLIF($4,'')::uuid,$5,$6,$7, ST_SetSRID(ST_MakePoint($8,$9), 4326)::geography)
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.VisitID, p.HikeRecordID, p.URL, p.Caption, p.TakenOn, p.Lng, p.Lat)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return Photo{}, fmt.Errorf("%w: visit or hike record", apperr.ErrNotFound)
		}
		return Photo{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Photo, error) {
	p, err := scanPhoto(s.db.QueryRow(ctx, selectPhoto+` WHERE id=$1 AND user_id=$2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Photo{}, fmt.Errorf("%w: photo %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return Photo{}, err
	}
	return p, nil
}

// List returns the caller's photos, optionally narrowed to one visit or one
// hike record.
func (s *Service) List(ctx context.Context, userID, visitID, hikeID string) ([]Photo, error) {
	query := selectPhoto + ` WHERE user_id=$1`
	args := []any{userID}
	switch {
	case visitID != "":
		query += ` AND visit_id=$2`
		args = append(args, visitID)
	case hikeID != "":
		query += ` AND hike_record_id=$2`
		args = append(args, hikeID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, patch UpdatePhotoInput) (Photo, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return Photo{}, err
	}
	if patch.VisitID != nil {
		if *patch.VisitID != "" {
			if err := s.visitOwned(ctx, userID, *patch.VisitID); err != nil {
				return Photo{}, err
			}
		}
		p.VisitID = *patch.VisitID
	}
	if patch.HikeRecordID != nil {
		if *patch.HikeRecordID != "" {
			if err := s.hikeOwned(ctx, userID, *patch.HikeRecordID); err != nil {
				return Photo{}, err
			}
		}
		p.HikeRecordID = *patch.HikeRecordID
	}
	if patch.URL != nil {
		if *patch.URL == "" {
			return Photo{}, fmt.Errorf("%w: url cannot be cleared", apperr.ErrInvalidInput)
		}
		p.URL = *patch.URL
	}
	if patch.Caption != nil {
		p.Caption = *patch.Caption
	}
	if patch.TakenOn != nil {
		p.TakenOn = patch.TakenOn
	}
	if patch.Lat != nil {
		p.Lat = patch.Lat
	}
	if patch.Lng != nil {
		p.Lng = patch.Lng
	}

	row := s.db.QueryRow(ctx, `
		UPDATE photos
		SET visit_id=NULLIF($3,'')::uuid, hike_record_id=NULLIF($4,'')::uuid, url=$5, caption=$6, taken_on=$7,
		    location=ST_SetSRID(ST_MakePoint($8,$9), 4326)::geography, updated_at=NOW()
		WHERE id=$1 AND user_id=$2
		RETURNING updated_at
	`, p.ID, userID, p.VisitID, p.HikeRecordID, p.URL, p.Caption, p.TakenOn, p.Lng, p.Lat)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Photo{}, fmt.Errorf("%w: photo %s", apperr.ErrNotFound, id)
		}
		return Photo{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM photos WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: photo %s", apperr.ErrNotFound, id)
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

func (s *Service) hikeOwned(ctx context.Context, userID, hikeID string) error {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM hike_records h
			JOIN visits v ON v.id = h.visit_id
			WHERE h.id=$1 AND v.user_id=$2
		)`, hikeID, userID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: hike record %s", apperr.ErrNotFound, hikeID)
	}
	return nil
}

func scanPhoto(row pgx.Row) (Photo, error) {
	var p Photo
	err := row.Scan(&p.ID, &p.UserID, &p.VisitID, &p.HikeRecordID, &p.URL, &p.Caption,
		&p.TakenOn, &p.Lat, &p.Lng, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
