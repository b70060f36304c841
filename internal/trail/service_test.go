package trail

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

var trailColumns = []string{
	"id", "park_id", "name", "description", "difficulty",
	"length_km", "elevation_gain_m", "path", "created_at", "updated_at",
}

func trailRow(tr Trail) *pgxmock.Rows {
	return pgxmock.NewRows(trailColumns).AddRow(
		tr.ID, tr.ParkID, tr.Name, tr.Description, tr.Difficulty,
		tr.LengthKm, tr.ElevationGainM, tr.Path, tr.CreatedAt, tr.UpdatedAt,
	)
}

func expectParkExists(mock pgxmock.PgxPoolIface, parkID string, exists bool) {
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM parks WHERE id=\$1\)`).
		WithArgs(parkID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestCreateTrail(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	expectParkExists(mock, "park-1", true)
	mock.ExpectQuery(`INSERT INTO trails`).
		WithArgs(pgxmock.AnyArg(), "park-1", "Mist Trail", "", DifficultyStrenuous, 11.3, 600.0, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	tr, err := svc.Create(context.Background(), Trail{
		ParkID: "park-1", Name: "Mist Trail", Difficulty: DifficultyStrenuous,
		LengthKm: 11.3, ElevationGainM: 600,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tr.ID == "" || tr.Difficulty != DifficultyStrenuous {
		t.Fatalf("unexpected trail: %+v", tr)
	}
}

func TestCreateTrailUnknownPark(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	expectParkExists(mock, "missing", false)

	_, err := svc.Create(context.Background(), Trail{ParkID: "missing", Name: "Ghost Trail"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no insert should happen: %v", err)
	}
}

func TestCreateTrailBadDifficulty(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	_, err := svc.Create(context.Background(), Trail{ParkID: "park-1", Name: "X", Difficulty: "Impossible"})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestListTrailsByPark(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	path := json.RawMessage(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`)
	mock.ExpectQuery(`FROM trails WHERE park_id=\$1 ORDER BY name`).
		WithArgs("park-1").
		WillReturnRows(trailRow(Trail{
			ID: "trail-1", ParkID: "park-1", Name: "Mist Trail",
			Difficulty: DifficultyModerate, Path: path, CreatedAt: now, UpdatedAt: now,
		}))

	trails, err := svc.List(context.Background(), "park-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(trails) != 1 || trails[0].ParkID != "park-1" {
		t.Fatalf("unexpected trails: %+v", trails)
	}
	if string(trails[0].Path) != string(path) {
		t.Fatalf("path not preserved: %s", trails[0].Path)
	}
}

func TestGetTrailNotFound(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectQuery(`FROM trails WHERE id=\$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(trailColumns))

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateTrailPatchesFields(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	mock.ExpectQuery(`FROM trails WHERE id=\$1`).
		WithArgs("trail-1").
		WillReturnRows(trailRow(Trail{
			ID: "trail-1", ParkID: "park-1", Name: "Mist Trail",
			Difficulty: DifficultyModerate, LengthKm: 11.3, CreatedAt: now, UpdatedAt: now,
		}))
	mock.ExpectQuery(`UPDATE trails`).
		WithArgs("trail-1", "Mist Trail", "", DifficultyDifficult, 11.3, 0.0, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now.Add(time.Minute)))

	diff := DifficultyDifficult
	tr, err := svc.Update(context.Background(), "trail-1", UpdateTrailInput{Difficulty: &diff})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if tr.Difficulty != DifficultyDifficult || tr.LengthKm != 11.3 {
		t.Fatalf("unexpected trail: %+v", tr)
	}
}

func TestUpdateTrailBadDifficulty(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	bad := "Vertical"
	_, err := svc.Update(context.Background(), "trail-1", UpdateTrailInput{Difficulty: &bad})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDeleteTrailNotFound(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectExec(`DELETE FROM trails WHERE id=\$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
