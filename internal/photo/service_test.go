package photo

import (
	"context"
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

var photoColumns = []string{
	"id", "user_id", "visit_id", "hike_record_id", "url", "caption",
	"taken_on", "lat", "lng", "created_at", "updated_at",
}

func photoRow(p Photo) *pgxmock.Rows {
	return pgxmock.NewRows(photoColumns).AddRow(
		p.ID, p.UserID, p.VisitID, p.HikeRecordID, p.URL, p.Caption,
		p.TakenOn, p.Lat, p.Lng, p.CreatedAt, p.UpdatedAt,
	)
}

func coord(v float64) *float64 {
	return &v
}

func expectVisitOwned(mock pgxmock.PgxPoolIface, visitID, userID string, owned bool) {
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM visits WHERE id=\$1 AND user_id=\$2\)`).
		WithArgs(visitID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(owned))
}

func expectHikeOwned(mock pgxmock.PgxPoolIface, hikeID, userID string, owned bool) {
	mock.ExpectQuery(`SELECT 1 FROM hike_records h`).
		WithArgs(hikeID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(owned))
}

func TestCreatePhoto(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	expectVisitOwned(mock, "visit-1", "user-1", true)
	mock.ExpectQuery(`INSERT INTO photos`).
		WithArgs(pgxmock.AnyArg(), "user-1", "visit-1", "", "https://cdn.example.com/p.jpg", "half dome at dusk", pgxmock.AnyArg(), coord(-119.5), coord(37.8)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p, err := svc.Create(context.Background(), "user-1", CreatePhotoInput{
		VisitID: "visit-1", URL: "https://cdn.example.com/p.jpg",
		Caption: "half dome at dusk", Lat: coord(37.8), Lng: coord(-119.5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.UserID != "user-1" {
		t.Fatalf("unexpected photo: %+v", p)
	}
}

func TestCreatePhotoUnattached(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO photos`).
		WithArgs(pgxmock.AnyArg(), "user-1", "", "", "https://cdn.example.com/p.jpg", "", pgxmock.AnyArg(), (*float64)(nil), (*float64)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p, err := svc.Create(context.Background(), "user-1", CreatePhotoInput{URL: "https://cdn.example.com/p.jpg"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Lat != nil || p.Lng != nil {
		t.Fatalf("expected no coordinates: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no ownership probes expected: %v", err)
	}
}

func TestCreatePhotoOnForeignVisit(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	expectVisitOwned(mock, "visit-1", "user-2", false)

	_, err := svc.Create(context.Background(), "user-2", CreatePhotoInput{VisitID: "visit-1", URL: "https://x/p.jpg"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreatePhotoOnForeignHike(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	expectHikeOwned(mock, "hike-1", "user-2", false)

	_, err := svc.Create(context.Background(), "user-2", CreatePhotoInput{HikeRecordID: "hike-1", URL: "https://x/p.jpg"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetPhotoForeignOwnerLooksMissing(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectQuery(`FROM photos WHERE id=\$1 AND user_id=\$2`).
		WithArgs("photo-1", "user-2").
		WillReturnRows(pgxmock.NewRows(photoColumns))

	_, err := svc.Get(context.Background(), "user-2", "photo-1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPhotosByVisit(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	mock.ExpectQuery(`WHERE user_id=\$1 AND visit_id=\$2 ORDER BY created_at DESC`).
		WithArgs("user-1", "visit-1").
		WillReturnRows(photoRow(Photo{ID: "photo-1", UserID: "user-1", VisitID: "visit-1", URL: "https://x/p.jpg", CreatedAt: now, UpdatedAt: now}))

	photos, err := svc.List(context.Background(), "user-1", "visit-1", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(photos) != 1 || photos[0].VisitID != "visit-1" {
		t.Fatalf("unexpected photos: %+v", photos)
	}
}

func TestListPhotosByHike(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	mock.ExpectQuery(`WHERE user_id=\$1 AND hike_record_id=\$2 ORDER BY created_at DESC`).
		WithArgs("user-1", "hike-1").
		WillReturnRows(photoRow(Photo{ID: "photo-1", UserID: "user-1", HikeRecordID: "hike-1", URL: "https://x/p.jpg", CreatedAt: now, UpdatedAt: now}))

	photos, err := svc.List(context.Background(), "user-1", "", "hike-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(photos) != 1 || photos[0].HikeRecordID != "hike-1" {
		t.Fatalf("unexpected photos: %+v", photos)
	}
}

func TestUpdatePhotoPatchesFields(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	mock.ExpectQuery(`FROM photos WHERE id=\$1 AND user_id=\$2`).
		WithArgs("photo-1", "user-1").
		WillReturnRows(photoRow(Photo{ID: "photo-1", UserID: "user-1", URL: "https://x/p.jpg", Caption: "old", CreatedAt: now, UpdatedAt: now}))
	mock.ExpectQuery(`UPDATE photos`).
		WithArgs("photo-1", "user-1", "", "", "https://x/p.jpg", "new caption", pgxmock.AnyArg(), (*float64)(nil), (*float64)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now.Add(time.Minute)))

	caption := "new caption"
	p, err := svc.Update(context.Background(), "user-1", "photo-1", UpdatePhotoInput{Caption: &caption})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Caption != "new caption" {
		t.Fatalf("unexpected photo: %+v", p)
	}
	if p.Lat != nil || p.Lng != nil {
		t.Fatalf("a caption-only patch must not invent coordinates: %+v", p)
	}
}

func TestUpdatePhotoReattachesToOwnedVisit(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	mock.ExpectQuery(`FROM photos WHERE id=\$1 AND user_id=\$2`).
		WithArgs("photo-1", "user-1").
		WillReturnRows(photoRow(Photo{ID: "photo-1", UserID: "user-1", VisitID: "visit-1", URL: "https://x/p.jpg", CreatedAt: now, UpdatedAt: now}))
	expectVisitOwned(mock, "visit-2", "user-1", true)
	mock.ExpectQuery(`UPDATE photos`).
		WithArgs("photo-1", "user-1", "visit-2", "", "https://x/p.jpg", "", pgxmock.AnyArg(), (*float64)(nil), (*float64)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now.Add(time.Minute)))

	visit := "visit-2"
	p, err := svc.Update(context.Background(), "user-1", "photo-1", UpdatePhotoInput{VisitID: &visit})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.VisitID != "visit-2" {
		t.Fatalf("unexpected photo: %+v", p)
	}
}

func TestUpdatePhotoReattachForeignVisit(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	mock.ExpectQuery(`FROM photos WHERE id=\$1 AND user_id=\$2`).
		WithArgs("photo-1", "user-2").
		WillReturnRows(photoRow(Photo{ID: "photo-1", UserID: "user-2", URL: "https://x/p.jpg", CreatedAt: now, UpdatedAt: now}))
	expectVisitOwned(mock, "visit-1", "user-2", false)

	visit := "visit-1"
	_, err := svc.Update(context.Background(), "user-2", "photo-1", UpdatePhotoInput{VisitID: &visit})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePhotoRejectsEmptyURL(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	now := time.Now()
	mock.ExpectQuery(`FROM photos WHERE id=\$1 AND user_id=\$2`).
		WithArgs("photo-1", "user-1").
		WillReturnRows(photoRow(Photo{ID: "photo-1", UserID: "user-1", URL: "https://x/p.jpg", CreatedAt: now, UpdatedAt: now}))

	empty := ""
	_, err := svc.Update(context.Background(), "user-1", "photo-1", UpdatePhotoInput{URL: &empty})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDeletePhotoScopedToOwner(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectExec(`DELETE FROM photos WHERE id=\$1 AND user_id=\$2`).
		WithArgs("photo-1", "user-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := svc.Delete(context.Background(), "user-2", "photo-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
