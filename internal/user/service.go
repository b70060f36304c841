package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tkrasny/park-tracker-backend/internal/db"
	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectUser = `
	SELECT id, username, COALESCE(display_name,''), COALESCE(auth_subject,''),
	       COALESCE(email,''), COALESCE(picture,''), created_at, updated_at
	FROM users`

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// LinkOrRefresh resolves a verified external identity to a local user,
// creating one on first sight and refreshing mutable profile fields on
// subsequent sightings. Two concurrent first sightings of the same subject
// race on the auth_subject uniqueness constraint; the loser re-fetches and
// falls through to the refresh path.
func (s *Service) LinkOrRefresh(ctx context.Context, ident ExternalIdentity) (User, error) {
	if ident.Subject == "" {
		return User{}, fmt.Errorf("%w: missing subject", apperr.ErrInvalidClaim)
	}

	u, err := s.findBySubject(ctx, ident.Subject)
	if errors.Is(err, pgx.ErrNoRows) {
		created, insErr := s.insertLinked(ctx, ident)
		if insErr == nil {
			return created, nil
		}
		if !apperr.IsUniqueViolation(insErr) {
			return User{}, insErr
		}
		u, err = s.findBySubject(ctx, ident.Subject)
		if errors.Is(err, pgx.ErrNoRows) {
			// The collision was on username, not on the subject.
			return User{}, fmt.Errorf("%w: username already exists", apperr.ErrConflict)
		}
	}
	if err != nil {
		return User{}, err
	}
	return s.refreshProfile(ctx, u, ident)
}

func (s *Service) Create(ctx context.Context, input CreateUserInput) (User, error) {
	if input.Username == "" {
		return User{}, fmt.Errorf("%w: username required", apperr.ErrInvalidInput)
	}
	taken, err := s.usernameTaken(ctx, input.Username)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, fmt.Errorf("%w: username already exists", apperr.ErrConflict)
	}

	u := User{
		ID:          uuid.NewString(),
		Username:    input.Username,
		DisplayName: input.DisplayName,
		Email:       input.Email,
		Picture:     input.Picture,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, display_name, email, picture)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, u.ID, u.Username, strPtr(u.DisplayName), strPtr(u.Email), strPtr(u.Picture))
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if apperr.IsUniqueViolation(err) {
			return User{}, fmt.Errorf("%w: username already exists", apperr.ErrConflict)
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, selectUser+` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, selectUser+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id string, patch UpdateUserInput) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if patch.Username != nil && *patch.Username != u.Username {
		taken, err := s.usernameTaken(ctx, *patch.Username)
		if err != nil {
			return User{}, err
		}
		if taken {
			return User{}, fmt.Errorf("%w: username already exists", apperr.ErrConflict)
		}
		u.Username = *patch.Username
	}
	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Picture != nil {
		u.Picture = *patch.Picture
	}

	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET username=$2, display_name=$3, email=$4, picture=$5, updated_at=NOW()
		WHERE id=$1
		RETURNING updated_at
	`, u.ID, u.Username, strPtr(u.DisplayName), strPtr(u.Email), strPtr(u.Picture))
	if err := row.Scan(&u.UpdatedAt); err != nil {
		if apperr.IsUniqueViolation(err) {
			return User{}, fmt.Errorf("%w: username already exists", apperr.ErrConflict)
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user still has visits or photos", apperr.ErrConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (s *Service) findBySubject(ctx context.Context, subject string) (User, error) {
	return scanUser(s.db.QueryRow(ctx, selectUser+` WHERE auth_subject=$1`, subject))
}

func (s *Service) insertLinked(ctx context.Context, ident ExternalIdentity) (User, error) {
	u := User{
		ID:          uuid.NewString(),
		Username:    usernameFromIdentity(ident),
		DisplayName: ident.DisplayName,
		AuthSubject: ident.Subject,
		Email:       ident.Email,
		Picture:     ident.Picture,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, display_name, auth_subject, email, picture)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, u.ID, u.Username, strPtr(u.DisplayName), u.AuthSubject, strPtr(u.Email), strPtr(u.Picture))
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// refreshProfile overwrites mutable profile fields with claim values, but
// only when the claim carries one; an absent claim field never clears an
// existing value.
func (s *Service) refreshProfile(ctx context.Context, u User, ident ExternalIdentity) (User, error) {
	if ident.Email != "" {
		u.Email = ident.Email
	}
	if ident.DisplayName != "" {
		u.DisplayName = ident.DisplayName
	}
	if ident.Picture != "" {
		u.Picture = ident.Picture
	}

	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET email=$2, display_name=$3, picture=$4, updated_at=NOW()
		WHERE id=$1
		RETURNING updated_at
	`, u.ID, strPtr(u.Email), strPtr(u.DisplayName), strPtr(u.Picture))
	if err := row.Scan(&u.UpdatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) usernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`, username).Scan(&taken)
	return taken, err
}

func usernameFromIdentity(ident ExternalIdentity) string {
	if ident.Email != "" {
		return strings.SplitN(ident.Email, "@", 2)[0]
	}
	return ident.Subject
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.AuthSubject, &u.Email, &u.Picture, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
