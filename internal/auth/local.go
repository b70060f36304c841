package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"
	"github.com/tkrasny/park-tracker-backend/internal/user"

	"github.com/golang-jwt/jwt/v5"
)

const localTokenTTL = 24 * time.Hour

type localClaims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// LocalVerifier accepts HS256 tokens minted by LocalTokenService. Development
// only; it stands in for the identity provider when none is configured.
type LocalVerifier struct {
	secret []byte
}

func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret)}
}

func (v *LocalVerifier) Verify(_ context.Context, rawToken string) (user.ExternalIdentity, error) {
	parsed, err := jwt.ParseWithClaims(rawToken, &localClaims{}, func(_ *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return user.ExternalIdentity{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(*localClaims)
	if !ok || !parsed.Valid {
		return user.ExternalIdentity{}, fmt.Errorf("%w: token invalid", apperr.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return user.ExternalIdentity{}, fmt.Errorf("%w: missing subject", apperr.ErrInvalidClaim)
	}

	return user.ExternalIdentity{
		Subject:     claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Picture:     claims.Picture,
	}, nil
}

// LocalTokenService mints HS256 tokens for local development.
type LocalTokenService struct {
	secret []byte
}

func NewLocalTokenService(secret string) *LocalTokenService {
	return &LocalTokenService{secret: []byte(secret)}
}

func (s *LocalTokenService) Token(subject, email, name string) (string, error) {
	claims := localClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(localTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
