package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tkrasny/park-tracker-backend/internal/config"
	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"
	"github.com/tkrasny/park-tracker-backend/internal/user"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Verifier validates a raw bearer token and returns the external identity
// it asserts. Implementations must reject unsigned tokens and tokens signed
// with an unexpected algorithm.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (user.ExternalIdentity, error)
}

// NewVerifier picks the verifier for the configured environment: the OIDC
// provider in normal operation, the HS256 fallback when local auth is on.
func NewVerifier(ctx context.Context, cfg config.Config) (Verifier, error) {
	if cfg.LocalAuthEnabled {
		return NewLocalVerifier(cfg.LocalAuthSecret), nil
	}
	if cfg.AuthDomain == "" {
		return nil, errors.New("AUTH_ISSUER_DOMAIN required unless local auth is enabled")
	}
	return NewOIDCVerifier(ctx, cfg.AuthDomain, cfg.AuthAudience)
}

// OIDCVerifier checks RS256 signatures against the provider's rotating JWKS
// and enforces issuer and audience.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewOIDCVerifier(ctx context.Context, domain, audience string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, "https://"+domain+"/")
	if err != nil {
		return nil, fmt.Errorf("init oidc provider: %w", err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{
			ClientID:             audience,
			SupportedSigningAlgs: []string{oidc.RS256},
		}),
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (user.ExternalIdentity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return user.ExternalIdentity{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return user.ExternalIdentity{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return user.ExternalIdentity{}, fmt.Errorf("%w: missing subject", apperr.ErrInvalidClaim)
	}

	return user.ExternalIdentity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		DisplayName:   claims.Name,
		Picture:       claims.Picture,
		EmailVerified: claims.EmailVerified,
	}, nil
}
