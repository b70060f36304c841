package auth

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"
	"github.com/tkrasny/park-tracker-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Cached identities skip the profile refresh write for the TTL window.
const identityCacheTTL = 5 * time.Minute

// Linker resolves a verified external identity to a local user.
// *user.Service is the production implementation.
type Linker interface {
	LinkOrRefresh(ctx context.Context, ident user.ExternalIdentity) (user.User, error)
}

// Middleware verifies bearer tokens, links the asserted identity to a local
// user, and stores the user in locals. Cross-user scoping downstream relies
// on the user_id set here.
func Middleware(verifier Verifier, linker Linker, cache *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		ident, err := verifier.Verify(c.Context(), token)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}

		u, ok := cachedUser(c.Context(), cache, ident.Subject)
		if !ok {
			u, err = linker.LinkOrRefresh(c.Context(), ident)
			if err != nil {
				return fiber.NewError(apperr.StatusCode(err), err.Error())
			}
			cacheUser(c.Context(), cache, ident.Subject, u)
		}

		c.Locals("user", u)
		c.Locals("user_id", u.ID)
		return c.Next()
	}
}

// UserID returns the authenticated user's id, or "" outside the middleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func cacheKey(subject string) string {
	return "auth:subject:" + subject
}

func cachedUser(ctx context.Context, cache *redis.Client, subject string) (user.User, bool) {
	if cache == nil {
		return user.User{}, false
	}
	payload, err := cache.Get(ctx, cacheKey(subject)).Bytes()
	if err != nil {
		return user.User{}, false
	}
	var u user.User
	if err := json.Unmarshal(payload, &u); err != nil {
		return user.User{}, false
	}
	return u, true
}

func cacheUser(ctx context.Context, cache *redis.Client, subject string, u user.User) {
	if cache == nil {
		return
	}
	payload, err := json.Marshal(u)
	if err != nil {
		return
	}
	_ = cache.Set(ctx, cacheKey(subject), payload, identityCacheTTL).Err()
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
