package auth

import "github.com/gofiber/fiber/v2"

// RegisterRoutes exposes the local token mint. Wired only when local auth
// is enabled; production tokens come from the identity provider.
func RegisterRoutes(r fiber.Router, svc *LocalTokenService) {
	r.Post("/token", func(c *fiber.Ctx) error {
		var req struct {
			Subject string `json:"subject"`
			Email   string `json:"email"`
			Name    string `json:"name"`
		}
		if err := c.BodyParser(&req); err != nil || req.Subject == "" {
			return fiber.NewError(fiber.StatusBadRequest, "subject required")
		}

		token, err := svc.Token(req.Subject, req.Email, req.Name)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   int64(localTokenTTL.Seconds()),
		})
	})
}
