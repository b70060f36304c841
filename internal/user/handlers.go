package user

import (
	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/profile", authMiddleware, func(c *fiber.Ctx) error {
		u, ok := c.Locals("user").(User)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "no authenticated user")
		}
		return c.JSON(u)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateUserInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Username == "" {
			return fiber.NewError(fiber.StatusBadRequest, "username required")
		}
		u, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		users, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(users)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		u, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(u)
	})

	r.Patch("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req UpdateUserInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		u, err := svc.Update(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(u)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
