package hike

import (
	"github.com/tkrasny/park-tracker-backend/internal/auth"
	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Use(authMiddleware)

	r.Post("/", func(c *fiber.Ctx) error {
		var req CreateHikeInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.VisitID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "visit_id required")
		}
		h, err := svc.Create(c.Context(), auth.UserID(c), req)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(h)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		hikes, err := svc.List(c.Context(), auth.UserID(c), c.Query("visitId"))
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(hikes)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		h, err := svc.Get(c.Context(), auth.UserID(c), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(h)
	})

	r.Patch("/:id", func(c *fiber.Ctx) error {
		var req UpdateHikeInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		h, err := svc.Update(c.Context(), auth.UserID(c), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(h)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), auth.UserID(c), c.Params("id")); err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
