package trail

import (
	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req Trail
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" || req.ParkID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and park_id required")
		}
		tr, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(tr)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		trails, err := svc.List(c.Context(), c.Query("parkId"))
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(trails)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		tr, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(tr)
	})

	r.Patch("/:id", func(c *fiber.Ctx) error {
		var req UpdateTrailInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		tr, err := svc.Update(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(tr)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
