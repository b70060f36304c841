package park

import (
	"strconv"

	"github.com/tkrasny/park-tracker-backend/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

// Parks are shared reference data: reads and writes are unauthenticated by
// design. Only the with-visits listing needs the caller's identity.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req Park
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" || req.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and code required")
		}
		p, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		parks, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(parks)
	})

	r.Get("/with-visits", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		parks, err := svc.ListWithVisits(c.Context(), userID)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(parks)
	})

	r.Get("/search", func(c *fiber.Ctx) error {
		lat, _ := strconv.ParseFloat(c.Query("lat"), 64)
		lng, _ := strconv.ParseFloat(c.Query("lng"), 64)
		radius, _ := strconv.ParseFloat(c.Query("radius_km"), 64)
		if radius == 0 {
			radius = 50
		}
		parks, err := svc.Search(c.Context(), lat, lng, radius)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(parks)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(p)
	})

	r.Patch("/:id", func(c *fiber.Ctx) error {
		var req UpdateParkInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.Update(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.JSON(p)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(apperr.StatusCode(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
