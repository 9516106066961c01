package gps

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type startRequest struct {
	Units      Units      `json:"units"`
	Capability Capability `json:"capability"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/tracks", authMiddleware, func(c *fiber.Ctx) error {
		var req startRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		id, err := svc.Start(req.Units, req.Capability)
		if err != nil {
			switch {
			case errors.Is(err, ErrLocationDenied):
				return fiber.NewError(fiber.StatusForbidden, err.Error())
			case errors.Is(err, ErrLocationUnavailable):
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"track_id": id})
	})

	r.Post("/tracks/:id/fixes", authMiddleware, func(c *fiber.Ctx) error {
		var fix Fix
		if err := c.BodyParser(&fix); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		stats, accepted, err := svc.AddFix(c.Params("id"), fix)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(fiber.Map{"stats": stats, "accepted": accepted})
	})

	r.Get("/tracks/:id/stats", func(c *fiber.Ctx) error {
		stats, weak, err := svc.Stats(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(fiber.Map{"stats": stats, "weak_signal": weak})
	})

	r.Post("/tracks/:id/suspend", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Suspend(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, ErrTrackNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/tracks/:id/resume", authMiddleware, func(c *fiber.Ctx) error {
		stats, err := svc.Resume(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrTrackNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"stats": stats})
	})

	r.Delete("/tracks/:id", authMiddleware, func(c *fiber.Ctx) error {
		final := svc.Stop(c.Context(), c.Params("id"))
		return c.JSON(fiber.Map{"stats": final})
	})
}
