package workout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type composeRequest struct {
	Pattern    Pattern    `json:"pattern"`
	Attributes Attributes `json:"attributes"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/compose", authMiddleware, func(c *fiber.Ctx) error {
		var req composeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		switch req.Pattern {
		case "", PatternClassic, PatternSpecial, PatternShort:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "unknown pattern")
		}

		composed, err := svc.Generate(c.Context(), req.Pattern, req.Attributes)
		if err != nil {
			if errors.Is(err, ErrNoTemplates) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(composed)
	})
}
