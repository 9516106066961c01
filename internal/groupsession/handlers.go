package groupsession

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type createRequest struct {
	WorkoutID    string `json:"workout_id"`
	WorkoutTitle string `json:"workout_title"`
}

type joinRequest struct {
	Code string `json:"code"`
}

type readyRequest struct {
	Ready bool `json:"ready"`
}

type completedRequest struct {
	Completed bool `json:"completed"`
}

type advanceRequest struct {
	NextPartIndex      int `json:"next_part_index"`
	NextComponentIndex int `json:"next_component_index"`
}

func RegisterRoutes(r fiber.Router, store *Store, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req createRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.WorkoutTitle == "" {
			return fiber.NewError(fiber.StatusBadRequest, "workout_title required")
		}
		id, name := identity(c)
		session, err := store.Create(c.Context(), id, name, req.WorkoutTitle, req.WorkoutID)
		if err != nil {
			return sessionError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	r.Post("/join", authMiddleware, func(c *fiber.Ctx) error {
		var req joinRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		id, name := identity(c)
		session, err := store.Join(c.Context(), req.Code, id, name)
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})

	r.Get("/mine", authMiddleware, func(c *fiber.Ctx) error {
		id, _ := identity(c)
		sessions, err := store.ActiveSessionsFor(c.Context(), id)
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(sessions)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		session, err := store.Get(c.Context(), c.Params("id"))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})

	r.Post("/:id/leave", authMiddleware, func(c *fiber.Ctx) error {
		id, _ := identity(c)
		session, err := store.Leave(c.Context(), c.Params("id"), id)
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})

	r.Post("/:id/ready", authMiddleware, func(c *fiber.Ctx) error {
		var req readyRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		id, _ := identity(c)
		session, err := store.SetReady(c.Context(), c.Params("id"), id, req.Ready)
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})

	r.Post("/:id/completed", authMiddleware, func(c *fiber.Ctx) error {
		var req completedRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		id, _ := identity(c)
		session, err := store.SetCompleted(c.Context(), c.Params("id"), id, req.Completed)
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})

	r.Post("/:id/start", authMiddleware, func(c *fiber.Ctx) error {
		session, err := store.Start(c.Context(), c.Params("id"))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})

	r.Post("/:id/advance", authMiddleware, func(c *fiber.Ctx) error {
		var req advanceRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		session, err := store.MoveToNext(c.Context(), c.Params("id"), req.NextPartIndex, req.NextComponentIndex)
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})

	r.Post("/:id/complete", authMiddleware, func(c *fiber.Ctx) error {
		session, err := store.Complete(c.Context(), c.Params("id"))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})

	r.Post("/:id/cancel", authMiddleware, func(c *fiber.Ctx) error {
		session, err := store.Cancel(c.Context(), c.Params("id"))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})
}

func identity(c *fiber.Ctx) (id, name string) {
	id, _ = c.Locals("user_id").(string)
	name, _ = c.Locals("display_name").(string)
	if name == "" {
		name = id
	}
	return id, name
}

// sessionError maps the domain errors onto HTTP statuses. None of these
// are fatal; they are surfaced verbatim so the user can act on them.
func sessionError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCode):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrSessionExpired):
		return fiber.NewError(fiber.StatusGone, err.Error())
	case errors.Is(err, ErrSessionFull),
		errors.Is(err, ErrAlreadyStarted),
		errors.Is(err, ErrAlreadyJoined),
		errors.Is(err, ErrAdvanceNotReady),
		errors.Is(err, ErrAdvanceConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
