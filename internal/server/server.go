package server

import (
	"backend-fitsquad/internal/auth"
	"backend-fitsquad/internal/config"
	"backend-fitsquad/internal/gps"
	"backend-fitsquad/internal/groupsession"
	"backend-fitsquad/internal/history"
	"backend-fitsquad/internal/stream"
	"backend-fitsquad/internal/workout"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	Sessions *groupsession.Store
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)
	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Redis:    redisClient,
		Stream:   hub,
		Sessions: groupsession.NewStore(db, hub),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	workout.RegisterRoutes(s.App.Group("/workouts"), workout.NewService(workout.NewStore(s.DB), nil), jwtMiddleware)
	gps.RegisterRoutes(s.App.Group("/gps"), gps.NewService(s.Redis), jwtMiddleware)
	groupsession.RegisterRoutes(s.App.Group("/sessions"), s.Sessions, jwtMiddleware)
	history.RegisterRoutes(s.App.Group("/history"), history.NewService(s.DB), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
