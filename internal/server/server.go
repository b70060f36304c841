package server

import (
	"github.com/tkrasny/park-tracker-backend/internal/auth"
	"github.com/tkrasny/park-tracker-backend/internal/config"
	"github.com/tkrasny/park-tracker-backend/internal/db"
	"github.com/tkrasny/park-tracker-backend/internal/hike"
	"github.com/tkrasny/park-tracker-backend/internal/park"
	"github.com/tkrasny/park-tracker-backend/internal/photo"
	"github.com/tkrasny/park-tracker-backend/internal/trail"
	"github.com/tkrasny/park-tracker-backend/internal/user"
	"github.com/tkrasny/park-tracker-backend/internal/visit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       db.Querier
	Redis    *redis.Client
	Verifier auth.Verifier
}

func NewServer(cfg config.Config, pool db.Querier, redisClient *redis.Client, verifier auth.Verifier) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       pool,
		Redis:    redisClient,
		Verifier: verifier,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	users := user.NewService(s.DB)
	authMiddleware := auth.Middleware(s.Verifier, users, s.Redis)

	// the token mint only exists for local development; with a real issuer
	// configured the route is absent entirely
	if s.Cfg.LocalAuthEnabled {
		auth.RegisterRoutes(s.App.Group("/auth"), auth.NewLocalTokenService(s.Cfg.LocalAuthSecret))
	}

	user.RegisterRoutes(s.App.Group("/users"), users, authMiddleware)
	park.RegisterRoutes(s.App.Group("/parks"), park.NewService(s.DB), authMiddleware)
	trail.RegisterRoutes(s.App.Group("/trails"), trail.NewService(s.DB))
	visit.RegisterRoutes(s.App.Group("/visits"), visit.NewService(s.DB), authMiddleware)
	hike.RegisterRoutes(s.App.Group("/hike-records"), hike.NewService(s.DB), authMiddleware)
	photo.RegisterRoutes(s.App.Group("/photos"), photo.NewService(s.DB), authMiddleware)
}
