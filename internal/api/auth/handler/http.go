package authHandler

import (
	authService "FaceIDGolang/internal/api/auth/service"
	"FaceIDGolang/internal/middleware"
	"FaceIDGolang/pkg/redis"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	log         *logrus.Logger
	authService authService.AuthService
	validator   *validator.Validate
	middleware  middleware.Middleware
	redisServer redis.IRedis
}

func New(
	log *logrus.Logger,
	as authService.AuthService,
	validate *validator.Validate,
	middleware middleware.Middleware,
	redisServer redis.IRedis) *AuthHandler {
	return &AuthHandler{
		log:         log,
		authService: as,
		validator:   validate,
		middleware:  middleware,
		redisServer: redisServer,
	}
}

func (h *AuthHandler) Start(srv fiber.Router) {
	auth := srv.Group("/auth", h.middleware.NewRateLimiter)
	auth.Post("/login", h.HandleLogin)
	auth.Post("/login-recovery", h.HandleLoginRecovery)
	auth.Post("/test-match", h.HandleTestMatch)
	auth.Post("/logout", h.middleware.NewTokenMiddleware, h.HandleLogout)

	users := srv.Group("/users")
	users.Post("/", h.HandleRegister)
	users.Get("/me", h.middleware.NewTokenMiddleware, h.HandleGetProfile)
	users.Put("/face", h.middleware.NewTokenMiddleware, h.HandleUpdateFace)
	users.Post("/recovery-key", h.middleware.NewTokenMiddleware, h.HandleRotateRecoveryKey)
	users.Delete("/:id", h.middleware.NewTokenMiddleware, h.HandleDeleteUser)

	debug := srv.Group("/debug")
	debug.Get("/faces", h.middleware.NewTokenMiddleware, h.HandleRegisteredFaces)
}
