package config

import (
	"FaceIDGolang/database/postgres"
	authHandler "FaceIDGolang/internal/api/auth/handler"
	authRepository "FaceIDGolang/internal/api/auth/repository"
	authService "FaceIDGolang/internal/api/auth/service"
	detectionHandler "FaceIDGolang/internal/api/detection/handler"
	detectionService "FaceIDGolang/internal/api/detection/service"
	"FaceIDGolang/internal/middleware"
	"FaceIDGolang/pkg/bcrypt"
	"FaceIDGolang/pkg/face"
	"FaceIDGolang/pkg/facestore"
	"FaceIDGolang/pkg/redis"
	"FaceIDGolang/pkg/s3"
	"FaceIDGolang/pkg/utils"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	handlers    []handler
	redisServer redis.IRedis
	s3Client    s3.ItfS3
	faceEngine  face.IEngine
	faceStore   facestore.IFaceStore
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.faceEngine == nil {
		return nil, fmt.Errorf("face engine is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.redisServer == nil {
			return fmt.Errorf("redis must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.redisServer)
		return nil
	}
}

// WithS3Client is a no-op when no bucket is configured; registration
// snapshots then stay on local disk only.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		if !s3.Configured() {
			if s.log != nil {
				s.log.Info("AWS_BUCKET_NAME not set, snapshot uploads disabled")
			}
			return nil
		}

		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithFaceEngine() ServerOption {
	return func(s *Server) error {
		engine, err := face.NewEngine()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize face engine: %v", err)
			}
			return fmt.Errorf("failed to create face engine: %w", err)
		}
		s.faceEngine = engine
		return nil
	}
}

func WithFaceStore() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before face store")
		}

		store, err := facestore.New(s.log)
		if err != nil {
			s.log.Errorf("Failed to initialize face store: %v", err)
			return fmt.Errorf("failed to create face store: %w", err)
		}
		s.faceStore = store
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.redisServer, s.s3Client, s.bcryptUtils, s.utils, s.faceEngine, s.faceStore)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware, s.redisServer)

	// Detection Domain
	detectionServices := detectionService.NewDetectionService(s.log, s.faceEngine, s.faceStore, s.utils)
	detectionHandlers := detectionHandler.New(s.log, s.validator, s.middleware, detectionServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, detectionHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "5000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
