// Package server wires the development stand-in for the remote print
// service. It implements the same HTTP contract the client talks to in
// production, backed by a local sqlite database.
package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"printsaarthi/internal/config"
	"printsaarthi/internal/handler"
	"printsaarthi/internal/middleware"
	"printsaarthi/internal/repository"
)

type Server struct {
	echo          *echo.Echo
	authHandler   *handler.AuthHandler
	orderHandler  *handler.OrderHandler
	healthHandler *handler.HealthHandler
	jwtSecret     string
}

func NewServer(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	users := repository.NewUserRepository(db)
	orders := repository.NewOrderRepository(db)

	s := &Server{
		echo:          e,
		authHandler:   handler.NewAuthHandler(users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger),
		orderHandler:  handler.NewOrderHandler(orders, logger),
		healthHandler: handler.NewHealthHandler(db),
		jwtSecret:     cfg.Auth.JWTSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", s.healthHandler.Check)

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/verify-token", s.authHandler.VerifyToken)

	// -------- orders --------
	orders := api.Group("/orders", middleware.JWTAuth(s.jwtSecret))
	orders.POST("/place", s.orderHandler.Place)
	orders.GET("/user/:userId", s.orderHandler.ListByUser)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
