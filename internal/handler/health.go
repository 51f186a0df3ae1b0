package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"printsaarthi/internal/dto"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

func (h *HealthHandler) Check(c echo.Context) error {
	database := dto.DatabaseHealth{
		Status:     "healthy",
		State:      "connected",
		ReadyState: 1,
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		database = dto.DatabaseHealth{
			Status:     "unhealthy",
			State:      "disconnected",
			ReadyState: 0,
		}
	}

	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Database: database,
	})
}
