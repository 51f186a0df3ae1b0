package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"printsaarthi/internal/dto"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"
)

type AuthHandler struct {
	users    repository.UserRepository
	secret   string
	tokenTTL time.Duration
	logger   *logrus.Logger
}

func NewAuthHandler(users repository.UserRepository, secret string, tokenTTL time.Duration, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return rejected(c, "name, email and password are required")
	}

	if _, err := h.users.FindByEmail(ctx, req.Email); err == nil {
		return rejected(c, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	record := &model.UserRecord{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashPassword(req.Password),
		Phone:        req.Phone,
		Address:      req.Address,
		ShopName:     req.ShopName,
		ShopAddress:  req.ShopAddress,
	}
	if err := h.users.Create(ctx, record); err != nil {
		return err
	}

	h.logger.WithField("email", record.Email).Info("user registered")
	return h.respondWithToken(c, record)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	record, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rejected(c, "invalid email or password")
		}
		return err
	}

	if record.PasswordHash != hashPassword(req.Password) {
		return rejected(c, "invalid email or password")
	}

	return h.respondWithToken(c, record)
}

func (h *AuthHandler) VerifyToken(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyTokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	token, err := jwt.Parse(req.Token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.secret), nil
	})
	if err != nil || !token.Valid {
		return rejected(c, "invalid or expired token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return rejected(c, "invalid or expired token")
	}

	record, err := h.users.FindByID(ctx, sub)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rejected(c, "unknown user")
		}
		return err
	}

	return c.JSON(http.StatusOK, dto.VerifyResponse{
		Success: true,
		Data:    &dto.VerifyData{User: toUser(record)},
	})
}

func (h *AuthHandler) respondWithToken(c echo.Context, record *model.UserRecord) error {
	token, err := h.issueToken(record.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.AuthResponse{
		Success: true,
		Data: &dto.AuthData{
			User:  toUser(record),
			Token: token,
		},
	})
}

func (h *AuthHandler) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.secret))
}

// hashPassword is good enough for a development stub; the production
// service owns real credential storage.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func toUser(record *model.UserRecord) model.User {
	return model.User{
		ID:          record.ID,
		Name:        record.Name,
		Email:       record.Email,
		Phone:       record.Phone,
		Address:     record.Address,
		ShopName:    record.ShopName,
		ShopAddress: record.ShopAddress,
		IsApproved:  record.IsApproved,
		CreatedAt:   record.CreatedAt,
	}
}

func rejected(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, dto.AuthResponse{
		Success: false,
		Message: message,
	})
}
