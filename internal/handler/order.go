package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"printsaarthi/internal/dto"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"
)

type OrderHandler struct {
	orders repository.OrderRepository
	logger *logrus.Logger
}

func NewOrderHandler(orders repository.OrderRepository, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

func (h *OrderHandler) Place(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if req.CustomerID == "" || req.Amount <= 0 || len(req.Files) == 0 {
		return c.JSON(http.StatusOK, dto.PlaceOrderResponse{
			Success: false,
			Message: "customerId, amount and files are required",
		})
	}

	files, err := json.Marshal(req.Files)
	if err != nil {
		return err
	}
	specs, err := json.Marshal(req.Specifications)
	if err != nil {
		return err
	}

	record := &model.OrderRecord{
		ID:              uuid.NewString(),
		CustomerID:      req.CustomerID,
		ShopkeeperID:    req.ShopkeeperID,
		Amount:          req.Amount,
		Files:           string(files),
		Specifications:  string(specs),
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentStatusCompleted,
		OrderStatus:     model.OrderStatusPending,
		DeliveryAddress: req.DeliveryAddress,
		ContactNumber:   req.ContactNumber,
	}
	if err := h.orders.Create(ctx, record); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"orderId":  record.ID,
		"customer": record.CustomerID,
		"amount":   record.Amount,
	}).Info("order placed")

	order := toOrderData(record)
	return c.JSON(http.StatusOK, dto.PlaceOrderResponse{
		Success: true,
		Order:   &order,
	})
}

func (h *OrderHandler) ListByUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Param("userId")
	records, err := h.orders.ListByCustomer(ctx, userID)
	if err != nil {
		return err
	}

	orders := make([]dto.OrderData, 0, len(records))
	for _, record := range records {
		orders = append(orders, toOrderData(record))
	}

	return c.JSON(http.StatusOK, dto.UserOrdersResponse{
		Success: true,
		Orders:  orders,
	})
}

func toOrderData(record *model.OrderRecord) dto.OrderData {
	var files []model.FileInfo
	var specs model.Specifications

	// Stored by Place as JSON; a decode failure leaves the zero value.
	_ = json.Unmarshal([]byte(record.Files), &files)
	_ = json.Unmarshal([]byte(record.Specifications), &specs)

	return dto.OrderData{
		ID:              record.ID,
		CustomerID:      record.CustomerID,
		ShopkeeperID:    record.ShopkeeperID,
		Amount:          record.Amount,
		Files:           files,
		Specifications:  specs,
		PaymentMethod:   record.PaymentMethod,
		PaymentStatus:   record.PaymentStatus,
		OrderStatus:     record.OrderStatus,
		DeliveryAddress: record.DeliveryAddress,
		ContactNumber:   record.ContactNumber,
		CreatedAt:       record.CreatedAt,
	}
}
