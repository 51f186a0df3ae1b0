package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"printsaarthi/internal/client"
	"printsaarthi/internal/dto"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"
)

// HistoryService lists a user's past orders. The remote service is
// authoritative; local history is a stale-but-available fallback when the
// remote fetch fails. Insertion order, no pagination.
type HistoryService interface {
	List(ctx context.Context, userID string) ([]model.PlacedOrder, error)
}

type historyServiceImpl struct {
	api    client.APIClient
	store  repository.LocalStore
	logger *logrus.Logger
}

func NewHistoryService(api client.APIClient, store repository.LocalStore, logger *logrus.Logger) HistoryService {
	return &historyServiceImpl{
		api:    api,
		store:  store,
		logger: logger,
	}
}

func (s *historyServiceImpl) List(ctx context.Context, userID string) ([]model.PlacedOrder, error) {
	orders, err := s.api.GetUserOrders(ctx, userID)
	if err == nil {
		placed := make([]model.PlacedOrder, 0, len(orders))
		for _, o := range orders {
			placed = append(placed, fromOrderData(o))
		}
		return placed, nil
	}

	s.logger.WithError(err).Warn("remote order fetch failed, using local history")
	return s.localHistory(ctx)
}

func (s *historyServiceImpl) localHistory(ctx context.Context) ([]model.PlacedOrder, error) {
	raw, err := s.store.Get(ctx, repository.KeyOrderHistory)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return []model.PlacedOrder{}, nil
		}
		return nil, err
	}

	var history []model.PlacedOrder
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		s.logger.WithError(err).Warn("corrupt local order history")
		return []model.PlacedOrder{}, nil
	}

	return history, nil
}

func fromOrderData(o dto.OrderData) model.PlacedOrder {
	return model.PlacedOrder{
		OrderID:        o.ID,
		Price:          decimal.NewFromFloat(o.Amount),
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		OrderStatus:    o.OrderStatus,
		Specifications: o.Specifications,
		Files:          o.Files,
		CreatedAt:      o.CreatedAt,
	}
}
