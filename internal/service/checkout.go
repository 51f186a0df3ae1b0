package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"printsaarthi/internal/apperr"
	"printsaarthi/internal/client"
	"printsaarthi/internal/dto"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"
)

type CheckoutState string

const (
	StateDraft      CheckoutState = "DRAFT"
	StatePriced     CheckoutState = "PRICED"
	StateSubmitting CheckoutState = "SUBMITTING"
	StateCompleted  CheckoutState = "COMPLETED"
	StateFailed     CheckoutState = "FAILED"
)

// Shopkeeper assignment is not part of the order form yet; every order goes
// to the default shop.
// TODO: let the customer pick a shop once the service exposes a shop listing.
const defaultShopkeeperID = "65f1234567890abcdef12345"

const addressFallback = "To be provided"

// PaymentDetails carries the per-method input fields; only the fields of
// the chosen method are consulted.
type PaymentDetails struct {
	CardNumber     string
	ExpiryDate     string
	CVV            string
	CardholderName string
	UPIID          string
	PhoneNumber    string
}

// CheckoutService walks DRAFT → PRICED → SUBMITTING → {COMPLETED, FAILED}.
// FAILED is recoverable: local records stay intact and Submit may be called
// again.
type CheckoutService interface {
	// PriceDraft computes the total for a committed draft and persists
	// the priced order as the handoff to payment.
	PriceDraft(ctx context.Context, draft *model.OrderDraft, user *model.User) (*model.PricedOrder, error)

	// Validate checks the method-specific required fields. Fails closed:
	// submission is blocked until it passes.
	Validate(method string, details PaymentDetails) error

	// Submit sends the order to the remote service. On acceptance the
	// placed order is appended to local history and the draft records are
	// cleared; on any failure local storage is left untouched.
	Submit(ctx context.Context, order *model.PricedOrder, method string, details PaymentDetails, user *model.User) (*model.PlacedOrder, error)

	State() CheckoutState
}

type checkoutServiceImpl struct {
	mu    sync.Mutex
	state CheckoutState

	api     client.APIClient
	pricing PricingService
	store   repository.LocalStore
	logger  *logrus.Logger
}

func NewCheckoutService(api client.APIClient, pricing PricingService, store repository.LocalStore, logger *logrus.Logger) CheckoutService {
	return &checkoutServiceImpl{
		state:   StateDraft,
		api:     api,
		pricing: pricing,
		store:   store,
		logger:  logger,
	}
}

func (s *checkoutServiceImpl) State() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *checkoutServiceImpl) setState(state CheckoutState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *checkoutServiceImpl) PriceDraft(ctx context.Context, draft *model.OrderDraft, user *model.User) (*model.PricedOrder, error) {
	if user == nil {
		return nil, &apperr.ValidationError{
			Code:    apperr.CodeMissingField,
			Field:   "user",
			Message: "sign in before checkout",
		}
	}

	priced := &model.PricedOrder{
		OrderDraft: *draft,
		Price:      s.pricing.Price(draft),
		UserID:     user.ID,
		UserEmail:  user.Email,
		UserName:   user.Name,
	}

	raw, err := json.Marshal(priced)
	if err != nil {
		return nil, fmt.Errorf("encode priced order: %w", err)
	}
	if err := s.store.Set(ctx, repository.KeyOrderForPayment, string(raw)); err != nil {
		return nil, fmt.Errorf("persist priced order: %w", err)
	}

	s.setState(StatePriced)

	s.logger.WithField("price", priced.Price.StringFixed(2)).Info("order priced")
	return priced, nil
}

func (s *checkoutServiceImpl) Validate(method string, details PaymentDetails) error {
	missing := func(field string) error {
		return &apperr.ValidationError{
			Code:    apperr.CodeMissingField,
			Field:   field,
			Message: "required for " + method + " payment",
		}
	}

	switch method {
	case model.PaymentMethodCard:
		switch {
		case details.CardNumber == "":
			return missing("cardNumber")
		case details.ExpiryDate == "":
			return missing("expiryDate")
		case details.CVV == "":
			return missing("cvv")
		case details.CardholderName == "":
			return missing("cardholderName")
		}
	case model.PaymentMethodUPI:
		if details.UPIID == "" {
			return missing("upiId")
		}
	case model.PaymentMethodCOD:
		if details.PhoneNumber == "" {
			return missing("phoneNumber")
		}
	default:
		return &apperr.ValidationError{
			Code:    apperr.CodeUnknownField,
			Field:   "paymentMethod",
			Message: "unsupported payment method",
		}
	}

	return nil
}

func (s *checkoutServiceImpl) Submit(ctx context.Context, order *model.PricedOrder, method string, details PaymentDetails, user *model.User) (*model.PlacedOrder, error) {
	if err := s.Validate(method, details); err != nil {
		return nil, err
	}

	s.setState(StateSubmitting)

	req := dto.PlaceOrderRequest{
		CustomerID:      order.UserID,
		ShopkeeperID:    defaultShopkeeperID,
		Amount:          order.Price.InexactFloat64(),
		Files:           order.Files,
		Specifications:  order.Specifications,
		PaymentMethod:   method,
		DeliveryAddress: deliveryAddress(user),
		ContactNumber:   contactNumber(details, user),
	}

	accepted, err := s.api.PlaceOrder(ctx, req)
	if err != nil {
		// Recoverable: draft and priced order stay in storage for retry.
		s.setState(StateFailed)
		s.logger.WithError(err).Warn("order submission failed")
		return nil, err
	}

	placed := &model.PlacedOrder{
		OrderID:        accepted.ID,
		Price:          order.Price,
		PaymentMethod:  method,
		PaymentStatus:  model.PaymentStatusCompleted,
		OrderStatus:    model.OrderStatusPending,
		Specifications: order.Specifications,
		Files:          order.Files,
		CreatedAt:      time.Now().UTC(),
	}

	// History append and draft cleanup are best-effort: the remote copy is
	// already the source of truth.
	if err := s.appendHistory(ctx, placed); err != nil {
		s.logger.WithError(err).Error("append order history")
	}
	if err := s.store.Delete(ctx, repository.KeyCurrentOrder); err != nil {
		s.logger.WithError(err).Error("clear current order")
	}
	if err := s.store.Delete(ctx, repository.KeyOrderForPayment); err != nil {
		s.logger.WithError(err).Error("clear priced order")
	}

	s.setState(StateCompleted)

	s.logger.WithFields(logrus.Fields{
		"orderId": placed.OrderID,
		"method":  method,
		"amount":  placed.Price.StringFixed(2),
	}).Info("order placed")

	return placed, nil
}

func (s *checkoutServiceImpl) appendHistory(ctx context.Context, placed *model.PlacedOrder) error {
	var history []model.PlacedOrder

	raw, err := s.store.Get(ctx, repository.KeyOrderHistory)
	switch {
	case err == nil:
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			s.logger.WithError(err).Warn("corrupt order history, starting fresh")
			history = nil
		}
	case !errors.Is(err, repository.ErrKeyNotFound):
		return err
	}

	history = append(history, *placed)

	encoded, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode order history: %w", err)
	}
	return s.store.Set(ctx, repository.KeyOrderHistory, string(encoded))
}

func deliveryAddress(user *model.User) string {
	if user != nil && user.Address != "" {
		return user.Address
	}
	return addressFallback
}

func contactNumber(details PaymentDetails, user *model.User) string {
	if details.PhoneNumber != "" {
		return details.PhoneNumber
	}
	if user != nil && user.Phone != "" {
		return user.Phone
	}
	return addressFallback
}
