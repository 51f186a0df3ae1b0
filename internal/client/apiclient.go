package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"printsaarthi/internal/apperr"
	"printsaarthi/internal/config"
	"printsaarthi/internal/dto"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"

	"github.com/sirupsen/logrus"
)

// APIClient wraps every call to the remote print service. It attaches the
// stored credential as a bearer token, classifies failures uniformly, and
// never retries on its own; callers decide.
type APIClient interface {
	Login(ctx context.Context, email, password string) (*dto.AuthData, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthData, error)
	VerifyToken(ctx context.Context, token string) (*model.User, error)
	Health(ctx context.Context) (*dto.HealthResponse, error)
	PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.OrderData, error)
	GetUserOrders(ctx context.Context, userID string) ([]dto.OrderData, error)

	// OnAuthRejected registers the hook fired after a 401 clears the
	// stored credential. Called once per rejected response.
	OnAuthRejected(fn func())
}

type apiClientImpl struct {
	httpClient     *http.Client
	baseURL        string
	store          repository.LocalStore
	onAuthRejected func()
	logger         *logrus.Logger
}

func NewAPIClient(cfg *config.API, store repository.LocalStore, logger *logrus.Logger) APIClient {
	return &apiClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		store:   store,
		logger:  logger,
	}
}

func (c *apiClientImpl) OnAuthRejected(fn func()) {
	c.onAuthRejected = fn
}

// do sends one request and classifies the outcome: transport problems and
// timeouts become NetworkError, a 401 clears the credential and becomes
// ErrAuthRejected, anything else non-2xx becomes ServerError.
func (c *apiClientImpl) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if token, err := c.store.Get(ctx, repository.KeyToken); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if err != nil && !errors.Is(err, repository.ErrKeyNotFound) {
		return fmt.Errorf("read credential: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).WithError(err).Warn("remote call failed")
		return &apperr.NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleAuthRejected(ctx, path)
		return apperr.ErrAuthRejected
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperr.NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperr.ServerError{Message: serverMessage(respBody, resp.StatusCode)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// handleAuthRejected clears the persisted credential and fires the forced
// re-authentication hook. The token must be gone before the hook runs so no
// stale credential survives.
func (c *apiClientImpl) handleAuthRejected(ctx context.Context, path string) {
	if err := c.store.Delete(ctx, repository.KeyToken); err != nil {
		c.logger.WithError(err).Error("clear rejected credential")
	}

	c.logger.WithField("path", path).Info("credential rejected, forcing re-authentication")

	if c.onAuthRejected != nil {
		c.onAuthRejected()
	}
}

// serverMessage pulls the service-supplied message out of an error body,
// falling back to the status code.
func serverMessage(body []byte, status int) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func (c *apiClientImpl) Login(ctx context.Context, email, password string) (*dto.AuthData, error) {
	var resp dto.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.Data == nil {
		return nil, &apperr.ServerError{Message: resp.Message}
	}

	return resp.Data, nil
}

func (c *apiClientImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthData, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.Data == nil {
		return nil, &apperr.ServerError{Message: resp.Message}
	}

	return resp.Data, nil
}

func (c *apiClientImpl) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	var resp dto.VerifyResponse
	err := c.do(ctx, http.MethodPost, "/auth/verify-token", dto.VerifyTokenRequest{
		Token: token,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.Data == nil {
		return nil, &apperr.ServerError{Message: resp.Message}
	}

	return &resp.Data.User, nil
}

func (c *apiClientImpl) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var resp dto.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *apiClientImpl) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.OrderData, error) {
	var resp dto.PlaceOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders/place", req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.Order == nil {
		return nil, &apperr.ServerError{Message: resp.Message}
	}

	return resp.Order, nil
}

func (c *apiClientImpl) GetUserOrders(ctx context.Context, userID string) ([]dto.OrderData, error) {
	var resp dto.UserOrdersResponse
	if err := c.do(ctx, http.MethodGet, "/orders/user/"+userID, nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &apperr.ServerError{Message: resp.Message}
	}

	return resp.Orders, nil
}
