package service

import (
	"context"
	"errors"

	"printsaarthi/internal/dto"
	"printsaarthi/internal/model"
)

// fakeAPI implements client.APIClient for service tests. Unset methods
// fail, so each test only stubs what it exercises.
type fakeAPI struct {
	loginFn         func(ctx context.Context, email, password string) (*dto.AuthData, error)
	registerFn      func(ctx context.Context, req dto.RegisterRequest) (*dto.AuthData, error)
	verifyTokenFn   func(ctx context.Context, token string) (*model.User, error)
	healthFn        func(ctx context.Context) (*dto.HealthResponse, error)
	placeOrderFn    func(ctx context.Context, req dto.PlaceOrderRequest) (*dto.OrderData, error)
	getUserOrdersFn func(ctx context.Context, userID string) ([]dto.OrderData, error)
	onAuthRejected  func()
}

var errNotStubbed = errors.New("not stubbed")

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*dto.AuthData, error) {
	if f.loginFn == nil {
		return nil, errNotStubbed
	}
	return f.loginFn(ctx, email, password)
}

func (f *fakeAPI) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthData, error) {
	if f.registerFn == nil {
		return nil, errNotStubbed
	}
	return f.registerFn(ctx, req)
}

func (f *fakeAPI) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	if f.verifyTokenFn == nil {
		return nil, errNotStubbed
	}
	return f.verifyTokenFn(ctx, token)
}

func (f *fakeAPI) Health(ctx context.Context) (*dto.HealthResponse, error) {
	if f.healthFn == nil {
		return nil, errNotStubbed
	}
	return f.healthFn(ctx)
}

func (f *fakeAPI) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.OrderData, error) {
	if f.placeOrderFn == nil {
		return nil, errNotStubbed
	}
	return f.placeOrderFn(ctx, req)
}

func (f *fakeAPI) GetUserOrders(ctx context.Context, userID string) ([]dto.OrderData, error) {
	if f.getUserOrdersFn == nil {
		return nil, errNotStubbed
	}
	return f.getUserOrdersFn(ctx, userID)
}

func (f *fakeAPI) OnAuthRejected(fn func()) {
	f.onAuthRejected = fn
}
