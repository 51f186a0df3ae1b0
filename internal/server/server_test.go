package server

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"printsaarthi/internal/apperr"
	"printsaarthi/internal/client"
	"printsaarthi/internal/config"
	"printsaarthi/internal/dto"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"
)

// End-to-end over the wire: the real client against the development server.
func newTestStack(t *testing.T) (client.APIClient, *repository.MemoryStore) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	// One named in-memory database per test so state never leaks between them.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserRecord{}, &model.OrderRecord{}))

	cfg := &config.Config{
		Auth: config.Auth{JWTSecret: "test-secret", TokenTTL: time.Hour},
	}

	srv := NewServer(cfg, db, logger)
	ts := httptest.NewServer(srv.echo)
	t.Cleanup(ts.Close)

	store := repository.NewMemoryStore()
	api := client.NewAPIClient(&config.API{
		BaseURL: ts.URL + "/api",
		Timeout: 5 * time.Second,
	}, store, logger)

	return api, store
}

func TestRegisterLoginAndVerify(t *testing.T) {
	ctx := context.Background()
	api, _ := newTestStack(t)

	data, err := api.Register(ctx, dto.RegisterRequest{
		Name:     "Asha Verma",
		Email:    "asha@example.com",
		Password: "secret",
		Address:  "12 MG Road, Pune",
	})
	require.NoError(t, err)
	require.NotEmpty(t, data.Token)
	assert.Equal(t, "asha@example.com", data.User.Email)

	// Duplicate registration is rejected with a message.
	_, err = api.Register(ctx, dto.RegisterRequest{
		Name: "Asha Again", Email: "asha@example.com", Password: "other",
	})
	var se *apperr.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "email already registered", se.Message)

	login, err := api.Login(ctx, "asha@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, data.User.ID, login.User.ID)

	_, err = api.Login(ctx, "asha@example.com", "wrong")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "invalid email or password", se.Message)

	user, err := api.VerifyToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, data.User.ID, user.ID)

	_, err = api.VerifyToken(ctx, "garbage-token")
	require.ErrorAs(t, err, &se)
}

func TestOrdersRequireAuthentication(t *testing.T) {
	ctx := context.Background()
	api, store := newTestStack(t)

	_, err := api.GetUserOrders(ctx, "someone")
	assert.ErrorIs(t, err, apperr.ErrAuthRejected)

	require.NoError(t, store.Set(ctx, repository.KeyToken, "forged"))
	_, err = api.GetUserOrders(ctx, "someone")
	assert.ErrorIs(t, err, apperr.ErrAuthRejected)

	// The forged credential was cleared by the rejection.
	_, err = store.Get(ctx, repository.KeyToken)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestPlaceAndListOrders(t *testing.T) {
	ctx := context.Background()
	api, store := newTestStack(t)

	data, err := api.Register(ctx, dto.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret",
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, repository.KeyToken, data.Token))

	placed, err := api.PlaceOrder(ctx, dto.PlaceOrderRequest{
		CustomerID:   data.User.ID,
		ShopkeeperID: "shop-1",
		Amount:       23.00,
		Files: []model.FileInfo{
			{Name: "thesis.pdf", Size: 2048, MimeType: "application/pdf"},
		},
		Specifications: model.Specifications{
			PaperSize: model.PaperSizeA4,
			PaperType: model.PaperTypeGlossy,
			Quantity:  3,
			Color:     model.ColorFull,
			Binding:   model.BindingSpiral,
		},
		PaymentMethod:   model.PaymentMethodCOD,
		DeliveryAddress: "12 MG Road, Pune",
		ContactNumber:   "+91 98765 43210",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, placed.ID)
	assert.Equal(t, model.PaymentStatusCompleted, placed.PaymentStatus)
	assert.Equal(t, model.OrderStatusPending, placed.OrderStatus)

	orders, err := api.GetUserOrders(ctx, data.User.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].ID)
	assert.Equal(t, model.BindingSpiral, orders[0].Specifications.Binding)
	require.Len(t, orders[0].Files, 1)
	assert.Equal(t, "thesis.pdf", orders[0].Files[0].Name)
}

func TestPlaceOrderRejectsIncompletePayload(t *testing.T) {
	ctx := context.Background()
	api, store := newTestStack(t)

	data, err := api.Register(ctx, dto.RegisterRequest{
		Name: "Ravi", Email: "ravi2@example.com", Password: "secret",
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, repository.KeyToken, data.Token))

	_, err = api.PlaceOrder(ctx, dto.PlaceOrderRequest{CustomerID: data.User.ID})
	var se *apperr.ServerError
	require.ErrorAs(t, err, &se)
}

func TestHealthEndpoint(t *testing.T) {
	ctx := context.Background()
	api, _ := newTestStack(t)

	health, err := api.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "healthy", health.Database.Status)
	assert.Equal(t, 1, health.Database.ReadyState)
}
