package dto

import (
	"time"

	"printsaarthi/internal/model"
)

// Wire shapes of the remote print service. Amounts travel as plain JSON
// numbers, matching what the service stores and returns.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	ShopName    string `json:"shopName,omitempty"`
	ShopAddress string `json:"shopAddress,omitempty"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type AuthData struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    *AuthData `json:"data,omitempty"`
}

type VerifyData struct {
	User model.User `json:"user"`
}

type VerifyResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    *VerifyData `json:"data,omitempty"`
}

type DatabaseHealth struct {
	Status     string `json:"status"`
	State      string `json:"state"`
	ReadyState int    `json:"readyState"`
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

type PlaceOrderRequest struct {
	CustomerID      string               `json:"customerId"`
	ShopkeeperID    string               `json:"shopkeeperId"`
	Amount          float64              `json:"amount"`
	Files           []model.FileInfo     `json:"files"`
	Specifications  model.Specifications `json:"specifications"`
	PaymentMethod   string               `json:"paymentMethod"`
	DeliveryAddress string               `json:"deliveryAddress"`
	ContactNumber   string               `json:"contactNumber"`
}

type OrderData struct {
	ID              string               `json:"_id"`
	CustomerID      string               `json:"customerId"`
	ShopkeeperID    string               `json:"shopkeeperId"`
	Amount          float64              `json:"amount"`
	Files           []model.FileInfo     `json:"files"`
	Specifications  model.Specifications `json:"specifications"`
	PaymentMethod   string               `json:"paymentMethod"`
	PaymentStatus   string               `json:"paymentStatus"`
	OrderStatus     string               `json:"orderStatus"`
	DeliveryAddress string               `json:"deliveryAddress"`
	ContactNumber   string               `json:"contactNumber"`
	CreatedAt       time.Time            `json:"createdAt"`
}

type PlaceOrderResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Order   *OrderData `json:"order,omitempty"`
}

type UserOrdersResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Orders  []OrderData `json:"orders"`
}
