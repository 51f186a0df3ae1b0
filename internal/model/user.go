package model

import "time"

// User is owned by the remote service; the client keeps a read-only cached
// copy for the lifetime of the session.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	ShopName    string    `json:"shopName,omitempty"`
	ShopAddress string    `json:"shopAddress,omitempty"`
	IsApproved  bool      `json:"isApproved,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
