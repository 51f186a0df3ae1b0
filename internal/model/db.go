package model

import "time"

// Gorm rows for the development API server. Files and specifications are
// stored as serialized JSON since the server never queries inside them.

type UserRecord struct {
	ID           string `gorm:"primaryKey;size:64;not null"`
	Name         string `gorm:"size:128;not null"`
	Email        string `gorm:"size:128;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Phone        string `gorm:"size:32"`
	Address      string `gorm:"size:256"`
	ShopName     string `gorm:"size:128"`
	ShopAddress  string `gorm:"size:256"`
	IsApproved   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrderRecord struct {
	ID              string  `gorm:"primaryKey;size:64;not null"`
	CustomerID      string  `gorm:"size:64;index;not null"`
	ShopkeeperID    string  `gorm:"size:64;index"`
	Amount          float64 `gorm:"not null"`
	Files           string  // JSON array of FileInfo
	Specifications  string  // JSON Specifications
	PaymentMethod   string  `gorm:"size:16;not null"`
	PaymentStatus   string  `gorm:"size:32;index;not null"` // completed, failed
	OrderStatus     string  `gorm:"size:32;index;not null"` // pending, processing, done
	DeliveryAddress string  `gorm:"size:256"`
	ContactNumber   string  `gorm:"size:32"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
