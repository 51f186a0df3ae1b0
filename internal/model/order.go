package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Paper sizes accepted by the print shops.
const (
	PaperSizeA4     = "A4"
	PaperSizeA3     = "A3"
	PaperSizeA5     = "A5"
	PaperSizeLetter = "Letter"
	PaperSizeLegal  = "Legal"
)

const (
	PaperTypeGlossy = "glossy"
	PaperTypeMatte  = "matte"
	PaperTypeSatin  = "satin"
	PaperTypeBond   = "bond"
	PaperTypePhoto  = "photo"
)

const (
	ColorFull       = "color"
	ColorBlackWhite = "black-white"
	ColorGrayscale  = "grayscale"
)

const (
	BindingNone    = "none"
	BindingStaples = "staples"
	BindingSpiral  = "spiral"
	BindingPerfect = "perfect"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
	PaymentMethodCOD  = "cod"
)

const (
	PaymentStatusCompleted = "completed"
	OrderStatusPending     = "pending"
)

// FileInfo is the metadata of one file selected for printing. The file
// contents never pass through this pipeline, only the descriptor does.
type FileInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"type"`
}

type Specifications struct {
	PaperSize           string `json:"paperSize"`
	PaperType           string `json:"paperType"`
	Quantity            int    `json:"quantity"`
	Color               string `json:"color"`
	Binding             string `json:"binding"`
	SpecialInstructions string `json:"specialInstructions"`
}

// DefaultSpecifications mirrors the initial selection of the upload form.
func DefaultSpecifications() Specifications {
	return Specifications{
		PaperSize: PaperSizeA4,
		PaperType: PaperTypeGlossy,
		Quantity:  1,
		Color:     ColorFull,
		Binding:   BindingNone,
	}
}

// OrderDraft is an in-progress order: selected files plus print
// specifications. It must hold at least one file before checkout.
type OrderDraft struct {
	Files          []FileInfo     `json:"files"`
	Specifications Specifications `json:"specifications"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// PricedOrder is a draft with a computed total, ready for payment.
type PricedOrder struct {
	OrderDraft
	Price     decimal.Decimal `json:"price"`
	UserID    string          `json:"userId"`
	UserEmail string          `json:"userEmail"`
	UserName  string          `json:"userName"`
}

// PlacedOrder is an order accepted by the remote service. The remote copy
// is authoritative; entries kept in local order history are a fallback cache.
type PlacedOrder struct {
	OrderID        string          `json:"orderId"`
	Price          decimal.Decimal `json:"price"`
	PaymentMethod  string          `json:"paymentMethod"`
	PaymentStatus  string          `json:"paymentStatus"`
	OrderStatus    string          `json:"orderStatus"`
	Specifications Specifications  `json:"specifications"`
	Files          []FileInfo      `json:"files"`
	CreatedAt      time.Time       `json:"createdAt"`
}
