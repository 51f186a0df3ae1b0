package service

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"printsaarthi/internal/model"
)

// Rate table. basePrice applies per copy, fileFee per selected file.
var (
	basePrice = decimal.RequireFromString("2.00")
	fileFee   = decimal.RequireFromString("1.00")

	paperTypeRates = map[string]decimal.Decimal{
		model.PaperTypeGlossy: decimal.RequireFromString("1.00"),
		model.PaperTypeMatte:  decimal.RequireFromString("0.50"),
		model.PaperTypeSatin:  decimal.RequireFromString("0.75"),
		model.PaperTypeBond:   decimal.RequireFromString("0.25"),
		model.PaperTypePhoto:  decimal.RequireFromString("2.00"),
	}

	colorRate = decimal.RequireFromString("1.00")

	bindingRates = map[string]decimal.Decimal{
		model.BindingNone:    decimal.Zero,
		model.BindingStaples: decimal.RequireFromString("0.50"),
		model.BindingSpiral:  decimal.RequireFromString("3.00"),
		model.BindingPerfect: decimal.RequireFromString("5.00"),
	}
)

// PriceBreakdown is the itemized summary shown in the cart. Total is the
// exact amount charged; the two never diverge because both come from the
// same computation.
type PriceBreakdown struct {
	Base     decimal.Decimal
	Paper    decimal.Decimal
	Color    decimal.Decimal
	Binding  decimal.Decimal
	Quantity int
	Subtotal decimal.Decimal
	FileFee  decimal.Decimal
	Total    decimal.Decimal
}

// PricingService maps a draft to a total price. Pure: same draft in, same
// price out, no I/O.
type PricingService interface {
	Price(draft *model.OrderDraft) decimal.Decimal
	Breakdown(draft *model.OrderDraft) PriceBreakdown
}

type pricingServiceImpl struct {
	logger *logrus.Logger
}

func NewPricingService(logger *logrus.Logger) PricingService {
	return &pricingServiceImpl{
		logger: logger,
	}
}

func (s *pricingServiceImpl) Price(draft *model.OrderDraft) decimal.Decimal {
	return s.Breakdown(draft).Total
}

func (s *pricingServiceImpl) Breakdown(draft *model.OrderDraft) PriceBreakdown {
	spec := draft.Specifications

	// Unknown paper types and bindings deliberately price at zero instead
	// of failing. Logged so invalid input does not go unnoticed.
	paper, ok := paperTypeRates[spec.PaperType]
	if !ok {
		s.logger.WithField("paperType", spec.PaperType).Warn("unknown paper type priced at zero")
		paper = decimal.Zero
	}

	binding, ok := bindingRates[spec.Binding]
	if !ok {
		s.logger.WithField("binding", spec.Binding).Warn("unknown binding priced at zero")
		binding = decimal.Zero
	}

	color := decimal.Zero
	if spec.Color == model.ColorFull {
		color = colorRate
	}

	perCopy := basePrice.Add(paper).Add(color).Add(binding)
	subtotal := perCopy.Mul(decimal.NewFromInt(int64(spec.Quantity)))
	files := fileFee.Mul(decimal.NewFromInt(int64(len(draft.Files))))

	return PriceBreakdown{
		Base:     basePrice,
		Paper:    paper,
		Color:    color,
		Binding:  binding,
		Quantity: spec.Quantity,
		Subtotal: subtotal,
		FileFee:  files,
		Total:    subtotal.Add(files),
	}
}
