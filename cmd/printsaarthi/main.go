// Command printsaarthi drives the print-order pipeline from the terminal:
// sign in (or sign up), build a draft from the named files, price it, and
// submit it for payment.
package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"printsaarthi/internal/client"
	"printsaarthi/internal/config"
	"printsaarthi/internal/dto"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"
	"printsaarthi/internal/service"
)

func main() {
	var (
		email        = flag.String("email", "", "account email")
		password     = flag.String("password", "", "account password")
		signup       = flag.Bool("signup", false, "create an account instead of logging in")
		name         = flag.String("name", "", "full name (signup only)")
		phone        = flag.String("phone", "", "phone number (signup only)")
		address      = flag.String("address", "", "delivery address (signup only)")
		showHistory  = flag.Bool("history", false, "list past orders and exit")
		paperSize    = flag.String("paper-size", model.PaperSizeA4, "paper size (A4, A3, A5, Letter, Legal)")
		paperType    = flag.String("paper-type", model.PaperTypeGlossy, "paper type (glossy, matte, satin, bond, photo)")
		quantity     = flag.Int("quantity", 1, "number of copies")
		color        = flag.String("color", model.ColorFull, "color mode (color, black-white, grayscale)")
		binding      = flag.String("binding", model.BindingNone, "binding (none, staples, spiral, perfect)")
		instructions = flag.String("instructions", "", "special instructions")
		method       = flag.String("method", model.PaymentMethodCOD, "payment method (card, upi, cod)")
		cardNumber   = flag.String("card-number", "", "card number")
		cardExpiry   = flag.String("card-expiry", "", "card expiry MM/YY")
		cardCVV      = flag.String("card-cvv", "", "card cvv")
		cardHolder   = flag.String("card-holder", "", "cardholder name")
		upiID        = flag.String("upi-id", "", "UPI id")
		payPhone     = flag.String("pay-phone", "", "contact number for cash on delivery")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	ctx := context.Background()

	store, err := repository.OpenLocalStore(cfg.Storage.Path)
	if err != nil {
		logger.WithError(err).Fatal("open local storage")
	}

	api := client.NewAPIClient(&cfg.API, store, logger)
	session := service.NewSessionService(api, store, logger)
	api.OnAuthRejected(session.ForceLogout)

	session.Initialize(ctx)
	fmt.Printf("Service health: %s\n", session.Health())

	user := authenticate(ctx, session, *signup, *email, *password, *name, *phone, *address)

	if *showHistory {
		history := service.NewHistoryService(api, store, logger)
		orders, err := history.List(ctx, user.ID)
		if err != nil {
			logger.WithError(err).Fatal("list orders")
		}
		printHistory(orders)
		return
	}

	if flag.NArg() == 0 {
		fmt.Println("Nothing to print: pass one or more files as arguments.")
		os.Exit(2)
	}

	builder := service.NewDraftBuilder(store, logger)
	if err := builder.Restore(ctx); err != nil {
		logger.WithError(err).Warn("could not restore saved draft")
	}

	builder.AddFiles(describeFiles(flag.Args(), logger)...)

	specs := map[string]string{
		"paperSize":           *paperSize,
		"paperType":           *paperType,
		"quantity":            fmt.Sprintf("%d", *quantity),
		"color":               *color,
		"binding":             *binding,
		"specialInstructions": *instructions,
	}
	for field, value := range specs {
		if err := builder.SetSpecification(field, value); err != nil {
			logger.WithError(err).Fatal("invalid specification")
		}
	}

	draft, err := builder.Commit(ctx)
	if err != nil {
		logger.WithError(err).Fatal("commit draft")
	}

	pricing := service.NewPricingService(logger)
	printBreakdown(pricing.Breakdown(draft))

	checkout := service.NewCheckoutService(api, pricing, store, logger)
	priced, err := checkout.PriceDraft(ctx, draft, user)
	if err != nil {
		logger.WithError(err).Fatal("price order")
	}

	details := service.PaymentDetails{
		CardNumber:     *cardNumber,
		ExpiryDate:     *cardExpiry,
		CVV:            *cardCVV,
		CardholderName: *cardHolder,
		UPIID:          *upiID,
		PhoneNumber:    *payPhone,
	}

	placed, err := checkout.Submit(ctx, priced, *method, details, user)
	if err != nil {
		logger.WithError(err).Fatal("submit order")
	}

	builder.Reset()
	fmt.Printf("Order placed: %s ($%s, %s)\n", placed.OrderID, placed.Price.StringFixed(2), placed.PaymentMethod)
}

func authenticate(ctx context.Context, session service.SessionService, signup bool, email, password, name, phone, address string) *model.User {
	if user := session.CurrentUser(); user != nil {
		fmt.Printf("Signed in as %s\n", user.Email)
		return user
	}

	if email == "" || password == "" {
		fmt.Println("Sign in required: pass -email and -password (add -signup -name to register).")
		os.Exit(2)
	}

	var (
		user *model.User
		err  error
	)
	if signup {
		user, err = session.Signup(ctx, dto.RegisterRequest{
			Name:     name,
			Email:    email,
			Password: password,
			Phone:    phone,
			Address:  address,
		})
	} else {
		user, err = session.Login(ctx, email, password)
	}
	if err != nil {
		fmt.Printf("Sign in failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Signed in as %s\n", user.Email)
	return user
}

func describeFiles(paths []string, logger *logrus.Logger) []model.FileInfo {
	files := make([]model.FileInfo, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			logger.WithError(err).WithField("file", path).Warn("skipping unreadable file")
			continue
		}
		files = append(files, model.FileInfo{
			Name:     filepath.Base(path),
			Size:     info.Size(),
			MimeType: mime.TypeByExtension(filepath.Ext(path)),
		})
	}
	return files
}

func printBreakdown(b service.PriceBreakdown) {
	fmt.Println("Order summary:")
	fmt.Printf("  Base           $%s\n", b.Base.StringFixed(2))
	fmt.Printf("  Paper type     $%s\n", b.Paper.StringFixed(2))
	fmt.Printf("  Color          $%s\n", b.Color.StringFixed(2))
	fmt.Printf("  Binding        $%s\n", b.Binding.StringFixed(2))
	fmt.Printf("  Quantity       x %d\n", b.Quantity)
	fmt.Printf("  File handling  $%s\n", b.FileFee.StringFixed(2))
	fmt.Printf("  Total          $%s\n", b.Total.StringFixed(2))
}

func printHistory(orders []model.PlacedOrder) {
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return
	}
	for _, o := range orders {
		fmt.Printf("%s  $%s  %s/%s  %d file(s)\n",
			o.OrderID, o.Price.StringFixed(2), o.PaymentStatus, o.OrderStatus, len(o.Files))
	}
}

func newLogger(cfg config.Log) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
