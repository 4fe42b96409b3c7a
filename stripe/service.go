// Package stripe provides integration with the Stripe payment service,
// handling trip payments, refunds, customers and driver Connect onboarding.
package stripe

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	stripeapi "github.com/stripe/stripe-go/v82"

	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/internal"
)

// Service provides the main business logic for Stripe operations
type Service struct {
	client      *Client
	db          *db.MongoStorage
	events      *MemoryEventStore
	lockManager *LockManager
	config      *Config
}

// NewService creates a new Stripe service
func NewService(config *Config, database *db.MongoStorage) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if database == nil {
		return nil, fmt.Errorf("database is required")
	}

	return &Service{
		client:      NewClient(config),
		db:          database,
		events:      NewMemoryEventStore(0),
		lockManager: NewLockManager(),
		config:      config,
	}, nil
}

// EnsureCustomer returns the Stripe customer record for the given user,
// creating it on both sides if it does not exist yet.
func (s *Service) EnsureCustomer(userID uint64) (*db.Customer, error) {
	if customer, err := s.db.Customer(userID); err == nil {
		return customer, nil
	}

	user, err := s.db.User(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d not found: %w", userID, err)
	}

	stripeCustomer, err := s.client.CreateCustomer(user.Email, customerName(user), map[string]string{
		"userID": fmt.Sprintf("%d", userID),
	})
	if err != nil {
		return nil, err
	}

	customer := &db.Customer{
		UserID:           userID,
		StripeCustomerID: stripeCustomer.ID,
		Email:            user.Email,
		Name:             customerName(user),
		CreatedAt:        time.Now(),
	}
	if err := s.db.SetCustomer(customer); err != nil {
		return nil, fmt.Errorf("failed to save customer for user %d: %w", userID, err)
	}

	log.Info().Uint64("userID", userID).Str("customer", stripeCustomer.ID).
		Msg("stripe customer created")
	return customer, nil
}

// Customer returns the stored Stripe customer for the given user
func (s *Service) Customer(userID uint64) (*db.Customer, error) {
	return s.db.Customer(userID)
}

// UpdateCustomer updates the customer record locally and on Stripe
func (s *Service) UpdateCustomer(userID uint64, email, name string) (*db.Customer, error) {
	customer, err := s.db.Customer(userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.UpdateCustomer(customer.StripeCustomerID, email, name, nil); err != nil {
		return nil, err
	}
	if email != "" {
		customer.Email = email
	}
	if name != "" {
		customer.Name = name
	}
	if err := s.db.SetCustomer(customer); err != nil {
		return nil, fmt.Errorf("failed to update customer for user %d: %w", userID, err)
	}
	return customer, nil
}

// DeleteCustomer removes the customer on Stripe and locally
func (s *Service) DeleteCustomer(userID uint64) error {
	customer, err := s.db.Customer(userID)
	if err != nil {
		return err
	}
	if err := s.client.DeleteCustomer(customer.StripeCustomerID); err != nil {
		return err
	}
	return s.db.DelCustomer(userID)
}

// TripPaymentRequest holds the parameters for charging a rider for a trip
type TripPaymentRequest struct {
	UserID         uint64
	Amount         int64
	Currency       string
	Description    string
	TripID         string
	IdempotencyKey string
}

// CreateTripPayment authorizes a trip fare on the rider's payment method.
// The intent is created with manual capture so the final fare can be
// captured (possibly for a lower amount) once the trip completes.
func (s *Service) CreateTripPayment(req *TripPaymentRequest) (*stripeapi.PaymentIntent, error) {
	if !internal.ValidAmount(req.Amount, req.Currency) {
		return nil, NewStripeError("invalid_amount", "invalid amount or currency", nil)
	}

	customer, err := s.EnsureCustomer(req.UserID)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"userID": fmt.Sprintf("%d", req.UserID),
	}
	if req.TripID != "" {
		metadata["tripID"] = req.TripID
	}

	intent, err := s.client.CreatePaymentIntent(&PaymentIntentParams{
		Amount:         req.Amount,
		Currency:       req.Currency,
		CustomerID:     customer.StripeCustomerID,
		Description:    req.Description,
		Metadata:       metadata,
		IdempotencyKey: req.IdempotencyKey,
		ManualCapture:  true,
	})
	if err != nil {
		return nil, err
	}

	payment := &db.Payment{
		ID:          intent.ID,
		UserID:      req.UserID,
		Provider:    db.ProviderStripe,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Status:      paymentStatusFromIntent(intent.Status),
		Description: req.Description,
	}
	if err := s.db.SetPayment(payment); err != nil {
		return nil, fmt.Errorf("failed to record payment %s: %w", intent.ID, err)
	}

	log.Info().Uint64("userID", req.UserID).Str("intent", intent.ID).
		Int64("amount", req.Amount).Str("currency", req.Currency).
		Msg("trip payment created")
	return intent, nil
}

// CapturePayment captures an authorized trip payment. A zero amount captures
// the full authorized amount. The payment must belong to the given user.
func (s *Service) CapturePayment(userID uint64, intentID string, amount int64) (*stripeapi.PaymentIntent, error) {
	payment, err := s.ownedPayment(userID, intentID)
	if err != nil {
		return nil, err
	}
	if amount > payment.Amount {
		return nil, NewStripeError("invalid_amount", "capture amount exceeds authorized amount", nil)
	}

	intent, err := s.client.CapturePaymentIntent(intentID, amount)
	if err != nil {
		return nil, err
	}

	captured := intent.AmountReceived
	if err := s.db.UpdatePaymentStatus(intentID, paymentStatusFromIntent(intent.Status), captured, 0); err != nil {
		log.Warn().Err(err).Str("intent", intentID).Msg("failed to update captured payment")
	}
	return intent, nil
}

// CancelPayment cancels an authorized trip payment, releasing the hold on
// the rider's card. The payment must belong to the given user.
func (s *Service) CancelPayment(userID uint64, intentID string) (*stripeapi.PaymentIntent, error) {
	if _, err := s.ownedPayment(userID, intentID); err != nil {
		return nil, err
	}

	intent, err := s.client.CancelPaymentIntent(intentID)
	if err != nil {
		return nil, err
	}

	if err := s.db.UpdatePaymentStatus(intentID, db.PaymentStatusCanceled, 0, 0); err != nil {
		log.Warn().Err(err).Str("intent", intentID).Msg("failed to update canceled payment")
	}
	return intent, nil
}

// RefundPayment refunds a captured payment, fully or partially. The payment
// must belong to the given user and the amount must not exceed what was
// captured.
func (s *Service) RefundPayment(userID uint64, intentID string, amount int64, reason string) (*stripeapi.Refund, error) {
	payment, err := s.ownedPayment(userID, intentID)
	if err != nil {
		return nil, err
	}
	if amount > 0 && payment.CapturedAmount > 0 && amount > payment.CapturedAmount-payment.RefundedAmount {
		return nil, NewStripeError("invalid_amount", "refund amount exceeds captured amount", nil)
	}

	ref, err := s.client.CreateRefund(intentID, amount, reason)
	if err != nil {
		return nil, err
	}

	refunded := payment.RefundedAmount + ref.Amount
	status := payment.Status
	if payment.CapturedAmount > 0 && refunded >= payment.CapturedAmount {
		status = db.PaymentStatusRefunded
	}
	if err := s.db.UpdatePaymentStatus(intentID, status, 0, refunded); err != nil {
		log.Warn().Err(err).Str("intent", intentID).Msg("failed to update refunded payment")
	}

	log.Info().Uint64("userID", userID).Str("intent", intentID).
		Int64("refunded", ref.Amount).Msg("payment refunded")
	return ref, nil
}

// CreateSetupIntent creates a setup intent so the rider can save a payment
// method for future off-session trip charges.
func (s *Service) CreateSetupIntent(userID uint64) (*stripeapi.SetupIntent, error) {
	customer, err := s.EnsureCustomer(userID)
	if err != nil {
		return nil, err
	}
	return s.client.CreateSetupIntent(customer.StripeCustomerID)
}

// OnboardingLink returns a fresh Connect onboarding link for a driver,
// creating the Express account first if the driver has none yet.
func (s *Service) OnboardingLink(userID uint64) (*stripeapi.AccountLink, error) {
	user, err := s.db.User(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d not found: %w", userID, err)
	}

	if user.StripeAccountID == "" {
		acct, err := s.client.CreateConnectAccount(user.Email)
		if err != nil {
			return nil, err
		}
		user.StripeAccountID = acct.ID
		if _, err := s.db.SetUser(user); err != nil {
			return nil, fmt.Errorf("failed to save connect account for user %d: %w", userID, err)
		}
		log.Info().Uint64("userID", userID).Str("account", acct.ID).
			Msg("connect account created")
	}

	return s.client.CreateAccountLink(user.StripeAccountID)
}

// AccountStatus describes the onboarding state of a driver's Connect account
type AccountStatus struct {
	AccountID        string   `json:"accountId"`
	ChargesEnabled   bool     `json:"chargesEnabled"`
	PayoutsEnabled   bool     `json:"payoutsEnabled"`
	DetailsSubmitted bool     `json:"detailsSubmitted"`
	RequirementsDue  []string `json:"requirementsDue,omitempty"`
}

// ConnectAccountStatus returns the onboarding status of the driver's
// Connect account, or ErrAccountNotOnboarded if no account exists.
func (s *Service) ConnectAccountStatus(userID uint64) (*AccountStatus, error) {
	user, err := s.db.User(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d not found: %w", userID, err)
	}
	if user.StripeAccountID == "" {
		return nil, ErrAccountNotOnboarded
	}

	acct, err := s.client.GetAccount(user.StripeAccountID)
	if err != nil {
		return nil, err
	}

	status := &AccountStatus{
		AccountID:        acct.ID,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}
	if acct.Requirements != nil {
		status.RequirementsDue = acct.Requirements.CurrentlyDue
	}
	return status, nil
}

// ownedPayment loads a payment and verifies it belongs to the given user.
// A payment owned by someone else is reported as not found to avoid leaking
// the existence of other users' payments.
func (s *Service) ownedPayment(userID uint64, intentID string) (*db.Payment, error) {
	payment, err := s.db.Payment(intentID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}
	if payment.UserID != userID {
		return nil, ErrNotPaymentOwner
	}
	return payment, nil
}

// paymentStatusFromIntent maps a Stripe intent status to the stored status
func paymentStatusFromIntent(status stripeapi.PaymentIntentStatus) db.PaymentStatus {
	switch status {
	case stripeapi.PaymentIntentStatusRequiresCapture:
		return db.PaymentStatusRequiresCapture
	case stripeapi.PaymentIntentStatusSucceeded:
		return db.PaymentStatusSucceeded
	case stripeapi.PaymentIntentStatusCanceled:
		return db.PaymentStatusCanceled
	default:
		return db.PaymentStatusPending
	}
}

func customerName(user *db.User) string {
	if user.FirstName == "" && user.LastName == "" {
		return ""
	}
	return user.FirstName + " " + user.LastName
}
