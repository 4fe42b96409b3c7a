package paypal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ridepay/payments-backend/db"
)

var (
	// ErrOrderNotFound is returned when an order is not tracked locally
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotOrderOwner is returned when an order belongs to another user
	ErrNotOrderOwner = errors.New("order belongs to another user")
)

// Service provides the main business logic for PayPal operations, keeping
// the local payment history in sync with order and authorization state.
type Service struct {
	client *Client
	db     *db.MongoStorage
}

// NewService creates a new PayPal service
func NewService(config *Config, database *db.MongoStorage) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if database == nil {
		return nil, fmt.Errorf("database is required")
	}

	return &Service{
		client: NewClient(config),
		db:     database,
	}, nil
}

// CreateOrder creates a PayPal order for a trip fare and records it in the
// local payment history.
func (s *Service) CreateOrder(ctx context.Context, userID uint64, params *CreateOrderParams) (*Order, error) {
	if params.ReferenceID == "" {
		params.ReferenceID = strconv.FormatUint(userID, 10)
	}

	order, err := s.client.CreateOrder(ctx, params)
	if err != nil {
		return nil, err
	}

	payment := &db.Payment{
		ID:          order.ID,
		UserID:      userID,
		Provider:    db.ProviderPayPal,
		Amount:      params.Amount,
		Currency:    params.Currency,
		Status:      db.PaymentStatusPending,
		Description: params.Description,
	}
	if err := s.db.SetPayment(payment); err != nil {
		return nil, fmt.Errorf("failed to record paypal order %s: %w", order.ID, err)
	}

	log.Info().Uint64("userID", userID).Str("order", order.ID).
		Int64("amount", params.Amount).Str("currency", params.Currency).
		Msg("paypal order created")
	return order, nil
}

// CaptureOrder captures an approved order owned by the given user
func (s *Service) CaptureOrder(ctx context.Context, userID uint64, orderID string) (*Order, error) {
	payment, err := s.ownedPayment(userID, orderID)
	if err != nil {
		return nil, err
	}

	order, err := s.client.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == "COMPLETED" {
		if err := s.db.UpdatePaymentStatus(payment.ID, db.PaymentStatusSucceeded, payment.Amount, 0); err != nil {
			log.Warn().Err(err).Str("order", orderID).Msg("failed to update captured paypal order")
		}
	}
	return order, nil
}

// CaptureAuthorization captures a trip authorization. The order the
// authorization belongs to must be owned by the given user.
func (s *Service) CaptureAuthorization(
	ctx context.Context, userID uint64, orderID, authorizationID string, amount *Money,
) (*Capture, error) {
	payment, err := s.ownedPayment(userID, orderID)
	if err != nil {
		return nil, err
	}

	capture, err := s.client.CaptureAuthorization(ctx, authorizationID, amount)
	if err != nil {
		return nil, err
	}

	if capture.Status == "COMPLETED" {
		if err := s.db.UpdatePaymentStatus(payment.ID, db.PaymentStatusSucceeded, payment.Amount, 0); err != nil {
			log.Warn().Err(err).Str("order", orderID).Msg("failed to update captured paypal authorization")
		}
	}
	return capture, nil
}

// VoidAuthorization voids a trip authorization, releasing the hold
func (s *Service) VoidAuthorization(ctx context.Context, userID uint64, orderID, authorizationID string) error {
	payment, err := s.ownedPayment(userID, orderID)
	if err != nil {
		return err
	}

	if err := s.client.VoidAuthorization(ctx, authorizationID); err != nil {
		return err
	}

	if err := s.db.UpdatePaymentStatus(payment.ID, db.PaymentStatusCanceled, 0, 0); err != nil {
		log.Warn().Err(err).Str("order", orderID).Msg("failed to update voided paypal authorization")
	}
	return nil
}

// ownedPayment loads a locally tracked order and verifies ownership.
// Foreign orders are reported as not found.
func (s *Service) ownedPayment(userID uint64, orderID string) (*db.Payment, error) {
	payment, err := s.db.Payment(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if payment.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return payment, nil
}
