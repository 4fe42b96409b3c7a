package stripe

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	stripeapi "github.com/stripe/stripe-go/v82"

	"github.com/ridepay/payments-backend/db"
)

// PaymentIntentInfo represents the payment intent information extracted from
// a webhook event that is relevant for the application.
type PaymentIntentInfo struct {
	ID             string
	Status         stripeapi.PaymentIntentStatus
	Amount         int64
	AmountReceived int64
	Currency       string
	UserID         uint64
	CustomerID     string
}

// ChargeInfo represents the charge information extracted from a refund event
type ChargeInfo struct {
	PaymentIntentID string
	AmountRefunded  int64
	Refunded        bool
}

// HandleWebhookEvent processes a webhook event with idempotency
func (s *Service) HandleWebhookEvent(payload []byte, signatureHeader string) error {
	// Validate and parse the event
	event, err := s.client.ValidateWebhookEvent(payload, signatureHeader)
	if err != nil {
		return err
	}

	// Check if event was already processed (idempotency)
	if s.events.EventExists(event.ID) {
		log.Debug().Str("event", event.ID).Msg("stripe webhook: event already processed, skipping")
		return nil
	}

	// Process the event based on its type
	if err := s.HandleEvent(event); err != nil {
		return err
	}

	// Mark event as processed if successful
	return s.events.MarkProcessed(event.ID)
}

func (s *Service) HandleEvent(event *stripeapi.Event) error {
	switch event.Type {
	case stripeapi.EventTypePaymentIntentSucceeded,
		stripeapi.EventTypePaymentIntentCanceled,
		stripeapi.EventTypePaymentIntentAmountCapturableUpdated,
		stripeapi.EventTypePaymentIntentPaymentFailed:
		return s.handlePaymentIntent(event)
	case stripeapi.EventTypeChargeRefunded:
		return s.handleChargeRefunded(event)
	case stripeapi.EventTypeAccountUpdated:
		return s.handleAccountUpdate(event)
	default:
		log.Debug().Str("type", string(event.Type)).Str("event", event.ID).
			Msg("stripe webhook: received unhandled event type")
		return nil
	}
}

// handlePaymentIntent syncs the stored payment with the intent state
func (s *Service) handlePaymentIntent(event *stripeapi.Event) error {
	intentInfo, err := parsePaymentIntentFromEvent(event)
	if err != nil {
		return fmt.Errorf("failed to parse payment intent from event: %w", err)
	}
	if intentInfo.UserID == 0 {
		// No userID metadata, resolve the owner through the Stripe
		// customer attached to the intent.
		customer, err := s.db.CustomerByStripeID(intentInfo.CustomerID)
		if err != nil {
			log.Debug().Str("intent", intentInfo.ID).Str("customer", intentInfo.CustomerID).
				Msg("stripe webhook: customer not tracked, skipping")
			return nil
		}
		intentInfo.UserID = customer.UserID
	}

	// Use per-user locking
	unlock := s.lockManager.LockUser(intentInfo.UserID)
	defer unlock()

	payment, err := s.db.Payment(intentInfo.ID)
	if err != nil {
		// Intents created outside this service (e.g. via the dashboard)
		// have no local mirror, nothing to sync.
		log.Debug().Str("intent", intentInfo.ID).
			Msg("stripe webhook: payment not tracked, skipping")
		return nil
	}

	status := paymentStatusFromIntent(intentInfo.Status)
	captured := int64(0)
	if intentInfo.Status == stripeapi.PaymentIntentStatusSucceeded {
		captured = intentInfo.AmountReceived
	}
	if err := s.db.UpdatePaymentStatus(payment.ID, status, captured, 0); err != nil {
		return fmt.Errorf("failed to update payment %s from event %s: %w",
			payment.ID, event.ID, err)
	}

	log.Info().Str("intent", intentInfo.ID).Str("status", string(status)).
		Uint64("userID", intentInfo.UserID).Msg("stripe webhook: payment updated")
	return nil
}

// handleChargeRefunded records refund totals reported by Stripe
func (s *Service) handleChargeRefunded(event *stripeapi.Event) error {
	chargeInfo, err := parseChargeFromEvent(event)
	if err != nil {
		return fmt.Errorf("failed to parse charge from event: %w", err)
	}
	if chargeInfo.PaymentIntentID == "" {
		return nil
	}

	payment, err := s.db.Payment(chargeInfo.PaymentIntentID)
	if err != nil {
		log.Debug().Str("intent", chargeInfo.PaymentIntentID).
			Msg("stripe webhook: refunded payment not tracked, skipping")
		return nil
	}

	unlock := s.lockManager.LockUser(payment.UserID)
	defer unlock()

	status := payment.Status
	if chargeInfo.Refunded {
		status = db.PaymentStatusRefunded
	}
	if err := s.db.UpdatePaymentStatus(payment.ID, status, 0, chargeInfo.AmountRefunded); err != nil {
		return fmt.Errorf("failed to update refund for payment %s: %w", payment.ID, err)
	}

	log.Info().Str("intent", payment.ID).Int64("refunded", chargeInfo.AmountRefunded).
		Msg("stripe webhook: refund recorded")
	return nil
}

// handleAccountUpdate logs Connect onboarding progress for drivers
func (s *Service) handleAccountUpdate(event *stripeapi.Event) error {
	var account stripeapi.Account
	if err := json.Unmarshal(event.Data.Raw, &account); err != nil {
		return fmt.Errorf("failed to parse account from event: %w", err)
	}

	user, err := s.db.UserByStripeAccount(account.ID)
	if err != nil {
		log.Debug().Str("account", account.ID).
			Msg("stripe webhook: account not linked to any driver, skipping")
		return nil
	}

	log.Info().Uint64("userID", user.ID).Str("account", account.ID).
		Bool("chargesEnabled", account.ChargesEnabled).
		Bool("payoutsEnabled", account.PayoutsEnabled).
		Msg("stripe webhook: connect account updated")
	return nil
}

// parsePaymentIntentFromEvent extracts payment intent information from a webhook event
func parsePaymentIntentFromEvent(event *stripeapi.Event) (*PaymentIntentInfo, error) {
	var intent stripeapi.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse payment intent from event: %v", err)
	}

	info := &PaymentIntentInfo{
		ID:             intent.ID,
		Status:         intent.Status,
		Amount:         intent.Amount,
		AmountReceived: intent.AmountReceived,
		Currency:       string(intent.Currency),
	}
	if intent.Customer != nil {
		info.CustomerID = intent.Customer.ID
	}
	if raw, ok := intent.Metadata["userID"]; ok {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid userID metadata %q", raw)
		}
		info.UserID = userID
	}
	if info.UserID == 0 && info.CustomerID == "" {
		return nil, fmt.Errorf("payment intent has no userID metadata nor customer")
	}
	return info, nil
}

// parseChargeFromEvent extracts charge information from a webhook event
func parseChargeFromEvent(event *stripeapi.Event) (*ChargeInfo, error) {
	var charge stripeapi.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return nil, fmt.Errorf("failed to parse charge from event: %v", err)
	}

	info := &ChargeInfo{
		AmountRefunded: charge.AmountRefunded,
		Refunded:       charge.Refunded,
	}
	if charge.PaymentIntent != nil {
		info.PaymentIntentID = charge.PaymentIntent.ID
	}
	return info, nil
}
