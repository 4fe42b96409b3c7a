package stripe

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v82"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"

	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/test"
)

// signedWebhookHeader builds a Stripe-Signature header for the payload, the
// same way Stripe signs deliveries.
func signedWebhookHeader(payload []byte, secret string) string {
	now := time.Now()
	sig := stripewebhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func paymentIntentEvent(c *qt.C, eventType stripeapi.EventType, intent map[string]any) *stripeapi.Event {
	raw, err := json.Marshal(intent)
	c.Assert(err, qt.IsNil)
	return &stripeapi.Event{
		ID:   "evt_" + string(eventType),
		Type: eventType,
		Data: &stripeapi.EventData{Raw: raw},
	}
}

func TestParsePaymentIntentFromEvent(t *testing.T) {
	c := qt.New(t)

	event := paymentIntentEvent(c, stripeapi.EventTypePaymentIntentSucceeded, map[string]any{
		"id":              "pi_parse1",
		"status":          "succeeded",
		"amount":          1550,
		"amount_received": 1550,
		"currency":        "usd",
		"metadata":        map[string]string{"userID": "42"},
	})

	info, err := parsePaymentIntentFromEvent(event)
	c.Assert(err, qt.IsNil)
	c.Assert(info.ID, qt.Equals, "pi_parse1")
	c.Assert(info.Status, qt.Equals, stripeapi.PaymentIntentStatusSucceeded)
	c.Assert(info.Amount, qt.Equals, int64(1550))
	c.Assert(info.AmountReceived, qt.Equals, int64(1550))
	c.Assert(info.Currency, qt.Equals, "usd")
	c.Assert(info.UserID, qt.Equals, uint64(42))
}

func TestParsePaymentIntentMissingUserID(t *testing.T) {
	c := qt.New(t)

	// neither userID metadata nor an attached customer
	event := paymentIntentEvent(c, stripeapi.EventTypePaymentIntentSucceeded, map[string]any{
		"id":     "pi_parse2",
		"status": "succeeded",
	})
	_, err := parsePaymentIntentFromEvent(event)
	c.Assert(err, qt.IsNotNil)

	// a customer alone is enough, the handler resolves the owner later
	event = paymentIntentEvent(c, stripeapi.EventTypePaymentIntentSucceeded, map[string]any{
		"id":       "pi_parse3",
		"status":   "succeeded",
		"customer": "cus_parse3",
	})
	info, err := parsePaymentIntentFromEvent(event)
	c.Assert(err, qt.IsNil)
	c.Assert(info.UserID, qt.Equals, uint64(0))
	c.Assert(info.CustomerID, qt.Equals, "cus_parse3")
}

func TestParseChargeFromEvent(t *testing.T) {
	c := qt.New(t)

	raw, err := json.Marshal(map[string]any{
		"id":              "ch_1",
		"amount_refunded": 500,
		"refunded":        false,
		"payment_intent":  "pi_charge1",
	})
	c.Assert(err, qt.IsNil)
	event := &stripeapi.Event{
		ID:   "evt_charge",
		Type: stripeapi.EventTypeChargeRefunded,
		Data: &stripeapi.EventData{Raw: raw},
	}

	info, err := parseChargeFromEvent(event)
	c.Assert(err, qt.IsNil)
	c.Assert(info.PaymentIntentID, qt.Equals, "pi_charge1")
	c.Assert(info.AmountRefunded, qt.Equals, int64(500))
	c.Assert(info.Refunded, qt.IsFalse)
}

func TestWebhookPaymentIntentSyncsPayment(t *testing.T) {
	c := qt.New(t)

	ctx := context.Background()
	dbContainer, err := test.StartMongoContainer(ctx)
	c.Assert(err, qt.IsNil)
	defer func() {
		c.Assert(dbContainer.Terminate(ctx), qt.IsNil)
	}()

	mongoURI, err := dbContainer.Endpoint(ctx, "mongodb")
	c.Assert(err, qt.IsNil)

	testDB, err := db.New(mongoURI, test.RandomDatabaseName())
	c.Assert(err, qt.IsNil)
	defer testDB.Close()

	userID, err := testDB.SetUser(&db.User{
		Email:    "rider@example.com",
		Password: "hashedpassword",
		Role:     db.RiderRole,
	})
	c.Assert(err, qt.IsNil)

	c.Assert(testDB.SetPayment(&db.Payment{
		ID:       "pi_webhook1",
		UserID:   userID,
		Provider: db.ProviderStripe,
		Amount:   2500,
		Currency: "usd",
		Status:   db.PaymentStatusRequiresCapture,
	}), qt.IsNil)

	service := &Service{
		client:      nil,
		db:          testDB,
		events:      NewMemoryEventStore(0),
		lockManager: NewLockManager(),
		config:      &Config{},
	}

	event := paymentIntentEvent(c, stripeapi.EventTypePaymentIntentSucceeded, map[string]any{
		"id":              "pi_webhook1",
		"status":          "succeeded",
		"amount":          2500,
		"amount_received": 2500,
		"currency":        "usd",
		"metadata":        map[string]string{"userID": "1"},
	})
	c.Assert(service.HandleEvent(event), qt.IsNil)

	payment, err := testDB.Payment("pi_webhook1")
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Status, qt.Equals, db.PaymentStatusSucceeded)
	c.Assert(payment.CapturedAmount, qt.Equals, int64(2500))

	// events without userID metadata are resolved via the Stripe customer
	c.Assert(testDB.SetCustomer(&db.Customer{
		UserID:           userID,
		StripeCustomerID: "cus_webhook1",
		Email:            "rider@example.com",
	}), qt.IsNil)
	c.Assert(testDB.SetPayment(&db.Payment{
		ID:       "pi_webhook2",
		UserID:   userID,
		Provider: db.ProviderStripe,
		Amount:   900,
		Currency: "usd",
		Status:   db.PaymentStatusPending,
	}), qt.IsNil)

	event = paymentIntentEvent(c, stripeapi.EventTypePaymentIntentCanceled, map[string]any{
		"id":       "pi_webhook2",
		"status":   "canceled",
		"customer": "cus_webhook1",
	})
	c.Assert(service.HandleEvent(event), qt.IsNil)

	payment, err = testDB.Payment("pi_webhook2")
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Status, qt.Equals, db.PaymentStatusCanceled)
}

func TestHandleWebhookEventSignatureAndReplay(t *testing.T) {
	c := qt.New(t)

	ctx := context.Background()
	dbContainer, err := test.StartMongoContainer(ctx)
	c.Assert(err, qt.IsNil)
	defer func() {
		c.Assert(dbContainer.Terminate(ctx), qt.IsNil)
	}()

	mongoURI, err := dbContainer.Endpoint(ctx, "mongodb")
	c.Assert(err, qt.IsNil)

	testDB, err := db.New(mongoURI, test.RandomDatabaseName())
	c.Assert(err, qt.IsNil)
	defer testDB.Close()

	userID, err := testDB.SetUser(&db.User{
		Email:    "rider@example.com",
		Password: "hashedpassword",
		Role:     db.RiderRole,
	})
	c.Assert(err, qt.IsNil)

	c.Assert(testDB.SetPayment(&db.Payment{
		ID:       "pi_signed1",
		UserID:   userID,
		Provider: db.ProviderStripe,
		Amount:   1200,
		Currency: "usd",
		Status:   db.PaymentStatusRequiresCapture,
	}), qt.IsNil)

	config := &Config{APIKey: "sk_test_dummy", WebhookSecret: "whsec_test"}
	service := &Service{
		client:      NewClient(config),
		db:          testDB,
		events:      NewMemoryEventStore(0),
		lockManager: NewLockManager(),
		config:      config,
	}

	payload, err := json.Marshal(map[string]any{
		"id":   "evt_signed1",
		"type": "payment_intent.succeeded",
		"data": map[string]any{
			"object": map[string]any{
				"id":              "pi_signed1",
				"object":          "payment_intent",
				"status":          "succeeded",
				"amount":          1200,
				"amount_received": 1200,
				"currency":        "usd",
				"metadata":        map[string]string{"userID": fmt.Sprintf("%d", userID)},
			},
		},
	})
	c.Assert(err, qt.IsNil)

	// a bad signature is rejected before any processing
	err = service.HandleWebhookEvent(payload, "t=1,v1=deadbeef")
	c.Assert(IsWebhookValidationError(err), qt.IsTrue)
	c.Assert(service.events.Size(), qt.Equals, 0)

	// a correctly signed delivery is processed and recorded
	c.Assert(service.HandleWebhookEvent(payload, signedWebhookHeader(payload, "whsec_test")), qt.IsNil)
	payment, err := testDB.Payment("pi_signed1")
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Status, qt.Equals, db.PaymentStatusSucceeded)
	c.Assert(service.events.Size(), qt.Equals, 1)

	// a replayed delivery of the same event ID is skipped
	c.Assert(testDB.UpdatePaymentStatus("pi_signed1", db.PaymentStatusRequiresCapture, 0, 0), qt.IsNil)
	c.Assert(service.HandleWebhookEvent(payload, signedWebhookHeader(payload, "whsec_test")), qt.IsNil)
	payment, err = testDB.Payment("pi_signed1")
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Status, qt.Equals, db.PaymentStatusRequiresCapture)
	c.Assert(service.events.Size(), qt.Equals, 1)
}

func TestWebhookUntrackedPaymentIsIgnored(t *testing.T) {
	c := qt.New(t)

	ctx := context.Background()
	dbContainer, err := test.StartMongoContainer(ctx)
	c.Assert(err, qt.IsNil)
	defer func() {
		c.Assert(dbContainer.Terminate(ctx), qt.IsNil)
	}()

	mongoURI, err := dbContainer.Endpoint(ctx, "mongodb")
	c.Assert(err, qt.IsNil)

	testDB, err := db.New(mongoURI, test.RandomDatabaseName())
	c.Assert(err, qt.IsNil)
	defer testDB.Close()

	service := &Service{
		client:      nil,
		db:          testDB,
		events:      NewMemoryEventStore(0),
		lockManager: NewLockManager(),
		config:      &Config{},
	}

	event := paymentIntentEvent(c, stripeapi.EventTypePaymentIntentCanceled, map[string]any{
		"id":       "pi_unknown",
		"status":   "canceled",
		"metadata": map[string]string{"userID": "7"},
	})
	c.Assert(service.HandleEvent(event), qt.IsNil)
}
