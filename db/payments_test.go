package db

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSetPayment(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	payment := &Payment{
		ID:       testIntentID,
		UserID:   1,
		Provider: ProviderStripe,
		Amount:   1550,
		Currency: "usd",
		Status:   PaymentStatusRequiresCapture,
	}
	c.Assert(db.SetPayment(payment), qt.IsNil)

	stored, err := db.Payment(testIntentID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Amount, qt.Equals, int64(1550))
	c.Assert(stored.Status, qt.Equals, PaymentStatusRequiresCapture)
	c.Assert(stored.CreatedAt.IsZero(), qt.IsFalse)

	// upsert keeps the same document
	payment.Status = PaymentStatusSucceeded
	c.Assert(db.SetPayment(payment), qt.IsNil)
	stored, err = db.Payment(testIntentID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Status, qt.Equals, PaymentStatusSucceeded)

	// missing ID or user is rejected
	c.Assert(db.SetPayment(&Payment{UserID: 1}), qt.Equals, ErrInvalidData)
}

func TestUpdatePaymentStatus(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	c.Assert(db.SetPayment(&Payment{
		ID:       testIntentID,
		UserID:   1,
		Provider: ProviderStripe,
		Amount:   2000,
		Currency: "usd",
		Status:   PaymentStatusRequiresCapture,
	}), qt.IsNil)

	c.Assert(db.UpdatePaymentStatus(testIntentID, PaymentStatusSucceeded, 1800, 0), qt.IsNil)
	stored, err := db.Payment(testIntentID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Status, qt.Equals, PaymentStatusSucceeded)
	c.Assert(stored.CapturedAmount, qt.Equals, int64(1800))

	// webhooks may reference payments we never created
	err = db.UpdatePaymentStatus("pi_unknown", PaymentStatusSucceeded, 0, 0)
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestPaymentsHistory(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	for i, id := range []string{"pi_1", "pi_2", "pi_3"} {
		c.Assert(db.SetPayment(&Payment{
			ID:       id,
			UserID:   1,
			Provider: ProviderStripe,
			Amount:   int64(1000 + i),
			Currency: "usd",
			Status:   PaymentStatusSucceeded,
		}), qt.IsNil)
	}
	c.Assert(db.SetPayment(&Payment{
		ID:       "order_other",
		UserID:   2,
		Provider: ProviderPayPal,
		Amount:   500,
		Currency: "usd",
		Status:   PaymentStatusPending,
	}), qt.IsNil)

	payments, err := db.Payments(1, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(payments, qt.HasLen, 3)

	limited, err := db.Payments(1, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(limited, qt.HasLen, 2)
}
