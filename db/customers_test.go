package db

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSetCustomer(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	// mappings without a user or a Stripe customer ID are rejected
	c.Assert(db.SetCustomer(&Customer{StripeCustomerID: testStripeCust}), qt.Equals, ErrInvalidData)
	c.Assert(db.SetCustomer(&Customer{UserID: 1}), qt.Equals, ErrInvalidData)

	customer := &Customer{
		UserID:           1,
		StripeCustomerID: testStripeCust,
		Email:            testUserEmail,
		Name:             testHolderName,
	}
	c.Assert(db.SetCustomer(customer), qt.IsNil)

	stored, err := db.Customer(1)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.StripeCustomerID, qt.Equals, testStripeCust)
	c.Assert(stored.CreatedAt.IsZero(), qt.IsFalse)

	// update keeps the same mapping
	customer.DefaultPaymentMethod = "pm_test1"
	c.Assert(db.SetCustomer(customer), qt.IsNil)
	stored, err = db.Customer(1)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.DefaultPaymentMethod, qt.Equals, "pm_test1")
}

func TestCustomerByStripeID(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	_, err := db.CustomerByStripeID(testStripeCust)
	c.Assert(err, qt.Equals, ErrNotFound)

	c.Assert(db.SetCustomer(&Customer{
		UserID:           7,
		StripeCustomerID: testStripeCust,
		Email:            testUserEmail,
	}), qt.IsNil)

	customer, err := db.CustomerByStripeID(testStripeCust)
	c.Assert(err, qt.IsNil)
	c.Assert(customer.UserID, qt.Equals, uint64(7))
}

func TestDelCustomer(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	c.Assert(db.DelCustomer(1), qt.Equals, ErrNotFound)

	c.Assert(db.SetCustomer(&Customer{
		UserID:           1,
		StripeCustomerID: testStripeCust,
	}), qt.IsNil)
	c.Assert(db.DelCustomer(1), qt.IsNil)

	_, err := db.Customer(1)
	c.Assert(err, qt.Equals, ErrNotFound)
}
