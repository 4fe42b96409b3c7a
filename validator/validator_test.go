package validator

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

type testPayment struct {
	Amount   int64  `validate:"required,gt=0"`
	Currency string `validate:"required,currency"`
	Email    string `validate:"omitempty,email"`
}

func TestValidateCurrency(t *testing.T) {
	c := qt.New(t)
	v := New()

	c.Assert(v.Validate(&testPayment{Amount: 1000, Currency: "usd"}), qt.IsNil)
	c.Assert(v.Validate(&testPayment{Amount: 1000, Currency: "EUR"}), qt.IsNil)

	err := v.Validate(&testPayment{Amount: 1000, Currency: "us1"})
	c.Assert(err, qt.IsNotNil)
	verrs, ok := err.(ValidationErrors)
	c.Assert(ok, qt.IsTrue)
	c.Assert(verrs[0].Field, qt.Equals, "Currency")
	c.Assert(verrs[0].Message, qt.Equals, "Unsupported currency code")
}

func TestValidateCollectsAllFields(t *testing.T) {
	c := qt.New(t)
	v := New()

	err := v.Validate(&testPayment{Amount: 0, Currency: "", Email: "not-an-email"})
	c.Assert(err, qt.IsNotNil)
	verrs, ok := err.(ValidationErrors)
	c.Assert(ok, qt.IsTrue)
	c.Assert(verrs, qt.HasLen, 3)
}
