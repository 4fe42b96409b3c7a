package api

import (
	"encoding/json"
	"net/http"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ridepay/payments-backend/db"
)

func TestPaymentHistory(t *testing.T) {
	c := qt.New(t)
	token := registerAndLogin(t, "history@test.com", testPass, "rider")

	user, err := testDB.UserByEmail("history@test.com")
	c.Assert(err, qt.IsNil)

	// seed a few payments directly in storage
	for _, p := range []*db.Payment{
		{ID: "pi_hist1", UserID: user.ID, Provider: db.ProviderStripe, Amount: 1200,
			Currency: "usd", Status: db.PaymentStatusSucceeded},
		{ID: "pi_hist2", UserID: user.ID, Provider: db.ProviderStripe, Amount: 900,
			Currency: "usd", Status: db.PaymentStatusCanceled},
		{ID: "ORDER-hist", UserID: user.ID, Provider: db.ProviderPayPal, Amount: 2000,
			Currency: "eur", Status: db.PaymentStatusPending},
	} {
		c.Assert(testDB.SetPayment(p), qt.IsNil)
	}

	status, env := doRequest(t, http.MethodGet, paymentsEndpoint, token, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	var res struct {
		Payments []db.Payment `json:"payments"`
	}
	c.Assert(json.Unmarshal(env.Data, &res), qt.IsNil)
	c.Assert(res.Payments, qt.HasLen, 3)

	// limit caps the page size
	status, env = doRequest(t, http.MethodGet, paymentsEndpoint+"?limit=2", token, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(json.Unmarshal(env.Data, &res), qt.IsNil)
	c.Assert(res.Payments, qt.HasLen, 2)

	// invalid limit is rejected
	status, _ = doRequest(t, http.MethodGet, paymentsEndpoint+"?limit=-1", token, nil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	// another user sees an empty history
	otherToken := registerAndLogin(t, "nohistory@test.com", testPass, "rider")
	status, env = doRequest(t, http.MethodGet, paymentsEndpoint, otherToken, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(json.Unmarshal(env.Data, &res), qt.IsNil)
	c.Assert(res.Payments, qt.HasLen, 0)
}
