package api

import (
	"encoding/json"
	"net/http"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ridepay/payments-backend/db"
)

func decodePayoutMethod(c *qt.C, env *envelope) *db.PayoutMethod {
	method := &db.PayoutMethod{}
	c.Assert(json.Unmarshal(env.Data, method), qt.IsNil)
	return method
}

func TestPayoutMethodLifecycle(t *testing.T) {
	c := qt.New(t)
	token := registerAndLogin(t, driverEmail, driverPass, "driver")

	// the first method registered becomes the default
	status, env := doRequest(t, http.MethodPost, payoutMethodsEndpoint, token, mustMarshal(map[string]string{
		"type":       "bank_account",
		"holderName": "Jo Driver",
		"bankName":   "Test Bank",
		"last4":      "4321",
		"country":    "US",
		"currency":   "usd",
	}))
	c.Assert(status, qt.Equals, http.StatusCreated)
	bank := decodePayoutMethod(c, env)
	c.Assert(bank.IsDefault, qt.IsTrue)

	// a second method does not replace the default
	status, env = doRequest(t, http.MethodPost, payoutMethodsEndpoint, token, mustMarshal(map[string]string{
		"type":        "paypal",
		"paypalEmail": "driver@paypal.test",
	}))
	c.Assert(status, qt.Equals, http.StatusCreated)
	pp := decodePayoutMethod(c, env)
	c.Assert(pp.IsDefault, qt.IsFalse)

	// listing returns the default first
	status, env = doRequest(t, http.MethodGet, payoutMethodsEndpoint, token, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	var list struct {
		Methods []db.PayoutMethod `json:"methods"`
	}
	c.Assert(json.Unmarshal(env.Data, &list), qt.IsNil)
	c.Assert(list.Methods, qt.HasLen, 2)
	c.Assert(list.Methods[0].ID, qt.Equals, bank.ID)

	// the default method cannot be deleted while another method remains
	status, _ = doRequest(t, http.MethodDelete, payoutMethodPath(bank.ID), token, nil)
	c.Assert(status, qt.Equals, http.StatusConflict)

	// promoting the paypal method demotes the bank account
	status, env = doRequest(t, http.MethodPost, payoutMethodPath(pp.ID)+"/default", token, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	promoted := decodePayoutMethod(c, env)
	c.Assert(promoted.IsDefault, qt.IsTrue)

	status, env = doRequest(t, http.MethodGet, payoutMethodPath(bank.ID), token, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	demoted := decodePayoutMethod(c, env)
	c.Assert(demoted.IsDefault, qt.IsFalse)

	// the demoted method can now be deleted
	status, _ = doRequest(t, http.MethodDelete, payoutMethodPath(bank.ID), token, nil)
	c.Assert(status, qt.Equals, http.StatusOK)

	// the last remaining method is deletable even while default
	status, _ = doRequest(t, http.MethodDelete, payoutMethodPath(pp.ID), token, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
}

func TestPayoutMethodOwnership(t *testing.T) {
	c := qt.New(t)
	ownerToken := registerAndLogin(t, "owner@test.com", testPass, "driver")
	otherToken := registerAndLogin(t, "other@test.com", testPass, "driver")

	status, env := doRequest(t, http.MethodPost, payoutMethodsEndpoint, ownerToken, mustMarshal(map[string]string{
		"type":        "paypal",
		"paypalEmail": "owner@paypal.test",
	}))
	c.Assert(status, qt.Equals, http.StatusCreated)
	method := decodePayoutMethod(c, env)

	// another user cannot read, delete or promote the method
	status, _ = doRequest(t, http.MethodGet, payoutMethodPath(method.ID), otherToken, nil)
	c.Assert(status, qt.Equals, http.StatusForbidden)

	status, _ = doRequest(t, http.MethodDelete, payoutMethodPath(method.ID), otherToken, nil)
	c.Assert(status, qt.Equals, http.StatusForbidden)

	status, _ = doRequest(t, http.MethodPost, payoutMethodPath(method.ID)+"/default", otherToken, nil)
	c.Assert(status, qt.Equals, http.StatusForbidden)

	// unknown methods are a 404
	status, _ = doRequest(t, http.MethodGet, payoutMethodPath("missing-id"), ownerToken, nil)
	c.Assert(status, qt.Equals, http.StatusNotFound)
}

func TestPayoutMethodValidation(t *testing.T) {
	c := qt.New(t)
	token := registerAndLogin(t, "validation@test.com", testPass, "driver")

	// unknown type
	status, _ := doRequest(t, http.MethodPost, payoutMethodsEndpoint, token, mustMarshal(map[string]string{
		"type": "cash",
	}))
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	// bank account without details
	status, _ = doRequest(t, http.MethodPost, payoutMethodsEndpoint, token, mustMarshal(map[string]string{
		"type": "bank_account",
	}))
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	// paypal without email
	status, _ = doRequest(t, http.MethodPost, payoutMethodsEndpoint, token, mustMarshal(map[string]string{
		"type": "paypal",
	}))
	c.Assert(status, qt.Equals, http.StatusBadRequest)
}

// payoutMethodPath builds the concrete path for a payout method ID.
func payoutMethodPath(id string) string {
	return "/api/stripe/payout-methods/" + id
}
