package api

import (
	"encoding/json"
	"net/http"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestRegisterAndLogin(t *testing.T) {
	c := qt.New(t)

	// register
	status, env := doRequest(t, http.MethodPost, usersEndpoint, "", mustMarshal(map[string]string{
		"email":     testEmail,
		"password":  testPass,
		"firstName": testFirstName,
		"lastName":  testLastName,
	}))
	c.Assert(status, qt.Equals, http.StatusCreated)
	c.Assert(env.Success, qt.IsTrue)

	// duplicate registration is a conflict
	status, env = doRequest(t, http.MethodPost, usersEndpoint, "", mustMarshal(map[string]string{
		"email":    testEmail,
		"password": testPass,
	}))
	c.Assert(status, qt.Equals, http.StatusConflict)
	c.Assert(env.Success, qt.IsFalse)

	// login with wrong password
	status, _ = doRequest(t, http.MethodPost, authLoginEndpoint, "", mustMarshal(map[string]string{
		"email":    testEmail,
		"password": "wrong-password",
	}))
	c.Assert(status, qt.Equals, http.StatusUnauthorized)

	// login with correct password
	status, env = doRequest(t, http.MethodPost, authLoginEndpoint, "", mustMarshal(map[string]string{
		"email":    testEmail,
		"password": testPass,
	}))
	c.Assert(status, qt.Equals, http.StatusOK)
	var login struct {
		Token string `json:"token"`
	}
	c.Assert(json.Unmarshal(env.Data, &login), qt.IsNil)
	c.Assert(login.Token, qt.Not(qt.Equals), "")

	// authenticated user info
	status, env = doRequest(t, http.MethodGet, usersMeEndpoint, login.Token, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	var user struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	c.Assert(json.Unmarshal(env.Data, &user), qt.IsNil)
	c.Assert(user.Email, qt.Equals, testEmail)
	c.Assert(user.Role, qt.Equals, "rider")

	// refresh the token
	status, env = doRequest(t, http.MethodPost, authRefreshTokenEndpoint, login.Token, nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(json.Unmarshal(env.Data, &login), qt.IsNil)
	c.Assert(login.Token, qt.Not(qt.Equals), "")
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	c := qt.New(t)

	// short password
	status, _ := doRequest(t, http.MethodPost, usersEndpoint, "", mustMarshal(map[string]string{
		"email":    "short@test.com",
		"password": "short",
	}))
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	// malformed email
	status, _ = doRequest(t, http.MethodPost, usersEndpoint, "", mustMarshal(map[string]string{
		"email":    "not-an-email",
		"password": testPass,
	}))
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	// invalid role
	status, _ = doRequest(t, http.MethodPost, usersEndpoint, "", mustMarshal(map[string]string{
		"email":    "role@test.com",
		"password": testPass,
		"role":     "admin",
	}))
	c.Assert(status, qt.Equals, http.StatusBadRequest)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c := qt.New(t)

	status, _ := doRequest(t, http.MethodGet, usersMeEndpoint, "", nil)
	c.Assert(status, qt.Equals, http.StatusUnauthorized)

	status, _ = doRequest(t, http.MethodGet, payoutMethodsEndpoint, "", nil)
	c.Assert(status, qt.Equals, http.StatusUnauthorized)

	status, _ = doRequest(t, http.MethodGet, paymentsEndpoint, "", nil)
	c.Assert(status, qt.Equals, http.StatusUnauthorized)
}
