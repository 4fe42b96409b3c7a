package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func newTestServer(t *testing.T, tokenCalls *atomic.Int64, expiresIn int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "test-client" || pass != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken: "token-1",
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Order{ID: "ORDER-1", Status: "CREATED"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testClient(serverURL string) *Client {
	return NewClient(&Config{
		ClientID: "test-client",
		Secret:   "test-secret",
		BaseURL:  serverURL,
	})
}

func TestTokenIsCachedAcrossRequests(t *testing.T) {
	c := qt.New(t)

	var tokenCalls atomic.Int64
	server := newTestServer(t, &tokenCalls, 3600)
	client := testClient(server.URL)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		order, err := client.CreateOrder(ctx, &CreateOrderParams{
			Intent:   IntentAuthorize,
			Amount:   1550,
			Currency: "usd",
		})
		c.Assert(err, qt.IsNil)
		c.Assert(order.ID, qt.Equals, "ORDER-1")
	}

	c.Assert(tokenCalls.Load(), qt.Equals, int64(1))
}

func TestTokenRefreshedWithinExpiryMargin(t *testing.T) {
	c := qt.New(t)

	var tokenCalls atomic.Int64
	// Expiry below the safety margin, so every request refreshes
	server := newTestServer(t, &tokenCalls, 30)
	client := testClient(server.URL)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := client.CreateOrder(ctx, &CreateOrderParams{
			Amount:   500,
			Currency: "eur",
		})
		c.Assert(err, qt.IsNil)
	}

	c.Assert(tokenCalls.Load(), qt.Equals, int64(2))
}

func TestTokenConcurrentRequestsSingleFetch(t *testing.T) {
	c := qt.New(t)

	var tokenCalls atomic.Int64
	server := newTestServer(t, &tokenCalls, 3600)
	client := testClient(server.URL)

	ctx := context.Background()
	done := make(chan error, 5)
	for i := 0; i < 5; i++ {
		go func() {
			_, err := client.token(ctx)
			done <- err
		}()
	}
	for i := 0; i < 5; i++ {
		select {
		case err := <-done:
			c.Assert(err, qt.IsNil)
		case <-time.After(5 * time.Second):
			c.Fatal("timed out waiting for token fetch")
		}
	}

	c.Assert(tokenCalls.Load(), qt.Equals, int64(1))
}

func TestCreateOrderRejectsInvalidAmount(t *testing.T) {
	c := qt.New(t)

	var tokenCalls atomic.Int64
	server := newTestServer(t, &tokenCalls, 3600)
	client := testClient(server.URL)

	_, err := client.CreateOrder(context.Background(), &CreateOrderParams{
		Amount:   -100,
		Currency: "usd",
	})
	c.Assert(err, qt.IsNotNil)

	_, err = client.CreateOrder(context.Background(), &CreateOrderParams{
		Amount:   100,
		Currency: "nope",
	})
	c.Assert(err, qt.IsNotNil)
}
