package paypal

import (
	"context"
	"fmt"
	"strings"

	"github.com/ridepay/payments-backend/internal"
)

// CreateOrderParams holds the parameters for creating an order
type CreateOrderParams struct {
	Intent      OrderIntent
	Amount      int64
	Currency    string
	Description string
	ReferenceID string
}

// CreateOrder creates a new order. The amount is given in the currency's
// smallest unit and converted to the decimal string PayPal expects.
// API description: https://developer.paypal.com/docs/api/orders/v2/
func (c *Client) CreateOrder(ctx context.Context, params *CreateOrderParams) (*Order, error) {
	if !internal.ValidAmount(params.Amount, params.Currency) {
		return nil, fmt.Errorf("invalid amount %d %s", params.Amount, params.Currency)
	}

	intent := params.Intent
	if intent == "" {
		intent = IntentCapture
	}

	body := map[string]any{
		"intent": intent,
		"purchase_units": []PurchaseUnit{{
			ReferenceID: params.ReferenceID,
			Description: params.Description,
			Amount: Money{
				CurrencyCode: strings.ToUpper(params.Currency),
				Value:        internal.FormatDecimal(params.Amount, params.Currency),
			},
		}},
	}

	var order Order
	if err := c.post(ctx, "/v2/checkout/orders", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder retrieves an order by ID
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var order Order
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&order).
		Get("/v2/checkout/orders/" + orderID)
	if err != nil {
		return nil, fmt.Errorf("paypal get order %s failed: %w", orderID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("paypal get order %s failed with status %d", orderID, resp.StatusCode())
	}
	return &order, nil
}

// CaptureOrder captures an approved order. For AUTHORIZE orders use
// AuthorizeOrder followed by CaptureAuthorization instead.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AuthorizeOrder places a hold on the payer's funds for an approved
// AUTHORIZE order.
func (c *Client) AuthorizeOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.post(ctx, "/v2/checkout/orders/"+orderID+"/authorize", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CaptureAuthorization captures a previously placed authorization. A nil
// amount captures the full authorized amount.
func (c *Client) CaptureAuthorization(ctx context.Context, authorizationID string, amount *Money) (*Capture, error) {
	var body map[string]any
	if amount != nil {
		body = map[string]any{"amount": amount}
	}

	var capture Capture
	if err := c.post(ctx, "/v2/payments/authorizations/"+authorizationID+"/capture", body, &capture); err != nil {
		return nil, err
	}
	return &capture, nil
}

// VoidAuthorization voids a previously placed authorization, releasing the
// hold on the payer's funds.
func (c *Client) VoidAuthorization(ctx context.Context, authorizationID string) error {
	return c.post(ctx, "/v2/payments/authorizations/"+authorizationID+"/void", nil, nil)
}
