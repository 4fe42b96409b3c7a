package stripe

import (
	"net/http"
	"time"

	stripeapi "github.com/stripe/stripe-go/v82"
	stripeaccount "github.com/stripe/stripe-go/v82/account"
	stripeaccountlink "github.com/stripe/stripe-go/v82/accountlink"
	stripecustomer "github.com/stripe/stripe-go/v82/customer"
	stripepaymentintent "github.com/stripe/stripe-go/v82/paymentintent"
	striperefund "github.com/stripe/stripe-go/v82/refund"
	stripesetupintent "github.com/stripe/stripe-go/v82/setupintent"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
)

// Client wraps the Stripe API client with additional functionality
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Stripe client with the given configuration
func NewClient(config *Config) *Client {
	stripeapi.Key = config.APIKey

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ValidateWebhookEvent validates and parses a webhook event
func (c *Client) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	// Events are signed with the account's API version, which may differ
	// from the one pinned by the library.
	event, err := stripewebhook.ConstructEventWithOptions(payload, signatureHeader, c.config.WebhookSecret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, NewStripeError("webhook_validation", "webhook signature validation failed", err)
	}
	return &event, nil
}

// PaymentIntentParams holds parameters for creating a trip payment intent
type PaymentIntentParams struct {
	Amount         int64
	Currency       string
	CustomerID     string
	Description    string
	Metadata       map[string]string
	IdempotencyKey string
	// ManualCapture authorizes the amount at trip start and captures the
	// final fare at trip end.
	ManualCapture bool
}

// CreatePaymentIntent creates a new payment intent. Trip payments are created
// with manual capture so the fare is only captured once the trip completes.
// API description: https://docs.stripe.com/api/payment_intents
func (*Client) CreatePaymentIntent(params *PaymentIntentParams) (*stripeapi.PaymentIntent, error) {
	intentParams := &stripeapi.PaymentIntentParams{
		Amount:   stripeapi.Int64(params.Amount),
		Currency: stripeapi.String(params.Currency),
		AutomaticPaymentMethods: &stripeapi.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripeapi.Bool(true),
		},
		Metadata: params.Metadata,
	}
	if params.CustomerID != "" {
		intentParams.Customer = stripeapi.String(params.CustomerID)
	}
	if params.Description != "" {
		intentParams.Description = stripeapi.String(params.Description)
	}
	if params.ManualCapture {
		intentParams.CaptureMethod = stripeapi.String(string(stripeapi.PaymentIntentCaptureMethodManual))
	}
	if params.IdempotencyKey != "" {
		intentParams.SetIdempotencyKey(params.IdempotencyKey)
	}

	intent, err := stripepaymentintent.New(intentParams)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create payment intent", err)
	}
	return intent, nil
}

// GetPaymentIntent retrieves a payment intent by ID
func (*Client) GetPaymentIntent(intentID string) (*stripeapi.PaymentIntent, error) {
	intent, err := stripepaymentintent.Get(intentID, nil)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to get payment intent", err)
	}
	return intent, nil
}

// CapturePaymentIntent captures an authorized payment intent. A zero amount
// captures the full authorized amount.
func (*Client) CapturePaymentIntent(intentID string, amount int64) (*stripeapi.PaymentIntent, error) {
	params := &stripeapi.PaymentIntentCaptureParams{}
	if amount > 0 {
		params.AmountToCapture = stripeapi.Int64(amount)
	}
	intent, err := stripepaymentintent.Capture(intentID, params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to capture payment intent", err)
	}
	return intent, nil
}

// CancelPaymentIntent cancels a payment intent, releasing the authorization
func (*Client) CancelPaymentIntent(intentID string) (*stripeapi.PaymentIntent, error) {
	intent, err := stripepaymentintent.Cancel(intentID, nil)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to cancel payment intent", err)
	}
	return intent, nil
}

// CreateRefund refunds a captured payment intent, fully or partially
func (*Client) CreateRefund(intentID string, amount int64, reason string) (*stripeapi.Refund, error) {
	params := &stripeapi.RefundParams{
		PaymentIntent: stripeapi.String(intentID),
	}
	if amount > 0 {
		params.Amount = stripeapi.Int64(amount)
	}
	if reason != "" {
		params.Reason = stripeapi.String(reason)
	}
	ref, err := striperefund.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create refund", err)
	}
	return ref, nil
}

// CreateCustomer creates a new Stripe customer
func (*Client) CreateCustomer(email, name string, metadata map[string]string) (*stripeapi.Customer, error) {
	params := &stripeapi.CustomerParams{
		Email:    stripeapi.String(email),
		Metadata: metadata,
	}
	if name != "" {
		params.Name = stripeapi.String(name)
	}
	customer, err := stripecustomer.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create customer", err)
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (*Client) GetCustomer(customerID string) (*stripeapi.Customer, error) {
	customer, err := stripecustomer.Get(customerID, nil)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to get customer", err)
	}
	return customer, nil
}

// UpdateCustomer updates a customer's email, name and metadata
func (*Client) UpdateCustomer(customerID, email, name string, metadata map[string]string) (*stripeapi.Customer, error) {
	params := &stripeapi.CustomerParams{Metadata: metadata}
	if email != "" {
		params.Email = stripeapi.String(email)
	}
	if name != "" {
		params.Name = stripeapi.String(name)
	}
	customer, err := stripecustomer.Update(customerID, params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to update customer", err)
	}
	return customer, nil
}

// DeleteCustomer deletes a customer
func (*Client) DeleteCustomer(customerID string) error {
	if _, err := stripecustomer.Del(customerID, nil); err != nil {
		return NewStripeError("api_call_failed", "failed to delete customer", err)
	}
	return nil
}

// CreateSetupIntent creates a setup intent to collect a reusable payment
// method for off-session trip charges.
func (*Client) CreateSetupIntent(customerID string) (*stripeapi.SetupIntent, error) {
	params := &stripeapi.SetupIntentParams{
		Customer: stripeapi.String(customerID),
		AutomaticPaymentMethods: &stripeapi.SetupIntentAutomaticPaymentMethodsParams{
			Enabled: stripeapi.Bool(true),
		},
		Usage: stripeapi.String(string(stripeapi.SetupIntentUsageOffSession)),
	}
	intent, err := stripesetupintent.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create setup intent", err)
	}
	return intent, nil
}

// CreateConnectAccount creates an Express Connect account for a driver.
// Overview of Connect onboarding: https://docs.stripe.com/connect/express-accounts
func (*Client) CreateConnectAccount(email string) (*stripeapi.Account, error) {
	params := &stripeapi.AccountParams{
		Type:  stripeapi.String(string(stripeapi.AccountTypeExpress)),
		Email: stripeapi.String(email),
		Capabilities: &stripeapi.AccountCapabilitiesParams{
			Transfers: &stripeapi.AccountCapabilitiesTransfersParams{
				Requested: stripeapi.Bool(true),
			},
		},
	}
	acct, err := stripeaccount.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create connect account", err)
	}
	return acct, nil
}

// CreateAccountLink creates a one-time onboarding link for a Connect account
func (c *Client) CreateAccountLink(accountID string) (*stripeapi.AccountLink, error) {
	params := &stripeapi.AccountLinkParams{
		Account:    stripeapi.String(accountID),
		RefreshURL: stripeapi.String(c.config.ConnectRefreshURL),
		ReturnURL:  stripeapi.String(c.config.ConnectReturnURL),
		Type:       stripeapi.String("account_onboarding"),
	}
	link, err := stripeaccountlink.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create account link", err)
	}
	return link, nil
}

// GetAccount retrieves a Connect account by ID
func (*Client) GetAccount(accountID string) (*stripeapi.Account, error) {
	acct, err := stripeaccount.GetByID(accountID, nil)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to get connect account", err)
	}
	return acct, nil
}
