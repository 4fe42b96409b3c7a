package paypal

// OrderIntent selects how an order is settled
type OrderIntent string

const (
	// IntentCapture settles the order immediately on approval
	IntentCapture OrderIntent = "CAPTURE"
	// IntentAuthorize places a hold that must be captured separately,
	// matching the trip-start/trip-end flow used for card payments
	IntentAuthorize OrderIntent = "AUTHORIZE"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Money is a PayPal amount: a decimal string plus a currency code
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// PurchaseUnit describes one item of an order
type PurchaseUnit struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Description string `json:"description,omitempty"`
	Amount      Money  `json:"amount"`
	Payments    *struct {
		Authorizations []Authorization `json:"authorizations,omitempty"`
		Captures       []Capture       `json:"captures,omitempty"`
	} `json:"payments,omitempty"`
}

// Link is a HATEOAS link returned by the PayPal API
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Order is a PayPal order resource
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Intent        OrderIntent    `json:"intent,omitempty"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`
	Links         []Link         `json:"links,omitempty"`
}

// Authorization is a hold placed on the payer's funds
type Authorization struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Amount         Money  `json:"amount"`
	ExpirationTime string `json:"expiration_time,omitempty"`
}

// Capture is a settled payment
type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Money  `json:"amount"`
}

type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Details []struct {
		Issue       string `json:"issue"`
		Description string `json:"description"`
	} `json:"details"`
}
