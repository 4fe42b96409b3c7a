package apicommon

import (
	"time"

	"github.com/ridepay/payments-backend/db"
)

// UserInfo represents user registration and login information
type UserInfo struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=rider driver"`
}

// LoginResponse is returned by the login and refresh endpoints
type LoginResponse struct {
	Token    string    `json:"token"`
	Expirity time.Time `json:"expirity"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID              uint64      `json:"id"`
	Email           string      `json:"email"`
	FirstName       string      `json:"firstName,omitempty"`
	LastName        string      `json:"lastName,omitempty"`
	Role            db.UserRole `json:"role"`
	StripeAccountID string      `json:"stripeAccountId,omitempty"`
}

// PaymentIntentRequest creates a trip payment authorization
type PaymentIntentRequest struct {
	Amount         int64  `json:"amount" validate:"required,gt=0"`
	Currency       string `json:"currency" validate:"required,currency"`
	Description    string `json:"description,omitempty"`
	TripID         string `json:"tripId,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// PaymentIntentResponse is the client view of a payment intent
type PaymentIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret,omitempty"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// CaptureRequest captures an authorized payment. A zero amount captures the
// full authorized amount.
type CaptureRequest struct {
	Amount int64 `json:"amount,omitempty" validate:"gte=0"`
}

// RefundRequest refunds a captured payment
type RefundRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	Amount          int64  `json:"amount,omitempty" validate:"gte=0"`
	Reason          string `json:"reason,omitempty" validate:"omitempty,oneof=duplicate fraudulent requested_by_customer"`
}

// RefundResponse is the client view of a refund
type RefundResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CustomerRequest creates or updates the Stripe customer of a user
type CustomerRequest struct {
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Name  string `json:"name,omitempty"`
}

// CustomerResponse is the client view of a customer
type CustomerResponse struct {
	UserID           uint64 `json:"userId"`
	StripeCustomerID string `json:"stripeCustomerId"`
	Email            string `json:"email"`
	Name             string `json:"name,omitempty"`
}

// SetupIntentResponse is returned when a client starts saving a payment method
type SetupIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// PayoutMethodRequest registers a bank account or PayPal payout destination
type PayoutMethodRequest struct {
	Type        string `json:"type" validate:"required,oneof=bank_account paypal"`
	HolderName  string `json:"holderName,omitempty"`
	BankName    string `json:"bankName,omitempty"`
	Last4       string `json:"last4,omitempty" validate:"omitempty,len=4,numeric"`
	Country     string `json:"country,omitempty" validate:"omitempty,len=2"`
	Currency    string `json:"currency,omitempty" validate:"omitempty,currency"`
	PayPalEmail string `json:"paypalEmail,omitempty" validate:"omitempty,email"`
}

// PayoutMethodsResponse lists a user's payout methods, default first
type PayoutMethodsResponse struct {
	Methods []db.PayoutMethod `json:"methods"`
}

// OnboardingLinkResponse carries a one-time Connect onboarding URL
type OnboardingLinkResponse struct {
	URL       string `json:"url"`
	AccountID string `json:"accountId"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

// PayPalOrderRequest creates a PayPal order for a trip fare
type PayPalOrderRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Currency    string `json:"currency" validate:"required,currency"`
	Intent      string `json:"intent,omitempty" validate:"omitempty,oneof=AUTHORIZE CAPTURE"`
	Description string `json:"description,omitempty"`
	TripID      string `json:"tripId,omitempty"`
}

// PayPalCaptureRequest captures a PayPal authorization for an order
type PayPalCaptureRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Amount  int64  `json:"amount,omitempty" validate:"gte=0"`
}

// PaymentsResponse lists a user's payment history, newest first
type PaymentsResponse struct {
	Payments []db.Payment `json:"payments"`
}
