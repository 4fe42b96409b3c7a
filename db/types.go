package db

import (
	"time"
)

// User represents a rider or driver account. Drivers additionally carry a
// Stripe Connect account ID once onboarding has started.
type User struct {
	ID              uint64   `json:"id" bson:"_id"`
	Email           string   `json:"email" bson:"email"`
	Password        string   `json:"password" bson:"password"`
	FirstName       string   `json:"firstName" bson:"firstName"`
	LastName        string   `json:"lastName" bson:"lastName"`
	Role            UserRole `json:"role" bson:"role"`
	StripeAccountID string   `json:"stripeAccountID" bson:"stripeAccountID"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type UserRole string

const (
	RiderRole  UserRole = "rider"
	DriverRole UserRole = "driver"
)

// validUserRoles is a map that contains the valid user roles
var validUserRoles = map[UserRole]bool{
	RiderRole:  true,
	DriverRole: true,
}

// ValidRole function checks if the given role is valid
func ValidRole(role UserRole) bool {
	return validUserRoles[role]
}

// Customer maps a local user to its Stripe customer object.
type Customer struct {
	UserID               uint64    `json:"userID" bson:"_id"`
	StripeCustomerID     string    `json:"stripeCustomerID" bson:"stripeCustomerID"`
	Email                string    `json:"email" bson:"email"`
	Name                 string    `json:"name" bson:"name"`
	DefaultPaymentMethod string    `json:"defaultPaymentMethod" bson:"defaultPaymentMethod"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
}

type PayoutType string

const (
	PayoutTypeBankAccount PayoutType = "bank_account"
	PayoutTypePayPal      PayoutType = "paypal"
)

// PayoutMethod is a driver's payout destination. At most one method per user
// has IsDefault set, enforced by a unique partial index on
// {userID, isDefault:true} plus a per-user lock around default changes.
type PayoutMethod struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      uint64     `json:"userID" bson:"userID"`
	Type        PayoutType `json:"type" bson:"type"`
	HolderName  string     `json:"holderName" bson:"holderName"`
	BankName    string     `json:"bankName,omitempty" bson:"bankName,omitempty"`
	Last4       string     `json:"last4,omitempty" bson:"last4,omitempty"`
	Country     string     `json:"country,omitempty" bson:"country,omitempty"`
	Currency    string     `json:"currency,omitempty" bson:"currency,omitempty"`
	PayPalEmail string     `json:"paypalEmail,omitempty" bson:"paypalEmail,omitempty"`
	IsDefault   bool       `json:"isDefault" bson:"isDefault"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type PaymentProvider string

const (
	ProviderStripe PaymentProvider = "stripe"
	ProviderPayPal PaymentProvider = "paypal"
)

type PaymentStatus string

const (
	PaymentStatusPending         PaymentStatus = "pending"
	PaymentStatusRequiresCapture PaymentStatus = "requires_capture"
	PaymentStatusSucceeded       PaymentStatus = "succeeded"
	PaymentStatusCanceled        PaymentStatus = "canceled"
	PaymentStatusRefunded        PaymentStatus = "refunded"
)

// Payment is the local mirror of a vendor payment object (Stripe
// PaymentIntent or PayPal order), keyed by the vendor ID. It backs the trip
// history endpoint and is kept current by the webhook handlers.
type Payment struct {
	ID             string          `json:"id" bson:"_id"`
	UserID         uint64          `json:"userID" bson:"userID"`
	Provider       PaymentProvider `json:"provider" bson:"provider"`
	Amount         int64           `json:"amount" bson:"amount"`
	CapturedAmount int64           `json:"capturedAmount" bson:"capturedAmount"`
	RefundedAmount int64           `json:"refundedAmount" bson:"refundedAmount"`
	Currency       string          `json:"currency" bson:"currency"`
	Status         PaymentStatus   `json:"status" bson:"status"`
	Description    string          `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt      time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt" bson:"updatedAt"`
}
