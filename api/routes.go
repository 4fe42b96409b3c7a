package api

const (
	// GET /ping for health checks
	pingEndpoint = "/ping"
	// POST /auth/login to get a JWT token
	authLoginEndpoint = "/auth/login"
	// POST /auth/refresh to refresh the JWT token
	authRefreshTokenEndpoint = "/auth/refresh"
	// POST /users to register a new user
	usersEndpoint = "/users"
	// GET /users/me to get the authenticated user information
	usersMeEndpoint = "/users/me"

	// POST /api/stripe/payment-intents to authorize a trip fare
	paymentIntentsEndpoint = "/api/stripe/payment-intents"
	// POST /api/stripe/payment-intents/{paymentIntentID}/capture to capture a fare
	paymentIntentCaptureEndpoint = "/api/stripe/payment-intents/{paymentIntentID}/capture"
	// POST /api/stripe/payment-intents/{paymentIntentID}/cancel to release a hold
	paymentIntentCancelEndpoint = "/api/stripe/payment-intents/{paymentIntentID}/cancel"
	// POST /api/stripe/refunds to refund a captured fare
	refundsEndpoint = "/api/stripe/refunds"

	// POST/GET /api/stripe/customers for the authenticated user's customer
	customersEndpoint = "/api/stripe/customers"
	// GET/PUT/DELETE /api/stripe/customers/{userID}
	customerEndpoint = "/api/stripe/customers/{userID}"
	// POST /api/stripe/setup-intents to start saving a payment method
	setupIntentsEndpoint = "/api/stripe/setup-intents"

	// POST/GET /api/stripe/payout-methods
	payoutMethodsEndpoint = "/api/stripe/payout-methods"
	// GET/DELETE /api/stripe/payout-methods/{payoutMethodID}
	payoutMethodEndpoint = "/api/stripe/payout-methods/{payoutMethodID}"
	// POST /api/stripe/payout-methods/{payoutMethodID}/default
	payoutMethodDefaultEndpoint = "/api/stripe/payout-methods/{payoutMethodID}/default"

	// POST /api/stripe/connect/onboarding-link for driver onboarding
	connectOnboardingEndpoint = "/api/stripe/connect/onboarding-link"
	// GET /api/stripe/connect/account-status for driver onboarding status
	connectAccountStatusEndpoint = "/api/stripe/connect/account-status"

	// POST /api/stripe/webhooks receives Stripe events
	stripeWebhookEndpoint = "/api/stripe/webhooks"

	// POST /api/paypal/orders to create a PayPal order
	paypalOrdersEndpoint = "/api/paypal/orders"
	// POST /api/paypal/orders/{orderID}/capture
	paypalOrderCaptureEndpoint = "/api/paypal/orders/{orderID}/capture"
	// POST /api/paypal/authorizations/{authorizationID}/capture
	paypalAuthCaptureEndpoint = "/api/paypal/authorizations/{authorizationID}/capture"
	// POST /api/paypal/authorizations/{authorizationID}/void
	paypalAuthVoidEndpoint = "/api/paypal/authorizations/{authorizationID}/void"

	// GET /api/payments for the authenticated user's payment history
	paymentsEndpoint = "/api/payments"
)
