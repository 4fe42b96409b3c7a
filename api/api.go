// Package api provides the HTTP API for the payments backend: trip payment
// authorization and capture via Stripe, PayPal orders, payout method
// management, and driver Connect onboarding.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog/log"

	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/paypal"
	"github.com/ridepay/payments-backend/stripe"
	"github.com/ridepay/payments-backend/validator"
)

const jwtExpiration = 360 * time.Hour // 15 days

type Config struct {
	Host   string
	Port   int
	Secret string
	DB     *db.MongoStorage
	Stripe *stripe.Service
	PayPal *paypal.Service
}

// API type represents the API HTTP server with JWT authentication capabilities.
type API struct {
	db        *db.MongoStorage
	auth      *jwtauth.JWTAuth
	host      string
	port      int
	router    *chi.Mux
	stripe    *stripe.Service
	paypal    *paypal.Service
	validator *validator.Validator
	secret    string
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}

	return &API{
		db:        conf.DB,
		auth:      jwtauth.New("HS256", []byte(conf.Secret), nil),
		host:      conf.Host,
		port:      conf.Port,
		stripe:    conf.Stripe,
		paypal:    conf.PayPal,
		validator: validator.New(),
		secret:    conf.Secret,
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatal().Err(err).Msg("failed to start the API server")
		}
	}()
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.Timeout(45 * time.Second))

	// protected routes
	r.Group(func(r chi.Router) {
		// seek, verify and validate JWT tokens
		r.Use(jwtauth.Verifier(a.auth))
		// handle valid JWT tokens
		r.Use(a.authenticator)
		// refresh the token
		log.Info().Str("method", "POST").Str("path", authRefreshTokenEndpoint).Msg("new route")
		r.Post(authRefreshTokenEndpoint, a.refreshTokenHandler)
		// get the authenticated user information
		log.Info().Str("method", "GET").Str("path", usersMeEndpoint).Msg("new route")
		r.Get(usersMeEndpoint, a.userInfoHandler)
		// authorize a trip fare
		log.Info().Str("method", "POST").Str("path", paymentIntentsEndpoint).Msg("new route")
		r.Post(paymentIntentsEndpoint, a.createPaymentIntentHandler)
		// capture an authorized fare
		log.Info().Str("method", "POST").Str("path", paymentIntentCaptureEndpoint).Msg("new route")
		r.Post(paymentIntentCaptureEndpoint, a.capturePaymentIntentHandler)
		// cancel an authorized fare
		log.Info().Str("method", "POST").Str("path", paymentIntentCancelEndpoint).Msg("new route")
		r.Post(paymentIntentCancelEndpoint, a.cancelPaymentIntentHandler)
		// refund a captured fare
		log.Info().Str("method", "POST").Str("path", refundsEndpoint).Msg("new route")
		r.Post(refundsEndpoint, a.createRefundHandler)
		// create the customer for the authenticated user
		log.Info().Str("method", "POST").Str("path", customersEndpoint).Msg("new route")
		r.Post(customersEndpoint, a.createCustomerHandler)
		// get the customer for the authenticated user
		log.Info().Str("method", "GET").Str("path", customersEndpoint).Msg("new route")
		r.Get(customersEndpoint, a.getOwnCustomerHandler)
		// get a customer by user ID
		log.Info().Str("method", "GET").Str("path", customerEndpoint).Msg("new route")
		r.Get(customerEndpoint, a.getCustomerHandler)
		// update a customer
		log.Info().Str("method", "PUT").Str("path", customerEndpoint).Msg("new route")
		r.Put(customerEndpoint, a.updateCustomerHandler)
		// delete a customer
		log.Info().Str("method", "DELETE").Str("path", customerEndpoint).Msg("new route")
		r.Delete(customerEndpoint, a.deleteCustomerHandler)
		// start saving a payment method
		log.Info().Str("method", "POST").Str("path", setupIntentsEndpoint).Msg("new route")
		r.Post(setupIntentsEndpoint, a.createSetupIntentHandler)
		// register a payout method
		log.Info().Str("method", "POST").Str("path", payoutMethodsEndpoint).Msg("new route")
		r.Post(payoutMethodsEndpoint, a.createPayoutMethodHandler)
		// list payout methods
		log.Info().Str("method", "GET").Str("path", payoutMethodsEndpoint).Msg("new route")
		r.Get(payoutMethodsEndpoint, a.listPayoutMethodsHandler)
		// get a payout method
		log.Info().Str("method", "GET").Str("path", payoutMethodEndpoint).Msg("new route")
		r.Get(payoutMethodEndpoint, a.getPayoutMethodHandler)
		// delete a payout method
		log.Info().Str("method", "DELETE").Str("path", payoutMethodEndpoint).Msg("new route")
		r.Delete(payoutMethodEndpoint, a.deletePayoutMethodHandler)
		// promote a payout method to default
		log.Info().Str("method", "POST").Str("path", payoutMethodDefaultEndpoint).Msg("new route")
		r.Post(payoutMethodDefaultEndpoint, a.setDefaultPayoutMethodHandler)
		// driver connect onboarding link
		log.Info().Str("method", "POST").Str("path", connectOnboardingEndpoint).Msg("new route")
		r.Post(connectOnboardingEndpoint, a.connectOnboardingLinkHandler)
		// driver connect account status
		log.Info().Str("method", "GET").Str("path", connectAccountStatusEndpoint).Msg("new route")
		r.Get(connectAccountStatusEndpoint, a.connectAccountStatusHandler)
		// create a paypal order
		log.Info().Str("method", "POST").Str("path", paypalOrdersEndpoint).Msg("new route")
		r.Post(paypalOrdersEndpoint, a.createPayPalOrderHandler)
		// capture a paypal order
		log.Info().Str("method", "POST").Str("path", paypalOrderCaptureEndpoint).Msg("new route")
		r.Post(paypalOrderCaptureEndpoint, a.capturePayPalOrderHandler)
		// capture a paypal authorization
		log.Info().Str("method", "POST").Str("path", paypalAuthCaptureEndpoint).Msg("new route")
		r.Post(paypalAuthCaptureEndpoint, a.capturePayPalAuthorizationHandler)
		// void a paypal authorization
		log.Info().Str("method", "POST").Str("path", paypalAuthVoidEndpoint).Msg("new route")
		r.Post(paypalAuthVoidEndpoint, a.voidPayPalAuthorizationHandler)
		// payment history
		log.Info().Str("method", "GET").Str("path", paymentsEndpoint).Msg("new route")
		r.Get(paymentsEndpoint, a.paymentsHandler)
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get(pingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warn().Err(err).Msg("failed to write ping response")
			}
		})
		// login
		log.Info().Str("method", "POST").Str("path", authLoginEndpoint).Msg("new route")
		r.Post(authLoginEndpoint, a.authLoginHandler)
		// register user
		log.Info().Str("method", "POST").Str("path", usersEndpoint).Msg("new route")
		r.Post(usersEndpoint, a.registerHandler)
		// stripe webhook, verified by signature rather than JWT
		log.Info().Str("method", "POST").Str("path", stripeWebhookEndpoint).Msg("new route")
		r.Post(stripeWebhookEndpoint, a.stripeWebhookHandler)
	})
	a.router = r
	return r
}
