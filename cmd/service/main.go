package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ridepay/payments-backend/api"
	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/paypal"
	"github.com/ridepay/payments-backend/stripe"
)

func main() {
	// load a local .env if present, real env vars take precedence
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.StringP("secret", "s", "", "API secret")
	flag.String("mongo-url", "", "The URL of the MongoDB server")
	flag.String("mongo-db", "ridepay", "The name of the MongoDB database")
	flag.String("log-level", "debug", "log level (debug, info, warn, error)")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("RIDEPAY")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatal().Msg("secret is required")
	}
	mongoURL := viper.GetString("mongo-url")
	mongoDB := viper.GetString("mongo-db")
	if level, err := zerolog.ParseLevel(viper.GetString("log-level")); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	// initialize the MongoDB database
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create the MongoDB database")
	}
	defer database.Close()
	// initialize the Stripe service
	stripeConfig, err := stripe.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid stripe configuration")
	}
	stripeService, err := stripe.NewService(stripeConfig, database)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create the stripe service")
	}
	// initialize the PayPal service
	paypalConfig, err := paypal.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid paypal configuration")
	}
	paypalService, err := paypal.NewService(paypalConfig, database)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create the paypal service")
	}
	// create the local API server
	api.New(&api.Config{
		Host:   host,
		Port:   port,
		Secret: secret,
		DB:     database,
		Stripe: stripeService,
		PayPal: paypalService,
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.Info().Str("host", host).Int("port", port).Msg("server started")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
