// Package db provides the MongoDB storage layer for users, Stripe customer
// mappings, driver payout methods and the local payment history mirror.
package db

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// MongoStorage uses an external MongoDB service for storing users, customer
// mappings, payout methods and the payments mirror.
type MongoStorage struct {
	client   *mongo.Client
	database string
	keysLock sync.RWMutex

	users         *mongo.Collection
	customers     *mongo.Collection
	payoutMethods *mongo.Collection
	payments      *mongo.Collection
}

func New(url, database string) (*MongoStorage, error) {
	ms := &MongoStorage{}
	if url == "" {
		return nil, fmt.Errorf("mongo URL is not defined")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is not defined")
	}
	log.Info().Str("url", url).Str("database", database).Msg("connecting to mongodb")
	// preparing connection
	opts := options.Client()
	opts.ApplyURI(url)
	opts.SetMaxConnecting(200)
	timeout := defaultTimeout
	opts.ConnectTimeout = &timeout
	// create a new client with the connection options
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// check if the connection is successful
	ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// init the collections
	ms.client = client
	ms.database = database
	ms.users = client.Database(database).Collection("users")
	ms.customers = client.Database(database).Collection("customers")
	ms.payoutMethods = client.Database(database).Collection("payoutMethods")
	ms.payments = client.Database(database).Collection("payments")
	// if the reset flag is enabled, Reset drops the collections and recreates
	// the indexes, else just create the indexes
	if reset := os.Getenv("RIDEPAY_MONGO_RESET_DB"); reset != "" {
		if err := ms.Reset(); err != nil {
			return nil, err
		}
	} else {
		if err := ms.createIndexes(); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

func (ms *MongoStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := ms.client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to disconnect from mongodb")
	}
}

// Reset drops all the collection documents and recreates the indexes.
func (ms *MongoStorage) Reset() error {
	log.Info().Msg("resetting database")
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	for _, col := range []*mongo.Collection{ms.users, ms.customers, ms.payoutMethods, ms.payments} {
		if err := col.Drop(ctx); err != nil {
			return err
		}
	}
	return ms.createIndexes()
}

// createIndexes creates the indexes for all the collections. The partial
// unique index on {userID, isDefault:true} is what guarantees the
// at-most-one-default invariant for payout methods even if two requests race.
func (ms *MongoStorage) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// unique index on user email
	if _, err := ms.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create index on users email: %w", err)
	}

	// unique index on the stripe customer ID mapping
	if _, err := ms.customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "stripeCustomerID", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create index on customers: %w", err)
	}

	// index for listing a user's payout methods
	if _, err := ms.payoutMethods.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userID", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create index on payoutMethods: %w", err)
	}

	// at most one default payout method per user
	if _, err := ms.payoutMethods.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userID", Value: 1}, {Key: "isDefault", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isDefault": true}),
	}); err != nil {
		return fmt.Errorf("failed to create default payout method index: %w", err)
	}

	// index for the payment history of a user, newest first
	if _, err := ms.payments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userID", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create index on payments: %w", err)
	}
	return nil
}
