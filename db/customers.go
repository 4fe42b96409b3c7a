package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetCustomer method creates or updates the Stripe customer mapping for a
// user. The mapping is keyed by the local user ID.
func (ms *MongoStorage) SetCustomer(customer *Customer) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if customer.UserID == 0 || customer.StripeCustomerID == "" {
		return ErrInvalidData
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	updateDoc, err := dynamicUpdateDocument(customer, nil)
	if err != nil {
		return err
	}
	opts := options.Update().SetUpsert(true)
	if _, err := ms.customers.UpdateOne(ctx, bson.M{"_id": customer.UserID}, updateDoc, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Customer method returns the Stripe customer mapping for the given user. If
// the mapping doesn't exist, it returns a specific error.
func (ms *MongoStorage) Customer(userID uint64) (*Customer, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	customer := &Customer{}
	if err := ms.customers.FindOne(ctx, bson.M{"_id": userID}).Decode(customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

// CustomerByStripeID method returns the customer mapping with the given Stripe
// customer ID. Used by the webhook handlers to resolve the local user.
func (ms *MongoStorage) CustomerByStripeID(stripeCustomerID string) (*Customer, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	customer := &Customer{}
	if err := ms.customers.FindOne(ctx, bson.M{"stripeCustomerID": stripeCustomerID}).Decode(customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

// DelCustomer method deletes the customer mapping for the given user.
func (ms *MongoStorage) DelCustomer(userID uint64) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	res, err := ms.customers.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
