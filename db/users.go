package db

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nextUserID internal method returns the next available user ID. If an error
// occurs, it returns the error. This method must be called with the keysLock
// held.
func (ms *MongoStorage) nextUserID(ctx context.Context) (uint64, error) {
	var user User
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	if err := ms.users.FindOne(ctx, bson.M{}, opts).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, err
	}
	return user.ID + 1, nil
}

// SetUser method creates or updates the user in the database. If the user
// already exists, it updates the fields that have changed. If the user doesn't
// exist, it creates it. It returns the user ID.
func (ms *MongoStorage) SetUser(user *User) (uint64, error) {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	user.Email = strings.ToLower(user.Email)
	if user.ID > 0 {
		updateDoc, err := dynamicUpdateDocument(user, nil)
		if err != nil {
			return 0, err
		}
		if _, err := ms.users.UpdateOne(ctx, bson.M{"_id": user.ID}, updateDoc); err != nil {
			return 0, err
		}
		return user.ID, nil
	}
	nextID, err := ms.nextUserID(ctx)
	if err != nil {
		return 0, err
	}
	user.ID = nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if _, err := ms.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return user.ID, nil
}

// User method returns the user with the given ID. If the user doesn't exist,
// it returns a specific error.
func (ms *MongoStorage) User(id uint64) (*User, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	user := &User{}
	if err := ms.users.FindOne(ctx, bson.M{"_id": id}).Decode(user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UserByEmail method returns the user with the given email. If the user
// doesn't exist, it returns a specific error.
func (ms *MongoStorage) UserByEmail(email string) (*User, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	user := &User{}
	if err := ms.users.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UserByStripeAccount method returns the user that owns the given Stripe
// Connect account. Used by the webhook account.updated handler.
func (ms *MongoStorage) UserByStripeAccount(accountID string) (*User, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	user := &User{}
	if err := ms.users.FindOne(ctx, bson.M{"stripeAccountID": accountID}).Decode(user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// DelUser method deletes the user with the given ID.
func (ms *MongoStorage) DelUser(user *User) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	_, err := ms.users.DeleteOne(ctx, bson.M{"_id": user.ID})
	return err
}
