package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetPayoutMethod method creates or updates a payout method. New methods get
// a generated UUID. The first method of a user is promoted to default
// automatically.
func (ms *MongoStorage) SetPayoutMethod(method *PayoutMethod) (string, error) {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if method.UserID == 0 || method.Type == "" {
		return "", ErrInvalidData
	}
	now := time.Now()
	method.UpdatedAt = now
	if method.ID != "" {
		updateDoc, err := dynamicUpdateDocument(method, []string{"updatedAt"})
		if err != nil {
			return "", err
		}
		res, err := ms.payoutMethods.UpdateOne(ctx, bson.M{"_id": method.ID}, updateDoc)
		if err != nil {
			return "", err
		}
		if res.MatchedCount == 0 {
			return "", ErrNotFound
		}
		return method.ID, nil
	}
	// a user's first payout method becomes the default one
	count, err := ms.payoutMethods.CountDocuments(ctx, bson.M{"userID": method.UserID})
	if err != nil {
		return "", err
	}
	method.ID = uuid.NewString()
	method.IsDefault = count == 0
	method.CreatedAt = now
	if _, err := ms.payoutMethods.InsertOne(ctx, method); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrAlreadyExists
		}
		return "", err
	}
	return method.ID, nil
}

// PayoutMethod method returns the payout method with the given ID. If the
// method doesn't exist, it returns a specific error. Ownership is checked by
// the caller against the UserID field.
func (ms *MongoStorage) PayoutMethod(id string) (*PayoutMethod, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	method := &PayoutMethod{}
	if err := ms.payoutMethods.FindOne(ctx, bson.M{"_id": id}).Decode(method); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return method, nil
}

// PayoutMethods method returns all the payout methods of the given user,
// default first, then newest first.
func (ms *MongoStorage) PayoutMethods(userID uint64) ([]*PayoutMethod, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "isDefault", Value: -1}, {Key: "createdAt", Value: -1}})
	cur, err := ms.payoutMethods.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	var methods []*PayoutMethod
	for cur.Next(ctx) {
		method := &PayoutMethod{}
		if err := cur.Decode(method); err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	return methods, cur.Err()
}

// SetDefaultPayoutMethod method promotes the given payout method to the
// user's default. The demote and promote writes run under the storage lock,
// and the partial unique index on {userID, isDefault:true} rejects a second
// default even if another writer slips in between the two updates.
func (ms *MongoStorage) SetDefaultPayoutMethod(userID uint64, id string) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	method := &PayoutMethod{}
	if err := ms.payoutMethods.FindOne(ctx, bson.M{"_id": id}).Decode(method); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}
	if method.UserID != userID {
		return ErrNotFound
	}
	if method.IsDefault {
		// already the default, nothing to do
		return nil
	}
	now := time.Now()
	// demote the current default, then promote the requested method
	if _, err := ms.payoutMethods.UpdateMany(ctx,
		bson.M{"userID": userID, "isDefault": true},
		bson.M{"$set": bson.M{"isDefault": false, "updatedAt": now}},
	); err != nil {
		return err
	}
	if _, err := ms.payoutMethods.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isDefault": true, "updatedAt": now}},
	); err != nil {
		return err
	}
	return nil
}

// DelPayoutMethod method deletes the payout method with the given ID. The
// default method cannot be deleted while the user has other methods; deleting
// the last remaining method is allowed.
func (ms *MongoStorage) DelPayoutMethod(userID uint64, id string) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	method := &PayoutMethod{}
	if err := ms.payoutMethods.FindOne(ctx, bson.M{"_id": id}).Decode(method); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}
	if method.UserID != userID {
		return ErrNotFound
	}
	if method.IsDefault {
		count, err := ms.payoutMethods.CountDocuments(ctx, bson.M{"userID": userID})
		if err != nil {
			return err
		}
		if count > 1 {
			return ErrDefaultInUse
		}
	}
	if _, err := ms.payoutMethods.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	return nil
}
