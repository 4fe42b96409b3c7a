package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetPayment method creates or updates a payment mirror entry, keyed by the
// vendor payment ID (Stripe PaymentIntent ID or PayPal order ID).
func (ms *MongoStorage) SetPayment(payment *Payment) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if payment.ID == "" || payment.UserID == 0 {
		return ErrInvalidData
	}
	now := time.Now()
	payment.UpdatedAt = now
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	updateDoc, err := dynamicUpdateDocument(payment, []string{"updatedAt"})
	if err != nil {
		return err
	}
	opts := options.Update().SetUpsert(true)
	if _, err := ms.payments.UpdateOne(ctx, bson.M{"_id": payment.ID}, updateDoc, opts); err != nil {
		return err
	}
	return nil
}

// UpdatePaymentStatus method updates the status and the captured/refunded
// amounts of a payment. Used by the webhook handlers, so it tolerates unknown
// payments by returning ErrNotFound without writing anything.
func (ms *MongoStorage) UpdatePaymentStatus(id string, status PaymentStatus, captured, refunded int64) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if captured > 0 {
		set["capturedAmount"] = captured
	}
	if refunded > 0 {
		set["refundedAmount"] = refunded
	}
	res, err := ms.payments.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Payment method returns the payment with the given vendor ID. If the payment
// doesn't exist, it returns a specific error.
func (ms *MongoStorage) Payment(id string) (*Payment, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	payment := &Payment{}
	if err := ms.payments.FindOne(ctx, bson.M{"_id": id}).Decode(payment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// Payments method returns the payment history of the given user, newest
// first, limited to the given number of entries (0 means no limit).
func (ms *MongoStorage) Payments(userID uint64, limit int64) ([]*Payment, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := ms.payments.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	var payments []*Payment
	for cur.Next(ctx) {
		payment := &Payment{}
		if err := cur.Decode(payment); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, cur.Err()
}
