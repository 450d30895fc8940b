package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// FailedNotificationRepository parks undeliverable owner alerts for a later retry.
type FailedNotificationRepository struct {
	collection *mongo.Collection
}

func NewFailedNotificationRepository(db *mongo.Database, collectionName string) *FailedNotificationRepository {
	return &FailedNotificationRepository{collection: db.Collection(collectionName)}
}

// Save stores one failed delivery with status pending.
func (r *FailedNotificationRepository) Save(ctx context.Context, target string, payload map[string]string, cause error, attempts int) error {
	now := time.Now().UTC()
	doc := FailedNotificationDocument{
		Target:      target,
		Payload:     payload,
		Attempts:    attempts,
		Status:      "pending",
		CreatedAt:   now,
		LastTriedAt: now,
	}
	if cause != nil {
		doc.Error = cause.Error()
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}
