package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database, profiles, reviews string) error {
	_, err := db.Collection(profiles).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "qrCodeId", Value: 1}},
		Options: options.Index().
			SetName("qrCodeId_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"qrCodeId": bson.M{"$type": "string"}}),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(reviews).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "profileId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("profileId_createdAt"),
	})
	return err
}
