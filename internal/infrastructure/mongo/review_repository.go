package mongo

import (
	"context"
	"strings"
	"time"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
	publicdomain "github.com/hykleas/Review-Guard/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepository stores review records and serves the dashboard listings.
type ReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates a Mongo-backed review repository.
func NewReviewRepository(db *mongo.Database, collectionName string) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collectionName)}
}

// Create inserts one review and writes the generated ID back.
func (r *ReviewRepository) Create(ctx context.Context, review *publicdomain.Review) error {
	doc := ReviewDocument{
		ID:            primitive.NewObjectID(),
		ProfileID:     review.ProfileID,
		Rating:        review.Rating,
		Comment:       review.Comment,
		CustomerName:  review.CustomerName,
		CustomerEmail: review.CustomerEmail,
		IsInternal:    review.IsInternal,
		CreatedAt:     review.CreatedAt,
		UpdatedAt:     review.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	review.ID = doc.ID.Hex()
	return nil
}

// ListByProfile returns the owner's reviews, newest first.
func (r *ReviewRepository) ListByProfile(ctx context.Context, profileID string, since time.Time, paging adminapp.Paging) ([]admindomain.Review, error) {
	cursor, err := r.collection.Find(ctx, listFilter(profileID, since), listOptions(paging))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := make([]admindomain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, mapReview(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Delete removes a review only when it belongs to profileID.
func (r *ReviewRepository) Delete(ctx context.Context, profileID, reviewID string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(reviewID))
	if err != nil {
		return admindomain.ErrReviewNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "profileId": profileID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return admindomain.ErrReviewNotFound
	}
	return nil
}

// Summary groups the owner's reviews by rating on the server.
func (r *ReviewRepository) Summary(ctx context.Context, profileID string) ([]admindomain.RatingBucket, error) {
	cursor, err := r.collection.Aggregate(ctx, summaryPipeline(profileID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	buckets := make([]admindomain.RatingBucket, 0, 5)
	for cursor.Next(ctx) {
		var agg struct {
			Rating   int `bson:"_id"`
			Count    int `bson:"count"`
			Internal int `bson:"internal"`
		}
		if err := cursor.Decode(&agg); err != nil {
			return nil, err
		}
		buckets = append(buckets, admindomain.RatingBucket{Rating: agg.Rating, Count: agg.Count, Internal: agg.Internal})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

func summaryPipeline(profileID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"profileId": profileID}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$rating",
			"count":    bson.M{"$sum": 1},
			"internal": bson.M{"$sum": bson.M{"$cond": bson.A{"$isInternal", 1, 0}}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

func listFilter(profileID string, since time.Time) bson.M {
	filter := bson.M{"profileId": profileID}
	if !since.IsZero() {
		filter["createdAt"] = bson.M{"$gte": since}
	}
	return filter
}

func listOptions(paging adminapp.Paging) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		page := paging.Page
		if page < 1 {
			page = 1
		}
		opts.SetLimit(int64(paging.Limit))
		opts.SetSkip(int64((page - 1) * paging.Limit))
	}
	return opts
}

func mapReview(doc ReviewDocument) admindomain.Review {
	review := admindomain.Review{
		ID:           doc.ID.Hex(),
		ProfileID:    doc.ProfileID,
		Rating:       doc.Rating,
		CustomerName: doc.CustomerName,
		IsInternal:   doc.IsInternal,
		CreatedAt:    doc.CreatedAt,
	}
	if doc.Comment != nil {
		review.Comment = *doc.Comment
	}
	if doc.CustomerEmail != nil {
		review.CustomerEmail = *doc.CustomerEmail
	}
	return review
}
