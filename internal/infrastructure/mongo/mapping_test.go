package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
)

func TestMapBusiness_KeepsAbsentFlags(t *testing.T) {
	off := false
	doc := ProfileDocument{
		ID:                   "owner-1",
		BusinessName:         "Cafe Moda",
		QRCodeID:             "abcd1234abcd1234",
		GoogleMapsLink:       "https://g.page/r/abc",
		AutoRedirectToGoogle: &off,
	}

	business := mapBusiness(doc)
	cfg := business.Settings.Resolve()
	assert.Equal(t, "owner-1", business.ID)
	assert.False(t, cfg.AutoRedirect)
	assert.True(t, cfg.ShowPrompt)
	assert.Equal(t, "https://g.page/r/abc", cfg.ReviewLink)
}

func TestProfileDocumentRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	on := true
	profile := &admindomain.Profile{
		ID:                   "owner-1",
		BusinessName:         "Cafe Moda",
		Email:                "owner@example.com",
		ReviewLink:           "https://g.page/r/abc",
		QRCodeID:             "abcd1234abcd1234",
		AutoRedirectToGoogle: &on,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	assert.Equal(t, *profile, mapProfile(buildProfileDocument(profile)))
}

func TestMapReview_OptionalFields(t *testing.T) {
	id := primitive.NewObjectID()
	comment := "slow service"
	review := mapReview(ReviewDocument{ID: id, ProfileID: "p", Rating: 2, Comment: &comment, CustomerName: "Anonymous", IsInternal: true})

	assert.Equal(t, id.Hex(), review.ID)
	assert.Equal(t, "slow service", review.Comment)
	assert.Equal(t, "", review.CustomerEmail)
	assert.True(t, review.IsInternal)
}

func TestListFilterAndOptions(t *testing.T) {
	assert.Equal(t, bson.M{"profileId": "p"}, listFilter("p", time.Time{}))

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, bson.M{"profileId": "p", "createdAt": bson.M{"$gte": since}}, listFilter("p", since))

	opts := listOptions(adminapp.Paging{Page: 3, Limit: 20})
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, int64(40), *opts.Skip)

	unbounded := listOptions(adminapp.Paging{})
	assert.Nil(t, unbounded.Limit)
	assert.Nil(t, unbounded.Skip)
}

func TestSummaryPipeline(t *testing.T) {
	pipeline := summaryPipeline("owner-1")
	if assert.Len(t, pipeline, 3) {
		assert.Equal(t, "$match", pipeline[0][0].Key)
		assert.Equal(t, bson.M{"profileId": "owner-1"}, pipeline[0][0].Value)
		group := pipeline[1][0].Value.(bson.M)
		assert.Equal(t, "$rating", group["_id"])
	}
}
