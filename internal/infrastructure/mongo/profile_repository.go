package mongo

import (
	"context"
	"errors"
	"strings"

	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
	publicdomain "github.com/hykleas/Review-Guard/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileRepository serves both the QR lookup and the dashboard profile operations.
type ProfileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository creates a Mongo-backed profile repository.
func NewProfileRepository(db *mongo.Database, collectionName string) *ProfileRepository {
	return &ProfileRepository{collection: db.Collection(collectionName)}
}

// FindByQRCode resolves the business behind a QR identifier.
func (r *ProfileRepository) FindByQRCode(ctx context.Context, qrCodeID string) (*publicdomain.Business, error) {
	var doc ProfileDocument
	err := r.collection.FindOne(ctx, bson.M{"qrCodeId": strings.TrimSpace(qrCodeID)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, publicdomain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	business := mapBusiness(doc)
	return &business, nil
}

// FindByID loads the owner's profile.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*admindomain.Profile, error) {
	var doc ProfileDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": strings.TrimSpace(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, admindomain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	profile := mapProfile(doc)
	return &profile, nil
}

// Create inserts a new profile; a duplicate owner maps to ErrProfileExists.
func (r *ProfileRepository) Create(ctx context.Context, profile *admindomain.Profile) error {
	_, err := r.collection.InsertOne(ctx, buildProfileDocument(profile))
	if mongo.IsDuplicateKeyError(err) {
		return admindomain.ErrProfileExists
	}
	return err
}

// Update overwrites the mutable profile fields.
func (r *ProfileRepository) Update(ctx context.Context, profile *admindomain.Profile) error {
	set := bson.M{
		"businessName":   profile.BusinessName.String(),
		"email":          profile.Email.String(),
		"googleMapsLink": profile.ReviewLink.String(),
		"qrCodeId":       profile.QRCodeID.String(),
		"updatedAt":      profile.UpdatedAt,
	}
	unset := bson.M{}
	if profile.AutoRedirectToGoogle != nil {
		set["autoRedirectToGoogle"] = *profile.AutoRedirectToGoogle
	} else {
		unset["autoRedirectToGoogle"] = ""
	}
	if profile.ShowGooglePrompt != nil {
		set["showGooglePrompt"] = *profile.ShowGooglePrompt
	} else {
		unset["showGooglePrompt"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.collection.UpdateByID(ctx, profile.ID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return admindomain.ErrProfileNotFound
	}
	return nil
}

func buildProfileDocument(p *admindomain.Profile) ProfileDocument {
	return ProfileDocument{
		ID:                   p.ID,
		BusinessName:         p.BusinessName.String(),
		Email:                p.Email.String(),
		GoogleMapsLink:       p.ReviewLink.String(),
		QRCodeID:             p.QRCodeID.String(),
		AutoRedirectToGoogle: p.AutoRedirectToGoogle,
		ShowGooglePrompt:     p.ShowGooglePrompt,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func mapProfile(doc ProfileDocument) admindomain.Profile {
	return admindomain.Profile{
		ID:                   doc.ID,
		BusinessName:         admindomain.BusinessName(doc.BusinessName),
		Email:                admindomain.Email(doc.Email),
		ReviewLink:           admindomain.ReviewLink(strings.TrimSpace(doc.GoogleMapsLink)),
		QRCodeID:             admindomain.QRCodeID(doc.QRCodeID),
		AutoRedirectToGoogle: doc.AutoRedirectToGoogle,
		ShowGooglePrompt:     doc.ShowGooglePrompt,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}
}

func mapBusiness(doc ProfileDocument) publicdomain.Business {
	return publicdomain.Business{
		ID:       doc.ID,
		Name:     doc.BusinessName,
		Email:    doc.Email,
		QRCodeID: doc.QRCodeID,
		Settings: publicdomain.Settings{
			AutoRedirectToGoogle: doc.AutoRedirectToGoogle,
			ShowGooglePrompt:     doc.ShowGooglePrompt,
			ExternalReviewLink:   doc.GoogleMapsLink,
		},
	}
}
