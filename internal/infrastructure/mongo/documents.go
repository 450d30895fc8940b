package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileDocument is the stored business profile. _id is the owner's auth subject.
type ProfileDocument struct {
	ID                   string    `bson:"_id"`
	BusinessName         string    `bson:"businessName"`
	Email                string    `bson:"email"`
	GoogleMapsLink       string    `bson:"googleMapsLink,omitempty"`
	QRCodeID             string    `bson:"qrCodeId,omitempty"`
	AutoRedirectToGoogle *bool     `bson:"autoRedirectToGoogle,omitempty"`
	ShowGooglePrompt     *bool     `bson:"showGooglePrompt,omitempty"`
	CreatedAt            time.Time `bson:"createdAt"`
	UpdatedAt            time.Time `bson:"updatedAt"`
}

// ReviewDocument is one stored review.
type ReviewDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	ProfileID     string             `bson:"profileId"`
	Rating        int                `bson:"rating"`
	Comment       *string            `bson:"comment,omitempty"`
	CustomerName  string             `bson:"customerName"`
	CustomerEmail *string            `bson:"customerEmail,omitempty"`
	IsInternal    bool               `bson:"isInternal"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// FailedNotificationDocument keeps an owner alert that could not be delivered.
type FailedNotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Target      string             `bson:"target"`
	Payload     map[string]string  `bson:"payload"`
	Error       string             `bson:"error"`
	Attempts    int                `bson:"attempts"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	LastTriedAt time.Time          `bson:"lastTriedAt"`
}
