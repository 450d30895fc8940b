package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrProfileNotFound is returned when a QR identifier does not resolve to a business.
var ErrProfileNotFound = errors.New("business not found for qr code")

// AnonymousName replaces an empty customer name at persistence time.
const AnonymousName = "Anonymous"

// Business is the public view of a profile reached through its QR code.
type Business struct {
	ID       string
	Name     string
	Email    string
	QRCodeID string
	Settings Settings
}

// Submission holds the raw form fields typed by the customer.
type Submission struct {
	Comment       string
	CustomerName  string
	CustomerEmail string
}

// Review is a persisted review record.
type Review struct {
	ID            string
	ProfileID     string
	Rating        int
	Comment       *string
	CustomerName  string
	CustomerEmail *string
	IsInternal    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewReview normalises a submission into a record ready to be stored.
func NewReview(profileID string, rating Rating, sub Submission, isInternal bool, now time.Time) Review {
	name := strings.TrimSpace(sub.CustomerName)
	if name == "" {
		name = AnonymousName
	}
	return Review{
		ProfileID:     profileID,
		Rating:        rating.Int(),
		Comment:       optionalString(sub.Comment),
		CustomerName:  name,
		CustomerEmail: optionalString(sub.CustomerEmail),
		IsInternal:    isInternal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CommentText returns the comment or an empty string.
func (r Review) CommentText() string {
	if r.Comment == nil {
		return ""
	}
	return *r.Comment
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
