package domain

import (
	"errors"
	"time"
)

var (
	// ErrProfileNotFound is returned when the owner has no business profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists is returned when registering an owner twice.
	ErrProfileExists = errors.New("profile already exists")
	// ErrReviewNotFound is returned when a review does not exist for the owner.
	ErrReviewNotFound = errors.New("review not found")
)

// Profile is a business as managed from the dashboard. ID equals the owner's subject.
type Profile struct {
	ID                   string
	BusinessName         BusinessName
	Email                Email
	ReviewLink           ReviewLink
	QRCodeID             QRCodeID
	AutoRedirectToGoogle *bool
	ShowGooglePrompt     *bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// AutoRedirect resolves the stored flag, absent meaning true.
func (p Profile) AutoRedirect() bool {
	return p.AutoRedirectToGoogle == nil || *p.AutoRedirectToGoogle
}

// ShowPrompt resolves the stored flag, absent meaning true.
func (p Profile) ShowPrompt() bool {
	return p.ShowGooglePrompt == nil || *p.ShowGooglePrompt
}

// Review is a stored review as seen by its owner.
type Review struct {
	ID            string
	ProfileID     string
	Rating        int
	Comment       string
	CustomerName  string
	CustomerEmail string
	IsInternal    bool
	CreatedAt     time.Time
}
