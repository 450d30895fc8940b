package domain

import (
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("review session not found")

// Session is one customer's pass through the intake flow.
// Config is captured when the session starts and never refreshed.
type Session struct {
	mu sync.Mutex

	ID           string
	QRCodeID     string
	ProfileID    string
	BusinessName string
	Config       Configuration
	State        FlowState
	Rating       Rating
	Draft        Submission
	ReviewID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSession starts a session in RatingSelection.
func NewSession(id string, business Business, now time.Time) *Session {
	return &Session{
		ID:           id,
		QRCodeID:     business.QRCodeID,
		ProfileID:    business.ID,
		BusinessName: business.Name,
		Config:       business.Settings.Resolve(),
		State:        StateRatingSelection,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Lock serialises actions on the session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// SelectRating records the rating and enters the matching form.
func (s *Session) SelectRating(value int, now time.Time) error {
	next, rating, err := SelectRating(s.State, value)
	if err != nil {
		return err
	}
	s.State = next
	s.Rating = rating
	s.UpdatedAt = now
	return nil
}

// Back discards the rating and draft fields and returns to RatingSelection.
func (s *Session) Back(now time.Time) error {
	next, err := Back(s.State)
	if err != nil {
		return err
	}
	s.State = next
	s.Rating = 0
	s.Draft = Submission{}
	s.UpdatedAt = now
	return nil
}

// View is a read-only copy of the session fields.
type View struct {
	ID            string
	QRCodeID      string
	BusinessName  string
	State         FlowState
	Rating        int
	LinkAvailable bool
	ReviewID      string
}

// View snapshots the session.
func (s *Session) View() View {
	return View{
		ID:            s.ID,
		QRCodeID:      s.QRCodeID,
		BusinessName:  s.BusinessName,
		State:         s.State,
		Rating:        s.Rating.Int(),
		LinkAvailable: s.Config.HasReviewLink(),
		ReviewID:      s.ReviewID,
	}
}
