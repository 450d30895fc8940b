package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrInvalidTransition is returned when an action does not apply to the current state.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrReviewLinkMissing is returned when a redirect is requested without a configured link.
	ErrReviewLinkMissing = errors.New("business has no external review link")
)

// FlowState is a step of the review intake flow.
type FlowState string

const (
	StateRatingSelection FlowState = "rating_selection"
	StateLowRatingForm   FlowState = "low_rating_form"
	StateHighRatingForm  FlowState = "high_rating_form"
	StateThankYou        FlowState = "thank_you"
	StateGooglePrompt    FlowState = "google_prompt"
	// StateRedirected marks that the browsing context was handed to the external platform.
	StateRedirected FlowState = "redirected"
	// StateDeclined marks a prompt that the customer dismissed.
	StateDeclined FlowState = "declined"
)

// Terminal reports whether no further transitions are possible.
func (s FlowState) Terminal() bool {
	switch s {
	case StateThankYou, StateRedirected, StateDeclined:
		return true
	}
	return false
}

// IsForm reports whether s collects submission details.
func (s FlowState) IsForm() bool {
	return s == StateLowRatingForm || s == StateHighRatingForm
}

// Rating is a star value in 1..5.
type Rating int

// Band splits ratings into the private and public funnels.
type Band string

const (
	BandLow  Band = "low"
	BandHigh Band = "high"
)

// NewRating validates a raw star value.
func NewRating(value int) (Rating, error) {
	if value < 1 || value > 5 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRating, value)
	}
	return Rating(value), nil
}

// Band returns low for 1..3 and high for 4..5.
func (r Rating) Band() Band {
	if r <= 3 {
		return BandLow
	}
	return BandHigh
}

// Int returns the raw star value.
func (r Rating) Int() int {
	return int(r)
}

// SelectRating moves RatingSelection to the form matching the rating band.
func SelectRating(state FlowState, value int) (FlowState, Rating, error) {
	if state != StateRatingSelection {
		return state, 0, fmt.Errorf("select rating from %s: %w", state, ErrInvalidTransition)
	}
	rating, err := NewRating(value)
	if err != nil {
		return state, 0, err
	}
	if rating.Band() == BandLow {
		return StateLowRatingForm, rating, nil
	}
	return StateHighRatingForm, rating, nil
}

// Back returns from a form to RatingSelection.
func Back(state FlowState) (FlowState, error) {
	if !state.IsForm() {
		return state, fmt.Errorf("back from %s: %w", state, ErrInvalidTransition)
	}
	return StateRatingSelection, nil
}

// SubmitDecision is the outcome of submitting a form.
type SubmitDecision struct {
	Band       Band
	IsInternal bool
	Next       FlowState
	// Dispatch is set when the browsing context must be sent to the review link.
	Dispatch bool
}

// DecideSubmit computes the record tagging and next state for a form submit.
// The caller persists the record and performs the hand-off; neither outcome changes the decision.
func DecideSubmit(state FlowState, cfg Configuration) (SubmitDecision, error) {
	switch state {
	case StateLowRatingForm:
		return SubmitDecision{Band: BandLow, IsInternal: true, Next: StateThankYou}, nil
	case StateHighRatingForm:
		decision := SubmitDecision{Band: BandHigh, IsInternal: !cfg.AutoRedirect}
		switch {
		case cfg.AutoRedirect && cfg.HasReviewLink():
			decision.Next = StateRedirected
			decision.Dispatch = true
		case cfg.ShowPrompt:
			decision.Next = StateGooglePrompt
		default:
			decision.Next = StateThankYou
		}
		return decision, nil
	}
	return SubmitDecision{}, fmt.Errorf("submit from %s: %w", state, ErrInvalidTransition)
}

// RespondToPrompt resolves the GooglePrompt step. Accepting requires a review link.
func RespondToPrompt(state FlowState, accept bool, cfg Configuration) (FlowState, error) {
	if state != StateGooglePrompt {
		return state, fmt.Errorf("prompt response from %s: %w", state, ErrInvalidTransition)
	}
	if !accept {
		return StateDeclined, nil
	}
	if !cfg.HasReviewLink() {
		return state, ErrReviewLinkMissing
	}
	return StateRedirected, nil
}
