package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func allConfigurations() []Configuration {
	var cfgs []Configuration
	for _, auto := range []bool{true, false} {
		for _, prompt := range []bool{true, false} {
			for _, link := range []string{"", "https://g.page/r/abc"} {
				cfgs = append(cfgs, Configuration{AutoRedirect: auto, ShowPrompt: prompt, ReviewLink: link})
			}
		}
	}
	return cfgs
}

func TestSelectRating_BandsToForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating int
		want   FlowState
	}{
		{1, StateLowRatingForm},
		{2, StateLowRatingForm},
		{3, StateLowRatingForm},
		{4, StateHighRatingForm},
		{5, StateHighRatingForm},
	}
	for _, tt := range tests {
		next, rating, err := SelectRating(StateRatingSelection, tt.rating)
		require.NoError(t, err)
		assert.Equal(t, tt.want, next, "rating %d", tt.rating)
		assert.Equal(t, tt.rating, rating.Int())
	}
}

func TestSelectRating_RejectsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, v := range []int{-1, 0, 6, 10} {
		next, _, err := SelectRating(StateRatingSelection, v)
		require.ErrorIs(t, err, ErrInvalidRating)
		assert.Equal(t, StateRatingSelection, next)
	}
}

func TestSelectRating_OnlyFromRatingSelection(t *testing.T) {
	t.Parallel()

	for _, state := range []FlowState{StateLowRatingForm, StateHighRatingForm, StateThankYou, StateGooglePrompt, StateDeclined} {
		next, _, err := SelectRating(state, 4)
		require.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, state, next)
	}
}

func TestDecideSubmit_LowIsAlwaysInternal(t *testing.T) {
	t.Parallel()

	for _, cfg := range allConfigurations() {
		d, err := DecideSubmit(StateLowRatingForm, cfg)
		require.NoError(t, err)
		assert.True(t, d.IsInternal, "cfg %+v", cfg)
		assert.Equal(t, StateThankYou, d.Next)
		assert.False(t, d.Dispatch)
		assert.Equal(t, BandLow, d.Band)
	}
}

func TestDecideSubmit_HighInternalIsNotAutoRedirect(t *testing.T) {
	t.Parallel()

	for _, cfg := range allConfigurations() {
		d, err := DecideSubmit(StateHighRatingForm, cfg)
		require.NoError(t, err)
		assert.Equal(t, !cfg.AutoRedirect, d.IsInternal, "cfg %+v", cfg)
	}
}

func TestDecideSubmit_HighRouting(t *testing.T) {
	t.Parallel()

	link := "https://g.page/r/abc"
	tests := []struct {
		name         string
		cfg          Configuration
		wantNext     FlowState
		wantDispatch bool
	}{
		{"auto redirect with link dispatches", Configuration{AutoRedirect: true, ShowPrompt: true, ReviewLink: link}, StateRedirected, true},
		{"auto redirect with link ignores prompt flag", Configuration{AutoRedirect: true, ShowPrompt: false, ReviewLink: link}, StateRedirected, true},
		{"auto redirect without link falls to prompt", Configuration{AutoRedirect: true, ShowPrompt: true}, StateGooglePrompt, false},
		{"auto redirect without link and no prompt", Configuration{AutoRedirect: true, ShowPrompt: false}, StateThankYou, false},
		{"prompt enabled", Configuration{AutoRedirect: false, ShowPrompt: true, ReviewLink: link}, StateGooglePrompt, false},
		{"prompt enabled without link", Configuration{AutoRedirect: false, ShowPrompt: true}, StateGooglePrompt, false},
		{"prompt disabled", Configuration{AutoRedirect: false, ShowPrompt: false, ReviewLink: link}, StateThankYou, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := DecideSubmit(StateHighRatingForm, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, d.Next)
			assert.Equal(t, tt.wantDispatch, d.Dispatch)
		})
	}
}

func TestDecideSubmit_RejectsNonFormStates(t *testing.T) {
	t.Parallel()

	for _, state := range []FlowState{StateRatingSelection, StateThankYou, StateGooglePrompt, StateRedirected, StateDeclined} {
		_, err := DecideSubmit(state, Configuration{})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestBack(t *testing.T) {
	t.Parallel()

	for _, state := range []FlowState{StateLowRatingForm, StateHighRatingForm} {
		next, err := Back(state)
		require.NoError(t, err)
		assert.Equal(t, StateRatingSelection, next)
	}
	for _, state := range []FlowState{StateRatingSelection, StateThankYou, StateGooglePrompt} {
		_, err := Back(state)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestRespondToPrompt(t *testing.T) {
	t.Parallel()

	withLink := Configuration{ReviewLink: "https://g.page/r/abc"}

	next, err := RespondToPrompt(StateGooglePrompt, true, withLink)
	require.NoError(t, err)
	assert.Equal(t, StateRedirected, next)

	next, err = RespondToPrompt(StateGooglePrompt, false, withLink)
	require.NoError(t, err)
	assert.Equal(t, StateDeclined, next)

	next, err = RespondToPrompt(StateGooglePrompt, true, Configuration{})
	require.ErrorIs(t, err, ErrReviewLinkMissing)
	assert.Equal(t, StateGooglePrompt, next)

	_, err = RespondToPrompt(StateThankYou, false, withLink)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTerminalStates(t *testing.T) {
	t.Parallel()

	assert.True(t, StateThankYou.Terminal())
	assert.True(t, StateDeclined.Terminal())
	assert.True(t, StateRedirected.Terminal())
	assert.False(t, StateGooglePrompt.Terminal())
	assert.False(t, StateRatingSelection.Terminal())
}

func TestSettingsResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Settings
		want Configuration
	}{
		{"absent flags default to true", Settings{}, Configuration{AutoRedirect: true, ShowPrompt: true}},
		{"explicit false", Settings{AutoRedirectToGoogle: boolPtr(false), ShowGooglePrompt: boolPtr(false)}, Configuration{}},
		{"explicit true with link", Settings{AutoRedirectToGoogle: boolPtr(true), ShowGooglePrompt: boolPtr(true), ExternalReviewLink: " https://g.page/r/abc "}, Configuration{AutoRedirect: true, ShowPrompt: true, ReviewLink: "https://g.page/r/abc"}},
		{"blank link is absent", Settings{ExternalReviewLink: "   "}, Configuration{AutoRedirect: true, ShowPrompt: true}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.in.Resolve())
		})
	}
}

func TestNewReview_Normalises(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	r := NewReview("p1", Rating(2), Submission{Comment: "  slow service ", CustomerName: "  ", CustomerEmail: ""}, true, now)
	require.NotNil(t, r.Comment)
	assert.Equal(t, "slow service", *r.Comment)
	assert.Equal(t, AnonymousName, r.CustomerName)
	assert.Nil(t, r.CustomerEmail)
	assert.Equal(t, 2, r.Rating)
	assert.True(t, r.IsInternal)
	assert.Equal(t, now, r.CreatedAt)

	r = NewReview("p1", Rating(5), Submission{Comment: "\t", CustomerName: " Ayse ", CustomerEmail: " a@example.com "}, false, now)
	assert.Nil(t, r.Comment)
	assert.Equal(t, "", r.CommentText())
	assert.Equal(t, "Ayse", r.CustomerName)
	require.NotNil(t, r.CustomerEmail)
	assert.Equal(t, "a@example.com", *r.CustomerEmail)
}

func TestSession_BackDiscardsDraft(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewSession("s1", Business{ID: "p1", Name: "Cafe", QRCodeID: "qr"}, now)
	require.NoError(t, s.SelectRating(2, now))
	s.Draft = Submission{Comment: "cold", CustomerName: "Ali", CustomerEmail: "ali@example.com"}

	require.NoError(t, s.Back(now))
	assert.Equal(t, StateRatingSelection, s.State)
	assert.Equal(t, Submission{}, s.Draft)
	assert.Equal(t, 0, s.Rating.Int())

	require.NoError(t, s.SelectRating(5, now))
	assert.Equal(t, StateHighRatingForm, s.State)
}

func TestSession_RatingImmutableAfterSelection(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewSession("s1", Business{ID: "p1"}, now)
	require.NoError(t, s.SelectRating(4, now))
	require.ErrorIs(t, s.SelectRating(1, now), ErrInvalidTransition)
	assert.Equal(t, 4, s.Rating.Int())
}

func TestNewSession_SnapshotsConfiguration(t *testing.T) {
	t.Parallel()

	settings := Settings{AutoRedirectToGoogle: boolPtr(false)}
	s := NewSession("s1", Business{ID: "p1", Settings: settings}, time.Now())

	*settings.AutoRedirectToGoogle = true
	assert.False(t, s.Config.AutoRedirect)
	assert.True(t, s.Config.ShowPrompt)
}
