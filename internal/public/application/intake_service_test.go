package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hykleas/Review-Guard/internal/dispatch"
	"github.com/hykleas/Review-Guard/internal/public/domain"
	"github.com/hykleas/Review-Guard/internal/ratelimit"
)

type stubProfiles struct {
	businesses map[string]domain.Business
}

func (s *stubProfiles) FindByQRCode(_ context.Context, qr string) (*domain.Business, error) {
	b, ok := s.businesses[qr]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &b, nil
}

type stubReviews struct {
	mu      sync.Mutex
	err     error
	created []domain.Review
}

func (s *stubReviews) Create(_ context.Context, r *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	r.ID = fmt.Sprintf("rev-%d", len(s.created)+1)
	s.created = append(s.created, *r)
	return nil
}

func (s *stubReviews) all() []domain.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Review(nil), s.created...)
}

type stubSessions struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func (s *stubSessions) Save(session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = map[string]*domain.Session{}
	}
	s.sessions[session.ID] = session
}

func (s *stubSessions) Get(id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

type redirectCall struct {
	link    string
	comment string
}

type stubDispatcher struct {
	calls []redirectCall
}

func (d *stubDispatcher) Redirect(_ context.Context, env dispatch.Environment, link, comment string) dispatch.Result {
	d.calls = append(d.calls, redirectCall{link, comment})
	return dispatch.Result{Platform: dispatch.DetectPlatform(env.UserAgent), WebURL: link}
}

type stubNotifier struct {
	ch chan domain.Review
}

func (n *stubNotifier) NotifyLowRating(_ context.Context, _ domain.Business, review domain.Review) {
	n.ch <- review
}

type fixture struct {
	svc        IntakeService
	reviews    *stubReviews
	dispatcher *stubDispatcher
	notifier   *stubNotifier
	now        time.Time
	ids        int
}

const reviewLink = "https://g.page/r/abc"

func boolPtr(v bool) *bool { return &v }

func newFixture(t *testing.T, settings domain.Settings) *fixture {
	t.Helper()
	f := &fixture{
		reviews:    &stubReviews{},
		dispatcher: &stubDispatcher{},
		notifier:   &stubNotifier{ch: make(chan domain.Review, 8)},
		now:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.svc = NewIntakeService(IntakeConfig{
		Profiles: &stubProfiles{businesses: map[string]domain.Business{
			"qr1": {ID: "p1", Name: "Cafe Moda", QRCodeID: "qr1", Settings: settings},
		}},
		Reviews:    f.reviews,
		Sessions:   &stubSessions{},
		Limiter:    ratelimit.NewMemoryLimiter(ratelimit.WithClock(clock)),
		Dispatcher: f.dispatcher,
		Notifier:   f.notifier,
		Now:        clock,
		NewID: func() string {
			f.ids++
			return fmt.Sprintf("s%d", f.ids)
		},
	})
	return f
}

func (f *fixture) rated(t *testing.T, rating int) string {
	t.Helper()
	view, err := f.svc.Start(context.Background(), "qr1")
	require.NoError(t, err)
	_, err = f.svc.SelectRating(context.Background(), view.ID, rating)
	require.NoError(t, err)
	return view.ID
}

func (f *fixture) submit(t *testing.T, sessionID, comment string) (SubmitOutcome, error) {
	t.Helper()
	return f.svc.Submit(context.Background(), SubmitCommand{
		SessionID:  sessionID,
		Submission: domain.Submission{Comment: comment},
	})
}

func TestStart_UnknownQRCode(t *testing.T) {
	f := newFixture(t, domain.Settings{})

	_, err := f.svc.Start(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, err = f.svc.Start(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestStart_CreatesSessionInRatingSelection(t *testing.T) {
	f := newFixture(t, domain.Settings{ExternalReviewLink: reviewLink})

	view, err := f.svc.Start(context.Background(), " qr1 ")
	require.NoError(t, err)
	assert.Equal(t, domain.StateRatingSelection, view.State)
	assert.Equal(t, "Cafe Moda", view.BusinessName)
	assert.True(t, view.LinkAvailable)

	got, err := f.svc.Session(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, view, got)
}

func TestSubmit_ScenarioA_LowRatingStoredInternally(t *testing.T) {
	f := newFixture(t, domain.Settings{AutoRedirectToGoogle: boolPtr(true), ExternalReviewLink: reviewLink})
	sid := f.rated(t, 2)

	out, err := f.submit(t, sid, "slow service")
	require.NoError(t, err)

	require.Len(t, f.reviews.all(), 1)
	rec := f.reviews.all()[0]
	assert.Equal(t, 2, rec.Rating)
	assert.True(t, rec.IsInternal)
	assert.Equal(t, "slow service", rec.CommentText())
	assert.Equal(t, domain.AnonymousName, rec.CustomerName)
	assert.Equal(t, domain.StateThankYou, out.View.State)
	assert.Nil(t, out.Handoff)
	assert.Empty(t, f.dispatcher.calls)

	select {
	case notified := <-f.notifier.ch:
		assert.Equal(t, rec.ID, notified.ID)
	case <-time.After(time.Second):
		t.Fatal("owner was not notified")
	}
}

func TestSubmit_ScenarioB_AutoRedirectDispatchesImmediately(t *testing.T) {
	f := newFixture(t, domain.Settings{AutoRedirectToGoogle: boolPtr(true), ExternalReviewLink: reviewLink})
	sid := f.rated(t, 5)

	out, err := f.submit(t, sid, " lovely ")
	require.NoError(t, err)

	require.Len(t, f.reviews.all(), 1)
	assert.False(t, f.reviews.all()[0].IsInternal)
	require.Len(t, f.dispatcher.calls, 1)
	assert.Equal(t, redirectCall{reviewLink, "lovely"}, f.dispatcher.calls[0])
	assert.Equal(t, domain.StateRedirected, out.View.State)
	require.NotNil(t, out.Handoff)
}

func TestSubmit_ScenarioC_PromptThenDecline(t *testing.T) {
	f := newFixture(t, domain.Settings{
		AutoRedirectToGoogle: boolPtr(false),
		ShowGooglePrompt:     boolPtr(true),
		ExternalReviewLink:   reviewLink,
	})
	sid := f.rated(t, 4)

	out, err := f.submit(t, sid, "good")
	require.NoError(t, err)
	assert.Equal(t, domain.StateGooglePrompt, out.View.State)
	require.Len(t, f.reviews.all(), 1)
	assert.True(t, f.reviews.all()[0].IsInternal)

	res, err := f.svc.RespondToPrompt(context.Background(), PromptCommand{SessionID: sid, Accept: false})
	require.NoError(t, err)
	assert.Equal(t, domain.StateDeclined, res.View.State)
	assert.Nil(t, res.Handoff)
	assert.Len(t, f.reviews.all(), 1)
	assert.Empty(t, f.dispatcher.calls)

	_, err = f.svc.RespondToPrompt(context.Background(), PromptCommand{SessionID: sid, Accept: true})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRespondToPrompt_AcceptUsesCapturedComment(t *testing.T) {
	f := newFixture(t, domain.Settings{AutoRedirectToGoogle: boolPtr(false), ExternalReviewLink: reviewLink})
	sid := f.rated(t, 5)

	_, err := f.submit(t, sid, "  friendly staff ")
	require.NoError(t, err)

	res, err := f.svc.RespondToPrompt(context.Background(), PromptCommand{SessionID: sid, Accept: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StateRedirected, res.View.State)
	require.Len(t, f.dispatcher.calls, 1)
	assert.Equal(t, redirectCall{reviewLink, "friendly staff"}, f.dispatcher.calls[0])
	assert.Len(t, f.reviews.all(), 1)
}

func TestSubmit_HighRoutingByConfiguration(t *testing.T) {
	tests := []struct {
		name         string
		settings     domain.Settings
		wantState    domain.FlowState
		wantInternal bool
		wantDispatch bool
	}{
		{"defaults with link redirect", domain.Settings{ExternalReviewLink: reviewLink}, domain.StateRedirected, false, true},
		{"defaults without link prompt", domain.Settings{}, domain.StateGooglePrompt, false, false},
		{"auto without link and no prompt", domain.Settings{ShowGooglePrompt: boolPtr(false)}, domain.StateThankYou, false, false},
		{"no auto with prompt", domain.Settings{AutoRedirectToGoogle: boolPtr(false), ExternalReviewLink: reviewLink}, domain.StateGooglePrompt, true, false},
		{"no auto no prompt", domain.Settings{AutoRedirectToGoogle: boolPtr(false), ShowGooglePrompt: boolPtr(false), ExternalReviewLink: reviewLink}, domain.StateThankYou, true, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.settings)
			sid := f.rated(t, 4)

			out, err := f.submit(t, sid, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, out.View.State)
			require.Len(t, f.reviews.all(), 1)
			assert.Equal(t, tt.wantInternal, f.reviews.all()[0].IsInternal)
			assert.Equal(t, tt.wantDispatch, len(f.dispatcher.calls) == 1)
		})
	}
}

func TestSubmit_RateLimitSharedAcrossPaths(t *testing.T) {
	f := newFixture(t, domain.Settings{AutoRedirectToGoogle: boolPtr(false), ShowGooglePrompt: boolPtr(false)})

	for _, rating := range []int{1, 5, 3} {
		sid := f.rated(t, rating)
		_, err := f.submit(t, sid, "")
		require.NoError(t, err)
	}

	sid := f.rated(t, 5)
	out, err := f.submit(t, sid, "again")
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, domain.StateHighRatingForm, out.View.State)
	assert.Equal(t, 60, out.RetryAfterSeconds)
	assert.NotEmpty(t, out.Notice)
	assert.Len(t, f.reviews.all(), 3)

	f.now = f.now.Add(61 * time.Second)
	out, err = f.submit(t, sid, "again")
	require.NoError(t, err)
	assert.Equal(t, domain.StateThankYou, out.View.State)
	assert.Len(t, f.reviews.all(), 4)
}

func TestSubmit_LowPersistFailureStaysOnForm(t *testing.T) {
	f := newFixture(t, domain.Settings{})
	f.reviews.err = errors.New("connection reset")
	sid := f.rated(t, 1)

	out, err := f.submit(t, sid, "bad")
	require.ErrorIs(t, err, ErrSaveFailed)
	assert.Equal(t, domain.StateLowRatingForm, out.View.State)
	assert.NotEmpty(t, out.Notice)

	f.reviews.err = nil
	out, err = f.submit(t, sid, "bad")
	require.NoError(t, err)
	assert.Equal(t, domain.StateThankYou, out.View.State)
}

func TestSubmit_HighPersistFailureStillRedirects(t *testing.T) {
	f := newFixture(t, domain.Settings{ExternalReviewLink: reviewLink})
	f.reviews.err = errors.New("timeout")
	sid := f.rated(t, 5)

	out, err := f.submit(t, sid, "great")
	require.NoError(t, err)
	assert.Equal(t, domain.StateRedirected, out.View.State)
	assert.NotEmpty(t, out.Notice)
	assert.Nil(t, out.Review)
	require.Len(t, f.dispatcher.calls, 1)
	assert.Equal(t, "great", f.dispatcher.calls[0].comment)
}

func TestBack_DiscardsDraftAndAllowsNewRating(t *testing.T) {
	f := newFixture(t, domain.Settings{})
	sid := f.rated(t, 2)

	view, err := f.svc.Back(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, domain.StateRatingSelection, view.State)
	assert.Equal(t, 0, view.Rating)

	view, err = f.svc.SelectRating(context.Background(), sid, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.StateHighRatingForm, view.State)
}

func TestSubmit_UnknownSession(t *testing.T) {
	f := newFixture(t, domain.Settings{})

	_, err := f.submit(t, "nope", "x")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSubmit_FromRatingSelectionRejected(t *testing.T) {
	f := newFixture(t, domain.Settings{})
	view, err := f.svc.Start(context.Background(), "qr1")
	require.NoError(t, err)

	_, err = f.submit(t, view.ID, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.reviews.all())
}
