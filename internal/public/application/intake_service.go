package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hykleas/Review-Guard/internal/public/domain"
	"github.com/hykleas/Review-Guard/internal/ratelimit"
)

var (
	// ErrRateLimited is returned when the QR code exhausted its submission budget.
	ErrRateLimited = errors.New("too many submissions, please wait")
	// ErrSaveFailed is returned when a low rating could not be stored.
	ErrSaveFailed = errors.New("review could not be saved")
)

const (
	// DefaultMaxSubmissions is the submission budget per QR code and window.
	DefaultMaxSubmissions = 3
	// DefaultSubmissionWindow is the throttle window length.
	DefaultSubmissionWindow = 60 * time.Second

	noticeSaveFailed     = "Your review could not be saved. Please try again."
	noticeSaveFailedHigh = "Your review could not be saved, but you can still share it."
)

// IntakeConfig wires an IntakeService.
type IntakeConfig struct {
	Logger         *log.Logger
	Profiles       ProfileRepository
	Reviews        ReviewRepository
	Sessions       SessionStore
	Limiter        Limiter
	Dispatcher     Dispatcher
	Notifier       OwnerNotifier
	Metrics        Metrics
	MaxSubmissions int
	Window         time.Duration
	Now            func() time.Time
	NewID          func() string
}

type intakeService struct {
	logger     *log.Logger
	profiles   ProfileRepository
	reviews    ReviewRepository
	sessions   SessionStore
	limiter    Limiter
	dispatcher Dispatcher
	notifier   OwnerNotifier
	metrics    Metrics
	max        int
	window     time.Duration
	now        func() time.Time
	newID      func() string
}

// NewIntakeService builds the intake use-cases.
func NewIntakeService(cfg IntakeConfig) IntakeService {
	s := &intakeService{
		logger:     cfg.Logger,
		profiles:   cfg.Profiles,
		reviews:    cfg.Reviews,
		sessions:   cfg.Sessions,
		limiter:    cfg.Limiter,
		dispatcher: cfg.Dispatcher,
		notifier:   cfg.Notifier,
		metrics:    cfg.Metrics,
		max:        cfg.MaxSubmissions,
		window:     cfg.Window,
		now:        cfg.Now,
		newID:      cfg.NewID,
	}
	if s.max <= 0 {
		s.max = DefaultMaxSubmissions
	}
	if s.window <= 0 {
		s.window = DefaultSubmissionWindow
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

func (s *intakeService) Start(ctx context.Context, qrCodeID string) (domain.View, error) {
	qrCodeID = strings.TrimSpace(qrCodeID)
	if qrCodeID == "" {
		return domain.View{}, domain.ErrProfileNotFound
	}
	business, err := s.profiles.FindByQRCode(ctx, qrCodeID)
	if err != nil {
		return domain.View{}, err
	}
	session := domain.NewSession(s.newID(), *business, s.now())
	s.sessions.Save(session)
	return session.View(), nil
}

func (s *intakeService) Session(_ context.Context, sessionID string) (domain.View, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return domain.View{}, err
	}
	session.Lock()
	defer session.Unlock()
	return session.View(), nil
}

func (s *intakeService) SelectRating(_ context.Context, sessionID string, rating int) (domain.View, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return domain.View{}, err
	}
	session.Lock()
	defer session.Unlock()

	from := session.State
	if err := session.SelectRating(rating, s.now()); err != nil {
		return session.View(), err
	}
	s.transition(from, session.State)
	s.sessions.Save(session)
	return session.View(), nil
}

func (s *intakeService) Back(_ context.Context, sessionID string) (domain.View, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return domain.View{}, err
	}
	session.Lock()
	defer session.Unlock()

	from := session.State
	if err := session.Back(s.now()); err != nil {
		return session.View(), err
	}
	s.transition(from, session.State)
	s.sessions.Save(session)
	return session.View(), nil
}

func (s *intakeService) Submit(ctx context.Context, cmd SubmitCommand) (SubmitOutcome, error) {
	session, err := s.sessions.Get(cmd.SessionID)
	if err != nil {
		return SubmitOutcome{}, err
	}
	session.Lock()
	defer session.Unlock()

	decision, err := domain.DecideSubmit(session.State, session.Config)
	if err != nil {
		return SubmitOutcome{View: session.View()}, err
	}
	session.Draft = cmd.Submission

	key := ratelimit.ReviewKey(session.QRCodeID)
	if s.limiter != nil && !s.limiter.Check(ctx, key, s.max, s.window) {
		if s.metrics != nil {
			s.metrics.RateLimited()
		}
		s.sessions.Save(session)
		return SubmitOutcome{
			View:              session.View(),
			Notice:            "Too many attempts. Please wait a moment and try again.",
			RetryAfterSeconds: s.limiter.RemainingTime(ctx, key),
		}, ErrRateLimited
	}

	now := s.now()
	review := domain.NewReview(session.ProfileID, session.Rating, cmd.Submission, decision.IsInternal, now)
	outcome := SubmitOutcome{}
	if err := s.reviews.Create(ctx, &review); err != nil {
		s.logf("review insert failed for profile %s (rating %d): %v", session.ProfileID, review.Rating, err)
		if s.metrics != nil {
			s.metrics.PersistError(string(decision.Band))
		}
		if decision.Band == domain.BandLow {
			s.sessions.Save(session)
			return SubmitOutcome{View: session.View(), Notice: noticeSaveFailed}, fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}
		outcome.Notice = noticeSaveFailedHigh
	} else {
		outcome.Review = &review
		session.ReviewID = review.ID
		if s.metrics != nil {
			s.metrics.Submission(string(decision.Band), decision.IsInternal)
		}
		if decision.Band == domain.BandLow && s.notifier != nil {
			s.notifyOwner(session, review)
		}
	}

	from := session.State
	session.State = decision.Next
	session.UpdatedAt = now
	s.transition(from, session.State)

	if decision.Dispatch && s.dispatcher != nil {
		result := s.dispatcher.Redirect(ctx, cmd.Environment, session.Config.ReviewLink, review.CommentText())
		outcome.Handoff = &result
	}

	s.sessions.Save(session)
	outcome.View = session.View()
	return outcome, nil
}

func (s *intakeService) RespondToPrompt(ctx context.Context, cmd PromptCommand) (PromptOutcome, error) {
	session, err := s.sessions.Get(cmd.SessionID)
	if err != nil {
		return PromptOutcome{}, err
	}
	session.Lock()
	defer session.Unlock()

	from := session.State
	next, err := domain.RespondToPrompt(session.State, cmd.Accept, session.Config)
	if err != nil {
		return PromptOutcome{View: session.View()}, err
	}
	session.State = next
	session.UpdatedAt = s.now()
	s.transition(from, next)

	outcome := PromptOutcome{}
	if next == domain.StateRedirected && s.dispatcher != nil {
		comment := strings.TrimSpace(session.Draft.Comment)
		result := s.dispatcher.Redirect(ctx, cmd.Environment, session.Config.ReviewLink, comment)
		outcome.Handoff = &result
	}

	s.sessions.Save(session)
	outcome.View = session.View()
	return outcome, nil
}

// notifyOwner sends the alert in the background with its own context.
func (s *intakeService) notifyOwner(session *domain.Session, review domain.Review) {
	business := domain.Business{
		ID:       session.ProfileID,
		Name:     session.BusinessName,
		QRCodeID: session.QRCodeID,
	}
	go s.notifier.NotifyLowRating(context.Background(), business, review)
}

func (s *intakeService) transition(from, to domain.FlowState) {
	if s.metrics != nil && from != to {
		s.metrics.Transition(string(from), string(to))
	}
}

func (s *intakeService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
