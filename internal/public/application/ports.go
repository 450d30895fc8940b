package application

import (
	"context"
	"time"

	"github.com/hykleas/Review-Guard/internal/dispatch"
	"github.com/hykleas/Review-Guard/internal/public/domain"
)

// ProfileRepository resolves a QR identifier to its business.
// ProfileRepository returns domain.ErrProfileNotFound when nothing matches.
type ProfileRepository interface {
	FindByQRCode(ctx context.Context, qrCodeID string) (*domain.Business, error)
}

// ReviewRepository stores review records. Create assigns the ID.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
}

// SessionStore keeps in-flight review sessions.
type SessionStore interface {
	Save(session *domain.Session)
	Get(id string) (*domain.Session, error)
}

// Limiter is the throttle consulted before persisting a submission.
type Limiter interface {
	Check(ctx context.Context, key string, maxRequests int, window time.Duration) bool
	RemainingTime(ctx context.Context, key string) int
}

// Dispatcher performs the external platform hand-off.
type Dispatcher interface {
	Redirect(ctx context.Context, env dispatch.Environment, link, comment string) dispatch.Result
}

// OwnerNotifier alerts a business about a private low rating.
type OwnerNotifier interface {
	NotifyLowRating(ctx context.Context, business domain.Business, review domain.Review)
}

// Metrics receives intake counters.
type Metrics interface {
	Transition(from, to string)
	Submission(band string, internal bool)
	RateLimited()
	PersistError(band string)
}

// IntakeService drives the customer side of the review flow.
type IntakeService interface {
	Start(ctx context.Context, qrCodeID string) (domain.View, error)
	Session(ctx context.Context, sessionID string) (domain.View, error)
	SelectRating(ctx context.Context, sessionID string, rating int) (domain.View, error)
	Back(ctx context.Context, sessionID string) (domain.View, error)
	Submit(ctx context.Context, cmd SubmitCommand) (SubmitOutcome, error)
	RespondToPrompt(ctx context.Context, cmd PromptCommand) (PromptOutcome, error)
}

// SubmitCommand carries form input for the current session.
type SubmitCommand struct {
	SessionID   string
	Submission  domain.Submission
	Environment dispatch.Environment
}

// SubmitOutcome reports what happened on submit.
type SubmitOutcome struct {
	View domain.View
	// Review is set when the record was stored.
	Review *domain.Review
	// Handoff is set when the dispatcher ran.
	Handoff *dispatch.Result
	// Notice is a short user-facing message about a recovered failure.
	Notice string
	// RetryAfterSeconds is set when the submission was throttled.
	RetryAfterSeconds int
}

// PromptCommand answers the GooglePrompt step.
type PromptCommand struct {
	SessionID   string
	Accept      bool
	Environment dispatch.Environment
}

// PromptOutcome reports the prompt result.
type PromptOutcome struct {
	View    domain.View
	Handoff *dispatch.Result
}
