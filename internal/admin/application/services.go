package application

import (
	"context"
	"time"

	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
)

// ProfileRepository exposes owner operations on business profiles.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*admindomain.Profile, error)
	Create(ctx context.Context, profile *admindomain.Profile) error
	Update(ctx context.Context, profile *admindomain.Profile) error
}

// ReviewRepository exposes owner operations on collected reviews.
type ReviewRepository interface {
	// ListByProfile returns reviews newest first. A zero since disables the cutoff.
	ListByProfile(ctx context.Context, profileID string, since time.Time, paging Paging) ([]admindomain.Review, error)
	Delete(ctx context.Context, profileID, reviewID string) error
	// Summary returns per-rating counts across all of the owner's reviews.
	Summary(ctx context.Context, profileID string) ([]admindomain.RatingBucket, error)
}

// Paging controls pagination. Limit 0 means no limit.
type Paging struct {
	Page  int
	Limit int
}

// DashboardService describes the owner dashboard use-cases.
type DashboardService interface {
	Register(ctx context.Context, ownerID string, cmd RegisterProfileCommand) (*admindomain.Profile, error)
	Profile(ctx context.Context, ownerID string) (*admindomain.Profile, error)
	UpdateSettings(ctx context.Context, ownerID string, cmd UpdateSettingsCommand) (*admindomain.Profile, error)
	UpdateReviewLink(ctx context.Context, ownerID, link string) (*admindomain.Profile, error)
	RefreshQRCode(ctx context.Context, ownerID string) (*admindomain.Profile, error)
	Reviews(ctx context.Context, ownerID string, query ReviewQuery) ([]admindomain.Review, error)
	DeleteReview(ctx context.Context, ownerID, reviewID string) error
	Stats(ctx context.Context, ownerID string, timeRange admindomain.TimeRange) (StatsReport, error)
}

// RegisterProfileCommand contains inputs for creating a profile.
type RegisterProfileCommand struct {
	BusinessName string
	Email        string
	ReviewLink   string
}

// UpdateSettingsCommand is a partial update; nil fields are left unchanged.
type UpdateSettingsCommand struct {
	AutoRedirectToGoogle *bool
	ShowGooglePrompt     *bool
}

// ReviewQuery filters the review list.
type ReviewQuery struct {
	Range  admindomain.TimeRange
	Paging Paging
}

// StatsReport bundles overall and period figures for the dashboard.
type StatsReport struct {
	Overall       admindomain.Stats
	Range         admindomain.TimeRange
	PeriodCount   int
	PeriodAverage float64
	Trend         []admindomain.TrendPoint
}
