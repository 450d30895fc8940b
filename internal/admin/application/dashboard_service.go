package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
)

// DashboardConfig wires a DashboardService.
type DashboardConfig struct {
	Logger   *log.Logger
	Profiles ProfileRepository
	Reviews  ReviewRepository
	Location *time.Location
	Now      func() time.Time
	NewQR    func() (admindomain.QRCodeID, error)
}

type dashboardService struct {
	logger   *log.Logger
	profiles ProfileRepository
	reviews  ReviewRepository
	location *time.Location
	now      func() time.Time
	newQR    func() (admindomain.QRCodeID, error)
}

func NewDashboardService(cfg DashboardConfig) DashboardService {
	s := &dashboardService{
		logger:   cfg.Logger,
		profiles: cfg.Profiles,
		reviews:  cfg.Reviews,
		location: cfg.Location,
		now:      cfg.Now,
		newQR:    cfg.NewQR,
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newQR == nil {
		s.newQR = admindomain.NewQRCodeID
	}
	return s
}

func (s *dashboardService) Register(ctx context.Context, ownerID string, cmd RegisterProfileCommand) (*admindomain.Profile, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	if _, err := s.profiles.FindByID(ctx, ownerID); err == nil {
		return nil, admindomain.ErrProfileExists
	} else if !errors.Is(err, admindomain.ErrProfileNotFound) {
		return nil, err
	}

	name, err := admindomain.NewBusinessName(cmd.BusinessName)
	if err != nil {
		return nil, err
	}
	email, err := admindomain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	link, err := admindomain.NewReviewLink(cmd.ReviewLink)
	if err != nil {
		return nil, err
	}
	qr, err := s.newQR()
	if err != nil {
		return nil, err
	}

	now := s.now()
	profile := &admindomain.Profile{
		ID:                   ownerID,
		BusinessName:         name,
		Email:                email,
		ReviewLink:           link,
		QRCodeID:             qr,
		AutoRedirectToGoogle: boolPtr(true),
		ShowGooglePrompt:     boolPtr(true),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *dashboardService) Profile(ctx context.Context, ownerID string) (*admindomain.Profile, error) {
	return s.profiles.FindByID(ctx, ownerID)
}

func (s *dashboardService) UpdateSettings(ctx context.Context, ownerID string, cmd UpdateSettingsCommand) (*admindomain.Profile, error) {
	return s.mutate(ctx, ownerID, func(p *admindomain.Profile) error {
		if cmd.AutoRedirectToGoogle != nil {
			p.AutoRedirectToGoogle = boolPtr(*cmd.AutoRedirectToGoogle)
		}
		if cmd.ShowGooglePrompt != nil {
			p.ShowGooglePrompt = boolPtr(*cmd.ShowGooglePrompt)
		}
		return nil
	})
}

func (s *dashboardService) UpdateReviewLink(ctx context.Context, ownerID, link string) (*admindomain.Profile, error) {
	value, err := admindomain.NewReviewLink(link)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, ownerID, func(p *admindomain.Profile) error {
		p.ReviewLink = value
		if value != "" && !value.IsGoogle() && s.logger != nil {
			s.logger.Printf("profile %s uses a non-Google review link: %s", ownerID, value)
		}
		return nil
	})
}

// RefreshQRCode replaces the QR identifier; printed codes with the old value stop resolving.
func (s *dashboardService) RefreshQRCode(ctx context.Context, ownerID string) (*admindomain.Profile, error) {
	return s.mutate(ctx, ownerID, func(p *admindomain.Profile) error {
		qr, err := s.newQR()
		if err != nil {
			return err
		}
		p.QRCodeID = qr
		return nil
	})
}

func (s *dashboardService) Reviews(ctx context.Context, ownerID string, query ReviewQuery) ([]admindomain.Review, error) {
	since, _ := query.Range.Since(s.now())
	return s.reviews.ListByProfile(ctx, ownerID, since, query.Paging)
}

func (s *dashboardService) DeleteReview(ctx context.Context, ownerID, reviewID string) error {
	return s.reviews.Delete(ctx, ownerID, reviewID)
}

func (s *dashboardService) Stats(ctx context.Context, ownerID string, timeRange admindomain.TimeRange) (StatsReport, error) {
	buckets, err := s.reviews.Summary(ctx, ownerID)
	if err != nil {
		return StatsReport{}, err
	}
	now := s.now()
	since, _ := timeRange.Since(now)
	period, err := s.reviews.ListByProfile(ctx, ownerID, since, Paging{})
	if err != nil {
		return StatsReport{}, err
	}
	periodStats := admindomain.ComputeStats(period)

	return StatsReport{
		Overall:       admindomain.StatsFromBuckets(buckets),
		Range:         timeRange,
		PeriodCount:   periodStats.TotalReviews,
		PeriodAverage: periodStats.AverageRating,
		Trend:         admindomain.Trend(period, timeRange, now, s.location),
	}, nil
}

func (s *dashboardService) mutate(ctx context.Context, ownerID string, apply func(*admindomain.Profile) error) (*admindomain.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := apply(profile); err != nil {
		return nil, err
	}
	profile.UpdatedAt = s.now()
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func boolPtr(v bool) *bool {
	return &v
}
