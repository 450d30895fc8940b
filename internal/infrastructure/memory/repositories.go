package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
	publicdomain "github.com/hykleas/Review-Guard/internal/public/domain"
)

// ProfileRepository is a process-local profile store for development and tests.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]admindomain.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]admindomain.Profile)}
}

// FindByQRCode implements the public lookup.
func (r *ProfileRepository) FindByQRCode(_ context.Context, qrCodeID string) (*publicdomain.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.QRCodeID.String() == qrCodeID {
			business := toBusiness(p)
			return &business, nil
		}
	}
	return nil, publicdomain.ErrProfileNotFound
}

func (r *ProfileRepository) FindByID(_ context.Context, id string) (*admindomain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, admindomain.ErrProfileNotFound
	}
	return &p, nil
}

func (r *ProfileRepository) Create(_ context.Context, profile *admindomain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; ok {
		return admindomain.ErrProfileExists
	}
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *ProfileRepository) Update(_ context.Context, profile *admindomain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; !ok {
		return admindomain.ErrProfileNotFound
	}
	r.profiles[profile.ID] = *profile
	return nil
}

func toBusiness(p admindomain.Profile) publicdomain.Business {
	return publicdomain.Business{
		ID:       p.ID,
		Name:     p.BusinessName.String(),
		Email:    p.Email.String(),
		QRCodeID: p.QRCodeID.String(),
		Settings: publicdomain.Settings{
			AutoRedirectToGoogle: copyBool(p.AutoRedirectToGoogle),
			ShowGooglePrompt:     copyBool(p.ShowGooglePrompt),
			ExternalReviewLink:   p.ReviewLink.String(),
		},
	}
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}

// ReviewRepository is a process-local review store for development and tests.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]admindomain.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{reviews: make(map[string]admindomain.Review)}
}

// Create implements the public insert and assigns an ID.
func (r *ReviewRepository) Create(_ context.Context, review *publicdomain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = uuid.NewString()
	r.reviews[review.ID] = admindomain.Review{
		ID:            review.ID,
		ProfileID:     review.ProfileID,
		Rating:        review.Rating,
		Comment:       deref(review.Comment),
		CustomerName:  review.CustomerName,
		CustomerEmail: deref(review.CustomerEmail),
		IsInternal:    review.IsInternal,
		CreatedAt:     review.CreatedAt,
	}
	return nil
}

func (r *ReviewRepository) ListByProfile(_ context.Context, profileID string, since time.Time, paging adminapp.Paging) ([]admindomain.Review, error) {
	r.mu.RLock()
	result := make([]admindomain.Review, 0)
	for _, review := range r.reviews {
		if review.ProfileID != profileID {
			continue
		}
		if !since.IsZero() && review.CreatedAt.Before(since) {
			continue
		}
		result = append(result, review)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, paging), nil
}

func (r *ReviewRepository) Delete(_ context.Context, profileID, reviewID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[reviewID]
	if !ok || review.ProfileID != profileID {
		return admindomain.ErrReviewNotFound
	}
	delete(r.reviews, reviewID)
	return nil
}

// Summary groups the owner's reviews by rating.
func (r *ReviewRepository) Summary(_ context.Context, profileID string) ([]admindomain.RatingBucket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byRating := map[int]admindomain.RatingBucket{}
	for _, review := range r.reviews {
		if review.ProfileID != profileID {
			continue
		}
		b := byRating[review.Rating]
		b.Rating = review.Rating
		b.Count++
		if review.IsInternal {
			b.Internal++
		}
		byRating[review.Rating] = b
	}
	buckets := make([]admindomain.RatingBucket, 0, len(byRating))
	for _, b := range byRating {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Rating < buckets[j].Rating })
	return buckets, nil
}

func paginate(reviews []admindomain.Review, paging adminapp.Paging) []admindomain.Review {
	if paging.Limit <= 0 {
		return reviews
	}
	page := paging.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * paging.Limit
	if start >= len(reviews) {
		return []admindomain.Review{}
	}
	end := start + paging.Limit
	if end > len(reviews) {
		end = len(reviews)
	}
	return reviews[start:end]
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
