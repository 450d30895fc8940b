package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
	"github.com/hykleas/Review-Guard/internal/infrastructure/memory"
	publicdomain "github.com/hykleas/Review-Guard/internal/public/domain"
)

type dashboardFixture struct {
	svc      adminapp.DashboardService
	profiles *memory.ProfileRepository
	reviews  *memory.ReviewRepository
	now      time.Time
	qrs      []admindomain.QRCodeID
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	f := &dashboardFixture{
		profiles: memory.NewProfileRepository(),
		reviews:  memory.NewReviewRepository(),
		now:      time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC),
		qrs:      []admindomain.QRCodeID{"1111111111111111", "2222222222222222"},
	}
	f.svc = adminapp.NewDashboardService(adminapp.DashboardConfig{
		Profiles: f.profiles,
		Reviews:  f.reviews,
		Now:      func() time.Time { return f.now },
		NewQR: func() (admindomain.QRCodeID, error) {
			qr := f.qrs[0]
			f.qrs = f.qrs[1:]
			return qr, nil
		},
	})
	return f
}

func (f *dashboardFixture) register(t *testing.T) *admindomain.Profile {
	t.Helper()
	p, err := f.svc.Register(context.Background(), "owner-1", adminapp.RegisterProfileCommand{
		BusinessName: "Cafe Moda",
		Email:        "owner@example.com",
	})
	require.NoError(t, err)
	return p
}

func (f *dashboardFixture) addReview(t *testing.T, owner string, rating int, internal bool, age time.Duration) {
	t.Helper()
	r := publicdomain.NewReview(owner, publicdomain.Rating(rating), publicdomain.Submission{}, internal, f.now.Add(-age))
	require.NoError(t, f.reviews.Create(context.Background(), &r))
}

func TestRegister_DefaultsAndDuplicate(t *testing.T) {
	f := newDashboardFixture(t)

	p := f.register(t)
	assert.Equal(t, admindomain.QRCodeID("1111111111111111"), p.QRCodeID)
	assert.True(t, p.AutoRedirect())
	assert.True(t, p.ShowPrompt())
	assert.Equal(t, admindomain.ReviewLink(""), p.ReviewLink)

	_, err := f.svc.Register(context.Background(), "owner-1", adminapp.RegisterProfileCommand{BusinessName: "x", Email: "a@b.co"})
	assert.ErrorIs(t, err, admindomain.ErrProfileExists)

	_, err = f.svc.Register(context.Background(), "owner-2", adminapp.RegisterProfileCommand{BusinessName: "x", Email: "nope"})
	assert.Error(t, err)
}

func TestUpdateSettings_PartialUpdate(t *testing.T) {
	f := newDashboardFixture(t)
	f.register(t)
	off := false

	p, err := f.svc.UpdateSettings(context.Background(), "owner-1", adminapp.UpdateSettingsCommand{AutoRedirectToGoogle: &off})
	require.NoError(t, err)
	assert.False(t, p.AutoRedirect())
	assert.True(t, p.ShowPrompt())

	business, err := f.profiles.FindByQRCode(context.Background(), p.QRCodeID.String())
	require.NoError(t, err)
	assert.False(t, business.Settings.Resolve().AutoRedirect)

	_, err = f.svc.UpdateSettings(context.Background(), "ghost", adminapp.UpdateSettingsCommand{})
	assert.ErrorIs(t, err, admindomain.ErrProfileNotFound)
}

func TestUpdateReviewLink(t *testing.T) {
	f := newDashboardFixture(t)
	f.register(t)

	p, err := f.svc.UpdateReviewLink(context.Background(), "owner-1", " https://g.page/r/abc ")
	require.NoError(t, err)
	assert.Equal(t, admindomain.ReviewLink("https://g.page/r/abc"), p.ReviewLink)

	_, err = f.svc.UpdateReviewLink(context.Background(), "owner-1", "javascript:void(0)")
	assert.ErrorIs(t, err, admindomain.ErrInvalidReviewLink)

	p, err = f.svc.UpdateReviewLink(context.Background(), "owner-1", "")
	require.NoError(t, err)
	assert.Equal(t, admindomain.ReviewLink(""), p.ReviewLink)
}

func TestRefreshQRCode_OldCodeStopsResolving(t *testing.T) {
	f := newDashboardFixture(t)
	old := f.register(t).QRCodeID

	p, err := f.svc.RefreshQRCode(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, admindomain.QRCodeID("2222222222222222"), p.QRCodeID)

	_, err = f.profiles.FindByQRCode(context.Background(), old.String())
	assert.ErrorIs(t, err, publicdomain.ErrProfileNotFound)
	_, err = f.profiles.FindByQRCode(context.Background(), p.QRCodeID.String())
	assert.NoError(t, err)
}

func TestReviewsAndDelete(t *testing.T) {
	f := newDashboardFixture(t)
	f.register(t)
	f.addReview(t, "owner-1", 5, false, time.Hour)
	f.addReview(t, "owner-1", 2, true, 10*24*time.Hour)
	f.addReview(t, "someone-else", 1, true, time.Hour)

	recent, err := f.svc.Reviews(context.Background(), "owner-1", adminapp.ReviewQuery{Range: admindomain.Range7Days})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 5, recent[0].Rating)

	all, err := f.svc.Reviews(context.Background(), "owner-1", adminapp.ReviewQuery{Range: admindomain.RangeAll})
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, f.svc.DeleteReview(context.Background(), "owner-1", all[1].ID))
	assert.ErrorIs(t, f.svc.DeleteReview(context.Background(), "owner-1", all[1].ID), admindomain.ErrReviewNotFound)
}

func TestStats(t *testing.T) {
	f := newDashboardFixture(t)
	f.register(t)
	f.addReview(t, "owner-1", 5, false, time.Hour)
	f.addReview(t, "owner-1", 4, true, 2*24*time.Hour)
	f.addReview(t, "owner-1", 1, true, 40*24*time.Hour)

	report, err := f.svc.Stats(context.Background(), "owner-1", admindomain.Range30Days)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Overall.TotalReviews)
	assert.Equal(t, 3.3, report.Overall.AverageRating)
	assert.Equal(t, 2, report.Overall.InternalReviews)
	assert.Equal(t, 1, report.Overall.ExternalReviews)
	assert.Equal(t, 2, report.PeriodCount)
	assert.Equal(t, 4.5, report.PeriodAverage)
	assert.Len(t, report.Trend, 30)

	sum := 0
	for _, p := range report.Trend {
		sum += p.Count
	}
	assert.Equal(t, 2, sum)
}
