package admin

import (
	"time"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
)

type profileCreateRequest struct {
	BusinessName   string `json:"businessName"`
	Email          string `json:"email"`
	GoogleMapsLink string `json:"googleMapsLink"`
}

type settingsUpdateRequest struct {
	AutoRedirectToGoogle *bool `json:"autoRedirectToGoogle"`
	ShowGooglePrompt     *bool `json:"showGooglePrompt"`
}

type reviewLinkRequest struct {
	GoogleMapsLink string `json:"googleMapsLink"`
}

type profileResponse struct {
	ID                   string    `json:"id"`
	BusinessName         string    `json:"businessName"`
	Email                string    `json:"email"`
	GoogleMapsLink       string    `json:"googleMapsLink,omitempty"`
	GoogleLink           bool      `json:"googleLink"`
	QRCodeID             string    `json:"qrCodeId"`
	QRURL                string    `json:"qrUrl"`
	AutoRedirectToGoogle bool      `json:"autoRedirectToGoogle"`
	ShowGooglePrompt     bool      `json:"showGooglePrompt"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type reviewResponse struct {
	ID            string    `json:"id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	IsInternal    bool      `json:"isInternal"`
	CreatedAt     time.Time `json:"createdAt"`
}

type reviewListResponse struct {
	Items []reviewResponse `json:"items"`
	Range string           `json:"range"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type trendPointResponse struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type statsResponse struct {
	TotalReviews    int                  `json:"totalReviews"`
	AverageRating   float64              `json:"averageRating"`
	InternalReviews int                  `json:"internalReviews"`
	ExternalReviews int                  `json:"externalReviews"`
	Distribution    map[int]int          `json:"distribution"`
	Range           string               `json:"range"`
	PeriodReviews   int                  `json:"periodReviews"`
	PeriodAverage   float64              `json:"periodAverage"`
	Trend           []trendPointResponse `json:"trend"`
}

func (h *Handler) toProfileResponse(p admindomain.Profile) profileResponse {
	return profileResponse{
		ID:                   p.ID,
		BusinessName:         p.BusinessName.String(),
		Email:                p.Email.String(),
		GoogleMapsLink:       p.ReviewLink.String(),
		GoogleLink:           p.ReviewLink.IsGoogle(),
		QRCodeID:             p.QRCodeID.String(),
		QRURL:                p.QRCodeID.URL(h.publicBaseURL),
		AutoRedirectToGoogle: p.AutoRedirect(),
		ShowGooglePrompt:     p.ShowPrompt(),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func toReviewResponse(r admindomain.Review) reviewResponse {
	return reviewResponse{
		ID:            r.ID,
		Rating:        r.Rating,
		Comment:       r.Comment,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		IsInternal:    r.IsInternal,
		CreatedAt:     r.CreatedAt,
	}
}

func toStatsResponse(report adminapp.StatsReport) statsResponse {
	trend := make([]trendPointResponse, 0, len(report.Trend))
	for _, point := range report.Trend {
		trend = append(trend, trendPointResponse{
			Date:  point.Date.Format(time.DateOnly),
			Label: point.Label,
			Count: point.Count,
		})
	}
	return statsResponse{
		TotalReviews:    report.Overall.TotalReviews,
		AverageRating:   report.Overall.AverageRating,
		InternalReviews: report.Overall.InternalReviews,
		ExternalReviews: report.Overall.ExternalReviews,
		Distribution:    report.Overall.Distribution,
		Range:           string(report.Range),
		PeriodReviews:   report.PeriodCount,
		PeriodAverage:   report.PeriodAverage,
		Trend:           trend,
	}
}
