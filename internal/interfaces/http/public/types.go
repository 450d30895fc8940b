package public

import (
	"time"

	"github.com/hykleas/Review-Guard/internal/public/domain"
)

type ratingRequest struct {
	Rating int `json:"rating"`
}

type submitRequest struct {
	Comment       string `json:"comment"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	ClipboardAPI  bool   `json:"clipboardApi"`
}

type promptRequest struct {
	Action       string `json:"action"`
	ClipboardAPI bool   `json:"clipboardApi"`
}

type sessionResponse struct {
	SessionID     string `json:"sessionId"`
	QRCodeID      string `json:"qrCodeId"`
	BusinessName  string `json:"businessName"`
	State         string `json:"state"`
	Rating        int    `json:"rating,omitempty"`
	LinkAvailable bool   `json:"linkAvailable"`
	ReviewID      string `json:"reviewId,omitempty"`
}

type reviewResponse struct {
	ID           string    `json:"id"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	CustomerName string    `json:"customerName"`
	IsInternal   bool      `json:"isInternal"`
	CreatedAt    time.Time `json:"createdAt"`
}

type submitResponse struct {
	Session sessionResponse `json:"session"`
	Review  *reviewResponse `json:"review,omitempty"`
	Handoff *handoffPlan    `json:"handoff,omitempty"`
	Notice  string          `json:"notice,omitempty"`
}

type promptResponse struct {
	Session sessionResponse `json:"session"`
	Handoff *handoffPlan    `json:"handoff,omitempty"`
}

type errorResponse struct {
	Error             string           `json:"error"`
	Session           *sessionResponse `json:"session,omitempty"`
	RetryAfterSeconds int              `json:"retryAfterSeconds,omitempty"`
}

func toSessionResponse(v domain.View) sessionResponse {
	return sessionResponse{
		SessionID:     v.ID,
		QRCodeID:      v.QRCodeID,
		BusinessName:  v.BusinessName,
		State:         string(v.State),
		Rating:        v.Rating,
		LinkAvailable: v.LinkAvailable,
		ReviewID:      v.ReviewID,
	}
}

func toReviewResponse(r *domain.Review) *reviewResponse {
	if r == nil {
		return nil
	}
	return &reviewResponse{
		ID:           r.ID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CustomerName: r.CustomerName,
		IsInternal:   r.IsInternal,
		CreatedAt:    r.CreatedAt,
	}
}
