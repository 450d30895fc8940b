package public

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	publicapp "github.com/hykleas/Review-Guard/internal/public/application"
	"github.com/hykleas/Review-Guard/internal/public/domain"
	"github.com/hykleas/Review-Guard/internal/interfaces/http/common"
)

func (h *Handler) startHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.intake.Start(r.Context(), chi.URLParam(r, "qrId"))
		if err != nil {
			h.writeIntakeError(w, err, nil)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, toSessionResponse(view))
	}
}

func (h *Handler) sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := h.loadSession(w, r)
		if !ok {
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toSessionResponse(view))
	}
}

func (h *Handler) ratingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.loadSession(w, r); !ok {
			return
		}
		var req ratingRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		view, err := h.intake.SelectRating(r.Context(), chi.URLParam(r, "sessionId"), req.Rating)
		if err != nil {
			h.writeIntakeError(w, err, &view)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toSessionResponse(view))
	}
}

func (h *Handler) backHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.loadSession(w, r); !ok {
			return
		}
		view, err := h.intake.Back(r.Context(), chi.URLParam(r, "sessionId"))
		if err != nil {
			h.writeIntakeError(w, err, &view)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toSessionResponse(view))
	}
}

func (h *Handler) submitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.loadSession(w, r); !ok {
			return
		}
		var req submitRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validateSubmission(req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		userAgent := r.UserAgent()
		recorder := newHandoffRecorder(userAgent)
		outcome, err := h.intake.Submit(r.Context(), publicapp.SubmitCommand{
			SessionID: chi.URLParam(r, "sessionId"),
			Submission: domain.Submission{
				Comment:       req.Comment,
				CustomerName:  req.CustomerName,
				CustomerEmail: req.CustomerEmail,
			},
			Environment: recorder.environment(userAgent, req.ClipboardAPI),
		})
		if err != nil {
			if errors.Is(err, publicapp.ErrRateLimited) {
				h.writeRateLimited(w, outcome)
				return
			}
			h.writeIntakeError(w, err, &outcome.View)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, submitResponse{
			Session: toSessionResponse(outcome.View),
			Review:  toReviewResponse(outcome.Review),
			Handoff: recorder.result(outcome.Handoff != nil),
			Notice:  outcome.Notice,
		})
	}
}

func (h *Handler) promptHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.loadSession(w, r); !ok {
			return
		}
		var req promptRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		var accept bool
		switch strings.ToLower(strings.TrimSpace(req.Action)) {
		case "accept", "redirect":
			accept = true
		case "decline":
		default:
			common.WriteError(h.logger, w, http.StatusBadRequest, "action must be accept or decline")
			return
		}

		userAgent := r.UserAgent()
		recorder := newHandoffRecorder(userAgent)
		outcome, err := h.intake.RespondToPrompt(r.Context(), publicapp.PromptCommand{
			SessionID:   chi.URLParam(r, "sessionId"),
			Accept:      accept,
			Environment: recorder.environment(userAgent, req.ClipboardAPI),
		})
		if err != nil {
			h.writeIntakeError(w, err, &outcome.View)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, promptResponse{
			Session: toSessionResponse(outcome.View),
			Handoff: recorder.result(outcome.Handoff != nil),
		})
	}
}

// loadSession fetches the session and checks it belongs to the QR code in the path.
func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (domain.View, bool) {
	view, err := h.intake.Session(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeIntakeError(w, err, nil)
		return domain.View{}, false
	}
	if view.QRCodeID != chi.URLParam(r, "qrId") {
		h.writeIntakeError(w, domain.ErrSessionNotFound, nil)
		return domain.View{}, false
	}
	return view, true
}

func (h *Handler) writeRateLimited(w http.ResponseWriter, outcome publicapp.SubmitOutcome) {
	retry := outcome.RetryAfterSeconds
	if retry > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}
	session := toSessionResponse(outcome.View)
	common.WriteJSON(h.logger, w, http.StatusTooManyRequests, errorResponse{
		Error:             outcome.Notice,
		Session:           &session,
		RetryAfterSeconds: retry,
	})
}

func (h *Handler) writeIntakeError(w http.ResponseWriter, err error, view *domain.View) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		status, message = http.StatusNotFound, "business not found"
	case errors.Is(err, domain.ErrSessionNotFound):
		status, message = http.StatusNotFound, "session not found"
	case errors.Is(err, domain.ErrInvalidRating):
		status, message = http.StatusBadRequest, domain.ErrInvalidRating.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		status, message = http.StatusConflict, domain.ErrInvalidTransition.Error()
	case errors.Is(err, domain.ErrReviewLinkMissing):
		status, message = http.StatusConflict, domain.ErrReviewLinkMissing.Error()
	case errors.Is(err, publicapp.ErrSaveFailed):
		status, message = http.StatusServiceUnavailable, "Your review could not be saved. Please try again."
	default:
		if h.logger != nil {
			h.logger.Printf("intake request failed: %v", err)
		}
	}

	resp := errorResponse{Error: message}
	if view != nil && view.ID != "" {
		session := toSessionResponse(*view)
		resp.Session = &session
	}
	common.WriteJSON(h.logger, w, status, resp)
}

func validateSubmission(req submitRequest) error {
	if utf8.RuneCountInString(req.Comment) > common.MaxCommentRunes {
		return errors.New("comment is too long")
	}
	if utf8.RuneCountInString(req.CustomerName) > common.MaxCustomerFieldRunes {
		return errors.New("customerName is too long")
	}
	if utf8.RuneCountInString(req.CustomerEmail) > common.MaxCustomerFieldRunes {
		return errors.New("customerEmail is too long")
	}
	return nil
}
