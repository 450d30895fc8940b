package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
	"github.com/hykleas/Review-Guard/internal/interfaces/http/common"
)

const requestTimeout = 5 * time.Second

func (h *Handler) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   user,
		})
	}
}

func (h *Handler) profileCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		var req profileCreateRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Email == "" {
			req.Email = user.Email
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		profile, err := h.dashboard.Register(ctx, user.ID, adminapp.RegisterProfileCommand{
			BusinessName: req.BusinessName,
			Email:        req.Email,
			ReviewLink:   req.GoogleMapsLink,
		})
		if err != nil {
			h.writeDashboardError(w, "profile create", user.ID, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, h.toProfileResponse(*profile))
	}
}

func (h *Handler) profileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		profile, err := h.dashboard.Profile(ctx, user.ID)
		if err != nil {
			h.writeDashboardError(w, "profile fetch", user.ID, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, h.toProfileResponse(*profile))
	}
}

func (h *Handler) settingsUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		var req settingsUpdateRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		profile, err := h.dashboard.UpdateSettings(ctx, user.ID, adminapp.UpdateSettingsCommand{
			AutoRedirectToGoogle: req.AutoRedirectToGoogle,
			ShowGooglePrompt:     req.ShowGooglePrompt,
		})
		if err != nil {
			h.writeDashboardError(w, "settings update", user.ID, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, h.toProfileResponse(*profile))
	}
}

func (h *Handler) reviewLinkUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		var req reviewLinkRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		profile, err := h.dashboard.UpdateReviewLink(ctx, user.ID, req.GoogleMapsLink)
		if err != nil {
			h.writeDashboardError(w, "review link update", user.ID, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, h.toProfileResponse(*profile))
	}
}

func (h *Handler) qrRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		profile, err := h.dashboard.RefreshQRCode(ctx, user.ID)
		if err != nil {
			h.writeDashboardError(w, "qr refresh", user.ID, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, h.toProfileResponse(*profile))
	}
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (common.AuthenticatedUser, bool) {
	user, ok := common.UserFromContext(r.Context())
	if !ok {
		common.WriteError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return common.AuthenticatedUser{}, false
	}
	return user, true
}

func (h *Handler) writeDashboardError(w http.ResponseWriter, action, ownerID string, err error) {
	switch {
	case errors.Is(err, admindomain.ErrProfileNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "profile not found")
	case errors.Is(err, admindomain.ErrReviewNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "review not found")
	case errors.Is(err, admindomain.ErrProfileExists):
		common.WriteError(h.logger, w, http.StatusConflict, "profile already exists")
	case errors.Is(err, admindomain.ErrInvalidProfile), errors.Is(err, admindomain.ErrInvalidReviewLink):
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	default:
		if h.logger != nil {
			h.logger.Printf("dashboard %s failed owner=%s err=%v", action, ownerID, err)
		}
		common.WriteError(h.logger, w, http.StatusInternalServerError, "internal error")
	}
}
