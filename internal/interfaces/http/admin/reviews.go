package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
	"github.com/hykleas/Review-Guard/internal/interfaces/http/common"
)

func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		query := r.URL.Query()
		timeRange, err := admindomain.ParseTimeRange(query.Get("range"))
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultPageLimit)
		limit = common.ClampInt(limit, 1, common.MaxPageLimit)

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		reviews, err := h.dashboard.Reviews(ctx, user.ID, adminapp.ReviewQuery{
			Range:  timeRange,
			Paging: adminapp.Paging{Page: page, Limit: limit},
		})
		if err != nil {
			h.writeDashboardError(w, "review list", user.ID, err)
			return
		}

		items := make([]reviewResponse, 0, len(reviews))
		for _, review := range reviews {
			items = append(items, toReviewResponse(review))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, reviewListResponse{
			Items: items,
			Range: string(timeRange),
			Page:  page,
			Limit: limit,
		})
	}
}

func (h *Handler) reviewDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "review id is required")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := h.dashboard.DeleteReview(ctx, user.ID, id); err != nil {
			h.writeDashboardError(w, "review delete", user.ID, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		timeRange, err := admindomain.ParseTimeRange(r.URL.Query().Get("range"))
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		report, err := h.dashboard.Stats(ctx, user.ID, timeRange)
		if err != nil {
			h.writeDashboardError(w, "stats", user.ID, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toStatsResponse(report))
	}
}
