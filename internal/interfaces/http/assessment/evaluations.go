package assessment

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
	"github.com/sngm3741/video-interview/api/internal/interfaces/http/common"
)

func (h *Handler) evaluationCreateHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		var cmd application.CreateEvaluationCommand
		if err := common.DecodeJSON(w, r, &cmd); err != nil {
			h.fail(w, r, err)
			return
		}

		evaluation, err := h.evaluationService.Create(ctx, actor, cmd)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusCreated, toEvaluationResponse(*evaluation))
	})
}

func (h *Handler) evaluationsByVideoHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		videoResponseID := strings.TrimSpace(chi.URLParam(r, "videoResponseId"))
		views, err := h.evaluationService.ListByVideo(ctx, actor, videoResponseID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.writeEvaluationViews(w, views)
	})
}

func (h *Handler) evaluationsByInterviewHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		interviewID := strings.TrimSpace(chi.URLParam(r, "interviewId"))
		views, err := h.evaluationService.ListByInterview(ctx, actor, interviewID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.writeEvaluationViews(w, views)
	})
}

func (h *Handler) writeEvaluationViews(w http.ResponseWriter, views []application.EvaluationView) {
	items := make([]evaluationResponse, 0, len(views))
	for _, view := range views {
		items = append(items, toEvaluationViewResponse(view))
	}
	common.WriteList(h.logger, w, items, len(items), nil)
}

func (h *Handler) evaluationStatsHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		interviewID := strings.TrimSpace(chi.URLParam(r, "interviewId"))
		stats, err := h.evaluationService.InterviewStats(ctx, actor, interviewID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, toStatsResponse(*stats))
	})
}

func (h *Handler) evaluationUpdateHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		var cmd application.UpdateEvaluationCommand
		if err := common.DecodeJSON(w, r, &cmd); err != nil {
			h.fail(w, r, err)
			return
		}

		evaluation, err := h.evaluationService.Update(ctx, actor, id, cmd)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, toEvaluationResponse(*evaluation))
	})
}

func (h *Handler) evaluationDeleteHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if err := h.evaluationService.Delete(ctx, actor, id); err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, struct{}{})
	})
}
