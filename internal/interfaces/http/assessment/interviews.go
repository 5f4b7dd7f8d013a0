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

func (h *Handler) interviewCreateHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		var cmd application.CreateInterviewCommand
		if err := common.DecodeJSON(w, r, &cmd); err != nil {
			h.fail(w, r, err)
			return
		}

		interview, err := h.interviewService.Create(ctx, actor, cmd)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusCreated, toInterviewResponse(*interview))
	})
}

func (h *Handler) interviewListHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 0)

		result, err := h.interviewService.List(ctx, actor, application.Paging{Page: page, Limit: limit})
		if err != nil {
			h.fail(w, r, err)
			return
		}

		items := make([]interviewResponse, 0, len(result.Items))
		for _, interview := range result.Items {
			items = append(items, toInterviewResponse(interview))
		}
		common.WriteList(h.logger, w, items, len(items), toPaginationResponse(result.Pagination))
	})
}

func (h *Handler) interviewDetailHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		interview, err := h.interviewService.Detail(ctx, actor, id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, toInterviewResponse(*interview))
	})
}

func (h *Handler) interviewUpdateHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		var req interviewUpdateRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			h.fail(w, r, err)
			return
		}

		cmd := application.UpdateInterviewCommand{
			Title:       req.Title,
			Description: req.Description,
			Questions:   req.Questions,
		}
		interview, err := h.interviewService.Update(ctx, actor, id, cmd)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, toInterviewResponse(*interview))
	})
}

func (h *Handler) interviewDeleteHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if err := h.interviewService.Delete(ctx, actor, id); err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, struct{}{})
	})
}
