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

func (h *Handler) videoSignatureHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		signature, err := h.videoService.Signature(ctx, actor)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, toSignatureResponse(*signature))
	})
}

func (h *Handler) videoSaveHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		var cmd application.SaveVideoCommand
		if err := common.DecodeJSON(w, r, &cmd); err != nil {
			h.fail(w, r, err)
			return
		}

		video, err := h.videoService.Save(ctx, actor, cmd)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusCreated, toVideoResponse(*video))
	})
}

func (h *Handler) videoListHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		interviewID := strings.TrimSpace(chi.URLParam(r, "interviewId"))
		videos, err := h.videoService.ListByInterview(ctx, actor, interviewID)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		items := make([]videoResponseResponse, 0, len(videos))
		for _, video := range videos {
			items = append(items, toVideoResponse(video))
		}
		common.WriteList(h.logger, w, items, len(items), nil)
	})
}

func (h *Handler) videoDeleteHandler() http.HandlerFunc {
	return h.withActor(func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if err := h.videoService.Delete(ctx, actor, id); err != nil {
			h.fail(w, r, err)
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, struct{}{})
	})
}
