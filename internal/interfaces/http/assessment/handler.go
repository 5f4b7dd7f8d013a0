package assessment

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
	"github.com/sngm3741/video-interview/api/internal/interfaces/http/common"
)

const msgUnauthenticated = "Not authorized to access this route"

// Handler wires interview, video and evaluation endpoints to application services.
type Handler struct {
	logger            *log.Logger
	interviewService  application.InterviewService
	videoService      application.VideoService
	evaluationService application.EvaluationService
	timeout           time.Duration
}

// Config provides dependencies for Handler.
type Config struct {
	Logger            *log.Logger
	InterviewService  application.InterviewService
	VideoService      application.VideoService
	EvaluationService application.EvaluationService
	RequestTimeout    time.Duration
}

// NewHandler constructs the assessment HTTP handler set.
func NewHandler(cfg Config) *Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		logger:            cfg.Logger,
		interviewService:  cfg.InterviewService,
		videoService:      cfg.VideoService,
		evaluationService: cfg.EvaluationService,
		timeout:           timeout,
	}
}

// Register mounts routes onto router. Every route expects an authenticated actor in context.
func (h *Handler) Register(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Post("/", h.interviewCreateHandler())
		r.Get("/", h.interviewListHandler())
		r.Get("/{id}", h.interviewDetailHandler())
		r.Put("/{id}", h.interviewUpdateHandler())
		r.Delete("/{id}", h.interviewDeleteHandler())
	})
	r.Route("/videos", func(r chi.Router) {
		r.Get("/signature", h.videoSignatureHandler())
		r.Post("/", h.videoSaveHandler())
		r.Get("/interview/{interviewId}", h.videoListHandler())
		r.Delete("/{id}", h.videoDeleteHandler())
	})
	r.Route("/evaluations", func(r chi.Router) {
		r.Post("/", h.evaluationCreateHandler())
		r.Get("/video/{videoResponseId}", h.evaluationsByVideoHandler())
		r.Get("/interview/{interviewId}", h.evaluationsByInterviewHandler())
		r.Get("/stats/interview/{interviewId}", h.evaluationStatsHandler())
		r.Put("/{id}", h.evaluationUpdateHandler())
		r.Delete("/{id}", h.evaluationDeleteHandler())
	})
}

// actorHandlerFunc is an http.HandlerFunc that already has the caller resolved.
type actorHandlerFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request, actor domain.Actor)

// withActor resolves the actor and bounds the request with the handler timeout.
func (h *Handler) withActor(next actorHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := common.ActorFromContext(r.Context())
		if !ok || actor.ID == "" {
			common.WriteFailure(h.logger, w, http.StatusUnauthorized, msgUnauthenticated)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		next(ctx, w, r, actor)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	common.WriteError(h.logger, w, r, err)
}
