package application

import (
	"context"
	"time"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// InterviewRepository persists interviews.
type InterviewRepository interface {
	Create(ctx context.Context, interview *domain.Interview) error
	FindByID(ctx context.Context, id string) (*domain.Interview, error)
	FindByCreator(ctx context.Context, creatorID string, paging Paging) ([]domain.Interview, int64, error)
	Update(ctx context.Context, interview *domain.Interview) error
	Delete(ctx context.Context, id string) error
}

// VideoResponseRepository persists video response metadata.
type VideoResponseRepository interface {
	Create(ctx context.Context, video *domain.VideoResponse) error
	FindByID(ctx context.Context, id string) (*domain.VideoResponse, error)
	// FindByInterview returns responses ordered by questionIndex asc, createdAt desc.
	FindByInterview(ctx context.Context, interviewID string) ([]domain.VideoResponse, error)
	Delete(ctx context.Context, id string) error
	DeleteByInterview(ctx context.Context, interviewID string) (int64, error)
}

// EvaluationRepository persists evaluations. Create must return domain.ErrDuplicateRecord
// when the (videoResponse, evaluator) pair already exists.
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *domain.Evaluation) error
	FindByID(ctx context.Context, id string) (*domain.Evaluation, error)
	FindByPair(ctx context.Context, videoResponseID, evaluatorID string) (*domain.Evaluation, error)
	// FindByVideoResponses returns evaluations newest first.
	FindByVideoResponses(ctx context.Context, videoResponseIDs []string) ([]domain.Evaluation, error)
	Update(ctx context.Context, evaluation *domain.Evaluation) error
	Delete(ctx context.Context, id string) error
	DeleteByVideoResponses(ctx context.Context, videoResponseIDs []string) (int64, error)
}

// IdentityRepository reads user records owned by the auth subsystem.
type IdentityRepository interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Identity, error)
}

// MediaHost is the external service storing uploaded videos.
type MediaHost interface {
	SignUpload(ctx context.Context) (*UploadSignature, error)
	Delete(ctx context.Context, mediaID string) error
}

// UploadSignature lets a client upload directly to the media host.
type UploadSignature struct {
	Timestamp int64
	Signature string
	UploadURL string
	// PublicURL is where the object is served once uploaded.
	PublicURL string
	ObjectKey string
	Bucket    string
	Folder    string
	ExpiresAt time.Time
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// Skip returns the number of records before the page.
func (p Paging) Skip() int64 {
	if p.Page <= 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int
	Limit int
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Total       int64
	TotalPages  int
	CurrentPage int
	Next        *PageRef
	Prev        *PageRef
}

// InterviewPage is one page of a creator's interviews.
type InterviewPage struct {
	Items      []domain.Interview
	Pagination Pagination
}

// VideoSummary is the slice of a video response embedded in evaluation listings.
type VideoSummary struct {
	ID            string
	Question      string
	QuestionIndex int
	User          *domain.Identity
}

// EvaluationView is an evaluation enriched with its evaluator and, for
// interview-wide listings, the video response it scores.
type EvaluationView struct {
	domain.Evaluation
	Evaluator     *domain.Identity
	VideoResponse *VideoSummary
}

// InterviewService describes interview use-cases.
type InterviewService interface {
	Create(ctx context.Context, actor domain.Actor, cmd CreateInterviewCommand) (*domain.Interview, error)
	List(ctx context.Context, actor domain.Actor, paging Paging) (*InterviewPage, error)
	Detail(ctx context.Context, actor domain.Actor, id string) (*domain.Interview, error)
	Update(ctx context.Context, actor domain.Actor, id string, cmd UpdateInterviewCommand) (*domain.Interview, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// VideoService describes video response use-cases.
type VideoService interface {
	Signature(ctx context.Context, actor domain.Actor) (*UploadSignature, error)
	Save(ctx context.Context, actor domain.Actor, cmd SaveVideoCommand) (*domain.VideoResponse, error)
	ListByInterview(ctx context.Context, actor domain.Actor, interviewID string) ([]domain.VideoResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// EvaluationService describes evaluation and statistics use-cases.
type EvaluationService interface {
	Create(ctx context.Context, actor domain.Actor, cmd CreateEvaluationCommand) (*domain.Evaluation, error)
	ListByVideo(ctx context.Context, actor domain.Actor, videoResponseID string) ([]EvaluationView, error)
	ListByInterview(ctx context.Context, actor domain.Actor, interviewID string) ([]EvaluationView, error)
	Update(ctx context.Context, actor domain.Actor, id string, cmd UpdateEvaluationCommand) (*domain.Evaluation, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	InterviewStats(ctx context.Context, actor domain.Actor, interviewID string) (*InterviewStats, error)
}

// CreateInterviewCommand contains inputs for creating an interview.
type CreateInterviewCommand struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"required"`
	Questions   []string `json:"questions" validate:"required,min=1,dive,required"`
}

// UpdateInterviewCommand replaces only the fields that are set.
type UpdateInterviewCommand struct {
	Title       *string
	Description *string
	Questions   []string
}

// SaveVideoCommand records metadata for an upload that already reached the media host.
type SaveVideoCommand struct {
	InterviewID   string  `json:"interview" validate:"required"`
	Question      string  `json:"question" validate:"required"`
	QuestionIndex *int    `json:"questionIndex" validate:"required,min=0"`
	VideoURL      string  `json:"videoUrl" validate:"required"`
	MediaID       string  `json:"mediaId" validate:"required"`
	Duration      float64 `json:"duration" validate:"gt=0"`
	Size          int64   `json:"size" validate:"gt=0"`
	Status        string  `json:"status" validate:"omitempty,oneof=processing ready error"`
}

// CreateEvaluationCommand contains inputs for scoring a video response.
type CreateEvaluationCommand struct {
	VideoResponseID string `json:"videoResponse" validate:"required"`
	Score           *int   `json:"score" validate:"required,min=1,max=10"`
	Comments        string `json:"comments" validate:"required"`
}

// UpdateEvaluationCommand replaces score and comments.
type UpdateEvaluationCommand struct {
	Score    *int   `json:"score" validate:"required,min=1,max=10"`
	Comments string `json:"comments" validate:"required"`
}

// PagingDefaults bounds page sizes for list use-cases.
type PagingDefaults struct {
	DefaultLimit int
	MaxLimit     int
}

// Normalize clamps p into the configured bounds.
func (d PagingDefaults) Normalize(p Paging) Paging {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = d.DefaultLimit
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if d.MaxLimit > 0 && p.Limit > d.MaxLimit {
		p.Limit = d.MaxLimit
	}
	return p
}
