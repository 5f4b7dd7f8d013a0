package assessment

import (
	"time"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

type interviewUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Questions   []string `json:"questions"`
}

type interviewResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Questions   []string  `json:"questions"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type pageRefResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type paginationResponse struct {
	Total       int64            `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Next        *pageRefResponse `json:"next,omitempty"`
	Prev        *pageRefResponse `json:"prev,omitempty"`
}

type signatureResponse struct {
	Timestamp int64     `json:"timestamp"`
	Signature string    `json:"signature"`
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	ObjectKey string    `json:"objectKey"`
	Bucket    string    `json:"bucket"`
	Folder    string    `json:"folder"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type videoResponseResponse struct {
	ID            string    `json:"id"`
	Interview     string    `json:"interview"`
	Question      string    `json:"question"`
	QuestionIndex int       `json:"questionIndex"`
	VideoURL      string    `json:"videoUrl"`
	MediaID       string    `json:"mediaId"`
	Duration      float64   `json:"duration"`
	Size          int64     `json:"size"`
	User          string    `json:"user"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type identityResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type videoSummaryResponse struct {
	ID            string            `json:"id"`
	Question      string            `json:"question"`
	QuestionIndex int               `json:"questionIndex"`
	User          *identityResponse `json:"user"`
}

// evaluationResponse carries ids for plain records and embedded objects for listings.
type evaluationResponse struct {
	ID            string    `json:"id"`
	VideoResponse any       `json:"videoResponse"`
	Evaluator     any       `json:"evaluator"`
	Score         int       `json:"score"`
	Comments      string    `json:"comments"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type overallStatsResponse struct {
	TotalEvaluations        int     `json:"totalEvaluations"`
	AverageScore            float64 `json:"averageScore"`
	VideoResponsesEvaluated int     `json:"videoResponsesEvaluated"`
	TotalVideoResponses     int     `json:"totalVideoResponses"`
}

type videoResponseStatsResponse struct {
	VideoResponseID string           `json:"videoResponseId"`
	Question        string           `json:"question"`
	QuestionIndex   int              `json:"questionIndex"`
	Applicant       identityResponse `json:"applicant"`
	AverageScore    float64          `json:"averageScore"`
	MinScore        int              `json:"minScore"`
	MaxScore        int              `json:"maxScore"`
	EvaluationCount int              `json:"evaluationCount"`
}

type statsResponse struct {
	OverallStats       overallStatsResponse         `json:"overallStats"`
	VideoResponseStats []videoResponseStatsResponse `json:"videoResponseStats"`
}

func toInterviewResponse(i domain.Interview) interviewResponse {
	questions := i.Questions
	if questions == nil {
		questions = []string{}
	}
	return interviewResponse{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Questions:   questions,
		CreatedBy:   i.CreatorID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toPaginationResponse(p application.Pagination) paginationResponse {
	resp := paginationResponse{
		Total:       p.Total,
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
	}
	if p.Next != nil {
		resp.Next = &pageRefResponse{Page: p.Next.Page, Limit: p.Next.Limit}
	}
	if p.Prev != nil {
		resp.Prev = &pageRefResponse{Page: p.Prev.Page, Limit: p.Prev.Limit}
	}
	return resp
}

func toSignatureResponse(s application.UploadSignature) signatureResponse {
	return signatureResponse{
		Timestamp: s.Timestamp,
		Signature: s.Signature,
		UploadURL: s.UploadURL,
		PublicURL: s.PublicURL,
		ObjectKey: s.ObjectKey,
		Bucket:    s.Bucket,
		Folder:    s.Folder,
		ExpiresAt: s.ExpiresAt,
	}
}

func toVideoResponse(v domain.VideoResponse) videoResponseResponse {
	return videoResponseResponse{
		ID:            v.ID,
		Interview:     v.InterviewID,
		Question:      v.Question,
		QuestionIndex: v.QuestionIndex,
		VideoURL:      v.VideoURL,
		MediaID:       v.MediaID,
		Duration:      v.Duration,
		Size:          v.Size,
		User:          v.UserID,
		Status:        string(v.Status),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func toIdentityResponse(i *domain.Identity) *identityResponse {
	if i == nil {
		return nil
	}
	return &identityResponse{ID: i.ID, Name: i.Name, Email: i.Email}
}

func toEvaluationResponse(e domain.Evaluation) evaluationResponse {
	return evaluationResponse{
		ID:            e.ID,
		VideoResponse: e.VideoResponseID,
		Evaluator:     e.EvaluatorID,
		Score:         e.Score,
		Comments:      e.Comments,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// toEvaluationViewResponse embeds the evaluator and, when present, the scored video.
// An unresolvable reference is rendered as null.
func toEvaluationViewResponse(v application.EvaluationView) evaluationResponse {
	resp := toEvaluationResponse(v.Evaluation)
	resp.Evaluator = toIdentityResponse(v.Evaluator)
	if v.VideoResponse != nil {
		resp.VideoResponse = videoSummaryResponse{
			ID:            v.VideoResponse.ID,
			Question:      v.VideoResponse.Question,
			QuestionIndex: v.VideoResponse.QuestionIndex,
			User:          toIdentityResponse(v.VideoResponse.User),
		}
	}
	return resp
}

func toStatsResponse(s application.InterviewStats) statsResponse {
	rows := make([]videoResponseStatsResponse, 0, len(s.VideoResponses))
	for _, row := range s.VideoResponses {
		rows = append(rows, videoResponseStatsResponse{
			VideoResponseID: row.VideoResponseID,
			Question:        row.Question,
			QuestionIndex:   row.QuestionIndex,
			Applicant:       identityResponse{ID: row.Applicant.ID, Name: row.Applicant.Name, Email: row.Applicant.Email},
			AverageScore:    row.AverageScore,
			MinScore:        row.MinScore,
			MaxScore:        row.MaxScore,
			EvaluationCount: row.EvaluationCount,
		})
	}
	return statsResponse{
		OverallStats: overallStatsResponse{
			TotalEvaluations:        s.Overall.TotalEvaluations,
			AverageScore:            s.Overall.AverageScore,
			VideoResponsesEvaluated: s.Overall.VideoResponsesEvaluated,
			TotalVideoResponses:     s.Overall.TotalVideoResponses,
		},
		VideoResponseStats: rows,
	}
}
