package assessment

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/assessment/application/mocks"
	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
	"github.com/sngm3741/video-interview/api/internal/interfaces/http/common"
)

var (
	testCreator   = domain.Actor{ID: "u-creator", Role: "interviewer"}
	testEvaluator = domain.Actor{ID: "u-evaluator", Role: "evaluator"}
	fixedTime     = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
)

type testDeps struct {
	interviews  *mocks.MockInterviewService
	videos      *mocks.MockVideoService
	evaluations *mocks.MockEvaluationService
}

func setupRouter(t *testing.T, actor *domain.Actor) (http.Handler, testDeps) {
	t.Helper()
	deps := testDeps{
		interviews:  new(mocks.MockInterviewService),
		videos:      new(mocks.MockVideoService),
		evaluations: new(mocks.MockEvaluationService),
	}
	h := NewHandler(Config{
		Logger:            log.New(io.Discard, "", 0),
		InterviewService:  deps.interviews,
		VideoService:      deps.videos,
		EvaluationService: deps.evaluations,
	})

	r := chi.NewRouter()
	if actor != nil {
		a := *actor
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(common.ContextWithActor(req.Context(), a)))
			})
		})
	}
	h.Register(r)
	t.Cleanup(func() {
		deps.interviews.AssertExpectations(t)
		deps.videos.AssertExpectations(t)
		deps.evaluations.AssertExpectations(t)
	})
	return r, deps
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func intPtr(v int) *int { return &v }

func TestRoutes_RequireActor(t *testing.T) {
	router, _ := setupRouter(t, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/interviews", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, msgUnauthenticated, body["error"])
}

func TestInterviewCreate(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	cmd := application.CreateInterviewCommand{
		Title:       "Backend",
		Description: "Go role",
		Questions:   []string{"Intro"},
	}
	deps.interviews.On("Create", mock.Anything, testCreator, cmd).Return(&domain.Interview{
		ID:          "i1",
		Title:       "Backend",
		Description: "Go role",
		Questions:   []string{"Intro"},
		CreatorID:   testCreator.ID,
		CreatedAt:   fixedTime,
		UpdatedAt:   fixedTime,
	}, nil)

	rec, body := doRequest(t, router, http.MethodPost, "/interviews", cmd)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "i1", data["id"])
	assert.Equal(t, testCreator.ID, data["createdBy"])
	assert.Equal(t, []any{"Intro"}, data["questions"])
}

func TestInterviewCreate_ValidationDetails(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.interviews.On("Create", mock.Anything, testCreator, mock.Anything).
		Return(nil, domain.ValidationError("Title is required", "Description is required"))

	rec, body := doRequest(t, router, http.MethodPost, "/interviews", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"Title is required", "Description is required"}, body["error"])
}

func TestInterviewCreate_MalformedBody(t *testing.T) {
	router, _ := setupRouter(t, &testCreator)

	rec, body := doRequest(t, router, http.MethodPost, "/interviews", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"Invalid request body"}, body["error"])
}

func TestInterviewList_Pagination(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.interviews.On("List", mock.Anything, testCreator, application.Paging{Page: 2, Limit: 1}).
		Return(&application.InterviewPage{
			Items: []domain.Interview{{ID: "i2", Title: "B", CreatorID: testCreator.ID}},
			Pagination: application.Pagination{
				Total:       3,
				TotalPages:  3,
				CurrentPage: 2,
				Next:        &application.PageRef{Page: 3, Limit: 1},
				Prev:        &application.PageRef{Page: 1, Limit: 1},
			},
		}, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/interviews?page=2&limit=1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(3), pagination["total"])
	assert.Equal(t, map[string]any{"page": float64(3), "limit": float64(1)}, pagination["next"])
	assert.Equal(t, map[string]any{"page": float64(1), "limit": float64(1)}, pagination["prev"])
	items := body["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, []any{}, items[0].(map[string]any)["questions"])
}

func TestInterviewList_InvalidQueryFallsBack(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.interviews.On("List", mock.Anything, testCreator, application.Paging{Page: 1, Limit: 0}).
		Return(&application.InterviewPage{Pagination: application.Pagination{CurrentPage: 1}}, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/interviews?page=abc&limit=-5", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []any{}, body["data"])
	pagination := body["pagination"].(map[string]any)
	assert.NotContains(t, pagination, "next")
	assert.NotContains(t, pagination, "prev")
}

func TestInterviewDetail_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", domain.NotFoundError("Interview not found"), http.StatusNotFound, "Interview not found"},
		{"forbidden", domain.ForbiddenError("Not authorized to access this interview"), http.StatusForbidden, "Not authorized to access this interview"},
		{"internal", domain.InternalError("find interview", errors.New("socket closed")), http.StatusInternalServerError, common.MsgServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, common.MsgServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, deps := setupRouter(t, &testCreator)
			deps.interviews.On("Detail", mock.Anything, testCreator, "i1").Return(nil, tc.err)

			rec, body := doRequest(t, router, http.MethodGet, "/interviews/i1", nil)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, body["error"])
		})
	}
}

func TestInterviewUpdate_PartialBody(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	title := "Renamed"
	deps.interviews.On("Update", mock.Anything, testCreator, "i1", application.UpdateInterviewCommand{Title: &title}).
		Return(&domain.Interview{ID: "i1", Title: title, CreatorID: testCreator.ID}, nil)

	rec, body := doRequest(t, router, http.MethodPut, "/interviews/i1", map[string]any{"title": title})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", body["data"].(map[string]any)["title"])
}

func TestInterviewDelete(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.interviews.On("Delete", mock.Anything, testCreator, "i1").Return(nil)

	rec, body := doRequest(t, router, http.MethodDelete, "/interviews/i1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{}, body["data"])
}

func TestVideoSignature(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.videos.On("Signature", mock.Anything, testCreator).Return(&application.UploadSignature{
		Timestamp: 1709283600,
		Signature: "abc123",
		UploadURL: "http://minio:9000/videos/interviews/k.webm?X-Amz-Signature=abc123",
		PublicURL: "http://cdn/videos/interviews/k.webm",
		ObjectKey: "interviews/k.webm",
		Bucket:    "videos",
		Folder:    "interviews",
		ExpiresAt: fixedTime,
	}, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/videos/signature", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1709283600), data["timestamp"])
	assert.Equal(t, "abc123", data["signature"])
	assert.Equal(t, "interviews/k.webm", data["objectKey"])
}

func TestVideoSave(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.videos.On("Save", mock.Anything, testCreator, mock.MatchedBy(func(cmd application.SaveVideoCommand) bool {
		return cmd.InterviewID == "i1" && cmd.QuestionIndex != nil && *cmd.QuestionIndex == 0 && cmd.MediaID == "m1"
	})).Return(&domain.VideoResponse{
		ID:          "v1",
		InterviewID: "i1",
		MediaID:     "m1",
		UserID:      testCreator.ID,
		Status:      domain.VideoStatusReady,
	}, nil)

	rec, body := doRequest(t, router, http.MethodPost, "/videos", map[string]any{
		"interview":     "i1",
		"question":      "Intro",
		"questionIndex": 0,
		"videoUrl":      "http://cdn/v.webm",
		"mediaId":       "m1",
		"duration":      12.5,
		"size":          2048,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "v1", data["id"])
	assert.Equal(t, "ready", data["status"])
	assert.Equal(t, testCreator.ID, data["user"])
}

func TestVideoList(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.videos.On("ListByInterview", mock.Anything, testCreator, "i1").
		Return([]domain.VideoResponse{{ID: "v1"}, {ID: "v2"}}, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/videos/interview/i1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
	assert.NotContains(t, body, "pagination")
}

func TestVideoDelete_MediaFailure(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.videos.On("Delete", mock.Anything, testCreator, "v1").
		Return(domain.InternalError("delete media", domain.ErrMediaHost))

	rec, body := doRequest(t, router, http.MethodDelete, "/videos/v1", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, common.MsgServerError, body["error"])
}

func TestEvaluationCreate(t *testing.T) {
	router, deps := setupRouter(t, &testEvaluator)
	cmd := application.CreateEvaluationCommand{VideoResponseID: "v1", Score: intPtr(8), Comments: "Clear"}
	deps.evaluations.On("Create", mock.Anything, testEvaluator, cmd).Return(&domain.Evaluation{
		ID:              "e1",
		VideoResponseID: "v1",
		EvaluatorID:     testEvaluator.ID,
		Score:           8,
		Comments:        "Clear",
	}, nil)

	rec, body := doRequest(t, router, http.MethodPost, "/evaluations", map[string]any{
		"videoResponse": "v1",
		"score":         8,
		"comments":      "Clear",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "v1", data["videoResponse"])
	assert.Equal(t, testEvaluator.ID, data["evaluator"])
	assert.Equal(t, float64(8), data["score"])
}

func TestEvaluationCreate_Duplicate(t *testing.T) {
	router, deps := setupRouter(t, &testEvaluator)
	deps.evaluations.On("Create", mock.Anything, testEvaluator, mock.Anything).
		Return(nil, domain.DuplicateError("You have already evaluated this video response"))

	rec, body := doRequest(t, router, http.MethodPost, "/evaluations", map[string]any{
		"videoResponse": "v1",
		"score":         5,
		"comments":      "Again",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You have already evaluated this video response", body["error"])
}

func TestEvaluationCreate_WrongScoreType(t *testing.T) {
	router, _ := setupRouter(t, &testEvaluator)

	rec, body := doRequest(t, router, http.MethodPost, "/evaluations", `{"videoResponse":"v1","score":"8","comments":"Clear"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"Score is required and must be an integer between 1 and 10"}, body["error"])
}

func TestEvaluationsByVideo_EmbedsEvaluator(t *testing.T) {
	router, deps := setupRouter(t, &testEvaluator)
	deps.evaluations.On("ListByVideo", mock.Anything, testEvaluator, "v1").Return([]application.EvaluationView{
		{
			Evaluation: domain.Evaluation{ID: "e1", VideoResponseID: "v1", EvaluatorID: "u-evaluator", Score: 7},
			Evaluator:  &domain.Identity{ID: "u-evaluator", Name: "Eve", Email: "eve@example.com"},
		},
		{
			Evaluation: domain.Evaluation{ID: "e2", VideoResponseID: "v1", EvaluatorID: "u-gone", Score: 4},
		},
	}, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/evaluations/video/v1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
	items := body["data"].([]any)
	first := items[0].(map[string]any)
	assert.Equal(t, map[string]any{"id": "u-evaluator", "name": "Eve", "email": "eve@example.com"}, first["evaluator"])
	assert.Equal(t, "v1", first["videoResponse"])
	assert.Nil(t, items[1].(map[string]any)["evaluator"])
}

func TestEvaluationsByInterview_EmbedsVideo(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.evaluations.On("ListByInterview", mock.Anything, testCreator, "i1").Return([]application.EvaluationView{
		{
			Evaluation: domain.Evaluation{ID: "e1", VideoResponseID: "v1", EvaluatorID: "u-evaluator", Score: 9},
			Evaluator:  &domain.Identity{ID: "u-evaluator", Name: "Eve", Email: "eve@example.com"},
			VideoResponse: &application.VideoSummary{
				ID:            "v1",
				Question:      "Intro",
				QuestionIndex: 0,
				User:          &domain.Identity{ID: "u-app", Name: "Ann", Email: "ann@example.com"},
			},
		},
	}, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/evaluations/interview/i1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	video := body["data"].([]any)[0].(map[string]any)["videoResponse"].(map[string]any)
	assert.Equal(t, "v1", video["id"])
	assert.Equal(t, "Intro", video["question"])
	assert.Equal(t, map[string]any{"id": "u-app", "name": "Ann", "email": "ann@example.com"}, video["user"])
}

func TestEvaluationStats(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.evaluations.On("InterviewStats", mock.Anything, testCreator, "i1").Return(&application.InterviewStats{
		Overall: application.OverallStats{
			TotalEvaluations:        3,
			AverageScore:            7.3,
			VideoResponsesEvaluated: 1,
			TotalVideoResponses:     2,
		},
		VideoResponses: []application.VideoResponseStats{{
			VideoResponseID: "v1",
			Question:        "Intro",
			Applicant:       domain.Identity{ID: "u-app", Name: "Ann", Email: "ann@example.com"},
			AverageScore:    7.3,
			MinScore:        6,
			MaxScore:        9,
			EvaluationCount: 3,
		}},
	}, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/evaluations/stats/interview/i1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	overall := data["overallStats"].(map[string]any)
	assert.Equal(t, float64(3), overall["totalEvaluations"])
	assert.Equal(t, 7.3, overall["averageScore"])
	assert.Equal(t, float64(2), overall["totalVideoResponses"])
	rows := data["videoResponseStats"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "v1", row["videoResponseId"])
	assert.Equal(t, "Ann", row["applicant"].(map[string]any)["name"])
	assert.Equal(t, float64(6), row["minScore"])
}

func TestEvaluationStats_EmptyRows(t *testing.T) {
	router, deps := setupRouter(t, &testCreator)
	deps.evaluations.On("InterviewStats", mock.Anything, testCreator, "i1").
		Return(&application.InterviewStats{}, nil)

	_, body := doRequest(t, router, http.MethodGet, "/evaluations/stats/interview/i1", nil)

	data := body["data"].(map[string]any)
	assert.Equal(t, []any{}, data["videoResponseStats"])
}

func TestEvaluationUpdate_Forbidden(t *testing.T) {
	router, deps := setupRouter(t, &testEvaluator)
	deps.evaluations.On("Update", mock.Anything, testEvaluator, "e1", application.UpdateEvaluationCommand{Score: intPtr(3), Comments: "Meh"}).
		Return(nil, domain.ForbiddenError("Not authorized to update this evaluation"))

	rec, body := doRequest(t, router, http.MethodPut, "/evaluations/e1", map[string]any{"score": 3, "comments": "Meh"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to update this evaluation", body["error"])
}

func TestEvaluationDelete(t *testing.T) {
	router, deps := setupRouter(t, &testEvaluator)
	deps.evaluations.On("Delete", mock.Anything, testEvaluator, "e1").Return(nil)

	rec, body := doRequest(t, router, http.MethodDelete, "/evaluations/e1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{}, body["data"])
}
