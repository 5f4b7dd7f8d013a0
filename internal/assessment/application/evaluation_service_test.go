package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/assessment/application/mocks"
	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

type evaluationFixture struct {
	interviews  *mocks.MockInterviewRepository
	videos      *mocks.MockVideoResponseRepository
	evaluations *mocks.MockEvaluationRepository
	identities  *mocks.MockIdentityRepository
	svc         application.EvaluationService
}

func newEvaluationFixture() *evaluationFixture {
	f := &evaluationFixture{
		interviews:  new(mocks.MockInterviewRepository),
		videos:      new(mocks.MockVideoResponseRepository),
		evaluations: new(mocks.MockEvaluationRepository),
		identities:  new(mocks.MockIdentityRepository),
	}
	f.svc = application.NewEvaluationService(f.interviews, f.videos, f.evaluations, f.identities, application.NewPolicy(domain.DefaultRoles()))
	return f
}

func sampleVideo() *domain.VideoResponse {
	return &domain.VideoResponse{ID: "v1", InterviewID: "i1", Question: "Introduce yourself", QuestionIndex: 0, UserID: applicant.ID, MediaID: "m1"}
}

func createCommand(score int) application.CreateEvaluationCommand {
	return application.CreateEvaluationCommand{VideoResponseID: "v1", Score: &score, Comments: " clear and concise "}
}

func TestEvaluationService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		actor      domain.Actor
		cmd        application.CreateEvaluationCommand
		setupMocks func(f *evaluationFixture)
		wantKind   domain.ErrorKind
		wantMsg    string
		persisted  bool
	}{
		{
			name:  "evaluator scores a response",
			actor: evaluator,
			cmd:   createCommand(8),
			setupMocks: func(f *evaluationFixture) {
				f.videos.On("FindByID", ctx, "v1").Return(sampleVideo(), nil)
				f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
				f.evaluations.On("FindByPair", ctx, "v1", evaluator.ID).Return(nil, domain.ErrRecordNotFound)
				f.evaluations.On("Create", ctx, mock.MatchedBy(func(e *domain.Evaluation) bool {
					return e.EvaluatorID == evaluator.ID && e.Score == 8 && e.Comments == "clear and concise"
				})).Return(nil)
			},
			persisted: true,
		},
		{
			name:     "score out of range",
			actor:    evaluator,
			cmd:      createCommand(11),
			wantKind: domain.KindValidation,
		},
		{
			name:  "missing video response",
			actor: evaluator,
			cmd:   createCommand(5),
			setupMocks: func(f *evaluationFixture) {
				f.videos.On("FindByID", ctx, "v1").Return(nil, domain.ErrRecordNotFound)
			},
			wantKind: domain.KindNotFound,
			wantMsg:  "Video response not found",
		},
		{
			name:  "orphaned video response",
			actor: evaluator,
			cmd:   createCommand(5),
			setupMocks: func(f *evaluationFixture) {
				f.videos.On("FindByID", ctx, "v1").Return(sampleVideo(), nil)
				f.interviews.On("FindByID", ctx, "i1").Return(nil, domain.ErrRecordNotFound)
			},
			wantKind: domain.KindNotFound,
			wantMsg:  "Associated interview not found",
		},
		{
			name:  "interviewer may not evaluate",
			actor: creator,
			cmd:   createCommand(5),
			setupMocks: func(f *evaluationFixture) {
				f.videos.On("FindByID", ctx, "v1").Return(sampleVideo(), nil)
				f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
			},
			wantKind: domain.KindForbidden,
		},
		{
			name:  "second evaluation by the same evaluator",
			actor: evaluator,
			cmd:   createCommand(5),
			setupMocks: func(f *evaluationFixture) {
				f.videos.On("FindByID", ctx, "v1").Return(sampleVideo(), nil)
				f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
				f.evaluations.On("FindByPair", ctx, "v1", evaluator.ID).Return(&domain.Evaluation{ID: "e1"}, nil)
			},
			wantKind: domain.KindDuplicate,
			wantMsg:  "You have already evaluated this video response",
		},
		{
			name:  "racing duplicate caught by the unique index",
			actor: admin,
			cmd:   createCommand(5),
			setupMocks: func(f *evaluationFixture) {
				f.videos.On("FindByID", ctx, "v1").Return(sampleVideo(), nil)
				f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
				f.evaluations.On("FindByPair", ctx, "v1", admin.ID).Return(nil, domain.ErrRecordNotFound)
				f.evaluations.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateRecord)
			},
			wantKind: domain.KindDuplicate,
			wantMsg:  "You have already evaluated this video response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEvaluationFixture()
			if tt.setupMocks != nil {
				tt.setupMocks(f)
			}

			got, err := f.svc.Create(ctx, tt.actor, tt.cmd)

			if tt.persisted {
				require.NoError(t, err)
				assert.Equal(t, "v1", got.VideoResponseID)
				assert.Equal(t, got.CreatedAt, got.UpdatedAt)
			} else {
				assertKind(t, err, tt.wantKind)
				if tt.wantMsg != "" {
					var de *domain.Error
					require.ErrorAs(t, err, &de)
					assert.Equal(t, tt.wantMsg, de.Message)
				}
			}
			if !tt.persisted && tt.wantKind != domain.KindDuplicate {
				f.evaluations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			f.videos.AssertExpectations(t)
			f.interviews.AssertExpectations(t)
			f.evaluations.AssertExpectations(t)
		})
	}
}

func TestEvaluationService_Update(t *testing.T) {
	ctx := context.Background()
	score := 9
	stamp := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)

	t.Run("owner update moves updatedAt forward", func(t *testing.T) {
		f := newEvaluationFixture()
		existing := &domain.Evaluation{ID: "e1", VideoResponseID: "v1", EvaluatorID: evaluator.ID, Score: 4, Comments: "meh", CreatedAt: stamp, UpdatedAt: stamp}
		f.evaluations.On("FindByID", ctx, "e1").Return(existing, nil)
		f.evaluations.On("Update", ctx, mock.Anything).Return(nil)

		got, err := f.svc.Update(ctx, evaluator, "e1", application.UpdateEvaluationCommand{Score: &score, Comments: "better on reflection"})

		require.NoError(t, err)
		assert.Equal(t, 9, got.Score)
		assert.True(t, got.UpdatedAt.After(stamp))
		f.evaluations.AssertExpectations(t)
	})

	t.Run("another evaluator is forbidden", func(t *testing.T) {
		f := newEvaluationFixture()
		f.evaluations.On("FindByID", ctx, "e1").Return(&domain.Evaluation{ID: "e1", EvaluatorID: evaluator.ID}, nil)

		_, err := f.svc.Update(ctx, domain.Actor{ID: "other", Role: "evaluator"}, "e1", application.UpdateEvaluationCommand{Score: &score, Comments: "x"})

		assertKind(t, err, domain.KindForbidden)
		f.evaluations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("empty comments rejected", func(t *testing.T) {
		f := newEvaluationFixture()

		_, err := f.svc.Update(ctx, evaluator, "e1", application.UpdateEvaluationCommand{Score: &score, Comments: "  "})

		assertKind(t, err, domain.KindValidation)
		f.evaluations.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.evaluations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalid score is rejected before ownership is checked", func(t *testing.T) {
		f := newEvaluationFixture()
		tooHigh := 11

		_, err := f.svc.Update(ctx, domain.Actor{ID: "other", Role: "evaluator"}, "e1", application.UpdateEvaluationCommand{Score: &tooHigh, Comments: "x"})

		assertKind(t, err, domain.KindValidation)
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, []string{"Score cannot exceed 10"}, de.Details)
		f.evaluations.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestEvaluationService_Delete(t *testing.T) {
	ctx := context.Background()

	f := newEvaluationFixture()
	f.evaluations.On("FindByID", ctx, "e1").Return(&domain.Evaluation{ID: "e1", EvaluatorID: evaluator.ID}, nil)
	f.evaluations.On("Delete", ctx, "e1").Return(nil).Once()

	assertKind(t, f.svc.Delete(ctx, creator, "e1"), domain.KindForbidden)
	require.NoError(t, f.svc.Delete(ctx, admin, "e1"))
	f.evaluations.AssertExpectations(t)

	f = newEvaluationFixture()
	f.evaluations.On("FindByID", ctx, "not-an-id").Return(nil, domain.ErrRecordNotFound)
	assertKind(t, f.svc.Delete(ctx, admin, "not-an-id"), domain.KindNotFound)
}

func TestEvaluationService_ListByVideo(t *testing.T) {
	ctx := context.Background()
	evaluations := []domain.Evaluation{
		{ID: "e2", VideoResponseID: "v1", EvaluatorID: evaluator.ID, Score: 7},
		{ID: "e1", VideoResponseID: "v1", EvaluatorID: "gone", Score: 5},
	}

	f := newEvaluationFixture()
	f.videos.On("FindByID", ctx, "v1").Return(sampleVideo(), nil)
	f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
	f.evaluations.On("FindByVideoResponses", ctx, []string{"v1"}).Return(evaluations, nil)
	f.identities.On("FindByIDs", ctx, []string{evaluator.ID, "gone"}).Return(map[string]domain.Identity{
		evaluator.ID: {ID: evaluator.ID, Name: "Eve", Email: "eve@example.com", Role: "evaluator"},
	}, nil)

	views, err := f.svc.ListByVideo(ctx, applicant, "v1")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "e2", views[0].ID)
	assert.Equal(t, &domain.Identity{ID: evaluator.ID, Name: "Eve", Email: "eve@example.com"}, views[0].Evaluator)
	assert.Nil(t, views[1].Evaluator)
	assert.Nil(t, views[0].VideoResponse)

	_, err = f.svc.ListByVideo(ctx, stranger, "v1")
	assertKind(t, err, domain.KindForbidden)

	t.Run("video whose interview is gone", func(t *testing.T) {
		f := newEvaluationFixture()
		f.videos.On("FindByID", ctx, "v1").Return(sampleVideo(), nil)
		f.interviews.On("FindByID", ctx, "i1").Return(nil, domain.ErrRecordNotFound)

		views, err := f.svc.ListByVideo(ctx, evaluator, "v1")

		assert.Nil(t, views)
		assertKind(t, err, domain.KindNotFound)
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "Associated interview not found", de.Message)
		f.evaluations.AssertNotCalled(t, "FindByVideoResponses", mock.Anything, mock.Anything)
	})

	t.Run("interview lookup failure is internal", func(t *testing.T) {
		f := newEvaluationFixture()
		f.videos.On("FindByID", ctx, "v1").Return(sampleVideo(), nil)
		f.interviews.On("FindByID", ctx, "i1").Return(nil, errors.New("connection reset"))

		_, err := f.svc.ListByVideo(ctx, admin, "v1")

		assertKind(t, err, domain.KindInternal)
	})
}

func TestEvaluationService_ListByInterview(t *testing.T) {
	ctx := context.Background()
	videos := []domain.VideoResponse{*sampleVideo()}
	evaluations := []domain.Evaluation{{ID: "e1", VideoResponseID: "v1", EvaluatorID: evaluator.ID, Score: 6}}

	f := newEvaluationFixture()
	f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
	f.videos.On("FindByInterview", ctx, "i1").Return(videos, nil)
	f.evaluations.On("FindByVideoResponses", ctx, []string{"v1"}).Return(evaluations, nil)
	f.identities.On("FindByIDs", ctx, []string{evaluator.ID, applicant.ID}).Return(map[string]domain.Identity{
		evaluator.ID: {ID: evaluator.ID, Name: "Eve"},
		applicant.ID: {ID: applicant.ID, Name: "Ann"},
	}, nil)

	views, err := f.svc.ListByInterview(ctx, evaluator, "i1")

	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].VideoResponse)
	assert.Equal(t, "Introduce yourself", views[0].VideoResponse.Question)
	assert.Equal(t, "Ann", views[0].VideoResponse.User.Name)
	assert.Equal(t, "Eve", views[0].Evaluator.Name)

	_, err = f.svc.ListByInterview(ctx, applicant, "i1")
	assertKind(t, err, domain.KindForbidden)
}

func TestEvaluationService_InterviewStats(t *testing.T) {
	ctx := context.Background()
	videos := []domain.VideoResponse{
		{ID: "v1", InterviewID: "i1", UserID: applicant.ID, Question: "q0", QuestionIndex: 0},
		{ID: "v2", InterviewID: "i1", UserID: applicant.ID, Question: "q1", QuestionIndex: 1},
	}
	evaluations := []domain.Evaluation{
		{ID: "e1", VideoResponseID: "v1", EvaluatorID: "x1", Score: 8},
		{ID: "e2", VideoResponseID: "v1", EvaluatorID: "x2", Score: 6},
	}

	f := newEvaluationFixture()
	f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
	f.videos.On("FindByInterview", ctx, "i1").Return(videos, nil)
	f.evaluations.On("FindByVideoResponses", ctx, []string{"v1", "v2"}).Return(evaluations, nil)
	f.identities.On("FindByIDs", ctx, []string{applicant.ID}).Return(map[string]domain.Identity{
		applicant.ID: {ID: applicant.ID, Name: "Ann", Email: "ann@example.com"},
	}, nil)

	stats, err := f.svc.InterviewStats(ctx, creator, "i1")

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Overall.TotalEvaluations)
	assert.Equal(t, 7.0, stats.Overall.AverageScore)
	assert.Equal(t, 1, stats.Overall.VideoResponsesEvaluated)
	assert.Equal(t, 2, stats.Overall.TotalVideoResponses)
	require.Len(t, stats.VideoResponses, 1)
	assert.Equal(t, 6, stats.VideoResponses[0].MinScore)
	assert.Equal(t, 8, stats.VideoResponses[0].MaxScore)

	_, err = f.svc.InterviewStats(ctx, applicant, "i1")
	assertKind(t, err, domain.KindForbidden)

	f = newEvaluationFixture()
	f.interviews.On("FindByID", ctx, "bad").Return(nil, errors.New("connection reset"))
	_, err = f.svc.InterviewStats(ctx, admin, "bad")
	assertKind(t, err, domain.KindInternal)
}
