package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

type MockInterviewService struct {
	mock.Mock
}

func (m *MockInterviewService) Create(ctx context.Context, actor domain.Actor, cmd application.CreateInterviewCommand) (*domain.Interview, error) {
	args := m.Called(ctx, actor, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *MockInterviewService) List(ctx context.Context, actor domain.Actor, paging application.Paging) (*application.InterviewPage, error) {
	args := m.Called(ctx, actor, paging)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.InterviewPage), args.Error(1)
}

func (m *MockInterviewService) Detail(ctx context.Context, actor domain.Actor, id string) (*domain.Interview, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *MockInterviewService) Update(ctx context.Context, actor domain.Actor, id string, cmd application.UpdateInterviewCommand) (*domain.Interview, error) {
	args := m.Called(ctx, actor, id, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *MockInterviewService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) Signature(ctx context.Context, actor domain.Actor) (*application.UploadSignature, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.UploadSignature), args.Error(1)
}

func (m *MockVideoService) Save(ctx context.Context, actor domain.Actor, cmd application.SaveVideoCommand) (*domain.VideoResponse, error) {
	args := m.Called(ctx, actor, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VideoResponse), args.Error(1)
}

func (m *MockVideoService) ListByInterview(ctx context.Context, actor domain.Actor, interviewID string) ([]domain.VideoResponse, error) {
	args := m.Called(ctx, actor, interviewID)
	items, _ := args.Get(0).([]domain.VideoResponse)
	return items, args.Error(1)
}

func (m *MockVideoService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockEvaluationService struct {
	mock.Mock
}

func (m *MockEvaluationService) Create(ctx context.Context, actor domain.Actor, cmd application.CreateEvaluationCommand) (*domain.Evaluation, error) {
	args := m.Called(ctx, actor, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationService) ListByVideo(ctx context.Context, actor domain.Actor, videoResponseID string) ([]application.EvaluationView, error) {
	args := m.Called(ctx, actor, videoResponseID)
	items, _ := args.Get(0).([]application.EvaluationView)
	return items, args.Error(1)
}

func (m *MockEvaluationService) ListByInterview(ctx context.Context, actor domain.Actor, interviewID string) ([]application.EvaluationView, error) {
	args := m.Called(ctx, actor, interviewID)
	items, _ := args.Get(0).([]application.EvaluationView)
	return items, args.Error(1)
}

func (m *MockEvaluationService) Update(ctx context.Context, actor domain.Actor, id string, cmd application.UpdateEvaluationCommand) (*domain.Evaluation, error) {
	args := m.Called(ctx, actor, id, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockEvaluationService) InterviewStats(ctx context.Context, actor domain.Actor, interviewID string) (*application.InterviewStats, error) {
	args := m.Called(ctx, actor, interviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.InterviewStats), args.Error(1)
}
