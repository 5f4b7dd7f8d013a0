package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

type MockInterviewRepository struct {
	mock.Mock
}

func (m *MockInterviewRepository) Create(ctx context.Context, interview *domain.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}

func (m *MockInterviewRepository) FindByID(ctx context.Context, id string) (*domain.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *MockInterviewRepository) FindByCreator(ctx context.Context, creatorID string, paging application.Paging) ([]domain.Interview, int64, error) {
	args := m.Called(ctx, creatorID, paging)
	items, _ := args.Get(0).([]domain.Interview)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockInterviewRepository) Update(ctx context.Context, interview *domain.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}

func (m *MockInterviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVideoResponseRepository struct {
	mock.Mock
}

func (m *MockVideoResponseRepository) Create(ctx context.Context, video *domain.VideoResponse) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoResponseRepository) FindByID(ctx context.Context, id string) (*domain.VideoResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VideoResponse), args.Error(1)
}

func (m *MockVideoResponseRepository) FindByInterview(ctx context.Context, interviewID string) ([]domain.VideoResponse, error) {
	args := m.Called(ctx, interviewID)
	items, _ := args.Get(0).([]domain.VideoResponse)
	return items, args.Error(1)
}

func (m *MockVideoResponseRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVideoResponseRepository) DeleteByInterview(ctx context.Context, interviewID string) (int64, error) {
	args := m.Called(ctx, interviewID)
	return args.Get(0).(int64), args.Error(1)
}

type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) Create(ctx context.Context, evaluation *domain.Evaluation) error {
	args := m.Called(ctx, evaluation)
	return args.Error(0)
}

func (m *MockEvaluationRepository) FindByID(ctx context.Context, id string) (*domain.Evaluation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepository) FindByPair(ctx context.Context, videoResponseID, evaluatorID string) (*domain.Evaluation, error) {
	args := m.Called(ctx, videoResponseID, evaluatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepository) FindByVideoResponses(ctx context.Context, videoResponseIDs []string) ([]domain.Evaluation, error) {
	args := m.Called(ctx, videoResponseIDs)
	items, _ := args.Get(0).([]domain.Evaluation)
	return items, args.Error(1)
}

func (m *MockEvaluationRepository) Update(ctx context.Context, evaluation *domain.Evaluation) error {
	args := m.Called(ctx, evaluation)
	return args.Error(0)
}

func (m *MockEvaluationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEvaluationRepository) DeleteByVideoResponses(ctx context.Context, videoResponseIDs []string) (int64, error) {
	args := m.Called(ctx, videoResponseIDs)
	return args.Get(0).(int64), args.Error(1)
}

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Identity, error) {
	args := m.Called(ctx, ids)
	people, _ := args.Get(0).(map[string]domain.Identity)
	return people, args.Error(1)
}
