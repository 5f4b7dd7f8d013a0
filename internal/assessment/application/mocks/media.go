package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
)

type MockMediaHost struct {
	mock.Mock
}

func (m *MockMediaHost) SignUpload(ctx context.Context) (*application.UploadSignature, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.UploadSignature), args.Error(1)
}

func (m *MockMediaHost) Delete(ctx context.Context, mediaID string) error {
	args := m.Called(ctx, mediaID)
	return args.Error(0)
}
