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

type videoFixture struct {
	interviews *mocks.MockInterviewRepository
	videos     *mocks.MockVideoResponseRepository
	media      *mocks.MockMediaHost
	svc        application.VideoService
}

func newVideoFixture() *videoFixture {
	f := &videoFixture{
		interviews: new(mocks.MockInterviewRepository),
		videos:     new(mocks.MockVideoResponseRepository),
		media:      new(mocks.MockMediaHost),
	}
	f.svc = application.NewVideoService(f.interviews, f.videos, f.media, application.NewPolicy(domain.DefaultRoles()))
	return f
}

func saveCommand() application.SaveVideoCommand {
	idx := 1
	return application.SaveVideoCommand{
		InterviewID:   "i1",
		Question:      "Describe a hard bug",
		QuestionIndex: &idx,
		VideoURL:      "https://media.example.com/video_interviews/abc.webm",
		MediaID:       "video_interviews/abc.webm",
		Duration:      42.5,
		Size:          1 << 20,
	}
}

func TestVideoService_Signature(t *testing.T) {
	ctx := context.Background()
	f := newVideoFixture()
	sig := &application.UploadSignature{Timestamp: 1700000000, Signature: "abc", Folder: "video_interviews", ExpiresAt: time.Unix(1700000900, 0)}
	f.media.On("SignUpload", ctx).Return(sig, nil)

	got, err := f.svc.Signature(ctx, applicant)

	require.NoError(t, err)
	assert.Equal(t, sig, got)

	f = newVideoFixture()
	f.media.On("SignUpload", ctx).Return(nil, errors.New("bad credentials"))
	_, err = f.svc.Signature(ctx, applicant)
	assertKind(t, err, domain.KindInternal)
}

func TestVideoService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("submitter is the actor and status defaults to ready", func(t *testing.T) {
		f := newVideoFixture()
		f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
		f.videos.On("Create", ctx, mock.MatchedBy(func(v *domain.VideoResponse) bool {
			return v.UserID == applicant.ID && v.Status == domain.VideoStatusReady && v.QuestionIndex == 1
		})).Return(nil)

		got, err := f.svc.Save(ctx, applicant, saveCommand())

		require.NoError(t, err)
		assert.Equal(t, "i1", got.InterviewID)
		f.interviews.AssertExpectations(t)
		f.videos.AssertExpectations(t)
	})

	t.Run("unknown interview persists nothing", func(t *testing.T) {
		f := newVideoFixture()
		f.interviews.On("FindByID", ctx, "i1").Return(nil, domain.ErrRecordNotFound)

		_, err := f.svc.Save(ctx, applicant, saveCommand())

		assertKind(t, err, domain.KindNotFound)
		f.videos.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("question index beyond the question list is accepted", func(t *testing.T) {
		f := newVideoFixture()
		cmd := saveCommand()
		idx := 99
		cmd.QuestionIndex = &idx
		cmd.Status = "processing"
		f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
		f.videos.On("Create", ctx, mock.Anything).Return(nil)

		got, err := f.svc.Save(ctx, applicant, cmd)

		require.NoError(t, err)
		assert.Equal(t, domain.VideoStatusProcessing, got.Status)
	})

	t.Run("invalid metadata", func(t *testing.T) {
		f := newVideoFixture()
		cmd := saveCommand()
		cmd.Duration = 0

		_, err := f.svc.Save(ctx, applicant, cmd)

		assertKind(t, err, domain.KindValidation)
		f.interviews.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestVideoService_ListByInterview(t *testing.T) {
	ctx := context.Background()
	videos := []domain.VideoResponse{{ID: "v1"}, {ID: "v2"}}

	f := newVideoFixture()
	f.interviews.On("FindByID", ctx, "i1").Return(sampleInterview(), nil)
	f.videos.On("FindByInterview", ctx, "i1").Return(videos, nil)

	got, err := f.svc.ListByInterview(ctx, creator, "i1")
	require.NoError(t, err)
	assert.Equal(t, videos, got)

	_, err = f.svc.ListByInterview(ctx, applicant, "i1")
	assertKind(t, err, domain.KindForbidden)
}

func TestVideoService_Delete(t *testing.T) {
	ctx := context.Background()
	video := &domain.VideoResponse{ID: "v1", InterviewID: "i1", MediaID: "m1", UserID: applicant.ID}

	t.Run("submitter removes media then record", func(t *testing.T) {
		f := newVideoFixture()
		f.videos.On("FindByID", ctx, "v1").Return(video, nil)
		f.media.On("Delete", ctx, "m1").Return(nil)
		f.videos.On("Delete", ctx, "v1").Return(nil)

		require.NoError(t, f.svc.Delete(ctx, applicant, "v1"))
		f.media.AssertExpectations(t)
		f.videos.AssertExpectations(t)
	})

	t.Run("media failure keeps the record", func(t *testing.T) {
		f := newVideoFixture()
		f.videos.On("FindByID", ctx, "v1").Return(video, nil)
		f.media.On("Delete", ctx, "m1").Return(errors.New("timeout"))

		err := f.svc.Delete(ctx, admin, "v1")

		assertKind(t, err, domain.KindInternal)
		f.videos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("interview creator cannot delete an applicant's video", func(t *testing.T) {
		f := newVideoFixture()
		f.videos.On("FindByID", ctx, "v1").Return(video, nil)

		assertKind(t, f.svc.Delete(ctx, creator, "v1"), domain.KindForbidden)
		f.media.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newVideoFixture()
		f.videos.On("FindByID", ctx, "zzz").Return(nil, domain.ErrRecordNotFound)

		assertKind(t, f.svc.Delete(ctx, admin, "zzz"), domain.KindNotFound)
	})
}
