package application

import (
	"context"
	"time"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

const msgVideoNotFound = "Video not found"

// videoService implements VideoService.
type videoService struct {
	interviews InterviewRepository
	videos     VideoResponseRepository
	media      MediaHost
	policy     Policy
	now        func() time.Time
}

func NewVideoService(interviews InterviewRepository, videos VideoResponseRepository, media MediaHost, policy Policy) VideoService {
	return &videoService{
		interviews: interviews,
		videos:     videos,
		media:      media,
		policy:     policy,
		now:        time.Now,
	}
}

func (s *videoService) Signature(ctx context.Context, _ domain.Actor) (*UploadSignature, error) {
	sig, err := s.media.SignUpload(ctx)
	if err != nil {
		return nil, domain.InternalError("sign upload", err)
	}
	return sig, nil
}

func (s *videoService) Save(ctx context.Context, actor domain.Actor, cmd SaveVideoCommand) (*domain.VideoResponse, error) {
	cmd.normalize()
	if err := validateCommand(&cmd); err != nil {
		return nil, err
	}
	if _, err := s.interviews.FindByID(ctx, cmd.InterviewID); err != nil {
		return nil, lookupError(err, msgInterviewNotFound, "find interview")
	}

	status := domain.VideoStatus(cmd.Status)
	if status == "" {
		status = domain.VideoStatusReady
	}
	now := s.now().UTC()
	video := &domain.VideoResponse{
		InterviewID:   cmd.InterviewID,
		Question:      cmd.Question,
		QuestionIndex: *cmd.QuestionIndex,
		VideoURL:      cmd.VideoURL,
		MediaID:       cmd.MediaID,
		Duration:      cmd.Duration,
		Size:          cmd.Size,
		UserID:        actor.ID,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, domain.InternalError("save video response", err)
	}
	return video, nil
}

func (s *videoService) ListByInterview(ctx context.Context, actor domain.Actor, interviewID string) ([]domain.VideoResponse, error) {
	interview, err := s.interviews.FindByID(ctx, interviewID)
	if err != nil {
		return nil, lookupError(err, msgInterviewNotFound, "find interview")
	}
	if !s.policy.CanListVideoResponses(actor, interview) {
		return nil, domain.ForbiddenError("Not authorized to access these videos")
	}
	videos, err := s.videos.FindByInterview(ctx, interview.ID)
	if err != nil {
		return nil, domain.InternalError("list video responses", err)
	}
	return videos, nil
}

// Delete removes the hosted media before the record. When the media host
// fails the record stays in place.
func (s *videoService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, msgVideoNotFound, "find video response")
	}
	if !s.policy.CanDeleteVideoResponse(actor, video) {
		return domain.ForbiddenError("Not authorized to delete this video")
	}
	if err := s.media.Delete(ctx, video.MediaID); err != nil {
		return domain.InternalError("remove video media", err)
	}
	if err := s.videos.Delete(ctx, video.ID); err != nil {
		return lookupError(err, msgVideoNotFound, "delete video response")
	}
	return nil
}
