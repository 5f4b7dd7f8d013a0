package application

import (
	"context"
	"time"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

const msgInterviewNotFound = "Interview not found"

// interviewService implements InterviewService.
type interviewService struct {
	interviews  InterviewRepository
	videos      VideoResponseRepository
	evaluations EvaluationRepository
	media       MediaHost
	policy      Policy
	paging      PagingDefaults
	now         func() time.Time
}

func NewInterviewService(
	interviews InterviewRepository,
	videos VideoResponseRepository,
	evaluations EvaluationRepository,
	media MediaHost,
	policy Policy,
	paging PagingDefaults,
) InterviewService {
	return &interviewService{
		interviews:  interviews,
		videos:      videos,
		evaluations: evaluations,
		media:       media,
		policy:      policy,
		paging:      paging,
		now:         time.Now,
	}
}

func (s *interviewService) Create(ctx context.Context, actor domain.Actor, cmd CreateInterviewCommand) (*domain.Interview, error) {
	cmd.normalize()
	if err := validateCommand(&cmd); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	interview := &domain.Interview{
		Title:       cmd.Title,
		Description: cmd.Description,
		Questions:   append([]string{}, cmd.Questions...),
		CreatorID:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.interviews.Create(ctx, interview); err != nil {
		return nil, domain.InternalError("create interview", err)
	}
	return interview, nil
}

func (s *interviewService) List(ctx context.Context, actor domain.Actor, paging Paging) (*InterviewPage, error) {
	paging = s.paging.Normalize(paging)
	items, total, err := s.interviews.FindByCreator(ctx, actor.ID, paging)
	if err != nil {
		return nil, domain.InternalError("list interviews", err)
	}
	return &InterviewPage{
		Items:      items,
		Pagination: buildPagination(paging, total),
	}, nil
}

func (s *interviewService) Detail(ctx context.Context, actor domain.Actor, id string) (*domain.Interview, error) {
	return s.authorized(ctx, actor, id, "Not authorized to access this interview")
}

func (s *interviewService) Update(ctx context.Context, actor domain.Actor, id string, cmd UpdateInterviewCommand) (*domain.Interview, error) {
	interview, err := s.authorized(ctx, actor, id, "Not authorized to update this interview")
	if err != nil {
		return nil, err
	}

	merged := CreateInterviewCommand{
		Title:       interview.Title,
		Description: interview.Description,
		Questions:   interview.Questions,
	}
	if cmd.Title != nil {
		merged.Title = *cmd.Title
	}
	if cmd.Description != nil {
		merged.Description = *cmd.Description
	}
	if cmd.Questions != nil {
		merged.Questions = cmd.Questions
	}
	merged.normalize()
	if err := validateCommand(&merged); err != nil {
		return nil, err
	}

	interview.Title = merged.Title
	interview.Description = merged.Description
	interview.Questions = append([]string{}, merged.Questions...)
	interview.UpdatedAt = s.now().UTC()
	if err := s.interviews.Update(ctx, interview); err != nil {
		return nil, lookupError(err, msgInterviewNotFound, "update interview")
	}
	return interview, nil
}

// Delete removes the interview together with everything recorded under it.
// Media objects go first; their removal is idempotent so a failed call can be retried.
func (s *interviewService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	interview, err := s.authorized(ctx, actor, id, "Not authorized to delete this interview")
	if err != nil {
		return err
	}

	videos, err := s.videos.FindByInterview(ctx, interview.ID)
	if err != nil {
		return domain.InternalError("list interview videos", err)
	}
	videoIDs := make([]string, 0, len(videos))
	for _, v := range videos {
		if err := s.media.Delete(ctx, v.MediaID); err != nil {
			return domain.InternalError("remove interview media", err)
		}
		videoIDs = append(videoIDs, v.ID)
	}
	if len(videoIDs) > 0 {
		if _, err := s.evaluations.DeleteByVideoResponses(ctx, videoIDs); err != nil {
			return domain.InternalError("delete interview evaluations", err)
		}
	}
	if _, err := s.videos.DeleteByInterview(ctx, interview.ID); err != nil {
		return domain.InternalError("delete interview videos", err)
	}
	if err := s.interviews.Delete(ctx, interview.ID); err != nil {
		return lookupError(err, msgInterviewNotFound, "delete interview")
	}
	return nil
}

func (s *interviewService) authorized(ctx context.Context, actor domain.Actor, id, denied string) (*domain.Interview, error) {
	interview, err := s.interviews.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, msgInterviewNotFound, "find interview")
	}
	if !s.policy.CanManageInterview(actor, interview) {
		return nil, domain.ForbiddenError(denied)
	}
	return interview, nil
}
