package application

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

const (
	msgVideoResponseNotFound = "Video response not found"
	msgEvaluationNotFound    = "Evaluation not found"
	msgAlreadyEvaluated      = "You have already evaluated this video response"
	msgParentInterviewGone   = "Associated interview not found"
)

// evaluationService implements EvaluationService.
type evaluationService struct {
	interviews  InterviewRepository
	videos      VideoResponseRepository
	evaluations EvaluationRepository
	identities  IdentityRepository
	policy      Policy
	now         func() time.Time
}

func NewEvaluationService(
	interviews InterviewRepository,
	videos VideoResponseRepository,
	evaluations EvaluationRepository,
	identities IdentityRepository,
	policy Policy,
) EvaluationService {
	return &evaluationService{
		interviews:  interviews,
		videos:      videos,
		evaluations: evaluations,
		identities:  identities,
		policy:      policy,
		now:         time.Now,
	}
}

func (s *evaluationService) Create(ctx context.Context, actor domain.Actor, cmd CreateEvaluationCommand) (*domain.Evaluation, error) {
	cmd.normalize()
	if err := validateCommand(&cmd); err != nil {
		return nil, err
	}
	video, err := s.videos.FindByID(ctx, cmd.VideoResponseID)
	if err != nil {
		return nil, lookupError(err, msgVideoResponseNotFound, "find video response")
	}
	if _, err := s.interviews.FindByID(ctx, video.InterviewID); err != nil {
		return nil, lookupError(err, msgParentInterviewGone, "find interview")
	}
	if !s.policy.CanCreateEvaluation(actor) {
		return nil, domain.ForbiddenError("Not authorized to submit evaluations")
	}

	switch _, err := s.evaluations.FindByPair(ctx, video.ID, actor.ID); {
	case err == nil:
		return nil, domain.DuplicateError(msgAlreadyEvaluated)
	case !errors.Is(err, domain.ErrRecordNotFound):
		return nil, domain.InternalError("find evaluation", err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	evaluation := &domain.Evaluation{
		VideoResponseID: video.ID,
		EvaluatorID:     actor.ID,
		Score:           *cmd.Score,
		Comments:        cmd.Comments,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.evaluations.Create(ctx, evaluation); err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return nil, domain.DuplicateError(msgAlreadyEvaluated)
		}
		return nil, domain.InternalError("create evaluation", err)
	}
	return evaluation, nil
}

func (s *evaluationService) ListByVideo(ctx context.Context, actor domain.Actor, videoResponseID string) ([]EvaluationView, error) {
	video, err := s.videos.FindByID(ctx, videoResponseID)
	if err != nil {
		return nil, lookupError(err, msgVideoResponseNotFound, "find video response")
	}
	interview, err := s.interviews.FindByID(ctx, video.InterviewID)
	if err != nil {
		return nil, lookupError(err, msgParentInterviewGone, "find interview")
	}
	if !s.policy.CanReadVideoEvaluations(actor, video, interview) {
		return nil, domain.ForbiddenError("Not authorized to access these evaluations")
	}

	evaluations, err := s.evaluations.FindByVideoResponses(ctx, []string{video.ID})
	if err != nil {
		return nil, domain.InternalError("list evaluations", err)
	}
	people, err := s.lookupIdentities(ctx, evaluatorIDs(evaluations))
	if err != nil {
		return nil, err
	}
	views := make([]EvaluationView, 0, len(evaluations))
	for _, e := range evaluations {
		views = append(views, EvaluationView{Evaluation: e, Evaluator: publicIdentity(people, e.EvaluatorID)})
	}
	return views, nil
}

func (s *evaluationService) ListByInterview(ctx context.Context, actor domain.Actor, interviewID string) ([]EvaluationView, error) {
	interview, err := s.interviews.FindByID(ctx, interviewID)
	if err != nil {
		return nil, lookupError(err, msgInterviewNotFound, "find interview")
	}
	if !s.policy.CanReadInterviewEvaluations(actor, interview) {
		return nil, domain.ForbiddenError("Not authorized to access these evaluations")
	}

	videos, err := s.videos.FindByInterview(ctx, interview.ID)
	if err != nil {
		return nil, domain.InternalError("list video responses", err)
	}
	if len(videos) == 0 {
		return []EvaluationView{}, nil
	}
	byID := make(map[string]domain.VideoResponse, len(videos))
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
		ids = append(ids, v.ID)
	}
	evaluations, err := s.evaluations.FindByVideoResponses(ctx, ids)
	if err != nil {
		return nil, domain.InternalError("list evaluations", err)
	}

	personIDs := evaluatorIDs(evaluations)
	for _, v := range videos {
		personIDs = append(personIDs, v.UserID)
	}
	people, err := s.lookupIdentities(ctx, personIDs)
	if err != nil {
		return nil, err
	}

	views := make([]EvaluationView, 0, len(evaluations))
	for _, e := range evaluations {
		view := EvaluationView{Evaluation: e, Evaluator: publicIdentity(people, e.EvaluatorID)}
		if v, ok := byID[e.VideoResponseID]; ok {
			view.VideoResponse = &VideoSummary{
				ID:            v.ID,
				Question:      v.Question,
				QuestionIndex: v.QuestionIndex,
				User:          publicIdentity(people, v.UserID),
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *evaluationService) Update(ctx context.Context, actor domain.Actor, id string, cmd UpdateEvaluationCommand) (*domain.Evaluation, error) {
	cmd.normalize()
	if err := validateCommand(&cmd); err != nil {
		return nil, err
	}
	evaluation, err := s.owned(ctx, actor, id, "Not authorized to update this evaluation")
	if err != nil {
		return nil, err
	}
	evaluation.Score = *cmd.Score
	evaluation.Comments = cmd.Comments
	evaluation.Touch(s.now())
	if err := s.evaluations.Update(ctx, evaluation); err != nil {
		return nil, lookupError(err, msgEvaluationNotFound, "update evaluation")
	}
	return evaluation, nil
}

func (s *evaluationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	evaluation, err := s.owned(ctx, actor, id, "Not authorized to delete this evaluation")
	if err != nil {
		return err
	}
	if err := s.evaluations.Delete(ctx, evaluation.ID); err != nil {
		return lookupError(err, msgEvaluationNotFound, "delete evaluation")
	}
	return nil
}

func (s *evaluationService) InterviewStats(ctx context.Context, actor domain.Actor, interviewID string) (*InterviewStats, error) {
	interview, err := s.interviews.FindByID(ctx, interviewID)
	if err != nil {
		return nil, lookupError(err, msgInterviewNotFound, "find interview")
	}
	if !s.policy.CanReadInterviewEvaluations(actor, interview) {
		return nil, domain.ForbiddenError("Not authorized to access these statistics")
	}

	videos, err := s.videos.FindByInterview(ctx, interview.ID)
	if err != nil {
		return nil, domain.InternalError("list video responses", err)
	}
	var evaluations []domain.Evaluation
	if len(videos) > 0 {
		ids := make([]string, 0, len(videos))
		for _, v := range videos {
			ids = append(ids, v.ID)
		}
		evaluations, err = s.evaluations.FindByVideoResponses(ctx, ids)
		if err != nil {
			return nil, domain.InternalError("list evaluations", err)
		}
	}

	evaluated := make(map[string]struct{}, len(evaluations))
	for _, e := range evaluations {
		evaluated[e.VideoResponseID] = struct{}{}
	}
	var applicantIDs []string
	for _, v := range videos {
		if _, ok := evaluated[v.ID]; ok {
			applicantIDs = append(applicantIDs, v.UserID)
		}
	}
	applicants, err := s.lookupIdentities(ctx, applicantIDs)
	if err != nil {
		return nil, err
	}

	stats := aggregateStats(videos, evaluations, applicants)
	return &stats, nil
}

func (s *evaluationService) owned(ctx context.Context, actor domain.Actor, id, denied string) (*domain.Evaluation, error) {
	evaluation, err := s.evaluations.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, msgEvaluationNotFound, "find evaluation")
	}
	if !s.policy.CanModifyEvaluation(actor, evaluation) {
		return nil, domain.ForbiddenError(denied)
	}
	return evaluation, nil
}

func (s *evaluationService) lookupIdentities(ctx context.Context, ids []string) (map[string]domain.Identity, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return map[string]domain.Identity{}, nil
	}
	people, err := s.identities.FindByIDs(ctx, ids)
	if err != nil {
		return nil, domain.InternalError("find identities", err)
	}
	return people, nil
}

func evaluatorIDs(evaluations []domain.Evaluation) []string {
	ids := make([]string, 0, len(evaluations))
	for _, e := range evaluations {
		ids = append(ids, e.EvaluatorID)
	}
	return ids
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func publicIdentity(people map[string]domain.Identity, id string) *domain.Identity {
	person, ok := people[id]
	if !ok {
		return nil
	}
	public := person.Public()
	return &public
}
