package application

import "github.com/sngm3741/video-interview/api/internal/assessment/domain"

// Policy answers who may do what. Callers resolve the resources first so that
// a missing record is reported before a denied one.
type Policy struct {
	roles domain.Roles
}

// NewPolicy builds a policy over the configured role names.
func NewPolicy(roles domain.Roles) Policy {
	return Policy{roles: roles}
}

func (p Policy) isAdmin(actor domain.Actor) bool {
	return actor.Role != "" && actor.Role == p.roles.Admin
}

func (p Policy) isEvaluator(actor domain.Actor) bool {
	return actor.Role != "" && actor.Role == p.roles.Evaluator
}

// CanManageInterview covers reading, updating and deleting an interview.
func (p Policy) CanManageInterview(actor domain.Actor, interview *domain.Interview) bool {
	return p.isAdmin(actor) || interview.IsCreator(actor.ID)
}

// CanListVideoResponses gates the per-interview video listing.
func (p Policy) CanListVideoResponses(actor domain.Actor, interview *domain.Interview) bool {
	return p.isAdmin(actor) || interview.IsCreator(actor.ID)
}

func (p Policy) CanDeleteVideoResponse(actor domain.Actor, video *domain.VideoResponse) bool {
	return p.isAdmin(actor) || video.IsSubmitter(actor.ID)
}

func (p Policy) CanCreateEvaluation(actor domain.Actor) bool {
	return p.isAdmin(actor) || p.isEvaluator(actor)
}

// CanReadVideoEvaluations allows the submitter, the interview creator, any evaluator and admins.
func (p Policy) CanReadVideoEvaluations(actor domain.Actor, video *domain.VideoResponse, interview *domain.Interview) bool {
	if p.isAdmin(actor) || p.isEvaluator(actor) {
		return true
	}
	return video.IsSubmitter(actor.ID) || interview.IsCreator(actor.ID)
}

// CanReadInterviewEvaluations also gates the statistics endpoint.
func (p Policy) CanReadInterviewEvaluations(actor domain.Actor, interview *domain.Interview) bool {
	return p.isAdmin(actor) || p.isEvaluator(actor) || interview.IsCreator(actor.ID)
}

func (p Policy) CanModifyEvaluation(actor domain.Actor, evaluation *domain.Evaluation) bool {
	return p.isAdmin(actor) || evaluation.IsOwner(actor.ID)
}
