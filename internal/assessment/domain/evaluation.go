package domain

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

// Evaluation is one evaluator's score for one video response.
// (VideoResponseID, EvaluatorID) is unique.
type Evaluation struct {
	ID              string
	VideoResponseID string
	EvaluatorID     string
	Score           int
	Comments        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOwner reports whether actorID wrote the evaluation.
func (e Evaluation) IsOwner(actorID string) bool {
	return actorID != "" && e.EvaluatorID == actorID
}

// Touch moves UpdatedAt forward, never backwards or sideways.
// Timestamps are kept at millisecond precision to match the store.
func (e *Evaluation) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	if !now.After(e.UpdatedAt) {
		now = e.UpdatedAt.Add(time.Millisecond)
	}
	e.UpdatedAt = now
}
