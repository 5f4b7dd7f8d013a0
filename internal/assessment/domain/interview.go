package domain

import "time"

// MaxInterviewTitleRunes bounds Interview.Title.
const MaxInterviewTitleRunes = 100

// Interview is a set of ordered text questions authored by a creator.
type Interview struct {
	ID          string
	Title       string
	Description string
	Questions   []string
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCreator reports whether actorID authored the interview.
func (i Interview) IsCreator(actorID string) bool {
	return actorID != "" && i.CreatorID == actorID
}
