package domain

import "time"

// VideoStatus is the processing state of an uploaded answer.
type VideoStatus string

const (
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusError      VideoStatus = "error"
)

// Valid reports whether s is a known status.
func (s VideoStatus) Valid() bool {
	switch s {
	case VideoStatusProcessing, VideoStatusReady, VideoStatusError:
		return true
	}
	return false
}

// VideoResponse is one recorded answer to one interview question.
// Resubmissions create new records; nothing ties (interview, questionIndex, user) together.
type VideoResponse struct {
	ID            string
	InterviewID   string
	Question      string
	QuestionIndex int
	VideoURL      string
	MediaID       string
	Duration      float64
	Size          int64
	UserID        string
	Status        VideoStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsSubmitter reports whether actorID recorded the response.
func (v VideoResponse) IsSubmitter(actorID string) bool {
	return actorID != "" && v.UserID == actorID
}
