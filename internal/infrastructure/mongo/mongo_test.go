package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

func TestObjectID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := objectID(" " + oid.Hex() + " ")
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	_, err = objectID("not-an-object-id")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	ids := objectIDs([]string{oid.Hex(), "bogus", ""})
	assert.Equal(t, []primitive.ObjectID{oid}, ids)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(mongo.ErrNoDocuments), domain.ErrRecordNotFound)

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	err := translateError(dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateRecord)

	other := errors.New("server selection timeout")
	assert.Equal(t, other, translateError(other))
}

func TestDocumentMapping(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	interviewID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	video := VideoResponseDocument{
		ID:            primitive.NewObjectID(),
		Interview:     interviewID,
		Question:      "Why Go?",
		QuestionIndex: 2,
		VideoURL:      "https://media.example.com/a.webm",
		MediaID:       "video_interviews/a.webm",
		Duration:      31.2,
		Size:          4096,
		User:          userID,
		Status:        "ready",
		CreatedAt:     now,
		UpdatedAt:     now,
	}.toDomain()
	assert.Equal(t, interviewID.Hex(), video.InterviewID)
	assert.Equal(t, userID.Hex(), video.UserID)
	assert.Equal(t, domain.VideoStatusReady, video.Status)
	assert.Equal(t, 2, video.QuestionIndex)

	interview := InterviewDocument{ID: interviewID, Title: "t", Questions: []string{"a"}, CreatedBy: userID}.toDomain()
	assert.Equal(t, userID.Hex(), interview.CreatorID)
	assert.Equal(t, []string{"a"}, interview.Questions)

	identity := UserDocument{ID: userID, Name: "Ann", Email: "ann@example.com", Role: "applicant"}.toDomain()
	assert.Equal(t, domain.Identity{ID: userID.Hex(), Name: "Ann", Email: "ann@example.com", Role: "applicant"}, identity)
}
