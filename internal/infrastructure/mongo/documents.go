package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// InterviewDocument は interviews コレクションのスキーマ。
type InterviewDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Questions   []string           `bson:"questions"`
	CreatedBy   primitive.ObjectID `bson:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// VideoResponseDocument は videoresponses コレクションのスキーマ。
// 動画本体はメディアホスト側にあり、ここではメタデータのみ保持する。
type VideoResponseDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Interview     primitive.ObjectID `bson:"interview"`
	Question      string             `bson:"question"`
	QuestionIndex int                `bson:"questionIndex"`
	VideoURL      string             `bson:"videoUrl"`
	MediaID       string             `bson:"mediaId"`
	Duration      float64            `bson:"duration"`
	Size          int64              `bson:"size"`
	User          primitive.ObjectID `bson:"user"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// EvaluationDocument は evaluations コレクションのスキーマ。
// (videoResponse, evaluator) にはユニークインデックスが張られる。
type EvaluationDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	VideoResponse primitive.ObjectID `bson:"videoResponse"`
	Evaluator     primitive.ObjectID `bson:"evaluator"`
	Score         int                `bson:"score"`
	Comments      string             `bson:"comments"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// UserDocument は認証サブシステムが管理する users コレクションの読み取り用射影。
// パスワード等の秘匿フィールドは取得しない。
type UserDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt,omitempty"`
}

func (d InterviewDocument) toDomain() domain.Interview {
	return domain.Interview{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Questions:   append([]string{}, d.Questions...),
		CreatorID:   d.CreatedBy.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (d VideoResponseDocument) toDomain() domain.VideoResponse {
	return domain.VideoResponse{
		ID:            d.ID.Hex(),
		InterviewID:   d.Interview.Hex(),
		Question:      d.Question,
		QuestionIndex: d.QuestionIndex,
		VideoURL:      d.VideoURL,
		MediaID:       d.MediaID,
		Duration:      d.Duration,
		Size:          d.Size,
		UserID:        d.User.Hex(),
		Status:        domain.VideoStatus(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func (d EvaluationDocument) toDomain() domain.Evaluation {
	return domain.Evaluation{
		ID:              d.ID.Hex(),
		VideoResponseID: d.VideoResponse.Hex(),
		EvaluatorID:     d.Evaluator.Hex(),
		Score:           d.Score,
		Comments:        d.Comments,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

func (d UserDocument) toDomain() domain.Identity {
	return domain.Identity{
		ID:    d.ID.Hex(),
		Name:  d.Name,
		Email: d.Email,
		Role:  d.Role,
	}
}
