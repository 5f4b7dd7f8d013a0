package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// VideoResponseRepository は videoresponses コレクションを扱うリポジトリ。
type VideoResponseRepository struct {
	collection *mongo.Collection
}

// NewVideoResponseRepository は指定コレクションに束縛したリポジトリを生成する。
func NewVideoResponseRepository(db *mongo.Database, collection string) *VideoResponseRepository {
	return &VideoResponseRepository{collection: db.Collection(collection)}
}

// Create は動画メタデータを保存し、採番した ID を書き戻す。
func (r *VideoResponseRepository) Create(ctx context.Context, video *domain.VideoResponse) error {
	if video == nil {
		return errors.New("video response payload is nil")
	}
	interviewID, err := primitive.ObjectIDFromHex(video.InterviewID)
	if err != nil {
		return fmt.Errorf("interview id %q: %w", video.InterviewID, err)
	}
	userID, err := primitive.ObjectIDFromHex(video.UserID)
	if err != nil {
		return fmt.Errorf("user id %q: %w", video.UserID, err)
	}
	doc := VideoResponseDocument{
		ID:            primitive.NewObjectID(),
		Interview:     interviewID,
		Question:      video.Question,
		QuestionIndex: video.QuestionIndex,
		VideoURL:      video.VideoURL,
		MediaID:       video.MediaID,
		Duration:      video.Duration,
		Size:          video.Size,
		User:          userID,
		Status:        string(video.Status),
		CreatedAt:     video.CreatedAt,
		UpdatedAt:     video.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translateError(err)
	}
	video.ID = doc.ID.Hex()
	return nil
}

func (r *VideoResponseRepository) FindByID(ctx context.Context, id string) (*domain.VideoResponse, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc VideoResponseDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	video := doc.toDomain()
	return &video, nil
}

// FindByInterview は questionIndex 昇順、同一設問内は新しい順で返す。
func (r *VideoResponseRepository) FindByInterview(ctx context.Context, interviewID string) ([]domain.VideoResponse, error) {
	oid, err := objectID(interviewID)
	if err != nil {
		return []domain.VideoResponse{}, nil
	}
	findOpts := options.Find().SetSort(bson.D{
		{Key: "questionIndex", Value: 1},
		{Key: "createdAt", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"interview": oid}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := make([]domain.VideoResponse, 0)
	for cursor.Next(ctx) {
		var doc VideoResponseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		videos = append(videos, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *VideoResponseRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// DeleteByInterview はインタビュー削除時のカスケード用。削除件数を返す。
func (r *VideoResponseRepository) DeleteByInterview(ctx context.Context, interviewID string) (int64, error) {
	oid, err := objectID(interviewID)
	if err != nil {
		return 0, nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"interview": oid})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
