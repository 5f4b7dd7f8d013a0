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

// EvaluationRepository は evaluations コレクションを扱うリポジトリ。
// 同一評価者による二重評価はユニークインデックスで最終的に弾く。
type EvaluationRepository struct {
	collection *mongo.Collection
}

// NewEvaluationRepository は指定コレクションに束縛したリポジトリを生成する。
func NewEvaluationRepository(db *mongo.Database, collection string) *EvaluationRepository {
	return &EvaluationRepository{collection: db.Collection(collection)}
}

// Create は評価を保存する。ユニーク制約違反は domain.ErrDuplicateRecord として返る。
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *domain.Evaluation) error {
	if evaluation == nil {
		return errors.New("evaluation payload is nil")
	}
	videoID, err := primitive.ObjectIDFromHex(evaluation.VideoResponseID)
	if err != nil {
		return fmt.Errorf("video response id %q: %w", evaluation.VideoResponseID, err)
	}
	evaluatorID, err := primitive.ObjectIDFromHex(evaluation.EvaluatorID)
	if err != nil {
		return fmt.Errorf("evaluator id %q: %w", evaluation.EvaluatorID, err)
	}
	doc := EvaluationDocument{
		ID:            primitive.NewObjectID(),
		VideoResponse: videoID,
		Evaluator:     evaluatorID,
		Score:         evaluation.Score,
		Comments:      evaluation.Comments,
		CreatedAt:     evaluation.CreatedAt,
		UpdatedAt:     evaluation.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translateError(err)
	}
	evaluation.ID = doc.ID.Hex()
	return nil
}

func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*domain.Evaluation, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByPair は (videoResponse, evaluator) の既存評価を探す。重複登録の事前チェック用。
func (r *EvaluationRepository) FindByPair(ctx context.Context, videoResponseID, evaluatorID string) (*domain.Evaluation, error) {
	videoID, err := objectID(videoResponseID)
	if err != nil {
		return nil, err
	}
	evaluator, err := objectID(evaluatorID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"videoResponse": videoID, "evaluator": evaluator})
}

// FindByVideoResponses は指定した動画群に対する評価を新しい順で返す。
func (r *EvaluationRepository) FindByVideoResponses(ctx context.Context, videoResponseIDs []string) ([]domain.Evaluation, error) {
	ids := objectIDs(videoResponseIDs)
	if len(ids) == 0 {
		return []domain.Evaluation{}, nil
	}
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"videoResponse": bson.M{"$in": ids}}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	evaluations := make([]domain.Evaluation, 0)
	for cursor.Next(ctx) {
		var doc EvaluationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return evaluations, nil
}

// Update は score / comments / updatedAt のみを更新する。
func (r *EvaluationRepository) Update(ctx context.Context, evaluation *domain.Evaluation) error {
	if evaluation == nil {
		return errors.New("evaluation payload is nil")
	}
	oid, err := objectID(evaluation.ID)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"score":     evaluation.Score,
		"comments":  evaluation.Comments,
		"updatedAt": evaluation.UpdatedAt,
	}})
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *EvaluationRepository) Delete(ctx context.Context, id string) error {
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

// DeleteByVideoResponses はインタビュー削除時のカスケード用。
func (r *EvaluationRepository) DeleteByVideoResponses(ctx context.Context, videoResponseIDs []string) (int64, error) {
	ids := objectIDs(videoResponseIDs)
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"videoResponse": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *EvaluationRepository) findOne(ctx context.Context, filter bson.M) (*domain.Evaluation, error) {
	var doc EvaluationDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	evaluation := doc.toDomain()
	return &evaluation, nil
}
