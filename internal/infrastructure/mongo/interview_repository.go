package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// InterviewRepository は interviews コレクションを扱うリポジトリ。
type InterviewRepository struct {
	collection *mongo.Collection
}

// NewInterviewRepository は指定コレクションに束縛したリポジトリを生成する。
func NewInterviewRepository(db *mongo.Database, collection string) *InterviewRepository {
	return &InterviewRepository{collection: db.Collection(collection)}
}

// Create は新しい ObjectID を採番して保存し、ドメイン側へ ID を書き戻す。
func (r *InterviewRepository) Create(ctx context.Context, interview *domain.Interview) error {
	if interview == nil {
		return errors.New("interview payload is nil")
	}
	creator, err := primitive.ObjectIDFromHex(interview.CreatorID)
	if err != nil {
		return fmt.Errorf("creator id %q: %w", interview.CreatorID, err)
	}
	doc := InterviewDocument{
		ID:          primitive.NewObjectID(),
		Title:       interview.Title,
		Description: interview.Description,
		Questions:   interview.Questions,
		CreatedBy:   creator,
		CreatedAt:   interview.CreatedAt,
		UpdatedAt:   interview.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translateError(err)
	}
	interview.ID = doc.ID.Hex()
	return nil
}

// FindByID は単一のインタビューを取得する。存在しない・ID 形式不正はいずれも ErrRecordNotFound。
func (r *InterviewRepository) FindByID(ctx context.Context, id string) (*domain.Interview, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc InterviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	interview := doc.toDomain()
	return &interview, nil
}

// FindByCreator は作成者に紐づくインタビューを新しい順にページングして返す。
func (r *InterviewRepository) FindByCreator(ctx context.Context, creatorID string, paging application.Paging) ([]domain.Interview, int64, error) {
	creator, err := objectID(creatorID)
	if err != nil {
		return []domain.Interview{}, 0, nil
	}
	filter := bson.M{"createdBy": creator}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		if skip := paging.Skip(); skip > 0 {
			findOpts.SetSkip(skip)
		}
	}

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	interviews := make([]domain.Interview, 0)
	for cursor.Next(ctx) {
		var doc InterviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		interviews = append(interviews, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return interviews, total, nil
}

// Update は編集可能なフィールドのみを $set する。作成者は書き換えない。
func (r *InterviewRepository) Update(ctx context.Context, interview *domain.Interview) error {
	if interview == nil {
		return errors.New("interview payload is nil")
	}
	oid, err := objectID(interview.ID)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"title":       interview.Title,
		"description": interview.Description,
		"questions":   interview.Questions,
		"updatedAt":   interview.UpdatedAt,
	}}
	result, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// Delete は単一のインタビューを削除する。
func (r *InterviewRepository) Delete(ctx context.Context, id string) error {
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
