package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections は利用するコレクション名の組。
type Collections struct {
	Interviews     string
	VideoResponses string
	Evaluations    string
	Users          string
}

// EnsureIndexes は API と seed の双方から呼ばれ、必要なインデックスを冪等に作成する。
// evaluations の (videoResponse, evaluator) ユニーク制約が二重評価に対する最終防衛線になる。
func EnsureIndexes(ctx context.Context, db *mongo.Database, cols Collections) error {
	plan := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: cols.Evaluations,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "videoResponse", Value: 1}, {Key: "evaluator", Value: 1}},
					Options: options.Index().SetName("uniq_evaluation_video_evaluator").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "videoResponse", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("idx_evaluation_video_created"),
				},
			},
		},
		{
			collection: cols.VideoResponses,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "interview", Value: 1}, {Key: "questionIndex", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("idx_video_interview_question"),
				},
			},
		},
		{
			collection: cols.Interviews,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("idx_interview_creator_created"),
				},
			},
		},
		{
			collection: cols.Users,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("uniq_user_email").SetUnique(true),
				},
			},
		},
	}

	for _, step := range plan {
		if _, err := db.Collection(step.collection).Indexes().CreateMany(ctx, step.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", step.collection, err)
		}
	}
	return nil
}
