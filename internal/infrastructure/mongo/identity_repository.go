package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// IdentityRepository は users コレクションの読み取り専用リポジトリ。
// ユーザーの登録・更新は認証サブシステムの責務なので書き込みメソッドは持たない。
type IdentityRepository struct {
	collection *mongo.Collection
}

// NewIdentityRepository は指定コレクションに束縛したリポジトリを生成する。
func NewIdentityRepository(db *mongo.Database, collection string) *IdentityRepository {
	return &IdentityRepository{collection: db.Collection(collection)}
}

// FindByIDs は ID をキーにした公開プロフィールのマップを返す。見つからない ID は含まれない。
func (r *IdentityRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Identity, error) {
	oids := objectIDs(ids)
	people := make(map[string]domain.Identity, len(oids))
	if len(oids) == 0 {
		return people, nil
	}
	findOpts := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "role": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		person := doc.toDomain()
		people[person.ID] = person
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return people, nil
}

// Upsert はメールアドレスをキーにユーザーを登録または更新し、その ID を返す。
// 開発用 seed からのみ利用する。
func (r *IdentityRepository) Upsert(ctx context.Context, identity domain.Identity) (string, error) {
	filter := bson.M{"email": identity.Email}
	update := bson.M{
		"$set": bson.M{
			"name": identity.Name,
			"role": identity.Role,
		},
		"$setOnInsert": bson.M{
			"createdAt": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc UserDocument
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return "", translateError(err)
	}
	return doc.ID.Hex(), nil
}
