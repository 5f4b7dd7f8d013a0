package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// objectID は 16 進文字列を ObjectID へ変換する。形式不正は「存在しない」と同じ扱い。
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, domain.ErrRecordNotFound
	}
	return oid, nil
}

// objectIDs は変換できない ID を読み飛ばす。該当しない ID は結果に現れないだけなので問題ない。
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id)); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// translateError はドライバのエラーをドメインのセンチネルへ寄せる。
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrRecordNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(domain.ErrDuplicateRecord, err)
	default:
		return err
	}
}
