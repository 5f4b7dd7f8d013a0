package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/config"
)

// objectStore は MinIO クライアントのうち利用する操作だけを切り出したもの。
type objectStore interface {
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Host は S3 互換ストレージ (MinIO, AWS S3 等) を動画のメディアホストとして扱う。
// クライアントは署名付き URL へ直接アップロードし、API はメタデータのみ受け取る。
type Host struct {
	store     objectStore
	bucket    string
	folder    string
	expiry    time.Duration
	publicURL string
	now       func() time.Time
}

// NewMinIO は接続設定を検証し、バケットが無ければ作成したうえで Host を返す。
func NewMinIO(ctx context.Context, cfg config.MediaConfig) (*Host, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	publicURL := cfg.PublicBaseURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}
	return newHost(cli, cfg, publicURL), nil
}

func newHost(store objectStore, cfg config.MediaConfig, publicURL string) *Host {
	expiry := cfg.UploadExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Host{
		store:     store,
		bucket:    cfg.Bucket,
		folder:    strings.Trim(cfg.Folder, "/"),
		expiry:    expiry,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// SignUpload は新しいオブジェクトキーを払い出し、PUT 用の署名付き URL を返す。
func (h *Host) SignUpload(ctx context.Context) (*application.UploadSignature, error) {
	key := path.Join(h.folder, uuid.NewString()+".webm")
	now := h.now().UTC()

	u, err := h.store.PresignedPutObject(ctx, h.bucket, key, h.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &application.UploadSignature{
		Timestamp: now.Unix(),
		Signature: u.Query().Get("X-Amz-Signature"),
		UploadURL: u.String(),
		PublicURL: h.publicURL + "/" + h.bucket + "/" + key,
		ObjectKey: key,
		Bucket:    h.bucket,
		Folder:    h.folder,
		ExpiresAt: now.Add(h.expiry),
	}, nil
}

// Delete はオブジェクトを削除する。存在しないキーの削除も成功扱いになるため、
// カスケード削除の再試行で安全に呼び直せる。
func (h *Host) Delete(ctx context.Context, mediaID string) error {
	key := strings.TrimPrefix(strings.TrimSpace(mediaID), "/")
	if key == "" {
		return nil
	}
	if err := h.store.RemoveObject(ctx, h.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}
