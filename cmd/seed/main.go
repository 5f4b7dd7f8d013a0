package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
	"github.com/sngm3741/video-interview/api/internal/config"
	mongodoc "github.com/sngm3741/video-interview/api/internal/infrastructure/mongo"
)

type seedOptions struct {
	envName         string
	dropCollections bool
}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	cols := mongodoc.Collections{
		Interviews:     cfg.InterviewCollection,
		VideoResponses: cfg.VideoResponseCollection,
		Evaluations:    cfg.EvaluationCollection,
		Users:          cfg.UserCollection,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)

	if opts.dropCollections {
		dropCollections(ctx, db, cols)
		log.Printf("既存コレクションを削除しました")
	}

	if err := mongodoc.EnsureIndexes(ctx, db, cols); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	identities := mongodoc.NewIdentityRepository(db, cols.Users)
	people := map[string]domain.Identity{}
	for _, person := range sampleIdentities(cfg.Roles) {
		id, err := identities.Upsert(ctx, person)
		if err != nil {
			log.Fatalf("ユーザー %s の登録に失敗しました: %v", person.Email, err)
		}
		person.ID = id
		people[person.Role] = person
	}

	interviewer := people[cfg.Roles.Interviewer]
	applicant := people[cfg.Roles.Applicant]
	evaluator := people[cfg.Roles.Evaluator]

	now := time.Now().UTC()
	interview := &domain.Interview{
		Title:       "Backend Engineer Screening",
		Description: "Short recorded answers reviewed by the hiring panel.",
		Questions: []string{
			"Tell us about a system you designed end to end.",
			"How do you approach debugging a production incident?",
			"Describe a time you disagreed with a technical decision.",
		},
		CreatorID: interviewer.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := mongodoc.NewInterviewRepository(db, cols.Interviews).Create(ctx, interview); err != nil {
		log.Fatalf("面接データの挿入に失敗しました: %v", err)
	}

	video := &domain.VideoResponse{
		InterviewID:   interview.ID,
		Question:      interview.Questions[0],
		QuestionIndex: 0,
		VideoURL:      fmt.Sprintf("%s/%s/%s/sample.webm", cfg.Media.PublicBaseURL, cfg.Media.Bucket, cfg.Media.Folder),
		MediaID:       cfg.Media.Folder + "/sample.webm",
		Duration:      42.5,
		Size:          3_145_728,
		UserID:        applicant.ID,
		Status:        domain.VideoStatusReady,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := mongodoc.NewVideoResponseRepository(db, cols.VideoResponses).Create(ctx, video); err != nil {
		log.Fatalf("動画回答データの挿入に失敗しました: %v", err)
	}

	evaluation := &domain.Evaluation{
		VideoResponseID: video.ID,
		EvaluatorID:     evaluator.ID,
		Score:           8,
		Comments:        "Clear structure and concrete trade-offs.",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := mongodoc.NewEvaluationRepository(db, cols.Evaluations).Create(ctx, evaluation); err != nil {
		log.Fatalf("評価データの挿入に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: users=%d interview=%s videoResponse=%s evaluation=%s",
		len(people), interview.ID, video.ID, evaluation.ID)
	log.Printf("Mongo: %s / %s (env=%s)", cfg.MongoURI, cfg.MongoDatabase, opts.envName)

	for _, role := range []string{cfg.Roles.Interviewer, cfg.Roles.Applicant, cfg.Roles.Evaluator, cfg.Roles.Admin} {
		person := people[role]
		token, err := devToken(cfg, person, now)
		if err != nil {
			log.Fatalf("開発用トークンの発行に失敗しました: %v", err)
		}
		fmt.Printf("%-12s %-28s %s\n", role, person.Email, token)
	}
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env ディレクトリ内の env ファイル名 (例: local, staging)")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	flag.Parse()
	return opts
}

// loadEnvFiles は存在する env ファイルだけを読み込む。既に設定済みの環境変数は上書きしない。
func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
		".env",
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("%s の読み込みに失敗しました: %w", file, err)
		}
	}
	return nil
}

func dropCollections(ctx context.Context, db *mongo.Database, cols mongodoc.Collections) {
	for _, name := range []string{cols.Interviews, cols.VideoResponses, cols.Evaluations, cols.Users} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
}

func sampleIdentities(roles domain.Roles) []domain.Identity {
	return []domain.Identity{
		{Name: "Ines Interviewer", Email: "interviewer@example.com", Role: roles.Interviewer},
		{Name: "Alex Applicant", Email: "applicant@example.com", Role: roles.Applicant},
		{Name: "Eve Evaluator", Email: "evaluator@example.com", Role: roles.Evaluator},
		{Name: "Ada Admin", Email: "admin@example.com", Role: roles.Admin},
	}
}

// devToken は API の認証ミドルウェアが受け付ける HS256 トークンを発行する。
func devToken(cfg config.Config, person domain.Identity, now time.Time) (string, error) {
	signer := cfg.JWTConfigs[0]
	claims := jwt.MapClaims{
		"sub":  person.ID,
		"id":   person.ID,
		"role": person.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(cfg.TokenTTL).Unix(),
	}
	if signer.Issuer != "" {
		claims["iss"] = signer.Issuer
	}
	if cfg.JWTAudience != "" {
		claims["aud"] = cfg.JWTAudience
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signer.Secret)
}
