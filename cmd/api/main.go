package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/video-interview/api/internal/config"
	"github.com/sngm3741/video-interview/api/internal/infrastructure/media"
	"github.com/sngm3741/video-interview/api/internal/server"
	"github.com/sngm3741/video-interview/api/internal/telemetry"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	shutdownTracing, err := telemetry.Init(ctx, cfg.ServiceName, cfg.ServerLog)
	if err != nil {
		cfg.ServerLog.Fatalf("トレーシング初期化に失敗しました: %v", err)
	}

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		cfg.ServerLog.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}

	mediaHost, err := media.NewMinIO(ctx, cfg.Media)
	if err != nil {
		cfg.ServerLog.Fatalf("メディアストレージの初期化に失敗しました: %v", err)
	}

	app := server.New(cfg, client, mediaHost, shutdownTracing)
	if err := app.Run(); err != nil {
		log.Fatalf("サーバー起動に失敗: %v", err)
	}
}
