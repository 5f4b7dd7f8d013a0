package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sngm3741/video-interview/api/internal/assessment/application"
	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
	"github.com/sngm3741/video-interview/api/internal/config"
	mongodoc "github.com/sngm3741/video-interview/api/internal/infrastructure/mongo"
	assessmenthttp "github.com/sngm3741/video-interview/api/internal/interfaces/http/assessment"
	commonhttp "github.com/sngm3741/video-interview/api/internal/interfaces/http/common"
	httpmiddleware "github.com/sngm3741/video-interview/api/internal/interfaces/http/middleware"
	"github.com/sngm3741/video-interview/api/internal/telemetry"
)

const msgUnauthenticated = "Not authorized to access this route"

// Server は HTTP サーバーのライフサイクルを管理し、評価 API のハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger          *log.Logger
	client          *mongo.Client
	database        *mongo.Database
	collections     mongodoc.Collections
	identities      application.IdentityRepository
	assessment      *assessmenthttp.Handler
	jwtConfigs      []config.JWTConfig
	jwtAudience     string
	roles           domain.Roles
	addr            string
	allowedOrigins  []string
	metricsEnabled  bool
	registry        *prometheus.Registry
	serviceName     string
	tracingShutdown telemetry.ShutdownFunc
}

// Run は起動時にインデックスを用意してから HTTP サーバーを起動し、シグナル受信まで待機する。
func (s *Server) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := mongodoc.EnsureIndexes(ctx, s.database, s.collections)
	cancel()
	if err != nil {
		return fmt.Errorf("インデックス作成に失敗: %w", err)
	}

	handler, err := s.Router()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// Router はミドルウェア・ヘルスチェック・メトリクス・認証付き API ルートを組み立てる。
func (s *Server) Router() (http.Handler, error) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if s.metricsEnabled {
		metrics, err := httpmiddleware.NewPrometheus(s.registry)
		if err != nil {
			return nil, fmt.Errorf("メトリクス登録に失敗: %w", err)
		}
		router.Use(metrics.Handler)
		router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	}

	router.Get("/healthz", s.healthHandler())

	router.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/auth/me", s.meHandler())
		s.assessment.Register(r)
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.MaxAge(300),
	)
	return otelhttp.NewHandler(cors(router), s.serviceName), nil
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.logger.Printf("MongoDB ping に失敗: %v", err)
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// meHandler はトークンの主体を返す。ユーザーレコードがあれば名前とメールを補完する。
func (s *Server) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := commonhttp.ActorFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		people, err := s.identities.FindByIDs(ctx, []string{actor.ID})
		if err != nil {
			s.logger.Printf("ユーザー取得に失敗 id=%s err=%v", actor.ID, err)
			commonhttp.WriteFailure(s.logger, w, http.StatusInternalServerError, commonhttp.MsgServerError)
			return
		}

		me := domain.Identity{ID: actor.ID, Role: actor.Role}
		if person, ok := people[actor.ID]; ok {
			me.Name = person.Name
			me.Email = person.Email
		}
		commonhttp.WriteData(s.logger, w, http.StatusOK, me)
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みアクターをコンテキストへ詰める。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteFailure(s.logger, w, http.StatusUnauthorized, msgUnauthenticated)
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteFailure(s.logger, w, http.StatusUnauthorized, msgUnauthenticated)
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteFailure(s.logger, w, http.StatusUnauthorized, msgUnauthenticated)
			return
		}

		actor := domain.Actor{ID: claims.actorID()}
		// 未知のロールは権限なしの認証済みアクターとして扱う。
		if s.roles.Known(claims.Role) {
			actor.Role = strings.TrimSpace(claims.Role)
		}

		ctx := commonhttp.ContextWithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken は複数の JWT 設定を順番に試し、署名検証と Issuer/Audience の整合性を確認する。
// いずれの設定にも一致しない場合は認証エラーを返す。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}
		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.actorID() == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("アクセストークンが無効です")
}

// contains は Audience 等の検証で利用する単純な包含チェック。
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
}

// actorID は id クレームを優先し、なければ sub を使う。
func (c *authClaims) actorID() string {
	if id := strings.TrimSpace(c.UserID); id != "" {
		return id
	}
	return strings.TrimSpace(c.Subject)
}

// shutdown は MongoDB クライアントとトレーサーをタイムアウト付きで停止する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
	if s.tracingShutdown != nil {
		if err := s.tracingShutdown(shutdownCtx); err != nil {
			s.logger.Printf("トレーサー停止時にエラー: %v", err)
		}
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と外部依存を受け取り、リポジトリ・アプリケーションサービス・ハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client, media application.MediaHost, tracingShutdown telemetry.ShutdownFunc) *Server {
	database := client.Database(cfg.MongoDatabase)

	interviews := mongodoc.NewInterviewRepository(database, cfg.InterviewCollection)
	videos := mongodoc.NewVideoResponseRepository(database, cfg.VideoResponseCollection)
	evaluations := mongodoc.NewEvaluationRepository(database, cfg.EvaluationCollection)
	identities := mongodoc.NewIdentityRepository(database, cfg.UserCollection)

	policy := application.NewPolicy(cfg.Roles)
	paging := application.PagingDefaults{DefaultLimit: cfg.DefaultPageLimit, MaxLimit: cfg.MaxPageLimit}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		logger:   cfg.ServerLog,
		client:   client,
		database: database,
		collections: mongodoc.Collections{
			Interviews:     cfg.InterviewCollection,
			VideoResponses: cfg.VideoResponseCollection,
			Evaluations:    cfg.EvaluationCollection,
			Users:          cfg.UserCollection,
		},
		identities: identities,
		assessment: assessmenthttp.NewHandler(assessmenthttp.Config{
			Logger:            cfg.ServerLog,
			InterviewService:  application.NewInterviewService(interviews, videos, evaluations, media, policy, paging),
			VideoService:      application.NewVideoService(interviews, videos, media, policy),
			EvaluationService: application.NewEvaluationService(interviews, videos, evaluations, identities, policy),
			RequestTimeout:    cfg.RequestTimeout,
		}),
		jwtConfigs:      append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:     cfg.JWTAudience,
		roles:           cfg.Roles,
		addr:            cfg.Addr,
		allowedOrigins:  append([]string(nil), cfg.AllowedOrigins...),
		metricsEnabled:  cfg.MetricsEnabled,
		registry:        registry,
		serviceName:     cfg.ServiceName,
		tracingShutdown: tracingShutdown,
	}
}
