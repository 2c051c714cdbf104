package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/wellmate/internal/metrics"
	"github.com/hitoshi/wellmate/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DB がそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenSecret       []byte
	WebhookSecret     string
	CORSAllowedOrigin string

	// ストア疎通確認
	HealthChecker HealthChecker

	// メトリクス
	Gatherer prometheus.Gatherer
	Recorder metrics.Recorder

	// サービス
	LikeService     LikeServiceInterface
	MealplanService MealplanServiceInterface
	ProfileService  ProfileServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → (Auth | WebhookSecret)
//
// 認証ゲートはストアに触れる全ハンドラーより前に位置する。
// /health と /metrics はゲートの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	likeHandler := NewLikeHandler(deps.LikeService)
	mealplanHandler := NewMealplanHandler(deps.MealplanService, deps.Recorder)
	eventHandler := NewEventHandler(deps.ProfileService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- IDプロバイダーのライフサイクルイベント（共有シークレット検証） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewWebhookSecretMiddleware(deps.WebhookSecret))
		r.Post("/events/identity", eventHandler.HandleIdentityEvent)
	})

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenSecret))

		// いいね管理
		r.Route("/api/likes", func(r chi.Router) {
			r.Post("/", likeHandler.Like)
			r.Get("/", likeHandler.ListLiked)

			r.Route("/{recipeID}", func(r chi.Router) {
				r.Get("/", likeHandler.IsLiked)
				r.Delete("/", likeHandler.Unlike)
			})
		})

		// ミールプラン管理
		r.Route("/api/mealplans", func(r chi.Router) {
			r.Post("/", mealplanHandler.Save)
			r.Delete("/{id}", mealplanHandler.Unsave)
		})
	})

	return r
}
