// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/wellmate/internal/catalog"
	"github.com/hitoshi/wellmate/internal/config"
	"github.com/hitoshi/wellmate/internal/database"
	"github.com/hitoshi/wellmate/internal/handler"
	"github.com/hitoshi/wellmate/internal/like"
	"github.com/hitoshi/wellmate/internal/logger"
	"github.com/hitoshi/wellmate/internal/mealplan"
	"github.com/hitoshi/wellmate/internal/metrics"
	"github.com/hitoshi/wellmate/internal/profile"
	"github.com/hitoshi/wellmate/internal/repository"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// プロフィールストアとカタログストアへの接続を開き、全依存関係を
// ワイヤリングしてHTTPサーバーを起動する。ストアクライアントは
// プロセス全体のシングルトンではなく、ここで明示的に構築して注入する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. プロフィールストア接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("profile store connection established")

	// 2. カタログストア接続（読み取り専用）
	catalogClient, err := catalog.Open(cfg.CatalogDatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open catalog store: %w", err)
	}
	defer catalogClient.Close()

	if err := catalogClient.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to catalog store: %w", err)
	}

	slog.Info("catalog store connection established")

	// 3. リポジトリの初期化
	profileRepo := repository.NewPostgresProfileRepo(db)
	likeRepo := repository.NewPostgresLikeRepo(db)
	mealplanRepo := repository.NewPostgresMealplanRepo(db)

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ドメインサービスの初期化
	likeService := like.NewService(likeRepo, catalogClient, collector)
	mealplanService := mealplan.NewService(mealplanRepo)
	profileService := profile.NewService(profileRepo, likeRepo, mealplanRepo, collector)

	// 6. ルーターの構築
	deps := &handler.RouterDeps{
		TokenSecret:       []byte(cfg.TokenSecret),
		WebhookSecret:     cfg.WebhookSecret,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,

		HealthChecker: db,
		Gatherer:      registry,
		Recorder:      collector,

		LikeService:     likeService,
		MealplanService: mealplanService,
		ProfileService:  profileService,
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はプロフィールストアのマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
// カタログストアは別管理のため対象外。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
