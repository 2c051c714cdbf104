// Package like はレシピへのいいね関係のドメインロジックを提供する。
package like

import (
	"context"
	"time"

	"github.com/hitoshi/wellmate/internal/metrics"
	"github.com/hitoshi/wellmate/internal/model"
	"github.com/hitoshi/wellmate/internal/repository"
)

// CatalogClient はいいね処理が必要とするカタログ参照のインターフェース。
// catalog.Clientの部分集合として定義する。
type CatalogClient interface {
	// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
	// ListByIDs は指定ID集合に含まれるレシピを射影付きで返す。
	ListByIDs(ctx context.Context, ids []string) ([]model.Recipe, error)
}

// Service はいいねのサービス層。
// プロフィールストア（likes）とレシピカタログの2ストアをまたぐ処理を持つ。
// 2ストア間にトランザクションはなく、Like.RecipeIDはソフト参照として扱う。
type Service struct {
	likes    repository.LikeRepository
	catalog  CatalogClient
	recorder metrics.Recorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnil可（テスト時など。nilの場合メトリクスは記録しない）。
func NewService(likes repository.LikeRepository, catalog CatalogClient, recorder metrics.Recorder) *Service {
	return &Service{
		likes:    likes,
		catalog:  catalog,
		recorder: recorder,
	}
}

// Like はレシピへのいいねを保存する。
// カタログにレシピが存在することを確認してから、複合キー位置に書き込む。
// 同一(user, recipe)への再実行は同じキーへの上書きになり、結果は冪等。
func (s *Service) Like(ctx context.Context, userID, recipeID string) error {
	if userID == "" || recipeID == "" {
		s.recordLikeOp("like", "invalid")
		return model.NewInvalidArgumentError("recipe_id")
	}

	// カタログ存在確認。不在のレシピへのいいねは拒否する
	start := time.Now()
	recipe, err := s.catalog.FindByID(ctx, recipeID)
	s.recordCatalogLatency(time.Since(start))
	if err != nil {
		s.recordLikeOp("like", "error")
		return model.NewUnknownError("レシピカタログの照会に失敗しました。", err)
	}
	if recipe == nil {
		s.recordLikeOp("like", "not_found")
		return model.NewRecipeNotFoundError(recipeID)
	}

	l := &model.Like{
		ID:       model.LikeID(userID, recipeID),
		UserID:   userID,
		RecipeID: recipeID,
	}
	if err := s.likes.Put(ctx, l); err != nil {
		s.recordLikeOp("like", "error")
		return model.NewUnknownError("いいねの保存に失敗しました。", err)
	}

	s.recordLikeOp("like", "ok")
	return nil
}

// Unlike はレシピへのいいねを削除する。
// (user, recipe)に一致するレコードを検索し、見つかったキーを削除する。
// 一致がない場合はNOT_FOUND。並行unlikeの2回目もNOT_FOUNDになる（許容動作）。
func (s *Service) Unlike(ctx context.Context, userID, recipeID string) error {
	if userID == "" || recipeID == "" {
		s.recordLikeOp("unlike", "invalid")
		return model.NewInvalidArgumentError("recipe_id")
	}

	l, err := s.likes.FindByUserAndRecipe(ctx, userID, recipeID)
	if err != nil {
		s.recordLikeOp("unlike", "error")
		return model.NewUnknownError("いいねの検索に失敗しました。", err)
	}
	if l == nil {
		s.recordLikeOp("unlike", "not_found")
		return model.NewLikeNotFoundError(recipeID)
	}

	if err := s.likes.DeleteByID(ctx, l.ID); err != nil {
		if err == repository.ErrLikeNotFound {
			// 検索と削除の間に別の呼び出しが削除したケース
			s.recordLikeOp("unlike", "not_found")
			return model.NewLikeNotFoundError(recipeID)
		}
		s.recordLikeOp("unlike", "error")
		return model.NewUnknownError("いいねの削除に失敗しました。", err)
	}

	s.recordLikeOp("unlike", "ok")
	return nil
}

// IsLiked はユーザーがレシピをいいね済みかを返す。
// ストア障害はfalse扱いにせず、UNKNOWNとして呼び出し元に返す。
func (s *Service) IsLiked(ctx context.Context, userID, recipeID string) (bool, error) {
	if userID == "" || recipeID == "" {
		s.recordLikeOp("is_liked", "invalid")
		return false, model.NewInvalidArgumentError("recipe_id")
	}

	l, err := s.likes.FindByUserAndRecipe(ctx, userID, recipeID)
	if err != nil {
		s.recordLikeOp("is_liked", "error")
		return false, model.NewUnknownError("いいね状態の確認に失敗しました。", err)
	}

	s.recordLikeOp("is_liked", "ok")
	return l != nil, nil
}

// ListLikedRecipes はユーザーがいいねした全レシピの射影を返す。
// いいねのレシピID集合を集めてからカタログをID集合で照会する。
// カタログに存在しないID（宙吊り参照）は結果から単に欠落し、エラーにはしない。
func (s *Service) ListLikedRecipes(ctx context.Context, userID string) ([]model.Recipe, error) {
	recipeIDs, err := s.likes.ListRecipeIDsByUser(ctx, userID)
	if err != nil {
		s.recordLikeOp("list", "error")
		return nil, model.NewUnknownError("いいね一覧の取得に失敗しました。", err)
	}
	if len(recipeIDs) == 0 {
		s.recordLikeOp("list", "ok")
		return []model.Recipe{}, nil
	}

	start := time.Now()
	recipes, err := s.catalog.ListByIDs(ctx, recipeIDs)
	s.recordCatalogLatency(time.Since(start))
	if err != nil {
		s.recordLikeOp("list", "error")
		return nil, model.NewUnknownError("レシピカタログの照会に失敗しました。", err)
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	s.recordLikeOp("list", "ok")
	return recipes, nil
}

func (s *Service) recordLikeOp(op, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordLikeOperation(op, outcome)
	}
}

func (s *Service) recordCatalogLatency(d time.Duration) {
	if s.recorder != nil {
		s.recorder.RecordCatalogLatency(d)
	}
}
