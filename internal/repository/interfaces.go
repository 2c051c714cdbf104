// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hitoshi/wellmate/internal/model"
)

// ErrLikeNotFound は削除対象のいいねが存在しないことを示す。
// 同一ペアへの並行unlikeでは2回目がこのエラーになる（期待される動作）。
var ErrLikeNotFound = errors.New("like not found")

// ProfileRepository はプロフィールデータの永続化インターフェース。
type ProfileRepository interface {
	// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Profile, error)

	// Create はプロフィールを作成する。last_loginとcreated_atはサーバー採番。
	Create(ctx context.Context, profile *model.Profile) error

	// RefreshLastLogin は既存プロフィールのlast_loginのみを現在時刻に更新する。
	// 他のフィールドは変更しない。
	RefreshLastLogin(ctx context.Context, id string) error

	// DeleteByID は指定IDのプロフィールを削除する。
	// 存在しない場合もエラーにしない（クリーンアップ経路の冪等性のため）。
	DeleteByID(ctx context.Context, id string) error
}

// LikeRepository はいいねデータの永続化インターフェース。
// レコードはフラットなlikesコレクションに複合キーで保存する。
type LikeRepository interface {
	// Put は複合キー位置にいいねを書き込む。既存キーへの書き込みは
	// created_atを上書きする（last write wins、結果は冪等）。
	Put(ctx context.Context, like *model.Like) error

	// FindByUserAndRecipe は(user, recipe)に一致するいいねを検索する。
	// 見つからない場合はnilを返す。複合キーにより高々1件。
	FindByUserAndRecipe(ctx context.Context, userID, recipeID string) (*model.Like, error)

	// DeleteByID は指定キーのいいねを削除する。
	// 存在しない場合はErrLikeNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error

	// ListRecipeIDsByUser はユーザーがいいねした全レシピIDを返す。
	ListRecipeIDsByUser(ctx context.Context, userID string) ([]string, error)

	// DeleteByUserID はユーザーの全いいねを削除する。ID削除時のカスケード用。
	DeleteByUserID(ctx context.Context, userID string) error
}

// MealplanRepository は保存済みミールプランの永続化インターフェース。
type MealplanRepository interface {
	// Create はペイロードを新規レコードとして保存し、ストア採番のIDを返す。
	// created_atはサーバー採番。
	Create(ctx context.Context, userID string, payload json.RawMessage) (string, error)

	// DeleteByUserAndID は指定ユーザーの指定ミールプランを削除する。
	// 存在しない場合もエラーにしない（fire-and-forgetなクリーンアップ経路のため）。
	DeleteByUserAndID(ctx context.Context, userID, mealplanID string) error

	// DeleteByUserID はユーザーの全ミールプランを削除する。ID削除時のカスケード用。
	DeleteByUserID(ctx context.Context, userID string) error
}
