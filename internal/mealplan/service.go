// Package mealplan は保存済みミールプランのドメインロジックを提供する。
package mealplan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/wellmate/internal/repository"
)

// Service は保存済みミールプランのサービス層。
//
// 失敗ポリシー: SaveとUnsaveの失敗はこの層からエラーとして返すが、
// ハンドラー側でログとメトリクスに記録した上で握りつぶす
// （呼び出し元にはエラーを伝えないfire-and-forget運用）。
// テストはこの層の戻り値で失敗が観測されたことを検証できる。
type Service struct {
	mealplans repository.MealplanRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(mealplans repository.MealplanRepository) *Service {
	return &Service{mealplans: mealplans}
}

// Save は呼び出し側が渡した任意のペイロードをそのまま保存し、採番されたIDを返す。
// ペイロード形状のバリデーションは行わない。未指定の場合は空オブジェクトとして扱う。
func (s *Service) Save(ctx context.Context, userID string, payload map[string]any) (string, error) {
	if payload == nil {
		payload = map[string]any{}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ミールプランのエンコードに失敗しました: %w", err)
	}

	id, err := s.mealplans.Create(ctx, userID, raw)
	if err != nil {
		return "", fmt.Errorf("ミールプランの保存に失敗しました: %w", err)
	}
	return id, nil
}

// Unsave は指定IDのミールプランを削除する。
// 対象が存在しない場合も成功として扱う（ストア側の削除は冪等）。
func (s *Service) Unsave(ctx context.Context, userID, mealplanID string) error {
	if mealplanID == "" {
		return fmt.Errorf("mealplan ID is empty")
	}

	if err := s.mealplans.DeleteByUserAndID(ctx, userID, mealplanID); err != nil {
		return fmt.Errorf("ミールプランの削除に失敗しました: %w", err)
	}
	return nil
}
