// Package profile はIDプロバイダーのライフサイクルイベントに連動する
// プロフィール管理のドメインロジックを提供する。
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/wellmate/internal/metrics"
	"github.com/hitoshi/wellmate/internal/model"
	"github.com/hitoshi/wellmate/internal/repository"
)

// LikeDeleter はID削除時のいいね一括削除インターフェース。
type LikeDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// MealplanDeleter はID削除時のミールプラン一括削除インターフェース。
type MealplanDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// Service はプロフィールライフサイクルのサービス層。
// 直接呼び出しではなく、IDプロバイダーのイベントから起動される。
type Service struct {
	profiles        repository.ProfileRepository
	likeDeleter     LikeDeleter
	mealplanDeleter MealplanDeleter
	recorder        metrics.Recorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnil可（nilの場合メトリクスは記録しない）。
func NewService(
	profiles repository.ProfileRepository,
	likeDeleter LikeDeleter,
	mealplanDeleter MealplanDeleter,
	recorder metrics.Recorder,
) *Service {
	return &Service{
		profiles:        profiles,
		likeDeleter:     likeDeleter,
		mealplanDeleter: mealplanDeleter,
		recorder:        recorder,
	}
}

// HandleIdentityCreated はID作成イベントを処理する（冪等なupsert）。
// プロフィールが無ければデフォルト値を補完して作成し、
// 既にあればlast_loginのみを更新する。クライアント側で先に
// プロフィール作成が済んでいるケースの両方に対応する。
func (s *Service) HandleIdentityCreated(ctx context.Context, identityID, displayName, avatarURL string) error {
	if identityID == "" {
		return model.NewInvalidArgumentError("identity_id")
	}

	existing, err := s.profiles.FindByID(ctx, identityID)
	if err != nil {
		return fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}

	if existing != nil {
		if err := s.profiles.RefreshLastLogin(ctx, identityID); err != nil {
			return fmt.Errorf("last_loginの更新に失敗しました: %w", err)
		}
		return nil
	}

	if displayName == "" {
		displayName = model.DefaultDisplayName
	}
	if avatarURL == "" {
		avatarURL = model.DefaultAvatarURL
	}

	p := &model.Profile{
		ID:          identityID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return fmt.Errorf("プロフィールの作成に失敗しました: %w", err)
	}

	slog.Info("profile created",
		slog.String("identity_id", identityID),
	)
	return nil
}

// HandleIdentityDeleted はID削除イベントを処理する。
// 削除順序: saved_mealplans → likes → profile。
// 各ステップの失敗はログとメトリクスに記録した上で後続ステップを継続する。
// 戻り値のエラーは観測用であり、イベントの呼び出し元には伝播させない
// （ハンドラー側で握りつぶすfire-and-forget運用）。
func (s *Service) HandleIdentityDeleted(ctx context.Context, identityID string) error {
	if identityID == "" {
		return model.NewInvalidArgumentError("identity_id")
	}

	slog.Info("identity cleanup started",
		slog.String("identity_id", identityID),
	)

	var failures []error

	// 1. ミールプランを削除
	if s.mealplanDeleter != nil {
		if err := s.mealplanDeleter.DeleteByUserID(ctx, identityID); err != nil {
			s.recordCleanupFailure("profile_cleanup")
			slog.Error("failed to delete saved mealplans",
				slog.String("identity_id", identityID),
				slog.String("error", err.Error()),
			)
			failures = append(failures, err)
		}
	}

	// 2. いいねを削除
	if s.likeDeleter != nil {
		if err := s.likeDeleter.DeleteByUserID(ctx, identityID); err != nil {
			s.recordCleanupFailure("profile_cleanup")
			slog.Error("failed to delete likes",
				slog.String("identity_id", identityID),
				slog.String("error", err.Error()),
			)
			failures = append(failures, err)
		}
	}

	// 3. プロフィールを削除
	if err := s.profiles.DeleteByID(ctx, identityID); err != nil {
		s.recordCleanupFailure("profile_cleanup")
		slog.Error("failed to delete profile",
			slog.String("identity_id", identityID),
			slog.String("error", err.Error()),
		)
		failures = append(failures, err)
	}

	if len(failures) > 0 {
		return errors.Join(failures...)
	}

	slog.Info("identity cleanup completed",
		slog.String("identity_id", identityID),
	)
	return nil
}

func (s *Service) recordCleanupFailure(kind string) {
	if s.recorder != nil {
		s.recorder.RecordCleanupFailure(kind)
	}
}
