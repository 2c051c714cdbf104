package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/wellmate/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, avatar_url, last_login, created_at
		 FROM profiles WHERE id = $1`,
		id,
	).Scan(&profile.ID, &profile.DisplayName, &profile.AvatarURL, &profile.LastLogin, &profile.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}

	return profile, nil
}

// Create はプロフィールを作成する。last_loginとcreated_atはNOW()で採番する。
func (r *PostgresProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, display_name, avatar_url, last_login, created_at)
		 VALUES ($1, $2, $3, NOW(), NOW())`,
		profile.ID, profile.DisplayName, profile.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("プロフィールの作成に失敗しました: %w", err)
	}
	return nil
}

// RefreshLastLogin は既存プロフィールのlast_loginのみを現在時刻に更新する。
func (r *PostgresProfileRepo) RefreshLastLogin(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET last_login = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("last_loginの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("プロフィールが見つかりません: %s", id)
	}
	return nil
}

// DeleteByID は指定IDのプロフィールを削除する。存在しない場合もエラーにしない。
func (r *PostgresProfileRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM profiles WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("プロフィールの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
