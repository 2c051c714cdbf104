package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/wellmate/internal/model"
)

// PostgresLikeRepo はPostgreSQLを使用したいいねリポジトリ。
type PostgresLikeRepo struct {
	db *sql.DB
}

// NewPostgresLikeRepo はPostgresLikeRepoを生成する。
func NewPostgresLikeRepo(db *sql.DB) *PostgresLikeRepo {
	return &PostgresLikeRepo{db: db}
}

// Put は複合キー位置にいいねを書き込む。
// 既存キーへの書き込みはcreated_atを上書きする（last write wins）。
func (r *PostgresLikeRepo) Put(ctx context.Context, like *model.Like) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO likes (id, user_id, recipe_id, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (id) DO UPDATE SET created_at = NOW()`,
		like.ID, like.UserID, like.RecipeID,
	)
	if err != nil {
		return fmt.Errorf("いいねの保存に失敗しました: %w", err)
	}
	return nil
}

// FindByUserAndRecipe は(user, recipe)に一致するいいねを検索する。見つからない場合はnilを返す。
// 複合キーにより高々1件だが、元のフラットコレクション同様にフィールド検索で照合する。
func (r *PostgresLikeRepo) FindByUserAndRecipe(ctx context.Context, userID, recipeID string) (*model.Like, error) {
	like := &model.Like{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, recipe_id, created_at
		 FROM likes WHERE user_id = $1 AND recipe_id = $2
		 LIMIT 1`,
		userID, recipeID,
	).Scan(&like.ID, &like.UserID, &like.RecipeID, &like.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("いいねの検索に失敗しました: %w", err)
	}

	return like, nil
}

// DeleteByID は指定キーのいいねを削除する。存在しない場合はErrLikeNotFoundを返す。
func (r *PostgresLikeRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("いいねの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// ListRecipeIDsByUser はユーザーがいいねした全レシピIDを返す。
func (r *PostgresLikeRepo) ListRecipeIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT recipe_id FROM likes WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("いいね一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var recipeIDs []string
	for rows.Next() {
		var recipeID string
		if err := rows.Scan(&recipeID); err != nil {
			return nil, fmt.Errorf("いいね行の読み取りに失敗しました: %w", err)
		}
		recipeIDs = append(recipeIDs, recipeID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("いいね一覧の走査に失敗しました: %w", err)
	}
	return recipeIDs, nil
}

// DeleteByUserID はユーザーの全いいねを削除する。
func (r *PostgresLikeRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの全いいねの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ LikeRepository = (*PostgresLikeRepo)(nil)
