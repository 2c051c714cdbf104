package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// PostgresMealplanRepo はPostgreSQLを使用した保存済みミールプランリポジトリ。
type PostgresMealplanRepo struct {
	db *sql.DB
}

// NewPostgresMealplanRepo はPostgresMealplanRepoを生成する。
func NewPostgresMealplanRepo(db *sql.DB) *PostgresMealplanRepo {
	return &PostgresMealplanRepo{db: db}
}

// Create はペイロードを新規レコードとして保存し、ストア採番のIDを返す。
// IDはUUID（決定的ではない）。同一内容の複数回保存は別レコードになる。
func (r *PostgresMealplanRepo) Create(ctx context.Context, userID string, payload json.RawMessage) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO saved_mealplans (id, user_id, payload, created_at)
		 VALUES ($1, $2, $3, NOW())`,
		id, userID, []byte(payload),
	)
	if err != nil {
		return "", fmt.Errorf("ミールプランの保存に失敗しました: %w", err)
	}
	return id, nil
}

// DeleteByUserAndID は指定ユーザーの指定ミールプランを削除する。
// user_idも条件に含め、他ユーザーのレコードを削除できないようにする。
// 存在しない場合もエラーにしない。
func (r *PostgresMealplanRepo) DeleteByUserAndID(ctx context.Context, userID, mealplanID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_mealplans WHERE user_id = $1 AND id = $2`,
		userID, mealplanID,
	)
	if err != nil {
		return fmt.Errorf("ミールプランの削除に失敗しました: %w", err)
	}
	return nil
}

// DeleteByUserID はユーザーの全ミールプランを削除する。
func (r *PostgresMealplanRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_mealplans WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの全ミールプランの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ MealplanRepository = (*PostgresMealplanRepo)(nil)
