// Package catalog は外部レシピカタログへの読み取り専用クライアントを提供する。
// カタログは本システムとは別の管理下にあるストアであり、参照のみ行う。
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/wellmate/internal/model"
)

// projectionColumns は取得フィールドの明示的な許可リスト。
// ここに無いカタログ列は呼び出し側から参照できない。
const projectionColumns = `id, name, description, image, rating, nutritional_score, protein_score`

// Client はレシピカタログストアへのアクセサ。
// 各操作はプールからスコープ付きコネクションを1本取り出し、
// 成功・失敗・未検出のどの経路でも必ず返却する。
type Client struct {
	db *sql.DB
}

// Open はカタログストアへの接続を開く。
// catalogURLには認証情報展開済みの接続URLを渡す（config.Load参照）。
func Open(catalogURL string) (*Client, error) {
	db, err := sql.Open("postgres", catalogURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}
	return &Client{db: db}, nil
}

// Ping はカタログストアへの疎通を確認する。
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close はカタログストアへの接続プールを閉じる。
func (c *Client) Close() error {
	return c.db.Close()
}

// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
func (c *Client) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("カタログ接続の取得に失敗しました: %w", err)
	}
	// スコープ付き接続はどの経路でも必ず返却する
	defer conn.Close()

	recipe := &model.Recipe{}
	err = conn.QueryRowContext(ctx,
		`SELECT `+projectionColumns+` FROM recipes WHERE id = $1`,
		id,
	).Scan(
		&recipe.ID, &recipe.Name, &recipe.Description, &recipe.Image,
		&recipe.Rating, &recipe.NutritionalScore, &recipe.ProteinScore,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("レシピの取得に失敗しました: %w", err)
	}

	return recipe, nil
}

// ListByIDs は指定ID集合に含まれるレシピを射影付きで返す。
// カタログに存在しないIDは結果から単に欠落する（エラーにしない）。
// idsが空の場合は接続を取得せずに空を返す。
func (c *Client) ListByIDs(ctx context.Context, ids []string) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("カタログ接続の取得に失敗しました: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx,
		`SELECT `+projectionColumns+` FROM recipes WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("レシピ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		var recipe model.Recipe
		if err := rows.Scan(
			&recipe.ID, &recipe.Name, &recipe.Description, &recipe.Image,
			&recipe.Rating, &recipe.NutritionalScore, &recipe.ProteinScore,
		); err != nil {
			return nil, fmt.Errorf("レシピ行の読み取りに失敗しました: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("レシピ一覧の走査に失敗しました: %w", err)
	}
	return recipes, nil
}
