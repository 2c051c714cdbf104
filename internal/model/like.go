package model

import "time"

// likeIDSeparator は複合キーの区切り文字。
const likeIDSeparator = "_"

// Like は「ユーザーXがレシピYをいいねした」関係レコードを表す。
// レコードは所有者の下にネストせず、フラットなコレクションに保存する
// （user_id / recipe_id どちらからでも検索できるようにするため）。
//
// 複合キー:
//   - ID = user_id + "_" + recipe_id
//   - トランザクションなしで (user, recipe) ペアごとの一意性を保証する。
//     同一ペアへの同時likeは同じキーに収束する（last write wins）。
type Like struct {
	ID        string
	UserID    string
	RecipeID  string
	CreatedAt time.Time // サーバー採番
}

// LikeID はユーザーIDとレシピIDから決定的な複合キーを生成する。
func LikeID(userID, recipeID string) string {
	return userID + likeIDSeparator + recipeID
}
