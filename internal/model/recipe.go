package model

// Recipe は外部カタログのレシピレコードの射影を表す。
// カタログはこのシステムからは読み取り専用であり、
// ここに列挙したフィールドのみを取得する（明示的な許可リスト射影）。
//
// Like.RecipeID はこのレコードのIDへのソフト参照であり、
// 参照整合性は強制されない。カタログから削除されたレシピへの
// いいね（宙吊り参照）は読み取り側で許容する。
type Recipe struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Image            string  `json:"image"`
	Rating           float64 `json:"rating"`
	NutritionalScore float64 `json:"nutritional_score"`
	ProteinScore     float64 `json:"protein_score"`
}
