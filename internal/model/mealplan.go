package model

import (
	"encoding/json"
	"time"
)

// SavedMealplan はユーザーが保存したミールプランのスナップショットを表す。
// プロフィール配下にネストされた所有データとして保存する。
// IDはストア採番（決定的ではない）であり、同一内容を複数回保存すると
// 別々のレコードになる。
//
// Payloadは呼び出し側が渡した任意のJSONフィールドをそのまま保持する。
// 形状のバリデーションは行わない。
type SavedMealplan struct {
	ID        string
	UserID    string
	Payload   json.RawMessage
	CreatedAt time.Time // サーバー採番
}
