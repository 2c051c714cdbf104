// Package model はドメインモデルを定義する。
package model

import "time"

// プロフィール未設定時のデフォルト値。
// 表示名とアバターはIDプロバイダーから渡されなかった場合に補完する。
const (
	DefaultDisplayName = "Anonymous"
	DefaultAvatarURL   = "https://avatars.githubusercontent.com/u/214020?s=40&v=4"
)

// Profile はID（認証済みユーザー）ごとに1件存在する非正規化プロフィールを表す。
// プロフィールはIDプロバイダーのライフサイクルイベントで作成・削除される。
type Profile struct {
	ID          string // IDプロバイダーが発行する一意なID
	DisplayName string
	AvatarURL   string
	LastLogin   time.Time // サーバー採番。作成・ログインイベントごとに更新される
	CreatedAt   time.Time
}
