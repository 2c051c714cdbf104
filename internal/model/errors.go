// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// Errには診断用の元エラーを保持する（レスポンスには含めない）。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, catalog, system
	Action   string // ユーザー向け対処方法
	Err      error  // 元エラー（UNKNOWN系のみ。診断用）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は元エラーを返す。errors.Is / errors.As の連鎖に対応する。
func (e *APIError) Unwrap() error {
	return e.Err
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnknown         = "UNKNOWN"
)

// NewUnauthenticatedError は認証エラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewInvalidArgumentError は必須フィールド欠落エラーを生成する。
func NewInvalidArgumentError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidArgument,
		Message:  fmt.Sprintf("必須フィールドが指定されていません: %s", field),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewRecipeNotFoundError はレシピ未検出エラーを生成する。
func NewRecipeNotFoundError(recipeID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定されたレシピが見つかりません: %s", recipeID),
		Category: "catalog",
		Action:   "レシピIDを確認してください。",
	}
}

// NewLikeNotFoundError はいいね未検出エラーを生成する。
func NewLikeNotFoundError(recipeID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("このレシピへのいいねが見つかりません: %s", recipeID),
		Category: "validation",
		Action:   "いいね済みのレシピのみ解除できます。",
	}
}

// NewUnknownError は予期しないストア障害エラーを生成する。
// 元エラーをErrに保持し、診断時にerrors.Unwrapで辿れるようにする。
func NewUnknownError(message string, err error) *APIError {
	return &APIError{
		Code:     ErrCodeUnknown,
		Message:  message,
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
		Err:      err,
	}
}
