// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/wellmate/internal/middleware"
	"github.com/hitoshi/wellmate/internal/model"
)

// LikeServiceInterface はいいねハンドラーが必要とするサービスインターフェース。
type LikeServiceInterface interface {
	// Like はレシピへのいいねを保存する。
	Like(ctx context.Context, userID, recipeID string) error
	// Unlike はレシピへのいいねを削除する。
	Unlike(ctx context.Context, userID, recipeID string) error
	// IsLiked はユーザーがレシピをいいね済みかを返す。
	IsLiked(ctx context.Context, userID, recipeID string) (bool, error)
	// ListLikedRecipes はいいね済みレシピの射影一覧を返す。
	ListLikedRecipes(ctx context.Context, userID string) ([]model.Recipe, error)
}

// LikeHandler はいいね管理のHTTPハンドラー。
type LikeHandler struct {
	service LikeServiceInterface
}

// NewLikeHandler はLikeHandlerを生成する。
func NewLikeHandler(service LikeServiceInterface) *LikeHandler {
	return &LikeHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// likeRequest はいいね登録リクエストのボディ。
// ユーザーIDはボディからは受け取らない（認証済みコンテキストのみ）。
type likeRequest struct {
	RecipeID string `json:"recipe_id"`
}

// ackResponse はいいね登録・解除の成功応答。
type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// isLikedResponse はいいね状態確認の応答。
type isLikedResponse struct {
	IsLiked bool `json:"is_liked"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// Like はレシピへのいいねを保存する。
// POST /api/likes
func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.IdentityIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidArgumentError("recipe_id"))
		return
	}

	if err := h.service.Like(r.Context(), userID, req.RecipeID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ackResponse{
		Success: true,
		Message: "いいねを保存しました。",
	})
}

// Unlike はレシピへのいいねを削除する。
// DELETE /api/likes/{recipeID}
func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.IdentityIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	recipeID := chi.URLParam(r, "recipeID")

	if err := h.service.Unlike(r.Context(), userID, recipeID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ackResponse{
		Success: true,
		Message: "いいねを削除しました。",
	})
}

// IsLiked はレシピへのいいね状態を返す。
// GET /api/likes/{recipeID}
func (h *LikeHandler) IsLiked(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.IdentityIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	recipeID := chi.URLParam(r, "recipeID")

	isLiked, err := h.service.IsLiked(r.Context(), userID, recipeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(isLikedResponse{IsLiked: isLiked})
}

// ListLiked はいいね済みレシピの一覧を返す。
// GET /api/likes
func (h *LikeHandler) ListLiked(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.IdentityIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	recipes, err := h.service.ListLikedRecipes(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recipes)
}

// --- エラーレスポンスヘルパー ---

// writeAPIErrorResponse は統一エラーフォーマットでレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if statusCode >= 500 {
			// UNKNOWNは元エラーをログにのみ残す
			slog.Error("store failure", slog.String("error", err.Error()),
				slog.Any("cause", apiErr.Err))
		}
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     model.ErrCodeUnknown,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
