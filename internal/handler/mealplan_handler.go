package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/wellmate/internal/metrics"
	"github.com/hitoshi/wellmate/internal/middleware"
	"github.com/hitoshi/wellmate/internal/model"
)

// MealplanServiceInterface はミールプランハンドラーが必要とするサービスインターフェース。
type MealplanServiceInterface interface {
	// Save はペイロードを保存し、採番されたIDを返す。
	Save(ctx context.Context, userID string, payload map[string]any) (string, error)
	// Unsave は指定IDのミールプランを削除する。
	Unsave(ctx context.Context, userID, mealplanID string) error
}

// MealplanHandler は保存済みミールプラン管理のHTTPハンドラー。
//
// 保存・削除の失敗は呼び出し元にエラーとして返さない（fire-and-forget）。
// 失敗はログとメトリクスにのみ記録する。
type MealplanHandler struct {
	service  MealplanServiceInterface
	recorder metrics.Recorder
}

// NewMealplanHandler はMealplanHandlerを生成する。
// recorderはnil可（nilの場合メトリクスは記録しない）。
func NewMealplanHandler(service MealplanServiceInterface, recorder metrics.Recorder) *MealplanHandler {
	return &MealplanHandler{service: service, recorder: recorder}
}

// --- リクエスト・レスポンス型 ---

// saveMealplanRequest はミールプラン保存リクエストのボディ。
// mealplanの中身は任意のJSONオブジェクトで、形状のバリデーションは行わない。
type saveMealplanRequest struct {
	Mealplan map[string]any `json:"mealplan"`
}

// mealplanAcceptedResponse はfire-and-forget操作の受理応答。
type mealplanAcceptedResponse struct {
	Status     string `json:"status"`
	MealplanID string `json:"mealplan_id,omitempty"`
}

// Save はミールプランを保存する。
// POST /api/mealplans
func (h *MealplanHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.IdentityIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req saveMealplanRequest
	// ボディの不備も含め、保存失敗は呼び出し元に伝えない
	_ = json.NewDecoder(r.Body).Decode(&req)

	id, err := h.service.Save(r.Context(), userID, req.Mealplan)
	if err != nil {
		h.recordCleanupFailure("mealplan_save")
		slog.Error("failed to save mealplan",
			slog.String("identity_id", userID),
			slog.String("error", err.Error()),
		)
		writeAccepted(w, mealplanAcceptedResponse{Status: "accepted"})
		return
	}

	writeAccepted(w, mealplanAcceptedResponse{Status: "accepted", MealplanID: id})
}

// Unsave はミールプランを削除する。
// DELETE /api/mealplans/{id}
func (h *MealplanHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.IdentityIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	mealplanID := chi.URLParam(r, "id")

	if err := h.service.Unsave(r.Context(), userID, mealplanID); err != nil {
		h.recordCleanupFailure("mealplan_unsave")
		slog.Error("failed to unsave mealplan",
			slog.String("identity_id", userID),
			slog.String("mealplan_id", mealplanID),
			slog.String("error", err.Error()),
		)
	}

	writeAccepted(w, mealplanAcceptedResponse{Status: "accepted"})
}

func (h *MealplanHandler) recordCleanupFailure(kind string) {
	if h.recorder != nil {
		h.recorder.RecordCleanupFailure(kind)
	}
}

// writeAccepted は202で受理応答を書き込む。
func writeAccepted(w http.ResponseWriter, body mealplanAcceptedResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(body)
}
