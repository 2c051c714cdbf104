package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/wellmate/internal/model"
)

// IDプロバイダーが送信するライフサイクルイベント種別。
const (
	EventIdentityCreated = "identity.created"
	EventIdentityDeleted = "identity.deleted"
)

// ProfileServiceInterface はイベントハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// HandleIdentityCreated はID作成イベントを処理する（冪等なupsert）。
	HandleIdentityCreated(ctx context.Context, identityID, displayName, avatarURL string) error
	// HandleIdentityDeleted はID削除イベントを処理する（カスケードクリーンアップ）。
	HandleIdentityDeleted(ctx context.Context, identityID string) error
}

// EventHandler はIDプロバイダーのライフサイクルイベントを受けるHTTPハンドラー。
// 直接呼び出しのAPIとは異なり、エンドユーザーではなくプロバイダーが呼び出す。
type EventHandler struct {
	service ProfileServiceInterface
}

// NewEventHandler はEventHandlerを生成する。
func NewEventHandler(service ProfileServiceInterface) *EventHandler {
	return &EventHandler{service: service}
}

// identityEventRequest はライフサイクルイベントのボディ。
type identityEventRequest struct {
	Type        string `json:"type"`
	IdentityID  string `json:"identity_id"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// HandleIdentityEvent はライフサイクルイベントを処理する。
// POST /events/identity
//
// identity.created の失敗は5xxで返し、プロバイダー側のリトライに委ねる。
// identity.deleted の失敗はログ・メトリクスにのみ記録して204を返す
// （クリーンアップ系のfire-and-forgetポリシー）。
func (h *EventHandler) HandleIdentityEvent(w http.ResponseWriter, r *http.Request) {
	var req identityEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidArgumentError("type"))
		return
	}

	if req.IdentityID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidArgumentError("identity_id"))
		return
	}

	switch req.Type {
	case EventIdentityCreated:
		if err := h.service.HandleIdentityCreated(r.Context(), req.IdentityID, req.DisplayName, req.AvatarURL); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case EventIdentityDeleted:
		if err := h.service.HandleIdentityDeleted(r.Context(), req.IdentityID); err != nil {
			// クリーンアップ失敗は伝播させない。サービス層で記録済み
			slog.Warn("identity cleanup reported failures",
				slog.String("identity_id", req.IdentityID),
			)
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidArgumentError("type"))
	}
}
