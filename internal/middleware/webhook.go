package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/hitoshi/wellmate/internal/model"
)

// webhookSecretHeader はIDプロバイダーがライフサイクルイベント送信時に付与するヘッダー。
const webhookSecretHeader = "X-Webhook-Secret"

// NewWebhookSecretMiddleware はIDプロバイダーからのライフサイクルイベントを
// 共有シークレットで検証するミドルウェアを返す。
// 比較はタイミング攻撃を避けるため定数時間で行う。
func NewWebhookSecretMiddleware(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(webhookSecretHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
