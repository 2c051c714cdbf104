package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

// signToken は指定クレームのHS256トークンを発行する。
func signToken(t *testing.T, claims jwt.RegisteredClaims, secret []byte) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// nextCapture は後続ハンドラー到達の有無とコンテキスト内のIDを記録する。
type nextCapture struct {
	called     bool
	identityID string
}

func (n *nextCapture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.called = true
		n.identityID, _ = IdentityIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// 有効なトークンでsubjectがコンテキストに注入されることを検証する。
func TestAuthMiddleware_ValidToken_InjectsSubject(t *testing.T) {
	next := &nextCapture{}
	mw := NewAuthMiddleware(testSecret)

	token := signToken(t, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/likes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw(next.handler()).ServeHTTP(rec, req)

	if !next.called {
		t.Fatal("expected next handler to be called")
	}
	if next.identityID != "u1" {
		t.Errorf("identity ID = %q, want %q", next.identityID, "u1")
	}
}

// 無効なリクエストが後続に到達せず401になることを検証する。
func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := signToken(t, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}, testSecret)
	wrongSecret := signToken(t, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, []byte("other-secret"))
	noSubject := signToken(t, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, testSecret)

	tests := []struct {
		name          string
		authorization string
	}{
		{name: "missing header", authorization: ""},
		{name: "not a bearer token", authorization: "Basic dXNlcjpwYXNz"},
		{name: "empty bearer token", authorization: "Bearer "},
		{name: "malformed token", authorization: "Bearer not-a-jwt"},
		{name: "expired token", authorization: "Bearer " + expired},
		{name: "wrong secret", authorization: "Bearer " + wrongSecret},
		{name: "no subject claim", authorization: "Bearer " + noSubject},
	}

	mw := NewAuthMiddleware(testSecret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &nextCapture{}

			req := httptest.NewRequest(http.MethodGet, "/api/likes", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			mw(next.handler()).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if next.called {
				t.Error("next handler must not be called for unauthenticated request")
			}
		})
	}
}

// none署名のトークンが拒否されることを検証する。
func TestAuthMiddleware_NoneAlgorithm_Rejected(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "u1",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	next := &nextCapture{}
	mw := NewAuthMiddleware(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/likes", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	mw(next.handler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if next.called {
		t.Error("next handler must not be called for none-signed token")
	}
}

// コンテキストヘルパーの往復を検証する。
func TestIdentityIDContext_RoundTrip(t *testing.T) {
	ctx := ContextWithIdentityID(context.Background(), "u1")

	got, err := IdentityIDFromContext(ctx)
	if err != nil {
		t.Fatalf("IdentityIDFromContext returned error: %v", err)
	}
	if got != "u1" {
		t.Errorf("identity ID = %q, want %q", got, "u1")
	}
}

// IDのないコンテキストからの取得がエラーになることを検証する。
func TestIdentityIDFromContext_Missing(t *testing.T) {
	if _, err := IdentityIDFromContext(context.Background()); err == nil {
		t.Error("expected error for context without identity ID")
	}
}
