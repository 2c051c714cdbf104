package model

import (
	"errors"
	"strings"
	"testing"
)

// APIErrorがerrorインターフェースを実装し、コードとメッセージを含むことを検証する。
func TestAPIError_Error(t *testing.T) {
	err := NewInvalidArgumentError("recipe_id")

	msg := err.Error()
	if !strings.Contains(msg, ErrCodeInvalidArgument) {
		t.Errorf("error message %q should contain code %q", msg, ErrCodeInvalidArgument)
	}
	if !strings.Contains(msg, "recipe_id") {
		t.Errorf("error message %q should contain the field name", msg)
	}
}

// UnwrapがUNKNOWN系の元エラーを返し、errors.Isで辿れることを検証する。
func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewUnknownError("保存に失敗しました。", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}

	var apiErr *APIError
	if !errors.As(error(err), &apiErr) {
		t.Fatal("expected errors.As to match *APIError")
	}
	if apiErr.Code != ErrCodeUnknown {
		t.Errorf("code = %q, want %q", apiErr.Code, ErrCodeUnknown)
	}
}

// 各コンストラクタがコードとカテゴリを正しく設定することを検証する。
func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		err          *APIError
		wantCode     string
		wantCategory string
	}{
		{"unauthenticated", NewUnauthenticatedError(), ErrCodeUnauthenticated, "auth"},
		{"invalid argument", NewInvalidArgumentError("f"), ErrCodeInvalidArgument, "validation"},
		{"recipe not found", NewRecipeNotFoundError("r1"), ErrCodeNotFound, "catalog"},
		{"like not found", NewLikeNotFoundError("r1"), ErrCodeNotFound, "validation"},
		{"unknown", NewUnknownError("m", nil), ErrCodeUnknown, "system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", tt.err.Category, tt.wantCategory)
			}
			if tt.err.Message == "" || tt.err.Action == "" {
				t.Error("message and action should not be empty")
			}
		})
	}
}
