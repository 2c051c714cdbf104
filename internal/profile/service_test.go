package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/wellmate/internal/model"
)

type mockProfileRepo struct {
	findByIDFn         func(ctx context.Context, id string) (*model.Profile, error)
	createFn           func(ctx context.Context, profile *model.Profile) error
	refreshLastLoginFn func(ctx context.Context, id string) error
	deleteByIDFn       func(ctx context.Context, id string) error
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	if m.createFn != nil {
		return m.createFn(ctx, profile)
	}
	return nil
}
func (m *mockProfileRepo) RefreshLastLogin(ctx context.Context, id string) error {
	if m.refreshLastLoginFn != nil {
		return m.refreshLastLoginFn(ctx, id)
	}
	return nil
}
func (m *mockProfileRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockDeleter struct {
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockDeleter) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

type mockRecorder struct {
	cleanupFailures []string
}

func (m *mockRecorder) RecordLikeOperation(op, outcome string) {}
func (m *mockRecorder) RecordCatalogLatency(d time.Duration)   {}
func (m *mockRecorder) RecordCleanupFailure(kind string) {
	m.cleanupFailures = append(m.cleanupFailures, kind)
}

// --- HandleIdentityCreated ---

// プロフィール未存在時、デフォルト値で新規作成されることを検証する。
func TestService_HandleIdentityCreated_NewProfile_UsesDefaults(t *testing.T) {
	var created *model.Profile
	repo := &mockProfileRepo{
		createFn: func(ctx context.Context, profile *model.Profile) error {
			created = profile
			return nil
		},
	}
	svc := NewService(repo, &mockDeleter{}, &mockDeleter{}, nil)

	if err := svc.HandleIdentityCreated(context.Background(), "id-1", "", ""); err != nil {
		t.Fatalf("HandleIdentityCreated returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected Create to be called for new identity")
	}
	if created.DisplayName != model.DefaultDisplayName {
		t.Errorf("display name = %q, want %q", created.DisplayName, model.DefaultDisplayName)
	}
	if created.AvatarURL != model.DefaultAvatarURL {
		t.Errorf("avatar URL = %q, want %q", created.AvatarURL, model.DefaultAvatarURL)
	}
}

// 提供された表示名とアバターがデフォルトより優先されることを検証する。
func TestService_HandleIdentityCreated_ProvidedFieldsWin(t *testing.T) {
	var created *model.Profile
	repo := &mockProfileRepo{
		createFn: func(ctx context.Context, profile *model.Profile) error {
			created = profile
			return nil
		},
	}
	svc := NewService(repo, &mockDeleter{}, &mockDeleter{}, nil)

	if err := svc.HandleIdentityCreated(context.Background(), "id-1", "Hanako", "https://example.com/a.png"); err != nil {
		t.Fatalf("HandleIdentityCreated returned error: %v", err)
	}
	if created.DisplayName != "Hanako" {
		t.Errorf("display name = %q, want %q", created.DisplayName, "Hanako")
	}
	if created.AvatarURL != "https://example.com/a.png" {
		t.Errorf("avatar URL = %q, want %q", created.AvatarURL, "https://example.com/a.png")
	}
}

// 既存プロフィールがある場合、上書きせずlast_loginのみ更新されることを検証する（冪等upsert）。
func TestService_HandleIdentityCreated_ExistingProfile_RefreshesLastLoginOnly(t *testing.T) {
	createCalled := false
	refreshCalled := false
	repo := &mockProfileRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Profile, error) {
			return &model.Profile{ID: id, DisplayName: "Existing"}, nil
		},
		createFn: func(ctx context.Context, profile *model.Profile) error {
			createCalled = true
			return nil
		},
		refreshLastLoginFn: func(ctx context.Context, id string) error {
			refreshCalled = true
			return nil
		},
	}
	svc := NewService(repo, &mockDeleter{}, &mockDeleter{}, nil)

	if err := svc.HandleIdentityCreated(context.Background(), "id-1", "NewName", ""); err != nil {
		t.Fatalf("HandleIdentityCreated returned error: %v", err)
	}
	if createCalled {
		t.Error("existing profile must not be recreated or overwritten")
	}
	if !refreshCalled {
		t.Error("expected last_login to be refreshed for existing profile")
	}
}

// 空のidentityIDがINVALID_ARGUMENTになることを検証する。
func TestService_HandleIdentityCreated_EmptyID(t *testing.T) {
	svc := NewService(&mockProfileRepo{}, &mockDeleter{}, &mockDeleter{}, nil)

	err := svc.HandleIdentityCreated(context.Background(), "", "", "")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidArgument {
		t.Errorf("error = %v, want APIError with code %q", err, model.ErrCodeInvalidArgument)
	}
}

// --- HandleIdentityDeleted ---

// クリーンアップが mealplans → likes → profile の順で実行されることを検証する。
func TestService_HandleIdentityDeleted_CleanupOrder(t *testing.T) {
	var order []string
	repo := &mockProfileRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			order = append(order, "profile")
			return nil
		},
	}
	likeDeleter := &mockDeleter{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			order = append(order, "likes")
			return nil
		},
	}
	mealplanDeleter := &mockDeleter{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			order = append(order, "mealplans")
			return nil
		},
	}
	svc := NewService(repo, likeDeleter, mealplanDeleter, nil)

	if err := svc.HandleIdentityDeleted(context.Background(), "id-1"); err != nil {
		t.Fatalf("HandleIdentityDeleted returned error: %v", err)
	}

	want := []string{"mealplans", "likes", "profile"}
	if len(order) != len(want) {
		t.Fatalf("cleanup steps = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("cleanup step %d = %q, want %q", i, order[i], want[i])
		}
	}
}

// 途中ステップの失敗で後続ステップが止まらず、失敗が戻り値とメトリクスで観測できることを検証する。
func TestService_HandleIdentityDeleted_ContinuesOnFailure(t *testing.T) {
	profileDeleted := false
	likesDeleted := false
	repo := &mockProfileRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			profileDeleted = true
			return nil
		},
	}
	likeDeleter := &mockDeleter{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			likesDeleted = true
			return nil
		},
	}
	mealplanDeleter := &mockDeleter{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			return errors.New("mealplan store down")
		},
	}
	recorder := &mockRecorder{}
	svc := NewService(repo, likeDeleter, mealplanDeleter, recorder)

	err := svc.HandleIdentityDeleted(context.Background(), "id-1")
	if err == nil {
		t.Error("expected joined error reporting the failed step")
	}
	if !likesDeleted {
		t.Error("likes cleanup must run even after mealplan cleanup failure")
	}
	if !profileDeleted {
		t.Error("profile cleanup must run even after mealplan cleanup failure")
	}
	if len(recorder.cleanupFailures) != 1 {
		t.Errorf("recorded %d cleanup failures, want 1", len(recorder.cleanupFailures))
	}
}

// 空のidentityIDがINVALID_ARGUMENTになることを検証する。
func TestService_HandleIdentityDeleted_EmptyID(t *testing.T) {
	svc := NewService(&mockProfileRepo{}, &mockDeleter{}, &mockDeleter{}, nil)

	err := svc.HandleIdentityDeleted(context.Background(), "")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidArgument {
		t.Errorf("error = %v, want APIError with code %q", err, model.ErrCodeInvalidArgument)
	}
}
