package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"enterprise_backend/internal/feature/auth/domain/entity"
	"enterprise_backend/internal/feature/auth/usecase"
	"enterprise_backend/internal/shared/apperror"
	"enterprise_backend/internal/shared/validation"
)

// mockProfileUsecase is a mock implementation of the ProfileUsecase interface.
type mockProfileUsecase struct {
	GetProfileFunc  func(ctx context.Context, username string) (*entity.User, error)
	EditProfileFunc func(ctx context.Context, current *entity.User, username, aboutMe string) (*entity.User, error)
}

func (m *mockProfileUsecase) GetProfile(ctx context.Context, username string) (*entity.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, username)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockProfileUsecase) EditProfile(ctx context.Context, current *entity.User, username, aboutMe string) (*entity.User, error) {
	if m.EditProfileFunc != nil {
		return m.EditProfileFunc(ctx, current, username, aboutMe)
	}
	updated := *current
	updated.Username, updated.AboutMe = username, aboutMe
	return &updated, nil
}

func newProfileRouter(uc ProfileUsecase, flashes FlashStore, current *entity.User) *gin.Engine {
	h := NewProfileHandler(uc, flashes)
	r := gin.New()
	r.Use(withUser(current))
	r.GET("/user/:username", h.Show)
	r.GET("/edit_profile", h.EditPage)
	r.POST("/edit_profile", h.Edit)
	return r
}

func TestProfileHandler_Show(t *testing.T) {
	alice := &entity.User{ID: 1, Username: "alice", Email: "alice@example.com", AboutMe: "hi", PasswordHash: "hash"}

	tests := []struct {
		name         string
		path         string
		getFunc      func(ctx context.Context, username string) (*entity.User, error)
		wantStatus   int
		wantTemplate string
	}{
		{
			name:         "existing user",
			path:         "/user/alice",
			getFunc:      func(ctx context.Context, username string) (*entity.User, error) { return alice, nil },
			wantStatus:   http.StatusOK,
			wantTemplate: "user.html",
		},
		{
			name:         "unknown user",
			path:         "/user/nobody",
			wantStatus:   http.StatusNotFound,
			wantTemplate: "404.html",
		},
		{
			name:         "storage failure",
			path:         "/user/alice",
			getFunc:      func(ctx context.Context, username string) (*entity.User, error) { return nil, errors.New("db down") },
			wantStatus:   http.StatusInternalServerError,
			wantTemplate: "500.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newProfileRouter(&mockProfileUsecase{GetProfileFunc: tt.getFunc}, &fakeFlashes{}, alice)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeView(t, w)
			assert.Equal(t, tt.wantTemplate, body["template"])
			assert.NotContains(t, w.Body.String(), "alice@example.com")
			assert.NotContains(t, w.Body.String(), "hash")
		})
	}
}

func TestProfileHandler_EditPage(t *testing.T) {
	r := newProfileRouter(&mockProfileUsecase{}, &fakeFlashes{}, &entity.User{ID: 1, Username: "alice", AboutMe: "hi"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/edit_profile", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeView(t, w)
	assert.Equal(t, "edit_profile.html", body["template"])
	assert.Equal(t, map[string]any{"form": map[string]any{"username": "alice", "about_me": "hi"}}, body["data"])
}

func TestProfileHandler_Edit(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		editFunc   func(ctx context.Context, current *entity.User, username, aboutMe string) (*entity.User, error)
		wantStatus int
		wantErrors map[string]any
	}{
		{
			name:       "success",
			form:       url.Values{"username": {"alicia"}, "about_me": {"new bio"}},
			wantStatus: http.StatusFound,
		},
		{
			name:       "about_me too long",
			form:       url.Values{"username": {"alice"}, "about_me": {strings.Repeat("x", 141)}},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]any{"about_me": []any{"Field cannot be longer than 140 characters."}},
		},
		{
			name:       "missing username",
			form:       url.Values{"about_me": {"bio"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]any{"username": []any{validation.MsgRequired}},
		},
		{
			name: "username taken",
			form: url.Values{"username": {"bob"}},
			editFunc: func(ctx context.Context, current *entity.User, username, aboutMe string) (*entity.User, error) {
				return nil, apperror.New(apperror.KindDuplicateValue, "username", validation.MsgUsernameTaken)
			},
			wantStatus: http.StatusConflict,
			wantErrors: map[string]any{"username": []any{validation.MsgUsernameTaken}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCurrent *entity.User
			uc := &mockProfileUsecase{}
			uc.EditProfileFunc = func(ctx context.Context, current *entity.User, username, aboutMe string) (*entity.User, error) {
				gotCurrent = current
				if tt.editFunc != nil {
					return tt.editFunc(ctx, current, username, aboutMe)
				}
				return &entity.User{ID: current.ID, Username: username, AboutMe: aboutMe}, nil
			}
			flashes := &fakeFlashes{}
			r := newProfileRouter(uc, flashes, &entity.User{ID: 1, Username: "alice"})

			w := postForm(r, "/edit_profile", tt.form)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantErrors == nil {
				assert.Equal(t, "/edit_profile", w.Header().Get("Location"))
				assert.Equal(t, []string{MsgProfileSaved}, flashes.added)
				assert.Equal(t, uint(1), gotCurrent.ID)
				return
			}
			assert.Empty(t, flashes.added)
			body := decodeView(t, w)
			assert.Equal(t, "edit_profile.html", body["template"])
			assert.Equal(t, tt.wantErrors, body["errors"])
		})
	}
}
