package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"enterprise_backend/internal/feature/auth/domain/entity"
	"enterprise_backend/internal/feature/auth/transport/http/dto"
	"enterprise_backend/internal/feature/auth/usecase"
	"enterprise_backend/internal/platform/http/render"
	jwtmw "enterprise_backend/internal/platform/jwt"
	"enterprise_backend/internal/shared/validation"
)

const (
	EditProfilePath = "/edit_profile"
	MsgProfileSaved = "Your changes have been saved."
)

// ProfileUsecase はプロフィール操作のユースケースを定義します。
type ProfileUsecase interface {
	GetProfile(ctx context.Context, username string) (*entity.User, error)
	EditProfile(ctx context.Context, current *entity.User, username, aboutMe string) (*entity.User, error)
}

// ProfileHandler はプロフィールの表示と編集を処理します。
// 全てのルートはAuthRequiredの後ろに置かれる前提です。
type ProfileHandler struct {
	profiles ProfileUsecase
	flashes  FlashStore
}

// NewProfileHandler はProfileHandlerの新しいインスタンスを生成します。
func NewProfileHandler(profiles ProfileUsecase, flashes FlashStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, flashes: flashes}
}

// Show は /user/:username のプロフィールを表示します。存在しない場合は404です。
func (h *ProfileHandler) Show(c *gin.Context) {
	user, err := h.profiles.GetProfile(c.Request.Context(), c.Param("username"))
	if errors.Is(err, usecase.ErrUserNotFound) {
		render.NotFound(c, h.flashes.Pop(c))
		return
	}
	if err != nil {
		slog.Error("failed to load profile", "username", c.Param("username"), "error", err)
		render.InternalError(c)
		return
	}
	render.Page(c, http.StatusOK, render.View{
		Template: "user.html",
		Title:    user.Username,
		Flashes:  h.flashes.Pop(c),
		Data:     gin.H{"user": dto.NewUserView(user)},
	})
}

// EditPage は現在のユーザー名と自己紹介を初期値としたフォームを表示します。
func (h *ProfileHandler) EditPage(c *gin.Context) {
	current, _ := jwtmw.CurrentUser(c)
	render.Page(c, http.StatusOK, h.editView(c, dto.EditProfileForm{
		Username: current.Username,
		AboutMe:  current.AboutMe,
	}))
}

// Edit はプロフィール編集フォームの送信を処理します。
func (h *ProfileHandler) Edit(c *gin.Context) {
	current, _ := jwtmw.CurrentUser(c)

	var form dto.EditProfileForm
	if err := c.ShouldBind(&form); err != nil {
		render.FormError(c, h.editView(c, form), validation.FromBindingError(err))
		return
	}

	updated, err := h.profiles.EditProfile(c.Request.Context(), current, form.Username, form.AboutMe)
	if err != nil {
		render.FormError(c, h.editView(c, form), err)
		return
	}

	slog.Info("profile updated", "user_id", updated.ID)
	h.flashes.Add(c, MsgProfileSaved)
	render.Redirect(c, EditProfilePath)
}

func (h *ProfileHandler) editView(c *gin.Context, form dto.EditProfileForm) render.View {
	return render.View{
		Template: "edit_profile.html",
		Title:    "Edit Profile",
		Flashes:  h.flashes.Pop(c),
		Data:     gin.H{"form": form},
	}
}
