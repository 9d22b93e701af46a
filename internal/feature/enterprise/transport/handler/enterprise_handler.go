// Package handler はenterpriseフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"enterprise_backend/internal/feature/enterprise/domain/entity"
	"enterprise_backend/internal/feature/enterprise/transport/http/dto"
	"enterprise_backend/internal/platform/http/render"
	jwtmw "enterprise_backend/internal/platform/jwt"
	"enterprise_backend/internal/shared/apperror"
	"enterprise_backend/internal/shared/validation"
)

const (
	IndexPath = "/index"

	MsgCreated = "Your enterprise has been created successfully."
	MsgEdited  = "Your changes have been registered successfully."
	MsgDeleted = "The enterprise has been deleted successfully."
)

// EnterpriseUsecase はエンタープライズ操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type EnterpriseUsecase interface {
	List(ctx context.Context, ownerID uint, page int) (*entity.Page, error)
	Create(ctx context.Context, ownerID uint, in entity.EnterpriseInput) (*entity.Enterprise, error)
	Get(ctx context.Context, ownerID uint, name string) (*entity.Enterprise, error)
	Edit(ctx context.Context, ownerID uint, originalName string, in entity.EnterpriseInput) (*entity.Enterprise, error)
	Delete(ctx context.Context, ownerID uint, name string) error
}

// FlashStore はリダイレクトをまたぐ一度きりのメッセージを扱います。
type FlashStore interface {
	Add(c *gin.Context, msg string)
	Pop(c *gin.Context) []string
}

// EnterpriseHandler はindex・編集・削除のHTTPリクエストを処理します。
// 全てのルートはAuthRequiredの後ろに置かれる前提です。
type EnterpriseHandler struct {
	enterprises EnterpriseUsecase
	flashes     FlashStore
}

// NewEnterpriseHandler はEnterpriseHandlerの新しいインスタンスを生成します。
func NewEnterpriseHandler(enterprises EnterpriseUsecase, flashes FlashStore) *EnterpriseHandler {
	return &EnterpriseHandler{enterprises: enterprises, flashes: flashes}
}

// Index はオーナーのエンタープライズ一覧と作成フォームを表示します。
func (h *EnterpriseHandler) Index(c *gin.Context) {
	view, err := h.indexView(c, dto.EnterpriseForm{})
	if err != nil {
		slog.Error("failed to list enterprises", "error", err)
		render.InternalError(c)
		return
	}
	render.Page(c, http.StatusOK, view)
}

// Create は作成フォームの送信を処理します。
// - 検証失敗時は一覧と共にフォームを再表示
// - 成功時はフラッシュを追加してindexへリダイレクト
func (h *EnterpriseHandler) Create(c *gin.Context) {
	owner := ownerID(c)

	var form dto.EnterpriseForm
	bindErr := c.ShouldBind(&form)

	var err error
	if bindErr != nil {
		err = validation.FromBindingError(bindErr)
	} else {
		var created *entity.Enterprise
		created, err = h.enterprises.Create(c.Request.Context(), owner, form.Input())
		if err == nil {
			slog.Info("enterprise created", "enterprise_id", created.ID, "owner_id", owner)
			h.flashes.Add(c, MsgCreated)
			render.Redirect(c, IndexPath)
			return
		}
	}

	view, listErr := h.indexView(c, form)
	if listErr != nil {
		slog.Error("failed to list enterprises", "error", listErr)
		render.InternalError(c)
		return
	}
	render.FormError(c, view, err)
}

// EditPage は現在の値を初期値とした編集フォームを表示します。
func (h *EnterpriseHandler) EditPage(c *gin.Context) {
	e, err := h.enterprises.Get(c.Request.Context(), ownerID(c), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	render.Page(c, http.StatusOK, h.editView(c, dto.NewEditEnterpriseForm(e)))
}

// Edit は編集フォームの送信を処理します。
func (h *EnterpriseHandler) Edit(c *gin.Context) {
	owner := ownerID(c)

	var form dto.EditEnterpriseForm
	if err := c.ShouldBind(&form); err != nil {
		// 存在しないエンタープライズへの送信は検証より先に404とする
		if _, getErr := h.enterprises.Get(c.Request.Context(), owner, c.Param("name")); getErr != nil {
			h.fail(c, getErr)
			return
		}
		render.FormError(c, h.editView(c, form), validation.FromBindingError(err))
		return
	}

	updated, err := h.enterprises.Edit(c.Request.Context(), owner, c.Param("name"), form.Input())
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.fail(c, err)
			return
		}
		render.FormError(c, h.editView(c, form), err)
		return
	}

	slog.Info("enterprise updated", "enterprise_id", updated.ID, "owner_id", owner)
	h.flashes.Add(c, MsgEdited)
	render.Redirect(c, IndexPath)
}

// Delete はエンタープライズを削除してindexへリダイレクトします。
func (h *EnterpriseHandler) Delete(c *gin.Context) {
	owner := ownerID(c)
	name := c.Param("name")
	if err := h.enterprises.Delete(c.Request.Context(), owner, name); err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("enterprise deleted", "name", name, "owner_id", owner)
	h.flashes.Add(c, MsgDeleted)
	render.Redirect(c, IndexPath)
}

func (h *EnterpriseHandler) indexView(c *gin.Context, form dto.EnterpriseForm) (render.View, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	p, err := h.enterprises.List(c.Request.Context(), ownerID(c), page)
	if err != nil {
		return render.View{}, err
	}
	items, pv := dto.NewIndexData(p, IndexPath)
	return render.View{
		Template: "index.html",
		Title:    "Home",
		Flashes:  h.flashes.Pop(c),
		Data:     gin.H{"form": form, "enterprises": items, "page": pv},
	}, nil
}

func (h *EnterpriseHandler) editView(c *gin.Context, form dto.EditEnterpriseForm) render.View {
	return render.View{
		Template: "edit_enterprise.html",
		Title:    "Edit Enterprise",
		Flashes:  h.flashes.Pop(c),
		Data:     gin.H{"form": form},
	}
}

// fail は404または500を表示します。
func (h *EnterpriseHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		render.NotFound(c, h.flashes.Pop(c))
		return
	}
	slog.Error("enterprise request failed", "path", c.Request.URL.Path, "error", err)
	render.InternalError(c)
}

func ownerID(c *gin.Context) uint {
	if u, ok := jwtmw.CurrentUser(c); ok {
		return u.ID
	}
	return 0
}
