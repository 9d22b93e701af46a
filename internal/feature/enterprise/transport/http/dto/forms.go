// Package dto はenterpriseフィーチャーのフォーム入力と表示用の表現を定義します。
package dto

import (
	"strconv"
	"time"

	"enterprise_backend/internal/feature/enterprise/domain/entity"
)

// EnterpriseForm はindexページの作成フォームです。
type EnterpriseForm struct {
	Name        string `form:"name" json:"name" binding:"required,max=64"`
	Description string `form:"description" json:"description" binding:"required,max=140"`
	Symbol      string `form:"symbol" json:"symbol" binding:"required,max=10"`
	// Values はカンマ区切りの値の一覧です。
	Values string `form:"values" json:"values"`
}

// Input converts the form to the usecase input.
func (f EnterpriseForm) Input() entity.EnterpriseInput {
	return entity.EnterpriseInput{Name: f.Name, Description: f.Description, Symbol: f.Symbol, Values: f.Values}
}

// EditEnterpriseForm はエンタープライズ編集フォームです。値は編集できません。
type EditEnterpriseForm struct {
	Name        string `form:"name" json:"name" binding:"required,max=64"`
	Description string `form:"description" json:"description" binding:"required,max=140"`
	Symbol      string `form:"symbol" json:"symbol" binding:"required,max=10"`
}

// Input converts the form to the usecase input.
func (f EditEnterpriseForm) Input() entity.EnterpriseInput {
	return entity.EnterpriseInput{Name: f.Name, Description: f.Description, Symbol: f.Symbol}
}

// NewEditEnterpriseForm pre-fills the edit form from e.
func NewEditEnterpriseForm(e *entity.Enterprise) EditEnterpriseForm {
	return EditEnterpriseForm{Name: e.Name, Description: e.Description, Symbol: e.Symbol}
}

// EnterpriseView is an enterprise as listed on the index page.
type EnterpriseView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Symbol      string    `json:"symbol"`
	Timestamp   time.Time `json:"timestamp"`
	Values      []string  `json:"values"`
}

// NewEnterpriseView builds an EnterpriseView from e.
func NewEnterpriseView(e *entity.Enterprise) EnterpriseView {
	return EnterpriseView{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		Symbol:      e.Symbol,
		Timestamp:   e.Timestamp,
		Values:      e.ValueNames(),
	}
}

// PageView is the pagination block of the index page.
type PageView struct {
	Number  int    `json:"number"`
	Pages   int    `json:"pages"`
	Total   int64  `json:"total"`
	NextURL string `json:"next_url,omitempty"`
	PrevURL string `json:"prev_url,omitempty"`
}

// NewIndexData builds the enterprises and pagination shown on basePath.
func NewIndexData(p *entity.Page, basePath string) ([]EnterpriseView, PageView) {
	items := make([]EnterpriseView, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, NewEnterpriseView(&p.Items[i]))
	}
	pv := PageView{Number: p.Number, Pages: p.Pages, Total: p.Total}
	if p.HasNext {
		pv.NextURL = pageURL(basePath, p.NextNum)
	}
	if p.HasPrev {
		pv.PrevURL = pageURL(basePath, p.PrevNum)
	}
	return items, pv
}

func pageURL(basePath string, n int) string {
	return basePath + "?page=" + strconv.Itoa(n)
}
