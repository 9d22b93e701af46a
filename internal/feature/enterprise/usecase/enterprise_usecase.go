package usecase

import (
	"context"
	"fmt"

	"enterprise_backend/internal/feature/enterprise/domain/entity"
	"enterprise_backend/internal/shared/validation"
)

// DefaultPerPage is the page size when none is configured.
const DefaultPerPage = 3

// enterpriseUsecase はエンタープライズの一覧・作成・編集・削除を実装します。
type enterpriseUsecase struct {
	repo    EnterpriseRepository
	rules   *validation.EnterpriseRules
	perPage int
}

// NewEnterpriseUsecase はenterpriseUsecaseの新しいインスタンスを生成します。
// symbolsは取引所シンボルの参照セットで、起動時に一度だけ読み込まれたものを渡します。
func NewEnterpriseUsecase(repo EnterpriseRepository, symbols validation.SymbolSet, perPage int) *enterpriseUsecase {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &enterpriseUsecase{
		repo:    repo,
		rules:   validation.NewEnterpriseRules(repo, symbols),
		perPage: perPage,
	}
}

// List はオーナーのエンタープライズをページ単位で返します。
// page < 1 は1として扱い、範囲外のページは空のページになります。
func (u *enterpriseUsecase) List(ctx context.Context, ownerID uint, page int) (*entity.Page, error) {
	if page < 1 {
		page = 1
	}
	total, err := u.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count enterprises: %w", err)
	}
	// 掛け算の前に範囲を確認する。巨大なpageでoffsetがオーバーフローするため
	pages := (total + int64(u.perPage) - 1) / int64(u.perPage)
	var items []entity.Enterprise
	if int64(page-1) < pages {
		items, err = u.repo.ListByOwner(ctx, ownerID, (page-1)*u.perPage, u.perPage)
		if err != nil {
			return nil, fmt.Errorf("list enterprises: %w", err)
		}
	}
	return entity.NewPage(items, page, u.perPage, total), nil
}

// Create は名前→説明→シンボル→値の順に検証し、エンタープライズと値を一括で保存します。
func (u *enterpriseUsecase) Create(ctx context.Context, ownerID uint, in entity.EnterpriseInput) (*entity.Enterprise, error) {
	if err := u.rules.ValidateEnterpriseName(ctx, in.Name, ""); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	if err := u.rules.ValidateEnterpriseSymbol(ctx, in.Symbol, ""); err != nil {
		return nil, err
	}
	names, err := validation.NormalizeValuesList(in.Values, validation.DefaultValueSeparator)
	if err != nil {
		return nil, err
	}

	e := &entity.Enterprise{
		Name:        in.Name,
		Description: in.Description,
		Symbol:      in.Symbol,
		OwnerID:     ownerID,
	}
	if err := u.repo.CreateWithValues(ctx, e, names); err != nil {
		return nil, err
	}
	return e, nil
}

// Get はオーナーが所有するエンタープライズを名前で返します。
// 他ユーザーのエンタープライズは存在しないものとして扱います。
func (u *enterpriseUsecase) Get(ctx context.Context, ownerID uint, name string) (*entity.Enterprise, error) {
	e, err := u.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if e.OwnerID != ownerID {
		return nil, ErrEnterpriseNotFound
	}
	return e, nil
}

// Edit は名前・説明・シンボルを更新します。値は編集できません。
// 自分自身の現在の名前・シンボルは重複として扱いません。
func (u *enterpriseUsecase) Edit(ctx context.Context, ownerID uint, originalName string, in entity.EnterpriseInput) (*entity.Enterprise, error) {
	current, err := u.Get(ctx, ownerID, originalName)
	if err != nil {
		return nil, err
	}
	if err := u.rules.ValidateEnterpriseName(ctx, in.Name, current.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	if err := u.rules.ValidateEnterpriseSymbol(ctx, in.Symbol, current.Symbol); err != nil {
		return nil, err
	}
	if err := u.repo.Update(ctx, current.ID, in.Name, in.Description, in.Symbol); err != nil {
		return nil, err
	}
	current.Name = in.Name
	current.Description = in.Description
	current.Symbol = in.Symbol
	return current, nil
}

// Delete はオーナーが所有するエンタープライズを削除します。
func (u *enterpriseUsecase) Delete(ctx context.Context, ownerID uint, name string) error {
	current, err := u.Get(ctx, ownerID, name)
	if err != nil {
		return err
	}
	return u.repo.Delete(ctx, current.ID)
}

func validateDescription(description string) error {
	if err := validation.Required("description", description); err != nil {
		return err
	}
	return validation.MaxLength("description", description, validation.MaxDescriptionLength)
}
