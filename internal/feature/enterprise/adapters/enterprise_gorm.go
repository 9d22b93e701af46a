// Package adapters はenterpriseフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"enterprise_backend/internal/feature/enterprise/domain/entity"
	"enterprise_backend/internal/feature/enterprise/usecase"
	platformdb "enterprise_backend/internal/platform/db"
	"enterprise_backend/internal/shared/apperror"
	"enterprise_backend/internal/shared/validation"
)

// MsgValueConflict is shown when a value could not be linked because of a concurrent insert.
const MsgValueConflict = "A value was added at the same time. Please try again."

// enterpriseGorm はEnterpriseRepositoryインターフェースのGORM実装です。
type enterpriseGorm struct {
	db *gorm.DB
}

// enterpriseGormがEnterpriseRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.EnterpriseRepository = (*enterpriseGorm)(nil)

// NewEnterpriseRepository は指定されたgorm.DB接続でenterpriseGormの新しいインスタンスを生成します。
func NewEnterpriseRepository(db *gorm.DB) *enterpriseGorm {
	return &enterpriseGorm{db: db}
}

// CreateWithValues はエンタープライズ・値・関連行を1つのトランザクションで保存します。
// いずれかが失敗した場合は全てロールバックされます。
func (r *enterpriseGorm) CreateWithValues(ctx context.Context, e *entity.Enterprise, valueNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		values, err := resolveValues(tx, valueNames)
		if err != nil {
			return err
		}
		e.Values = values
		// 値は解決済みなので関連行のみ挿入する
		return tx.Omit("Values.*").Create(e).Error
	})
	if err != nil {
		return translateEnterpriseError(err)
	}
	return nil
}

// FindByName は値をプリロードしてエンタープライズを取得します。
func (r *enterpriseGorm) FindByName(ctx context.Context, name string) (*entity.Enterprise, error) {
	var e entity.Enterprise
	err := r.db.WithContext(ctx).Preload("Values").Where("name = ?", name).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEnterpriseNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Update は名前・説明・シンボルを更新します。owner_idは変更しません。
func (r *enterpriseGorm) Update(ctx context.Context, id uuid.UUID, name, description, symbol string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Enterprise{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "description": description, "symbol": symbol})
	if res.Error != nil {
		return translateEnterpriseError(res.Error)
	}
	return nil
}

// Delete は関連行を削除してからエンタープライズを削除します。
func (r *enterpriseGorm) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e := entity.Enterprise{ID: id}
		if err := tx.Model(&e).Association("Values").Clear(); err != nil {
			return fmt.Errorf("clear values: %w", err)
		}
		res := tx.Delete(&e)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrEnterpriseNotFound
		}
		return nil
	})
}

// ListByOwner はオーナーのエンタープライズを新しい順に返します。
func (r *enterpriseGorm) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]entity.Enterprise, error) {
	var items []entity.Enterprise
	err := r.db.WithContext(ctx).
		Preload("Values").
		Where("owner_id = ?", ownerID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CountByOwner はオーナーのエンタープライズ数を返します。
func (r *enterpriseGorm) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Enterprise{}).Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}

// ExistsByName は名前が使用済みかを返します。
func (r *enterpriseGorm) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "name = ?", name)
}

// ExistsBySymbol はシンボルが使用済みかを返します。
func (r *enterpriseGorm) ExistsBySymbol(ctx context.Context, symbol string) (bool, error) {
	return r.exists(ctx, "symbol = ?", symbol)
}

func (r *enterpriseGorm) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entity.Enterprise{}).Where(query, arg).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// valueSavepoint は値ごとの挿入を囲むセーブポイント名です。
const valueSavepoint = "resolve_value"

// resolveValues は名前ごとに既存の値を取得し、なければ作成します。
func resolveValues(tx *gorm.DB, names []string) ([]entity.Value, error) {
	values := make([]entity.Value, 0, len(names))
	for _, name := range names {
		v, err := resolveValue(tx, name)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// resolveValue はSELECTとINSERTの間に別トランザクションが同名の値を
// 作成した場合、セーブポイントまで戻して作成済みの行を読み直します。
func resolveValue(tx *gorm.DB, name string) (entity.Value, error) {
	if err := tx.SavePoint(valueSavepoint).Error; err != nil {
		return entity.Value{}, apperror.Wrap(apperror.KindStorageError, "values", "failed to save values", err)
	}
	v := entity.Value{Name: name}
	err := tx.Where(entity.Value{Name: name}).FirstOrCreate(&v).Error
	if err == nil {
		return v, nil
	}
	if !platformdb.IsUniqueViolation(err) {
		return entity.Value{}, apperror.Wrap(apperror.KindStorageError, "values", "failed to save values", err)
	}

	if rbErr := tx.RollbackTo(valueSavepoint).Error; rbErr != nil {
		return entity.Value{}, apperror.Wrap(apperror.KindStorageError, "values", "failed to save values", rbErr)
	}
	var existing entity.Value
	rerr := tx.Clauses(clause.Locking{Strength: "SHARE"}).
		Where("name = ?", name).
		Take(&existing).Error
	if rerr != nil {
		return entity.Value{}, apperror.Wrap(apperror.KindDuplicateValue, "values", MsgValueConflict, err)
	}
	return existing, nil
}

// translateEnterpriseError はenterprisesテーブルの一意制約違反をフィールド付きのエラーに変換します。
func translateEnterpriseError(err error) error {
	if _, ok := apperror.As(err); ok || !platformdb.IsUniqueViolation(err) {
		return err
	}
	switch platformdb.ViolatedField(err, "name", "symbol") {
	case "symbol":
		return apperror.Wrap(apperror.KindDuplicateValue, "symbol", validation.MsgSymbolTaken, err)
	case "name":
		return apperror.Wrap(apperror.KindDuplicateValue, "name", validation.MsgNameTaken, err)
	default:
		return apperror.Wrap(apperror.KindDuplicateValue, "", "Value already in use.", err)
	}
}
