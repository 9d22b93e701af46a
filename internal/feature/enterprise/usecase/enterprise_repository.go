package usecase

import (
	"context"

	"github.com/google/uuid"

	"enterprise_backend/internal/feature/enterprise/domain/entity"
	"enterprise_backend/internal/shared/validation"
)

// EnterpriseRepository はエンタープライズと値の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type EnterpriseRepository interface {
	validation.EnterpriseLookup

	// CreateWithValues はエンタープライズを挿入し、名前ごとに値を解決または作成して関連付けます。
	// 全体が1つのトランザクションで実行されます。
	CreateWithValues(ctx context.Context, e *entity.Enterprise, valueNames []string) error

	// FindByName は値をプリロードしたエンタープライズを返します。
	// 存在しない場合、ErrEnterpriseNotFoundを返します。
	FindByName(ctx context.Context, name string) (*entity.Enterprise, error)

	// Update は名前・説明・シンボルを更新します。
	Update(ctx context.Context, id uuid.UUID, name, description, symbol string) error

	// Delete は関連行を削除してからエンタープライズを削除します。値は残ります。
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByOwner はオーナーのエンタープライズをtimestamp降順で返します。
	ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]entity.Enterprise, error)

	// CountByOwner はオーナーのエンタープライズ数を返します。
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}
