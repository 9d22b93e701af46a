// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"enterprise_backend/internal/feature/auth/domain/entity"
	"enterprise_backend/internal/feature/auth/usecase"
	platformdb "enterprise_backend/internal/platform/db"
	"enterprise_backend/internal/shared/apperror"
	"enterprise_backend/internal/shared/validation"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserRepository は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// 一意制約違反はDuplicateValueのapperrorに変換します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translateUserError(err)
	}
	return nil
}

// FindByUsername はユーザー名でユーザーを取得します。
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// ExistsByUsername はユーザー名が使用済みかを返します。
func (r *userGorm) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

// ExistsByEmail はメールアドレスが使用済みかを返します。
func (r *userGorm) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// UpdateProfile はユーザー名と自己紹介を更新します。
func (r *userGorm) UpdateProfile(ctx context.Context, id uint, username, aboutMe string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"username": username, "about_me": aboutMe})
	if res.Error != nil {
		return translateUserError(res.Error)
	}
	return nil
}

// TouchLastSeen は最終アクセス日時を更新します。updated_atは変更しません。
func (r *userGorm) TouchLastSeen(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		UpdateColumn("last_seen", at).Error
}

func (r *userGorm) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userGorm) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Where(query, arg).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// translateUserError はユーザーテーブルの一意制約違反をフィールド付きのエラーに変換します。
func translateUserError(err error) error {
	if !platformdb.IsUniqueViolation(err) {
		return err
	}
	switch platformdb.ViolatedField(err, "username", "email") {
	case "email":
		return apperror.Wrap(apperror.KindDuplicateValue, "email", validation.MsgEmailTaken, err)
	case "username":
		return apperror.Wrap(apperror.KindDuplicateValue, "username", validation.MsgUsernameTaken, err)
	default:
		return apperror.Wrap(apperror.KindDuplicateValue, "", "Value already in use.", err)
	}
}
