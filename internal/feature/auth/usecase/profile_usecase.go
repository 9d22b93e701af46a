package usecase

import (
	"context"

	"enterprise_backend/internal/feature/auth/domain/entity"
	"enterprise_backend/internal/shared/validation"
)

// profileUsecase implements profile viewing and editing.
type profileUsecase struct {
	users UserRepository
	rules *validation.UserRules
}

// NewProfileUsecase creates a profileUsecase.
func NewProfileUsecase(users UserRepository) *profileUsecase {
	return &profileUsecase{users: users, rules: validation.NewUserRules(users)}
}

// GetProfile returns the user with the given username.
func (u *profileUsecase) GetProfile(ctx context.Context, username string) (*entity.User, error) {
	return u.users.FindByUsername(ctx, username)
}

// EditProfile changes the current user's username and about_me.
// Keeping the current username is always allowed.
func (u *profileUsecase) EditProfile(ctx context.Context, current *entity.User, username, aboutMe string) (*entity.User, error) {
	if err := u.rules.ValidateUsername(ctx, username, current.Username); err != nil {
		return nil, err
	}
	if err := validation.MaxLength("about_me", aboutMe, validation.MaxAboutMeLength); err != nil {
		return nil, err
	}
	if err := u.users.UpdateProfile(ctx, current.ID, username, aboutMe); err != nil {
		return nil, err
	}
	updated := *current
	updated.Username = username
	updated.AboutMe = aboutMe
	return &updated, nil
}
