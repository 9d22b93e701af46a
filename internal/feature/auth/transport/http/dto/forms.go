// Package dto はauthフィーチャーのフォーム入力とレスポンス表現を定義します。
package dto

import (
	"time"

	"enterprise_backend/internal/feature/auth/domain/entity"
)

// LoginForm はログインフォームの入力です。
type LoginForm struct {
	Username   string `form:"username" binding:"required"`
	Password   string `form:"password" binding:"required"`
	RememberMe bool   `form:"remember_me"`
}

// RegisterForm はユーザー登録フォームの入力です。
type RegisterForm struct {
	Username  string `form:"username" binding:"required,max=64"`
	Email     string `form:"email" binding:"required,email,max=120"`
	Password  string `form:"password" binding:"required,max=72"`
	Password2 string `form:"password2" binding:"required,eqfield=Password"`
}

// EditProfileForm はプロフィール編集フォームの入力です。
type EditProfileForm struct {
	Username string `form:"username" json:"username" binding:"required,max=64"`
	AboutMe  string `form:"about_me" json:"about_me" binding:"max=140"`
}

// UserView is the public part of a user shown on profile pages.
type UserView struct {
	Username string    `json:"username"`
	AboutMe  string    `json:"about_me"`
	LastSeen time.Time `json:"last_seen"`
}

// NewUserView builds a UserView from u.
func NewUserView(u *entity.User) UserView {
	return UserView{Username: u.Username, AboutMe: u.AboutMe, LastSeen: u.LastSeen}
}
