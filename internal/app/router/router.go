package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "enterprise_backend/internal/feature/auth/transport/handler"
	enterprisehandler "enterprise_backend/internal/feature/enterprise/transport/handler"
	platformhandler "enterprise_backend/internal/platform/http/handler"
	"enterprise_backend/internal/platform/http/middleware"
	jwtmw "enterprise_backend/internal/platform/jwt"
	"enterprise_backend/internal/shared/ratelimiter"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth       *authhandler.AuthHandler
	Profile    *authhandler.ProfileHandler
	Enterprise *enterprisehandler.EnterpriseHandler
	Health     *platformhandler.HealthHandler
}

// Options configures the middleware chain.
type Options struct {
	Sessions      jwtmw.SessionResolver
	Flashes       jwtmw.Flasher
	LoginLimiter  ratelimiter.Limiter // nil disables login throttling
	CORSOrigins   []string            // empty disables CORS
	SecureCookies bool
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	// セッションCookieがあれば現在のユーザーを読み込む
	app := r.Group("/")
	app.Use(jwtmw.LoadUser(opts.Sessions, opts.SecureCookies))

	// 認証不要
	login := []gin.HandlerFunc{h.Auth.Login}
	if opts.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{ratelimiter.Middleware(opts.LoginLimiter)}, login...)
	}
	app.GET("/login", h.Auth.LoginPage)
	app.POST("/login", login...)
	app.GET("/logout", h.Auth.Logout)
	app.GET("/register", h.Auth.RegisterPage)
	app.POST("/register", h.Auth.Register)

	// 認証必須のルート
	// → 未ログインの場合は /login?next=... へリダイレクト
	auth := app.Group("/")
	auth.Use(jwtmw.AuthRequired(opts.Flashes))
	{
		auth.GET("/", h.Enterprise.Index)
		auth.POST("/", h.Enterprise.Create)
		auth.GET("/index", h.Enterprise.Index)
		auth.POST("/index", h.Enterprise.Create)
		auth.GET("/edit_enterprise/:name", h.Enterprise.EditPage)
		auth.POST("/edit_enterprise/:name", h.Enterprise.Edit)
		auth.GET("/delete_enterprise/:name", h.Enterprise.Delete)
		auth.POST("/delete_enterprise/:name", h.Enterprise.Delete)

		auth.GET("/user/:username", h.Profile.Show)
		auth.GET("/edit_profile", h.Profile.EditPage)
		auth.POST("/edit_profile", h.Profile.Edit)
	}

	return r
}
