package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"enterprise_backend/internal/app/di"
	authadapters "enterprise_backend/internal/feature/auth/adapters"
	authhandler "enterprise_backend/internal/feature/auth/transport/handler"
	authusecase "enterprise_backend/internal/feature/auth/usecase"
	enterpriseadapters "enterprise_backend/internal/feature/enterprise/adapters"
	enterprisehandler "enterprise_backend/internal/feature/enterprise/transport/handler"
	enterpriseusecase "enterprise_backend/internal/feature/enterprise/usecase"
	symbolentity "enterprise_backend/internal/feature/symbols/domain/entity"
	platformdb "enterprise_backend/internal/platform/db"
	"enterprise_backend/internal/platform/flash"
	platformhandler "enterprise_backend/internal/platform/http/handler"
	jwtmw "enterprise_backend/internal/platform/jwt"
	"enterprise_backend/internal/shared/ratelimiter"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const testSecret = "router-test-secret"

// newTestApp wires the whole application on an in-memory SQLite database.
func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, platformdb.Migrate(gdb, di.Models()...))

	users := authadapters.NewUserRepository(gdb)
	authUC := authusecase.NewAuthUsecase(users, authadapters.NewSessionStore(gdb), jwtmw.NewSigner(testSecret))
	profileUC := authusecase.NewProfileUsecase(users)
	enterpriseUC := enterpriseusecase.NewEnterpriseUsecase(
		enterpriseadapters.NewEnterpriseRepository(gdb),
		symbolentity.NewSet([]string{"IBM", "AAPL"}),
		3,
	)
	flashes := flash.NewStore(testSecret, false)

	return NewRouter(Handlers{
		Auth:       authhandler.NewAuthHandler(authUC, flashes, false),
		Profile:    authhandler.NewProfileHandler(profileUC, flashes),
		Enterprise: enterprisehandler.NewEnterpriseHandler(enterpriseUC, flashes),
		Health:     platformhandler.NewHealthHandler(sqlDB),
	}, Options{
		Sessions:     authUC,
		Flashes:      flashes,
		LoginLimiter: ratelimiter.NewRateLimiter(5, time.Minute),
		CORSOrigins:  []string{"http://localhost:3000"},
	})
}

// browser keeps cookies between requests like a user agent would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, handler: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range b.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return w
}

func (b *browser) page(w *httptest.ResponseRecorder) map[string]any {
	b.t.Helper()
	var body map[string]any
	require.NoError(b.t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestRouter_FullFlow(t *testing.T) {
	b := newBrowser(t, newTestApp(t))

	// 未ログインのアクセスはloginへ
	w := b.do(http.MethodGet, "/index", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Findex", w.Header().Get("Location"))

	w = b.do(http.MethodGet, "/login?next=%2Findex", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{jwtmw.MsgLoginRequired}, b.page(w)["flashes"])

	// 登録
	w = b.do(http.MethodPost, "/register", url.Values{
		"username": {"alice"}, "email": {"alice@example.com"}, "password": {"pw"}, "password2": {"pw"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = b.do(http.MethodGet, "/login", nil)
	assert.Equal(t, []any{authhandler.MsgRegistered}, b.page(w)["flashes"])

	w = b.do(http.MethodPost, "/register", url.Values{
		"username": {"alice"}, "email": {"other@example.com"}, "password": {"pw"}, "password2": {"pw"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// ログイン
	w = b.do(http.MethodPost, "/login?next=%2Findex", url.Values{"username": {"alice"}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = b.do(http.MethodPost, "/login?next=%2Findex", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/index", w.Header().Get("Location"))
	require.Contains(t, b.cookies, jwtmw.CookieName)

	// エンタープライズ作成
	w = b.do(http.MethodPost, "/index", url.Values{
		"name": {"Acme"}, "description": {"Anvils"}, "symbol": {"ACM"}, "values": {"Trust, growth"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	w = b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := b.page(w)
	assert.Equal(t, []any{enterprisehandler.MsgCreated}, body["flashes"])
	items := body["data"].(map[string]any)["enterprises"].([]any)
	require.Len(t, items, 1)
	assert.ElementsMatch(t, []any{"trust", "growth"}, items[0].(map[string]any)["values"])

	w = b.do(http.MethodPost, "/index", url.Values{
		"name": {"Big Blue"}, "description": {"Computers"}, "symbol": {"IBM"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 編集
	w = b.do(http.MethodGet, "/edit_enterprise/Acme", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = b.do(http.MethodPost, "/edit_enterprise/Acme", url.Values{"name": {"Acme"}, "description": {"Rockets"}, "symbol": {"ACM"}})
	require.Equal(t, http.StatusFound, w.Code)
	w = b.do(http.MethodGet, "/edit_enterprise/Nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// プロフィール
	w = b.do(http.MethodGet, "/user/alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = b.do(http.MethodPost, "/edit_profile", url.Values{"username": {"alice"}, "about_me": {"hello"}})
	require.Equal(t, http.StatusFound, w.Code)
	w = b.do(http.MethodGet, "/edit_profile", nil)
	body = b.page(w)
	assert.Equal(t, []any{authhandler.MsgProfileSaved}, body["flashes"])
	assert.Equal(t, "hello", body["data"].(map[string]any)["form"].(map[string]any)["about_me"])

	// 削除
	w = b.do(http.MethodPost, "/delete_enterprise/Acme", nil)
	require.Equal(t, http.StatusFound, w.Code)
	w = b.do(http.MethodGet, "/index", nil)
	assert.Empty(t, b.page(w)["data"].(map[string]any)["enterprises"])

	// ログアウト後は再びloginへ
	w = b.do(http.MethodGet, "/logout", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.NotContains(t, b.cookies, jwtmw.CookieName)
	w = b.do(http.MethodGet, "/index", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRouter_LoginThrottle(t *testing.T) {
	b := newBrowser(t, newTestApp(t))

	form := url.Values{"username": {"ghost"}, "password": {"x"}}
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodPost, "/login", form).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, b.do(http.MethodPost, "/login", form).Code)
	assert.Equal(t, http.StatusOK, b.do(http.MethodGet, "/login", nil).Code, "only POST is throttled")
}

func TestRouter_Healthz(t *testing.T) {
	r := newTestApp(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, w.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	r := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
