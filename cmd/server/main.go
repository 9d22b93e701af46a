package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"enterprise_backend/internal/app/di"
	"enterprise_backend/internal/app/router"
	authadapters "enterprise_backend/internal/feature/auth/adapters"
	authhandler "enterprise_backend/internal/feature/auth/transport/handler"
	authusecase "enterprise_backend/internal/feature/auth/usecase"
	enterpriseadapters "enterprise_backend/internal/feature/enterprise/adapters"
	enterprisehandler "enterprise_backend/internal/feature/enterprise/transport/handler"
	enterpriseusecase "enterprise_backend/internal/feature/enterprise/usecase"
	symbolusecase "enterprise_backend/internal/feature/symbols/usecase"
	"enterprise_backend/internal/platform/config"
	infradb "enterprise_backend/internal/platform/db"
	"enterprise_backend/internal/platform/flash"
	platformhandler "enterprise_backend/internal/platform/http/handler"
	jwtmw "enterprise_backend/internal/platform/jwt"
	"enterprise_backend/internal/platform/logger"
	infraredis "enterprise_backend/internal/platform/redis"
	"enterprise_backend/internal/shared/ratelimiter"
)

// sessionPurgeInterval は期限切れセッションを削除する間隔です。
const sessionPurgeInterval = time.Hour

func main() {
	cfg := config.Load()

	closer, err := logger.Setup(cfg.LogToStdout, cfg.LogFile)
	if err != nil {
		slog.Error("failed to set up logger", "error", err)
		os.Exit(1)
	}

	err = run(cfg)
	if err != nil {
		slog.Error("server exited", "error", err)
	}
	closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

// run はサーバを起動し、シグナルを受けて停止するまでブロックします。
// 開いたリソースはreturn時にdeferで解放される。
func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.Open(infradb.LoadConfigFromEnv(), di.Models()...)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// 取引所シンボルは起動時に一度だけ読み込む。失敗は致命的
	loadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	exchange, err := symbolusecase.NewSymbolUsecase(di.NewSymbolSource(rdb)).LoadSet(loadCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("load exchange symbols: %w", err)
	}
	slog.Info("exchange symbols loaded", "count", exchange.Len())

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	sessionStore := di.NewSessionStore(rdb, db)
	enterpriseRepo := enterpriseadapters.NewEnterpriseRepository(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionStore, jwtmw.NewSigner(cfg.SecretKey))
	profileUC := authusecase.NewProfileUsecase(userRepo)
	enterpriseUC := enterpriseusecase.NewEnterpriseUsecase(enterpriseRepo, exchange, cfg.EnterprisesPerPage)

	// Handler
	flashes := flash.NewStore(cfg.SecretKey, cfg.SecureCookies)
	handlers := router.Handlers{
		Auth:       authhandler.NewAuthHandler(authUC, flashes, cfg.SecureCookies),
		Profile:    authhandler.NewProfileHandler(profileUC, flashes),
		Enterprise: enterprisehandler.NewEnterpriseHandler(enterpriseUC, flashes),
		Health:     platformhandler.NewHealthHandler(sqlDB),
	}

	limiter := ratelimiter.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	// ルータ生成
	r := router.NewRouter(handlers, router.Options{
		Sessions:      authUC,
		Flashes:       flashes,
		LoginLimiter:  limiter,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.SecureCookies,
	})

	go runMaintenance(ctx, authUC, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("server listening", "addr", srv.Addr)
	return serve(ctx, srv)
}

// serve はctxがキャンセルされるまでsrvを動かし、その後graceful shutdownします。
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// runMaintenance は期限切れのセッションとレート制限ウィンドウを定期的に削除します。
func runMaintenance(ctx context.Context, sessions interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}, limiter *ratelimiter.RateLimiter) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpiredSessions(ctx)
			if err != nil {
				slog.Error("failed to purge sessions", "error", err)
				continue
			}
			slog.Info("maintenance done", "sessions_purged", n, "rate_windows_swept", limiter.Sweep())
		}
	}
}
