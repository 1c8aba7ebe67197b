package initialize

import (
	"context"
	"fmt"
	"net/http"

	"store-rating/backend/app/authz"
	"store-rating/backend/app/controllers"
	"store-rating/backend/app/db"
	jwtutil "store-rating/backend/app/jwt"
	"store-rating/backend/app/middleware"
	"store-rating/backend/app/repo"
	"store-rating/backend/app/services"
	"store-rating/backend/config"
	"store-rating/backend/router"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type App struct {
	Cfg     *config.Config
	Log     zerolog.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	Users   *services.UserService
	Stores  *services.StoreService
	Ratings *services.RatingService
	Router  http.Handler
}

// OpenDB connects to the configured database and migrates the schema.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.Log.Level == "debug" || cfg.Log.Level == "trace" {
		level = logger.Info
	}
	gdb, err := db.Connect(db.Config{
		Driver:   cfg.DB.Driver,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Pass,
		DBName:   cfg.DB.Name,
		Path:     cfg.DB.Path,
		LogLevel: level,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return gdb, nil
}

// Build connects every backing store and wires the application.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if cfg.UsesDefaultSecret() {
		log.Warn().Msg("jwt.secret not set; using the built-in development secret")
	}
	gdb, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	rdb, err := db.ConnectRedis(ctx, db.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; login throttling disabled")
		rdb = nil
	}
	app := NewApp(cfg, log, gdb, rdb)

	if cfg.Admin.Email != "" {
		created, err := app.Users.EnsureAdmin(ctx, services.RegisterInput{
			Name: cfg.Admin.Name, Email: cfg.Admin.Email, Password: cfg.Admin.Password, Address: cfg.Admin.Address,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("admin account created")
		}
	}
	return app, nil
}

// NewApp wires services, controllers and the router over open connections.
// rdb may be nil.
func NewApp(cfg *config.Config, log zerolog.Logger, gdb *gorm.DB, rdb *redis.Client) *App {
	limiter := services.NewNoopLimiter()
	if rdb != nil {
		limiter = services.NewRedisLimiter(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginWindow, log)
	}

	userRepo := repo.NewUserRepository(gdb)
	storeRepo := repo.NewStoreRepository(gdb)
	ratingRepo := repo.NewRatingRepository(gdb)

	userSvc := services.NewUserService(userRepo, services.NewPasswordHasher(cfg.Auth.BcryptCost), limiter, log)
	storeSvc := services.NewStoreService(storeRepo, userRepo)
	ratingSvc := services.NewRatingService(ratingRepo, storeRepo)

	signer := &jwtutil.Signer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL}
	guard := authz.Guard{}
	mw := &middleware.Auth{Signer: signer, Guard: guard, Error: controllers.WriteError}

	h := router.NewRouter(router.Controllers{
		HTTP:    controllers.NewHTTPController(gdb),
		Auth:    controllers.NewAuthController(userSvc, signer),
		Stores:  controllers.NewStoreController(storeSvc, guard),
		Ratings: controllers.NewRatingController(ratingSvc, guard),
		Users:   controllers.NewUserController(userSvc, guard),
		Admin:   controllers.NewAdminController(userSvc, storeSvc, ratingSvc),
	}, mw, cfg.Server.BasePath)
	h = middleware.CORS(cfg.Server.CORSOrigins)(h)
	h = middleware.Logging(log)(h)

	return &App{Cfg: cfg, Log: log, DB: gdb, Redis: rdb, Users: userSvc, Stores: storeSvc, Ratings: ratingSvc, Router: h}
}

// Close waits for background password upgrades, then releases connections.
func (a *App) Close() {
	a.Users.Drain()
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
