package db

import (
	"fmt"
	"time"

	"store-rating/backend/app/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Path     string
	LogLevel logger.LogLevel
}

// Connect opens a gorm handle for the configured driver. Driver errors are
// translated so callers can match gorm.ErrDuplicatedKey and friends.
func Connect(cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel(cfg.LogLevel)),
	}
	switch cfg.Driver {
	case "sqlite":
		gdb, err := gorm.Open(sqlite.Open(SQLiteDSN(cfg.Path)), gcfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer; queue in the pool instead of
		// surfacing SQLITE_BUSY to requests
		sqlDB.SetMaxOpenConns(1)
		return gdb, nil
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
		gdb, err := gorm.Open(mysql.Open(dsn), gcfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		return gdb, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// SQLiteDSN enables foreign keys so ON DELETE actions fire.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=1&_busy_timeout=5000"
}

// Migrate creates or updates the users, stores and ratings tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{})
}

func logLevel(l logger.LogLevel) logger.LogLevel {
	if l == 0 {
		return logger.Warn
	}
	return l
}
