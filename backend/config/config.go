package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "dev-secret"

type Server struct {
	Host         string
	Port         int
	BasePath     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type DB struct {
	Driver string
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
	Path   string
}

type JWT struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type Auth struct {
	BcryptCost       int
	LoginMaxFailures int
	LoginWindow      time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Log struct {
	Level  string
	Format string
}

// Admin describes the bootstrap account created on startup when Email is set.
type Admin struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// Config is built once by Load and treated as read-only afterwards.
type Config struct {
	Server Server
	DB     DB
	JWT    JWT
	Auth   Auth
	Redis  Redis
	Log    Log
	Admin  Admin
}

// UsesDefaultSecret reports whether no signing secret was configured.
func (c *Config) UsesDefaultSecret() bool { return c.JWT.Secret == defaultJWTSecret }

// Load reads .env (if present), the optional YAML file at path and the
// environment. Environment variables use the STORE_RATING_ prefix with
// dots replaced by underscores, e.g. STORE_RATING_DB_HOST.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("store_rating")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.base_path", "")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "store_rating_app")
	v.SetDefault("db.path", "store_rating.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "store-rating")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_max_failures", 5)
	v.SetDefault("auth.login_window", "15m")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("admin.name", "")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.address", "")

	// unprefixed names kept for existing .env files
	_ = v.BindEnv("jwt.secret", "STORE_RATING_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("db.host", "STORE_RATING_DB_HOST", "DB_HOST")
	_ = v.BindEnv("db.user", "STORE_RATING_DB_USER", "DB_USER")
	_ = v.BindEnv("db.pass", "STORE_RATING_DB_PASS", "DB_PASSWORD")
	_ = v.BindEnv("db.name", "STORE_RATING_DB_NAME", "DB_NAME")
	_ = v.BindEnv("server.port", "STORE_RATING_SERVER_PORT", "PORT")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Server: Server{
			Host:         v.GetString("server.host"),
			Port:         v.GetInt("server.port"),
			BasePath:     strings.TrimRight(v.GetString("server.base_path"), "/"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			CORSOrigins:  v.GetStringSlice("server.cors_origins"),
		},
		DB: DB{
			Driver: strings.ToLower(v.GetString("db.driver")),
			Host:   v.GetString("db.host"),
			Port:   v.GetInt("db.port"),
			User:   v.GetString("db.user"),
			Pass:   v.GetString("db.pass"),
			Name:   v.GetString("db.name"),
			Path:   v.GetString("db.path"),
		},
		JWT: JWT{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Auth: Auth{
			BcryptCost:       v.GetInt("auth.bcrypt_cost"),
			LoginMaxFailures: v.GetInt("auth.login_max_failures"),
			LoginWindow:      v.GetDuration("auth.login_window"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Admin: Admin{
			Name:     v.GetString("admin.name"),
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
			Address:  v.GetString("admin.address"),
		},
	}

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = defaultJWTSecret
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "store-rating"
	}
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = 24 * time.Hour
	}
	if cfg.Auth.BcryptCost <= 0 {
		cfg.Auth.BcryptCost = 10
	}
	if cfg.Auth.LoginMaxFailures <= 0 {
		cfg.Auth.LoginMaxFailures = 5
	}
	if cfg.Auth.LoginWindow <= 0 {
		cfg.Auth.LoginWindow = 15 * time.Minute
	}
	switch cfg.DB.Driver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
	return cfg, nil
}

// Addr returns host:port for the HTTP listener.
func (s Server) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }
