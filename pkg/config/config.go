package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Gateway       GatewayConfig
	Bootstrap     BootstrapConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MESSCONNECT_APP_ENV" required:"true"`
	Port         string `envconfig:"MESSCONNECT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MESSCONNECT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MESSCONNECT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MESSCONNECT_DB_DSN"`
	Driver string `envconfig:"MESSCONNECT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MESSCONNECT_DB_HOST"`
	LegacyPort     int    `envconfig:"MESSCONNECT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MESSCONNECT_DB_USER"`
	LegacyPassword string `envconfig:"MESSCONNECT_DB_PASSWORD"`
	LegacyName     string `envconfig:"MESSCONNECT_DB_NAME"`
	LegacySSLMode  string `envconfig:"MESSCONNECT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MESSCONNECT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MESSCONNECT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MESSCONNECT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MESSCONNECT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MESSCONNECT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MESSCONNECT_REDIS_ADDR"`
	Password     string        `envconfig:"MESSCONNECT_REDIS_PASSWORD"`
	DB           int           `envconfig:"MESSCONNECT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MESSCONNECT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MESSCONNECT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MESSCONNECT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MESSCONNECT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MESSCONNECT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MESSCONNECT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MESSCONNECT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MESSCONNECT_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MESSCONNECT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MESSCONNECT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MESSCONNECT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MESSCONNECT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MESSCONNECT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MESSCONNECT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MESSCONNECT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MESSCONNECT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MESSCONNECT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MESSCONNECT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MESSCONNECT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MESSCONNECT_AUTO_MIGRATE" default:"false"`
}

// GatewayConfig carries the payment gateway credentials. KeySecret signs
// callback verification; both key fields must be present before any order
// can be created.
type GatewayConfig struct {
	KeyID     string        `envconfig:"MESSCONNECT_GATEWAY_KEY_ID"`
	KeySecret string        `envconfig:"MESSCONNECT_GATEWAY_KEY_SECRET"`
	BaseURL   string        `envconfig:"MESSCONNECT_GATEWAY_BASE_URL" default:"https://api.razorpay.com"`
	Currency  string        `envconfig:"MESSCONNECT_GATEWAY_CURRENCY" default:"INR"`
	Timeout   time.Duration `envconfig:"MESSCONNECT_GATEWAY_TIMEOUT" default:"10s"`
}

// BootstrapConfig names the fixed operator accounts seeded at startup.
type BootstrapConfig struct {
	AdminEmail      string `envconfig:"MESSCONNECT_BOOTSTRAP_ADMIN_EMAIL" default:"admin@messconnect.com"`
	ManagerEmail    string `envconfig:"MESSCONNECT_BOOTSTRAP_MANAGER_EMAIL" default:"manager@messconnect.com"`
	DefaultPassword string `envconfig:"MESSCONNECT_BOOTSTRAP_PASSWORD" default:"password"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
