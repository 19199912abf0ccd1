package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer  `yaml:"http_server"`
	Database    `yaml:"database"`
	Auth        `yaml:"auth"`
	Attribution `yaml:"attribution"`
	Analytics   `yaml:"analytics"`
	WhatsApp    `yaml:"whatsapp"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Port            int    `yaml:"port" env:"HTTP_SERVER_PORT" env-default:"8080"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec" env:"HTTP_READ_TIMEOUT_SEC" env-default:"30"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec" env:"HTTP_WRITE_TIMEOUT_SEC" env-default:"30"`
	IdleTimeoutSec  int    `yaml:"idle_timeout_sec" env:"HTTP_IDLE_TIMEOUT_SEC" env-default:"60"`
	AdminAPIKey     string `yaml:"admin_api_key" env:"ADMIN_API_KEY" env-default:""`
}

// Database holds PostgreSQL connection configuration.
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"estateref"`
	Password        string `yaml:"password" env:"DB_PASSWORD" env-default:""`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"estateref"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
	SeedData        bool   `yaml:"seed_data" env:"DB_SEED_DATA" env-default:"false"`
}

// Auth holds JWT authentication configuration.
type Auth struct {
	JWTSecret          string `yaml:"jwt_secret" env:"JWT_SECRET" env-default:""`
	AccessTokenTTLMin  int    `yaml:"access_token_ttl_min" env:"ACCESS_TOKEN_TTL_MIN" env-default:"15"`
	RefreshTokenTTLMin int    `yaml:"refresh_token_ttl_min" env:"REFRESH_TOKEN_TTL_MIN" env-default:"10080"`
}

// Attribution holds affiliate attribution configuration.
type Attribution struct {
	RefParam           string `yaml:"ref_param" env:"ATTRIBUTION_REF_PARAM" env-default:"ref"`
	CookieName         string `yaml:"cookie_name" env:"ATTRIBUTION_COOKIE_NAME" env-default:"ref_token"`
	CookieTTLMin       int    `yaml:"cookie_ttl_min" env:"ATTRIBUTION_COOKIE_TTL_MIN" env-default:"43200"`
	CookieSecure       bool   `yaml:"cookie_secure" env:"ATTRIBUTION_COOKIE_SECURE" env-default:"false"`
	ReferralCodeLength int    `yaml:"referral_code_length" env:"REFERRAL_CODE_LENGTH" env-default:"8"`
}

// Analytics holds metrics aggregation configuration.
type Analytics struct {
	CacheTTLMin        int `yaml:"cache_ttl_min" env:"ANALYTICS_CACHE_TTL_MIN" env-default:"15"`
	TopListingsLimit   int `yaml:"top_listings_limit" env:"ANALYTICS_TOP_LISTINGS" env-default:"5"`
	TopAffiliatesLimit int `yaml:"top_affiliates_limit" env:"ANALYTICS_TOP_AFFILIATES" env-default:"10"`
}

// WhatsApp holds outbound WhatsApp notification configuration.
type WhatsApp struct {
	Enabled     bool   `yaml:"enabled" env:"WHATSAPP_ENABLED" env-default:"false"`
	APIURL      string `yaml:"api_url" env:"WHATSAPP_API_URL" env-default:""`
	APIKey      string `yaml:"api_key" env:"WHATSAPP_API_KEY" env-default:""`
	OfficePhone string `yaml:"office_phone" env:"WHATSAPP_OFFICE_PHONE" env-default:""`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	// Check if config file path is specified
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	// Try to load config file
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		// If config file doesn't exist, use environment variables only
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	return &cfg
}
