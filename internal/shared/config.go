package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	// admin access
	AdminPassword     string
	AdminPasswordHash string
	TokenSecret       string
	TokenTTL          time.Duration

	// outbound mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	MailFrom     string
	MailFromName string
	MailRPS      int
	HotelPhone   string
	HotelEmail   string
	HotelAddress string

	// image bucket
	UploadDir     string
	PublicBaseURL string
	MaxUploadMB   int

	GeocodeBase string
	GeocodeRPS  int

	AMQPURL       string
	OverlapPolicy string

	ImportWorkers int
}

// Load reads the process environment; a local .env file is applied first when present.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg(".env loaded")
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/palmnazi?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		AdminPassword:     env("ADMIN_PASSWORD", ""),
		AdminPasswordHash: env("ADMIN_PASSWORD_HASH", ""),
		TokenSecret:       env("ADMIN_TOKEN_SECRET", ""),
		TokenTTL:          time.Duration(atoi("ADMIN_TOKEN_TTL_MINUTES", 120)) * time.Minute,

		SMTPHost:     env("SMTP_HOST", ""),
		SMTPPort:     atoi("SMTP_PORT", 587),
		SMTPUser:     env("SMTP_USERNAME", ""),
		SMTPPass:     env("SMTP_PASSWORD", ""),
		MailFrom:     env("MAIL_FROM", ""),
		MailFromName: env("MAIL_FROM_NAME", "Palmnazi Bookings"),
		MailRPS:      atoi("MAIL_RPS", 5),
		HotelPhone:   env("HOTEL_PHONE", ""),
		HotelEmail:   env("HOTEL_EMAIL", ""),
		HotelAddress: env("HOTEL_ADDRESS", ""),

		UploadDir:     env("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: env("PUBLIC_BASE_URL", "http://localhost:8080/uploads"),
		MaxUploadMB:   atoi("MAX_UPLOAD_MB", 10),

		GeocodeBase: env("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeRPS:  atoi("GEOCODE_RPS", 1),

		AMQPURL:       env("AMQP_URL", ""),
		OverlapPolicy: env("BOOKING_OVERLAP_POLICY", "allow"),

		ImportWorkers: atoi("IMPORT_WORKERS", 4),
	}
	if c.MailFrom == "" {
		c.MailFrom = c.SMTPUser
	}
	if c.TokenSecret == "" {
		log.Warn().Msg("ADMIN_TOKEN_SECRET is empty")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		log.Warn().Msg("no admin credential configured; admin login is disabled")
	}
	if c.SMTPHost == "" {
		log.Warn().Msg("SMTP_HOST is empty; notifications are logged, not sent")
	}
	return c
}

func (c Config) IsDev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
