package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Everything here is loaded once at startup and
// treated as read-only afterwards; request handlers never mutate it.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // secret used to sign session tokens
	JWTAlgorithm  string // HMAC signing algorithm (HS256/HS384/HS512)
	TokenTTLMin   int    // session/verification token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	SessionCookie string // name of the cookie carrying the session token
	SMTPHost      string // mail server host
	SMTPPort      int    // mail server port
	SMTPUser      string // mail server username (optional)
	SMTPPass      string // mail server password (optional)
	MailFrom      string // From address on outgoing mail
	MediaRoot     string // directory where uploaded avatars/cover images live
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		JWTAlgorithm:  getenv("JWT_ALGORITHM", "HS256"),
		TokenTTLMin:   mustInt("TOKEN_EXP_MINUTES"),
		BcryptCost:    mustInt("BCRYPT_COST"),
		SessionCookie: getenv("SESSION_COOKIE", "guidio_session"),
		SMTPHost:      getenv("SMTP_HOST", "localhost"),
		SMTPPort:      atoi(getenv("SMTP_PORT", "1025")),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		MailFrom:      getenv("MAIL_FROM", "no-reply@guidio.app"),
		MediaRoot:     getenv("MEDIA_ROOT", "media"),
	}
	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		log.Fatalf("unsupported JWT_ALGORITHM: %q", cfg.JWTAlgorithm)
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
