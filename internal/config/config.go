package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Registration lock modes.  LockRow takes SELECT ... FOR UPDATE on the event
// row around the count-then-decide step; LockNone runs the same code
// without the lock and is kept for comparing behaviour under load.
const (
	LockRow  = "row"
	LockNone = "none"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for costs and
// durations for timeouts.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	DBUser           string        // database username
	DBPass           string        // database password (optional)
	DBHost           string        // database host address
	DBPort           string        // database port number
	DBName           string        // database name
	DBMigrate        bool          // apply embedded migrations on startup
	JWTSecret        string        // secret used to sign JWTs
	AccessTTLMin     int           // access token time-to-live in minutes
	BcryptCost       int           // bcrypt cost for password hashing
	LogLevel         string        // debug, info, warn or error
	RegistrationLock string        // "row" or "none"
	PlannerURL       string        // base URL of the inference service; empty disables it
	PlannerTimeout   time.Duration // per-call timeout for the inference service
	RabbitURL        string        // AMQP broker URL; empty disables notifications
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when
// present; real environment variables win over its entries.  Required
// variables are enforced by must() and missing values cause the program to
// exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:              must("APP_ENV"),                    // environment (dev/test/prod)
		Port:             must("APP_PORT"),                   // port to bind the HTTP server
		DBUser:           must("DB_USER"),                    // database user
		DBPass:           os.Getenv("DB_PASS"),               // database password (empty allowed)
		DBHost:           must("DB_HOST"),                    // database host
		DBPort:           must("DB_PORT"),                    // database port
		DBName:           must("DB_NAME"),                    // database name
		DBMigrate:        envBool("DB_MIGRATE", true),        // run migrations at boot
		JWTSecret:        must("JWT_SECRET"),                 // secret used for signing JWTs
		AccessTTLMin:     mustInt("ACCESS_TOKEN_TTL_MIN"),    // TTL for access tokens in minutes
		BcryptCost:       mustInt("BCRYPT_COST"),             // bcrypt cost factor
		LogLevel:         envStr("LOG_LEVEL", "info"),        // slog level
		RegistrationLock: strings.ToLower(envStr("REGISTRATION_LOCK", LockRow)),
		PlannerURL:       strings.TrimRight(os.Getenv("PLANNER_URL"), "/"),
		PlannerTimeout:   envDur("PLANNER_TIMEOUT", 30*time.Second),
		RabbitURL:        envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
	}
	if cfg.RegistrationLock != LockRow && cfg.RegistrationLock != LockNone {
		log.Fatalf("invalid REGISTRATION_LOCK %q: expected %q or %q", cfg.RegistrationLock, LockRow, LockNone)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
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
