package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses the hold and payment windows
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The booking core runs standalone: the
// catalog database, Redis and the message broker are all optional and
// the service degrades to in-memory/file fallbacks without them.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	HoldTTL         time.Duration // lifetime of a seat hold
	PaymentWindow   time.Duration // payment window of an order
	PaymentFailRate float64       // fallback failure-injection rate when no per-request override is supplied
	AuditLogPath    string        // JSONL decision log written by the audit consumer / file sink
	DBUser          string        // catalog database username (optional)
	DBPass          string        // catalog database password (optional)
	DBHost          string        // catalog database host; empty disables the MySQL catalog
	DBPort          string        // catalog database port
	DBName          string        // catalog database name
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),  // environment (dev/test/prod)
		Port:            must("APP_PORT"), // port to bind the HTTP server
		HoldTTL:         minutes("HOLD_TTL_MIN", 5),
		PaymentWindow:   minutes("PAYMENT_WINDOW_MIN", 5),
		PaymentFailRate: failRate("PAYMENT_FAIL_RATE"),
		AuditLogPath:    envStr("AUDIT_LOG_PATH", "logs/decision_audit.jsonl"),
		DBUser:          os.Getenv("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          os.Getenv("DB_PORT"),
		DBName:          os.Getenv("DB_NAME"),
	}
}

// CatalogEnabled reports whether a MySQL catalog is configured.
func (c Config) CatalogEnabled() bool {
	return c.DBHost != "" && c.DBName != ""
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

// minutes reads an integer number of minutes with a default.  Invalid
// values fall back to the default rather than halting: the windows have
// safe defaults.
func minutes(key string, def int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(def) * time.Minute
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return time.Duration(def) * time.Minute
	}
	return time.Duration(n) * time.Minute
}

// failRate parses the fallback failure-injection rate.  Absent or
// malformed values mean 0 (never fail); values are clamped to [0, 1].
func failRate(key string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
