package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr          = ":3000"
	defaultDataDir       = "data"
	defaultStaticDir     = "public"
	defaultUploadMaxSize = 5 << 20
	defaultAdminPassword = "change-me"
	defaultSessionSecret = "dev-secret-change-me"
	defaultSessionTTL    = 24 * time.Hour
	defaultSessionCookie = "cocktailbar_session"
	defaultTwilioTimeout = 10 * time.Second
)

// Config captures the runtime configuration for the application. It is
// assembled once by Load and passed by value afterwards.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Uploads  UploadConfig
	Notify   NotifyConfig
	Menu     MenuConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr          string
	StaticDir     string
	PublicBaseURL string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	DataDir         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// SQLitePath is the database file used when no postgres URL is configured.
func (c DatabaseConfig) SQLitePath() string {
	dir := strings.TrimSpace(c.DataDir)
	if dir == "" {
		dir = defaultDataDir
	}
	return filepath.Join(dir, "cocktails.db")
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string
}

// AuthConfig groups the admin credential and session settings.
type AuthConfig struct {
	AdminPassword string
	Session       SessionConfig
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Secret       string
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// UploadConfig describes the managed image directory.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// NotifyConfig holds the order notification destinations.
type NotifyConfig struct {
	WhatsAppNumber string
	Twilio         TwilioConfig
}

// TwilioConfig holds the messaging-provider credentials. All four values
// must be present for direct delivery.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
	Timeout    time.Duration
}

// MenuConfig toggles deployment variants of the cocktail form.
type MenuConfig struct {
	RequireInstructions bool
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	staticDir := firstNonEmpty(os.Getenv("STATIC_DIR"), defaultStaticDir)

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			portAddr(os.Getenv("PORT")),
			defaultAddr,
		),
		StaticDir:     staticDir,
		PublicBaseURL: strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		DataDir:         firstNonEmpty(os.Getenv("DATA_DIR"), defaultDataDir),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
	}

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
	}

	cfg.Auth = AuthConfig{
		AdminPassword: firstNonEmpty(os.Getenv("ADMIN_PASSWORD"), defaultAdminPassword),
		Session: SessionConfig{
			Secret:       firstNonEmpty(os.Getenv("SESSION_SECRET"), defaultSessionSecret),
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), defaultSessionTTL),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), defaultSessionCookie),
			CookieDomain: strings.TrimSpace(os.Getenv("SESSION_COOKIE_DOMAIN")),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), false),
		},
	}

	cfg.Uploads = UploadConfig{
		Dir:      firstNonEmpty(os.Getenv("UPLOAD_DIR"), filepath.Join(staticDir, "uploads")),
		MaxBytes: int64(parseIntWithDefault(os.Getenv("UPLOAD_MAX_BYTES"), defaultUploadMaxSize)),
	}

	cfg.Notify = NotifyConfig{
		WhatsAppNumber: strings.TrimSpace(os.Getenv("WHATSAPP_NUMBER")),
		Twilio: TwilioConfig{
			AccountSID: strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
			AuthToken:  strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
			From:       strings.TrimSpace(os.Getenv("TWILIO_WHATSAPP_FROM")),
			To:         strings.TrimSpace(os.Getenv("TWILIO_WHATSAPP_TO")),
			Timeout:    parseDurationWithDefault(os.Getenv("TWILIO_TIMEOUT"), defaultTwilioTimeout),
		},
	}

	cfg.Menu = MenuConfig{
		RequireInstructions: parseBoolWithDefault(os.Getenv("REQUIRE_INSTRUCTIONS"), false),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}
	if cfg.Uploads.MaxBytes <= 0 {
		cfg.Uploads.MaxBytes = defaultUploadMaxSize
	}

	return cfg, nil
}

func portAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ""
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
