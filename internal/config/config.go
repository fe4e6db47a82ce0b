package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const DefaultBoundarySource = "https://raw.githubusercontent.com/datasets/geo-countries/master/data/countries.geojson"

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	DatasetPath      string // GPD wide CSV, imported when the store is empty
	BoundarySource   string // file path or http(s) URL
	BoundaryCacheDir string
	AliasPath        string // optional YAML, layered over the built-in aliases

	EnableAgreementGate bool
	AuthHMACSecret      string
	TokenTTLHours       int

	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	LogLevel  string
	LogFormat string
}

// CORSOrigins returns the allow-list for the active mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// LoadDotEnv reads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:      mode,
		HTTPAddr:  envOr("HTTP_ADDR", ":8000"),
		PublicURL: os.Getenv("PUBLIC_URL"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		DatasetPath:      envOr("DATASET_PATH", "./dataverse_files/GPD_v2.1_20251120_Wide.csv"),
		BoundarySource:   envOr("BOUNDARY_SOURCE", DefaultBoundarySource),
		BoundaryCacheDir: envOr("BOUNDARY_CACHE_DIR", "./data"),
		AliasPath:        os.Getenv("ALIAS_PATH"),

		EnableAgreementGate: envBool("ENABLE_AGREEMENT_GATE", mode == ModeOnline),
		AuthHMACSecret:      envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		TokenTTLHours:       envInt("TOKEN_TTL_HOURS", 8),

		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: os.Getenv("ADMIN_PASS_HASH"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://global-populism-db.ejacquot.com"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "text"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
