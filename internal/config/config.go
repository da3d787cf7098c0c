package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port                int
	DatabaseURL         string
	RedisURL            string
	SessionSecret       string
	SessionTTL          time.Duration
	CookieSecure        bool
	AllowOrigins        []string
	TrustProxyHeaders   bool
	RateLimitPublic     RateLimitConfig
	RateLimitAuth       RateLimitConfig
	Storage             StorageConfig
	MaxUploadBytes      int64
	RegistrationEnabled bool
	StrictNeighborhoods bool
	AdminUsername       string
	AdminPassword       string
	DefaultTheme        string
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// StorageConfig descreve o destino dos arquivos enviados pelo painel.
type StorageConfig struct {
	Provider    string
	UploadDir   string
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", ""))
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL obrigatório")
	}

	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", ""))
	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("SESSION_SECRET deve ter pelo menos 32 caracteres")
	}

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = sessionTTL

	if cfg.CookieSecure, err = parseBoolEnv("COOKIE_SECURE", false); err != nil {
		return nil, err
	}

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	// X-Forwarded-For/X-Real-IP só valem atrás de um proxy que os reescreve
	if cfg.TrustProxyHeaders, err = parseBoolEnv("TRUST_PROXY_HEADERS", false); err != nil {
		return nil, err
	}

	// o cadastro de simpatizantes é público, então o limite é mais apertado que o do login
	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 2, Burst: 10}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: 1, Burst: 5}

	cfg.Storage = StorageConfig{
		Provider:    strings.ToLower(strings.TrimSpace(getEnv("STORAGE_PROVIDER", "local"))),
		UploadDir:   strings.TrimSpace(getEnv("UPLOAD_DIR", "uploads")),
		S3Endpoint:  strings.TrimSpace(getEnv("S3_ENDPOINT", "")),
		S3Region:    strings.TrimSpace(getEnv("S3_REGION", "auto")),
		S3Bucket:    strings.TrimSpace(getEnv("S3_BUCKET", "")),
		S3AccessKey: strings.TrimSpace(getEnv("S3_ACCESS_KEY", "")),
		S3SecretKey: strings.TrimSpace(getEnv("S3_SECRET_KEY", "")),
		S3PublicURL: strings.TrimSpace(getEnv("S3_PUBLIC_URL", "")),
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "uploads"
	}

	maxMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "10"))
	if err != nil || maxMB <= 0 {
		return nil, errors.New("MAX_UPLOAD_MB inválido")
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20

	if cfg.RegistrationEnabled, err = parseBoolEnv("REGISTRATION_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.StrictNeighborhoods, err = parseBoolEnv("STRICT_NEIGHBORHOODS", false); err != nil {
		return nil, err
	}

	cfg.AdminUsername = strings.TrimSpace(getEnv("ADMIN_USERNAME", ""))
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "")
	if cfg.AdminUsername != "" && len(cfg.AdminPassword) < 8 {
		return nil, errors.New("ADMIN_PASSWORD deve ter pelo menos 8 caracteres")
	}

	cfg.DefaultTheme = strings.ToLower(strings.TrimSpace(getEnv("DEFAULT_THEME", "colorado")))
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = "colorado"
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errors.New(key + " inválido")
	}
	return b, nil
}
