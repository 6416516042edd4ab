// Package config carga la configuración del proceso con viper: defaults, archivo opcional y env.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

type Config struct {
	Port int

	DBDriver string
	DBDSN    string

	UploadDir     string
	PublicBaseURL string

	LogLevel  string
	LogFormat string
	AppName   string

	HelplineCacheTTL time.Duration

	Gateway GatewayConfig
}

type GatewayConfig struct {
	Listen       string
	Origin       string
	CacheVersion string
	RedisAddr    string
	// Precache vacío = lista por defecto del gateway.
	Precache []string
}

// envBinding asocia una key de viper a su variable de entorno.
type envBinding struct {
	Key string
	Env string
}

var envBindings = []envBinding{
	{"port", "PORT"},
	{"db.driver", "DB_DRIVER"},
	{"db.dsn", "DB_DSN"},
	{"uploads.dir", "UPLOAD_DIR"},
	{"public.base_url", "PUBLIC_BASE_URL"},
	{"log.level", "LOG_LEVEL"},
	{"log.format", "LOG_FORMAT"},
	{"app.name", "APP_NAME"},
	{"helplines.cache_ttl", "HELPLINE_CACHE_TTL"},
	{"gateway.listen", "GATEWAY_LISTEN"},
	{"gateway.origin", "GATEWAY_ORIGIN"},
	{"gateway.cache_version", "GATEWAY_CACHE_VERSION"},
	{"gateway.redis_addr", "GATEWAY_REDIS_ADDR"},
	{"gateway.precache", "GATEWAY_PRECACHE"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db.dsn", "")
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("public.base_url", "http://localhost:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("app.name", "streetpaws")
	v.SetDefault("helplines.cache_ttl", "5m")
	v.SetDefault("gateway.listen", ":8081")
	v.SetDefault("gateway.origin", "http://localhost:8080")
	v.SetDefault("gateway.cache_version", "streetpaws-pwa-v1")
	v.SetDefault("gateway.redis_addr", "")
}

// NewViper arma la instancia con defaults + env. Los comandos pueden enlazar flags encima.
func NewViper() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	for _, b := range envBindings {
		if err := v.BindEnv(b.Key, b.Env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.Env, err)
		}
	}
	return v, nil
}

// Load lee el archivo (si se indica) y devuelve la config validada.
func Load(v *viper.Viper, file string) (Config, error) {
	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:             v.GetInt("port"),
		DBDriver:         strings.ToLower(strings.TrimSpace(v.GetString("db.driver"))),
		DBDSN:            strings.TrimSpace(v.GetString("db.dsn")),
		UploadDir:        strings.TrimSpace(v.GetString("uploads.dir")),
		PublicBaseURL:    strings.TrimRight(strings.TrimSpace(v.GetString("public.base_url")), "/"),
		LogLevel:         v.GetString("log.level"),
		LogFormat:        v.GetString("log.format"),
		AppName:          v.GetString("app.name"),
		HelplineCacheTTL: v.GetDuration("helplines.cache_ttl"),
		Gateway: GatewayConfig{
			Listen:       v.GetString("gateway.listen"),
			Origin:       strings.TrimRight(strings.TrimSpace(v.GetString("gateway.origin")), "/"),
			CacheVersion: strings.TrimSpace(v.GetString("gateway.cache_version")),
			RedisAddr:    strings.TrimSpace(v.GetString("gateway.redis_addr")),
			Precache:     splitList(v.GetStringSlice("gateway.precache")),
		},
	}

	// Sin driver explícito: DSN => postgres (comportamiento previo), si no in-memory.
	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverMemory
		if cfg.DBDSN != "" {
			cfg.DBDriver = DriverPostgres
		}
	}
	if cfg.DBDriver == DriverSQLite && cfg.DBDSN == "" {
		cfg.DBDSN = "streetpaws.db"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string

	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port out of range: %d", c.Port))
	}

	switch c.DBDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres, DriverMySQL:
		if c.DBDSN == "" {
			problems = append(problems, fmt.Sprintf("db.dsn required for driver %q", c.DBDriver))
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown db.driver %q", c.DBDriver))
	}

	if c.UploadDir == "" {
		problems = append(problems, "uploads.dir is empty")
	}
	if c.HelplineCacheTTL <= 0 {
		problems = append(problems, "helplines.cache_ttl must be > 0")
	}
	if c.Gateway.CacheVersion == "" {
		problems = append(problems, "gateway.cache_version is empty")
	}

	for _, p := range c.Gateway.Precache {
		if !strings.HasPrefix(p, "/") {
			problems = append(problems, fmt.Sprintf("gateway.precache entry must be a path: %q", p))
		}
	}

	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Addr devuelve la dirección de escucha del API.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// splitList acepta tanto listas YAML como "a,b c" desde env.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
