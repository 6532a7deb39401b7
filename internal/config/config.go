package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Drivers de almacenamiento soportados
const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// AppConfig contiene toda la configuración leída del entorno
type AppConfig struct {
	Port     string
	LogLevel string

	CMCAPIKey  string
	CMCBaseURL string

	StorageDriver string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string

	MarketRefreshInterval time.Duration
	MarketInitialDelay    time.Duration
	QuoteCacheTTL         time.Duration

	AllowedOrigins []string
}

// Load carga el archivo .env (si existe) y construye la configuración
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("No se pudo cargar el archivo .env, se usan las variables del entorno: %v", err)
	}

	cfg := &AppConfig{
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CMCAPIKey:  getEnv("COINMARKETCAP_API_KEY", ""),
		CMCBaseURL: strings.TrimRight(getEnv("COINMARKETCAP_BASE_URL", "https://pro-api.coinmarketcap.com/v1"), "/"),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "cryptoledger"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		MarketRefreshInterval: getEnvAsDuration("MARKET_REFRESH_INTERVAL", 5*time.Minute),
		MarketInitialDelay:    getEnvAsDuration("MARKET_INITIAL_DELAY", 2*time.Second),
		QuoteCacheTTL:         getEnvAsDuration("MARKET_QUOTE_CACHE_TTL", time.Minute),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}
	cfg.StorageDriver = resolveDriver(getEnv("STORAGE_DRIVER", ""), cfg.MongoURI, cfg.DatabaseURL)

	if cfg.CMCAPIKey == "" {
		log.Println("WARNING: COINMARKETCAP_API_KEY no está configurada, los precios quedarán vacíos")
	}

	log.Printf("Configuración cargada: Port=%s, LogLevel=%s, Storage=%s, Refresh=%s",
		cfg.Port, cfg.LogLevel, cfg.StorageDriver, cfg.MarketRefreshInterval)
	return cfg
}

// resolveDriver elige el almacenamiento: explícito si se indicó, si no se infiere
// a partir de las cadenas de conexión presentes.
func resolveDriver(explicit, mongoURI, databaseURL string) string {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case DriverMemory:
		return DriverMemory
	case DriverMongo, "mongodb":
		return DriverMongo
	case DriverSQLite, "sqlite3":
		return DriverSQLite
	case DriverPostgres, "postgresql":
		return DriverPostgres
	case "":
	default:
		log.Printf("WARNING: STORAGE_DRIVER desconocido '%s', se infiere a partir de las URLs", explicit)
	}

	switch {
	case mongoURI != "":
		return DriverMongo
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DriverPostgres
	case databaseURL != "":
		return DriverSQLite
	default:
		return DriverMemory
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		log.Printf("WARNING: duración inválida para %s ('%s'), se usa %s", key, valueStr, fallback)
		return fallback
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
