package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sgcommute/service-fareroute/internal/platform/database"
)

// OneMapConfig holds settings for the OneMap search and routing APIs.
type OneMapConfig struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// DataMallConfig holds settings for the LTA DataMall API.
type DataMallConfig struct {
	AccountKey string
	BaseURL    string
	Timeout    time.Duration
}

// KafkaConfig holds broker settings. Events are disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds cache settings. Caching is disabled when URL is empty.
type RedisConfig struct {
	URL        string
	GeocodeTTL time.Duration
	TaxiTTL    time.Duration
}

// ServiceConfig holds all configuration for the fare-route service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	FareTablePath  string
	AllowedOrigins []string
	JWTSecret      string
	OneMap         OneMapConfig
	DataMall       DataMallConfig
	DBConfig       database.PostgresConfig
	KafkaConfig    KafkaConfig
	RedisConfig    RedisConfig
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &ServiceConfig{
		Port:           normalizePort(v.GetString("SERVICE_PORT")),
		AppEnv:         v.GetString("APP_ENV"),
		FareTablePath:  v.GetString("FARE_TABLE_PATH"),
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		JWTSecret:      v.GetString("JWT_SECRET"),
		OneMap: OneMapConfig{
			Token:   strings.TrimSpace(v.GetString("ONE_MAP_TOKEN")),
			BaseURL: v.GetString("ONE_MAP_BASE_URL"),
			Timeout: v.GetDuration("ONE_MAP_TIMEOUT"),
		},
		DataMall: DataMallConfig{
			AccountKey: v.GetString("LTA_API_KEY"),
			BaseURL:    v.GetString("DATAMALL_BASE_URL"),
			Timeout:    v.GetDuration("DATAMALL_TIMEOUT"),
		},
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		RedisConfig: RedisConfig{
			URL:        v.GetString("REDIS_URL"),
			GeocodeTTL: v.GetDuration("GEOCODE_CACHE_TTL"),
			TaxiTTL:    v.GetDuration("TAXI_CACHE_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings the service cannot start without.
func (c *ServiceConfig) Validate() error {
	if c.OneMap.Token == "" {
		return errors.New("ONE_MAP_TOKEN is not defined")
	}
	if c.OneMap.Timeout <= 0 || c.DataMall.Timeout <= 0 {
		return errors.New("upstream timeouts must be positive")
	}
	return nil
}

// HistoryEnabled reports whether trip history storage is configured.
func (c *ServiceConfig) HistoryEnabled() bool { return c.DBConfig.Host != "" }

// EventsEnabled reports whether Kafka is configured.
func (c *ServiceConfig) EventsEnabled() bool { return len(c.KafkaConfig.Brokers) > 0 }

// CacheEnabled reports whether the redis cache is configured.
func (c *ServiceConfig) CacheEnabled() bool { return c.RedisConfig.URL != "" }

// AdminEnabled reports whether admin endpoints can verify tokens.
func (c *ServiceConfig) AdminEnabled() bool { return c.JWTSecret != "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", "5001")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ONE_MAP_BASE_URL", "https://www.onemap.gov.sg")
	v.SetDefault("ONE_MAP_TIMEOUT", 10*time.Second)
	v.SetDefault("DATAMALL_BASE_URL", "https://datamall2.mytransport.sg/ltaodataservice")
	v.SetDefault("DATAMALL_TIMEOUT", 10*time.Second)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "fareroute")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_GROUP_PREFIX", "sgcommute-")
	v.SetDefault("GEOCODE_CACHE_TTL", 24*time.Hour)
	v.SetDefault("TAXI_CACHE_TTL", 30*time.Second)
}

func normalizePort(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
