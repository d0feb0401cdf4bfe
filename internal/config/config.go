package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret           string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`

	DiscoveryCandidateLimit  int `env:"DISCOVERY_CANDIDATE_LIMIT" envDefault:"200"`
	DiscoveryCacheTTLSeconds int `env:"DISCOVERY_CACHE_TTL_SECONDS" envDefault:"60"`

	LikeRateLimitMax           int `env:"LIKE_RATE_LIMIT_MAX" envDefault:"50"`
	LikeRateLimitWindowMinutes int `env:"LIKE_RATE_LIMIT_WINDOW_MINUTES" envDefault:"60"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
