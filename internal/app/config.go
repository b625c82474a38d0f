package app

import (
	"strings"
	"time"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/utils"
)

type Config struct {
	ServiceName  string
	Environment  string
	Version      string
	Port         string
	JWTSecretKey string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	AllowOrigins []string
	RedisAddr    string
}

func LoadConfig(log *logger.Logger) Config {
	origins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		ServiceName:  "jinaq-backend",
		Environment:  utils.GetEnv("APP_ENV", "development", log),
		Version:      utils.GetEnv("APP_VERSION", "dev", log),
		Port:         utils.GetEnv("PORT", "8080", log),
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTTL:    time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RefreshTTL:   time.Duration(utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)) * time.Second,
		AllowOrigins: origins,
		RedisAddr:    utils.GetEnv("REDIS_ADDR", "", log),
	}
}
