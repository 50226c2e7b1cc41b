package app

import (
	"time"

	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/platform/envutil"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	RedisAddr string

	SweepConcurrency int
	Item86Quadrant   bool

	Environment string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret")
	if jwtSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set, using insecure default")
	}
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600)
	refreshTokenTTLSeconds := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400)
	return Config{
		JWTSecretKey:     jwtSecretKey,
		AccessTokenTTL:   time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:  time.Duration(refreshTokenTTLSeconds) * time.Second,
		RedisAddr:        envutil.GetEnv("REDIS_ADDR", ""),
		SweepConcurrency: envutil.GetEnvAsInt("SWEEP_CONCURRENCY", 4),
		Item86Quadrant:   envutil.GetEnvAsBool("SCORE_ITEM86_QUADRANT", false),
		Environment:      envutil.GetEnv("APP_ENV", "development"),
		Version:          envutil.GetEnv("APP_VERSION", "dev"),
	}
}

// EngineOpts translates config into scoring engine options.
func (c Config) EngineOpts() []scoring.Option {
	var opts []scoring.Option
	if c.Item86Quadrant {
		opts = append(opts, scoring.WithItem86Quadrant(true))
	}
	return opts
}
