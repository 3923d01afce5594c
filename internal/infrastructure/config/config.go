package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"

	"github.com/cmcs/claims-api/internal/core/domain"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Claims ClaimSettings
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=claims_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// ClaimSettings holds the business-rule bounds as environment strings.
// Defaults mirror the documented policy. Decimal values are kept as
// strings here and parsed once at startup via ClaimPolicy.
type ClaimSettings struct {
	MinHours          string `env:"CLAIM_MIN_HOURS,           default=0.1"`
	MaxHours          string `env:"CLAIM_MAX_HOURS,           default=200"`
	MinRate           string `env:"CLAIM_MIN_RATE,            default=50"`
	MaxRate           string `env:"CLAIM_MAX_RATE,            default=1000"`
	MaxAmount         string `env:"CLAIM_MAX_AMOUNT,          default=50000"`
	MonthlyHoursLimit string `env:"CLAIM_MONTHLY_HOURS_LIMIT, default=1000"`

	ApprovalWorkers int `env:"APPROVAL_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// ClaimPolicy converts the string-valued settings into the decimal policy
// the engines consume. Malformed values fail here, at startup, rather
// than inside a request.
func (s ClaimSettings) ClaimPolicy() (domain.ClaimPolicy, error) {
	parse := func(name, value string, dst *decimal.Decimal) error {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("config: %s=%q is not a valid decimal: %w", name, value, err)
		}
		*dst = d
		return nil
	}

	var policy domain.ClaimPolicy
	if err := parse("CLAIM_MIN_HOURS", s.MinHours, &policy.MinHours); err != nil {
		return domain.ClaimPolicy{}, err
	}
	if err := parse("CLAIM_MAX_HOURS", s.MaxHours, &policy.MaxHours); err != nil {
		return domain.ClaimPolicy{}, err
	}
	if err := parse("CLAIM_MIN_RATE", s.MinRate, &policy.MinRate); err != nil {
		return domain.ClaimPolicy{}, err
	}
	if err := parse("CLAIM_MAX_RATE", s.MaxRate, &policy.MaxRate); err != nil {
		return domain.ClaimPolicy{}, err
	}
	if err := parse("CLAIM_MAX_AMOUNT", s.MaxAmount, &policy.MaxAmount); err != nil {
		return domain.ClaimPolicy{}, err
	}
	if err := parse("CLAIM_MONTHLY_HOURS_LIMIT", s.MonthlyHoursLimit, &policy.MonthlyHoursLimit); err != nil {
		return domain.ClaimPolicy{}, err
	}
	return policy, nil
}
