package config

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/hcnav/internal/calculation"
	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Settings is the runtime configuration read from the environment and an
// optional .env file.
type Settings struct {
	Port                   string  `mapstructure:"PORT"`
	Env                    string  `mapstructure:"ENV"`
	LogLevel               string  `mapstructure:"LOG_LEVEL"`
	NegotiationReduction   string  `mapstructure:"NEGOTIATION_REDUCTION"`
	AllowRepeatNegotiation bool    `mapstructure:"ALLOW_REPEAT_NEGOTIATION"`
	CapAtGrossCost         bool    `mapstructure:"CAP_AT_GROSS_COST"`
	DefaultTermMonths      int     `mapstructure:"DEFAULT_TERM_MONTHS"`
	RateLimitRPS           float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst         int     `mapstructure:"RATE_LIMIT_BURST"`
	ProfilePath            string  `mapstructure:"PROFILE_PATH"`
	ReferencePath          string  `mapstructure:"REFERENCE_PATH"`
}

var settingKeys = []string{
	"PORT",
	"ENV",
	"LOG_LEVEL",
	"NEGOTIATION_REDUCTION",
	"ALLOW_REPEAT_NEGOTIATION",
	"CAP_AT_GROSS_COST",
	"DEFAULT_TERM_MONTHS",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"PROFILE_PATH",
	"REFERENCE_PATH",
}

// LoadSettings reads settings from the environment, falling back to envFile
// (usually ".env") and then to defaults. A missing envFile is not an error.
func LoadSettings(envFile string) (*Settings, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
	}
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("NEGOTIATION_REDUCTION", "0.30")
	v.SetDefault("ALLOW_REPEAT_NEGOTIATION", false)
	v.SetDefault("CAP_AT_GROSS_COST", false)
	v.SetDefault("DEFAULT_TERM_MONTHS", 12)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	for _, key := range settingKeys {
		_ = v.BindEnv(key)
	}

	if envFile != "" {
		_ = v.ReadInConfig()
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	s.Env = strings.ToLower(strings.TrimSpace(s.Env))
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// IsDev reports whether the process runs in development mode.
func (s *Settings) IsDev() bool {
	return s.Env == "development"
}

// Validate checks the settings are usable.
func (s *Settings) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", s.LogLevel)
	}
	if _, err := s.NegotiationPolicy(); err != nil {
		return err
	}
	if s.DefaultTermMonths < 1 {
		return fmt.Errorf("DEFAULT_TERM_MONTHS must be at least 1, got %d", s.DefaultTermMonths)
	}
	if s.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", s.RateLimitRPS)
	}
	if s.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", s.RateLimitBurst)
	}
	return nil
}

// NegotiationPolicy builds the policy described by the settings.
func (s *Settings) NegotiationPolicy() (domain.NegotiationPolicy, error) {
	reduction, err := decimal.NewFromString(strings.TrimSpace(s.NegotiationReduction))
	if err != nil {
		return domain.NegotiationPolicy{}, fmt.Errorf("NEGOTIATION_REDUCTION is not a number: %w", err)
	}
	policy := domain.NegotiationPolicy{Reduction: reduction, AllowRepeat: s.AllowRepeatNegotiation}
	if err := policy.Validate(); err != nil {
		return domain.NegotiationPolicy{}, fmt.Errorf("NEGOTIATION_REDUCTION: %w", err)
	}
	return policy, nil
}

// EngineConfig converts the settings into calculator configuration. A
// profile-level negotiation policy takes precedence over the settings.
func (s *Settings) EngineConfig(profile *domain.Profile, ref *domain.ReferenceData) (calculation.EngineConfig, error) {
	cfg := calculation.DefaultEngineConfig()
	cfg.CostSharing.CapAtGrossCost = s.CapAtGrossCost

	policy, err := s.NegotiationPolicy()
	if err != nil {
		return cfg, err
	}
	if profile != nil && profile.Negotiation != nil {
		policy = *profile.Negotiation
	}
	cfg.Negotiation = policy

	if ref != nil {
		cfg.Programs = ref.Programs
	}
	return cfg, nil
}
