package config

import (
	"time"

	"github.com/gyaneshwarpardhi/banksim/internal/composer"
)

const (
	DefaultLogDir        = "/app/logs"
	DefaultProgressEvery = 100
	DefaultHTTPAddr      = ":9102"
	DefaultUsers         = 500
	DefaultAccounts      = 1000
)

func flat(m float64) ProfileConf { return ProfileConf{Flat: &m} }

func banking(business, evening, night float64) ProfileConf {
	return ProfileConf{Windows: []WindowConf{
		{Name: "business", Start: 9, End: 18, Multiplier: business},
		{Name: "evening", Start: 19, End: 22, Multiplier: evening},
		{Name: "night", Start: 23, End: 6, Multiplier: night},
		{Name: "morning", Start: 7, End: 8, Multiplier: 1.0},
	}}
}

// Defaults returns the built-in configuration of a service, or nil for an
// unknown one. Short names ("auth") are accepted.
func Defaults(service string) *GeneratorConfig {
	service = canonicalService(service)
	cfg := &GeneratorConfig{
		Version:       "1",
		Service:       service,
		LogDir:        DefaultLogDir,
		ProgressEvery: DefaultProgressEvery,
		Reference:     ReferenceConf{Users: DefaultUsers, Accounts: DefaultAccounts},
		HTTP:          HTTPConf{Addr: DefaultHTTPAddr},
	}
	switch service {
	case composer.AuthService:
		cfg.Catalog = []KindConf{
			{"login_success", "INFO", 70},
			{"login_failed", "WARN", 15},
			{"account_locked", "ERROR", 3},
			{"password_reset", "INFO", 5},
			{"two_factor_required", "INFO", 4},
			{"suspicious_login", "WARN", 2},
			{"logout", "INFO", 1},
		}
		cfg.Profile = banking(3.0, 1.5, 0.3)
		cfg.Pacing = PacingConf{
			BurstMin: 1, BurstMax: 5,
			DelayMin: time.Second, DelayMax: 10 * time.Second,
			DelayScaling: DelayScalingActivity,
		}
	case composer.PaymentService:
		cfg.Catalog = []KindConf{
			{"transfer", "INFO", 40},
			{"card_payment", "INFO", 30},
			{"utility_payment", "INFO", 15},
			{"salary_payment", "INFO", 10},
			{"large_transfer", "WARN", 4},
			{"international_transfer", "INFO", 1},
		}
		cfg.Profile = banking(2.5, 1.8, 0.2)
		cfg.Pacing = PacingConf{
			BurstMin: 2, BurstMax: 8,
			DelayMin: 500 * time.Millisecond, DelayMax: 5 * time.Second,
			DelayScaling: DelayScalingActivity,
		}
		cfg.Rules = RulesConf{
			LargeAmountThreshold: composer.LargePaymentThreshold,
			UnsocialHours:        &HourRange{Start: 0, End: 6},
		}
	case composer.FraudService:
		cfg.ProgressEvery = 50
		cfg.Catalog = []KindConf{
			{"suspicious_transaction", "WARN", 40},
			{"card_fraud_detected", "ERROR", 20},
			{"account_takeover", "CRITICAL", 10},
			{"money_laundering", "CRITICAL", 5},
			{"identity_theft", "ERROR", 15},
			{"false_positive", "INFO", 10},
		}
		cfg.Profile = flat(1.0)
		cfg.Pacing = PacingConf{
			BurstMin: 0, BurstMax: 2,
			DelayMin: 10 * time.Second, DelayMax: 60 * time.Second,
			DelayScaling: DelayScalingFixed,
		}
	case composer.NotificationService:
		cfg.Catalog = []KindConf{
			{"sms_sent", "INFO", 50},
			{"email_sent", "INFO", 30},
			{"push_sent", "INFO", 15},
			{"sms_failed", "ERROR", 3},
			{"email_failed", "ERROR", 2},
		}
		cfg.Profile = flat(1.0)
		cfg.Pacing = PacingConf{
			BurstMin: 1, BurstMax: 4,
			DelayMin: 2 * time.Second, DelayMax: 15 * time.Second,
			DelayScaling: DelayScalingFixed,
		}
	default:
		return nil
	}
	return cfg
}

func canonicalService(name string) string {
	if d, err := composer.ForService(name); err == nil {
		return d.Service
	}
	return name
}

// applyDefaults fills every unset field from the service's built-in config.
// Catalog, profile and rules are taken whole: a catalog in the file
// replaces the default one rather than merging with it.
func applyDefaults(cfg *GeneratorConfig) {
	cfg.Service = canonicalService(cfg.Service)
	def := Defaults(cfg.Service)
	if def == nil {
		def = &GeneratorConfig{
			LogDir:        DefaultLogDir,
			ProgressEvery: DefaultProgressEvery,
			Reference:     ReferenceConf{Users: DefaultUsers, Accounts: DefaultAccounts},
			HTTP:          HTTPConf{Addr: DefaultHTTPAddr},
			Pacing:        PacingConf{DelayScaling: DelayScalingActivity},
		}
	}
	if cfg.LogDir == "" {
		cfg.LogDir = def.LogDir
	}
	if cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = def.ProgressEvery
	}
	if len(cfg.Catalog) == 0 {
		cfg.Catalog = def.Catalog
	}
	if cfg.Profile.Flat == nil && len(cfg.Profile.Windows) == 0 {
		cfg.Profile = def.Profile
	}
	if cfg.Pacing.BurstMin == 0 && cfg.Pacing.BurstMax == 0 {
		cfg.Pacing.BurstMin, cfg.Pacing.BurstMax = def.Pacing.BurstMin, def.Pacing.BurstMax
	}
	if cfg.Pacing.DelayMin == 0 {
		cfg.Pacing.DelayMin = def.Pacing.DelayMin
	}
	if cfg.Pacing.DelayMax == 0 {
		cfg.Pacing.DelayMax = def.Pacing.DelayMax
	}
	if cfg.Pacing.DelayScaling == "" {
		cfg.Pacing.DelayScaling = def.Pacing.DelayScaling
	}
	if cfg.Rules.LargeAmountThreshold == 0 && cfg.Rules.UnsocialHours == nil {
		cfg.Rules = def.Rules
	}
	if cfg.Reference.Users == 0 {
		cfg.Reference.Users = def.Reference.Users
	}
	if cfg.Reference.Accounts == 0 {
		cfg.Reference.Accounts = def.Reference.Accounts
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = def.HTTP.Addr
	}
}
