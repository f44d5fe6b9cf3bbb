package config

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/banksim/internal/composer"
	"github.com/gyaneshwarpardhi/banksim/internal/event"
)

// Validate checks the config for:
//   - Required fields and a known service
//   - Catalog entries: names, duplicates, severities and weights
//   - A profile that covers every hour exactly once
//   - Sane pacing, rule and reference sizes
func Validate(cfg *GeneratorConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	if cfg.Service == "" {
		errs = append(errs, "service is required")
	} else if _, err := composer.ForService(cfg.Service); err != nil {
		errs = append(errs, fmt.Sprintf("service %q is not a known generator", cfg.Service))
	}
	if cfg.ProgressEvery < 0 {
		errs = append(errs, "progress_every must not be negative")
	}

	validateCatalog(cfg.Catalog, &errs)
	validateProfile(cfg.Profile, &errs)
	validatePacing(cfg.Pacing, &errs)

	if cfg.Rules.LargeAmountThreshold < 0 {
		errs = append(errs, "rules.large_amount_threshold must not be negative")
	}
	if r := cfg.Rules.UnsocialHours; r != nil && (!validHour(r.Start) || !validHour(r.End)) {
		errs = append(errs, fmt.Sprintf("rules.unsocial_hours: hours must be 0-23, got %d-%d", r.Start, r.End))
	}
	if cfg.Reference.Users < 1 {
		errs = append(errs, "reference.users must be at least 1")
	}
	if cfg.Reference.Accounts < 2 {
		errs = append(errs, "reference.accounts must be at least 2")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validHour(h int) bool { return h >= 0 && h <= 23 }

func validateCatalog(kinds []KindConf, errs *[]string) {
	if len(kinds) == 0 {
		*errs = append(*errs, "catalog must not be empty")
		return
	}
	seen := make(map[string]int)
	var total float64
	for i, k := range kinds {
		if k.Name == "" {
			*errs = append(*errs, fmt.Sprintf("catalog[%d]: name is required", i))
			continue
		}
		if prev, ok := seen[k.Name]; ok {
			*errs = append(*errs, fmt.Sprintf("duplicate kind %q (catalog[%d] and catalog[%d])", k.Name, prev, i))
		} else {
			seen[k.Name] = i
		}
		if _, err := event.ParseSeverity(k.Severity); err != nil {
			*errs = append(*errs, fmt.Sprintf("kind %s: %v", k.Name, err))
		}
		if k.Weight < 0 {
			*errs = append(*errs, fmt.Sprintf("kind %s: weight must not be negative", k.Name))
		} else {
			total += k.Weight
		}
	}
	if total <= 0 {
		*errs = append(*errs, "catalog: at least one kind needs a positive weight")
	}
}

func validateProfile(p ProfileConf, errs *[]string) {
	switch {
	case p.Flat != nil && len(p.Windows) > 0:
		*errs = append(*errs, "profile: only one of flat/windows may be set")
	case p.Flat == nil && len(p.Windows) == 0:
		*errs = append(*errs, "profile: one of flat/windows must be set")
	default:
		if _, err := buildProfile(p); err != nil {
			*errs = append(*errs, fmt.Sprintf("profile: %v", err))
		}
	}
}

func validatePacing(p PacingConf, errs *[]string) {
	if p.BurstMin < 0 || p.BurstMax < p.BurstMin {
		*errs = append(*errs, fmt.Sprintf("pacing: invalid burst range [%d,%d]", p.BurstMin, p.BurstMax))
	}
	if p.DelayMin <= 0 || p.DelayMax < p.DelayMin {
		*errs = append(*errs, fmt.Sprintf("pacing: invalid delay range [%s,%s]", p.DelayMin, p.DelayMax))
	}
	switch p.DelayScaling {
	case DelayScalingActivity, DelayScalingFixed:
	default:
		*errs = append(*errs, fmt.Sprintf("pacing: delay_scaling must be %q or %q, got %q",
			DelayScalingActivity, DelayScalingFixed, p.DelayScaling))
	}
}
