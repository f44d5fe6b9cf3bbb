package config

import "time"

// GeneratorConfig is the top-level YAML structure of one generator.
type GeneratorConfig struct {
	Version       string        `yaml:"version"`
	Service       string        `yaml:"service"`
	LogDir        string        `yaml:"log_dir"`
	ProgressEvery int           `yaml:"progress_every"`
	Seed          uint64        `yaml:"seed"` // 0 = random
	Catalog       []KindConf    `yaml:"catalog"`
	Profile       ProfileConf   `yaml:"profile"`
	Pacing        PacingConf    `yaml:"pacing"`
	Rules         RulesConf     `yaml:"rules"`
	Reference     ReferenceConf `yaml:"reference"`
	HTTP          HTTPConf      `yaml:"http"`
}

// KindConf is one catalog entry.
type KindConf struct {
	Name     string  `yaml:"name"`
	Severity string  `yaml:"severity"`
	Weight   float64 `yaml:"weight"`
}

// ProfileConf is either a list of hour windows or a flat multiplier.
type ProfileConf struct {
	Flat    *float64     `yaml:"flat,omitempty"`
	Windows []WindowConf `yaml:"windows,omitempty"`
}

// WindowConf covers hours Start..End inclusive; Start > End wraps midnight.
type WindowConf struct {
	Name       string  `yaml:"name"`
	Start      int     `yaml:"start"`
	End        int     `yaml:"end"`
	Multiplier float64 `yaml:"multiplier"`
}

// PacingConf sizes bursts and the pause between them. Delays accept Go
// duration strings ("500ms", "1m").
type PacingConf struct {
	BurstMin     int           `yaml:"burst_min"`
	BurstMax     int           `yaml:"burst_max"`
	DelayMin     time.Duration `yaml:"delay_min"`
	DelayMax     time.Duration `yaml:"delay_max"`
	DelayScaling string        `yaml:"delay_scaling"` // activity | fixed
}

// RulesConf overrides the cross-cutting escalations of a domain.
type RulesConf struct {
	LargeAmountThreshold float64    `yaml:"large_amount_threshold,omitempty"`
	UnsocialHours        *HourRange `yaml:"unsocial_hours,omitempty"`
}

// HourRange is an inclusive hour span that may wrap midnight.
type HourRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// ReferenceConf sizes the pre-built user and account directory.
type ReferenceConf struct {
	Users    int `yaml:"users"`
	Accounts int `yaml:"accounts"`
}

// HTTPConf is the ops endpoint of the generator.
type HTTPConf struct {
	Addr string `yaml:"addr"`
}

const (
	DelayScalingActivity = "activity"
	DelayScalingFixed    = "fixed"
)
