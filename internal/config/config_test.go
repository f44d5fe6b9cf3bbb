package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gyaneshwarpardhi/banksim/internal/composer"
	"github.com/gyaneshwarpardhi/banksim/internal/config"
	"github.com/gyaneshwarpardhi/banksim/internal/event"
	"github.com/gyaneshwarpardhi/banksim/internal/refdata"
	"github.com/gyaneshwarpardhi/banksim/internal/sampler"
	"github.com/gyaneshwarpardhi/banksim/internal/scheduler"
	"github.com/gyaneshwarpardhi/banksim/internal/sink"
)

func TestParse_AppliesServiceDefaults(t *testing.T) {
	tests := []struct {
		in            string
		service       string
		progressEvery int
		kinds         int
		scaleDelay    bool
	}{
		{"version: \"1\"\nservice: auth\n", composer.AuthService, 100, 7, true},
		{"version: \"1\"\nservice: payment-service\n", composer.PaymentService, 100, 6, true},
		{"version: \"1\"\nservice: fraud\n", composer.FraudService, 50, 6, false},
		{"version: \"1\"\nservice: notification\n", composer.NotificationService, 100, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.in))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if cfg.Service != tt.service {
				t.Errorf("service = %q, want %q", cfg.Service, tt.service)
			}
			if cfg.ProgressEvery != tt.progressEvery {
				t.Errorf("progress_every = %d, want %d", cfg.ProgressEvery, tt.progressEvery)
			}
			if cfg.LogDir != config.DefaultLogDir || cfg.HTTP.Addr != config.DefaultHTTPAddr {
				t.Errorf("log_dir=%q addr=%q", cfg.LogDir, cfg.HTTP.Addr)
			}
			plan, err := cfg.BuildPlan()
			if err != nil {
				t.Fatalf("BuildPlan: %v", err)
			}
			if plan.Catalog.Len() != tt.kinds {
				t.Errorf("catalog has %d kinds, want %d", plan.Catalog.Len(), tt.kinds)
			}
			if plan.Pacing.ScaleDelay != tt.scaleDelay {
				t.Errorf("ScaleDelay = %v, want %v", plan.Pacing.ScaleDelay, tt.scaleDelay)
			}
		})
	}
}

func TestParse_DefaultProfiles(t *testing.T) {
	cfg, err := config.Parse([]byte("version: \"1\"\nservice: auth\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, _ := cfg.BuildPlan()
	for hour, want := range map[int]float64{14: 3.0, 20: 1.5, 2: 0.3, 23: 0.3, 7: 1.0} {
		if got := plan.Profile.MultiplierFor(hour); got != want {
			t.Errorf("hour %d: multiplier %v, want %v", hour, got, want)
		}
	}
}

func TestParse_Overrides(t *testing.T) {
	in := `
version: "1"
service: payment
log_dir: /tmp/banksim
catalog:
  - {name: success, severity: INFO, weight: 90}
  - {name: failure, severity: ERROR, weight: 10}
profile:
  flat: 2
pacing:
  burst_min: 3
  burst_max: 3
  delay_min: 250ms
  delay_max: 1s
  delay_scaling: fixed
rules:
  large_amount_threshold: 5000
`
	cfg, err := config.Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, err := cfg.BuildPlan()
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if sev, _ := plan.Catalog.SeverityOf("failure"); sev != event.SeverityError {
		t.Errorf("failure severity = %v", sev)
	}
	if plan.Pacing.DelayMin != 250*time.Millisecond || plan.Pacing.ScaleDelay {
		t.Errorf("pacing = %+v", plan.Pacing)
	}
	if got := plan.Profile.MultiplierFor(3); got != 2 {
		t.Errorf("flat multiplier = %v", got)
	}

	d, err := cfg.BuildDomain()
	if err != nil {
		t.Fatalf("BuildDomain: %v", err)
	}
	esc := d.Escalations()
	if len(esc) != 1 {
		t.Fatalf("escalations = %d, want 1", len(esc))
	}
	la, ok := esc[0].(composer.LargeAmount)
	if !ok || la.Threshold != 5000 {
		t.Errorf("escalation = %#v", esc[0])
	}
}

func TestParse_PartialPacingKeepsDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("version: \"1\"\nservice: notification\npacing:\n  burst_max: 9\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Pacing.BurstMax != 9 || cfg.Pacing.DelayMin != 2*time.Second || cfg.Pacing.DelayMax != 15*time.Second {
		t.Errorf("pacing = %+v", cfg.Pacing)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"missing version", "service: auth\n", []string{"version is required"}},
		{"unknown service", "version: \"1\"\nservice: ledger\n", []string{`service "ledger"`, "catalog must not be empty"}},
		{
			"bad catalog",
			"version: \"1\"\nservice: auth\ncatalog:\n  - {name: a, severity: LOUD, weight: 1}\n  - {name: a, severity: INFO, weight: -1}\n",
			[]string{`unknown severity "LOUD"`, `duplicate kind "a"`, "weight must not be negative"},
		},
		{
			"zero weights",
			"version: \"1\"\nservice: auth\ncatalog:\n  - {name: a, severity: INFO, weight: 0}\n",
			[]string{"positive weight"},
		},
		{
			"gap in profile",
			"version: \"1\"\nservice: auth\nprofile:\n  windows:\n    - {name: day, start: 8, end: 20, multiplier: 1}\n",
			[]string{"hour 0 is not covered"},
		},
		{
			"overlapping profile",
			"version: \"1\"\nservice: auth\nprofile:\n  windows:\n    - {name: a, start: 0, end: 12, multiplier: 1}\n    - {name: b, start: 12, end: 23, multiplier: 1}\n",
			[]string{`hour 12 covered by both`},
		},
		{
			"bad pacing",
			"version: \"1\"\nservice: auth\npacing:\n  burst_min: 5\n  burst_max: 2\n  delay_scaling: sometimes\n",
			[]string{"invalid burst range", "delay_scaling"},
		},
		{
			"bad rules",
			"version: \"1\"\nservice: payment\nrules:\n  unsocial_hours: {start: 22, end: 25}\n",
			[]string{"hours must be 0-23"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not mention %q", err, w)
				}
			}
		})
	}
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoader_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.yaml")
	writeConfig(t, path, "version: \"1\"\nservice: auth\n")

	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	var seen []*config.GeneratorConfig
	l.OnChange(func(c *config.GeneratorConfig) { seen = append(seen, c) })

	writeConfig(t, path, "version: \"2\"\nservice: auth-service\npacing:\n  burst_max: 2\n")
	cfg, err := l.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if cfg.Version != "2" || l.Config() != cfg || len(seen) != 1 {
		t.Errorf("reload not applied: version=%q callbacks=%d", cfg.Version, len(seen))
	}

	writeConfig(t, path, "version: \"3\"\nservice: payment\n")
	if _, err := l.Reload(); err == nil || !strings.Contains(err.Error(), "service changed") {
		t.Errorf("expected service change rejection, got %v", err)
	}
	writeConfig(t, path, "version: \"4\"\nservice: auth\ncatalog:\n  - {name: x, severity: INFO, weight: 0}\n")
	if _, err := l.Reload(); err == nil {
		t.Error("expected invalid config to be rejected")
	}
	if l.Config().Version != "2" || len(seen) != 1 {
		t.Errorf("rejected reload replaced config: version=%q", l.Config().Version)
	}
}

func TestLoader_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fraud.yaml")
	writeConfig(t, path, "version: \"1\"\nservice: fraud\n")
	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	changed := make(chan *config.GeneratorConfig, 4)
	l.OnChange(func(c *config.GeneratorConfig) { changed <- c })

	stop, err := l.Watch()
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	writeConfig(t, path, "version: \"2\"\nservice: fraud\n")
	select {
	case c := <-changed:
		if c.Version != "2" {
			t.Errorf("version = %q", c.Version)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after file write")
	}
}

func TestDefaults_Unknown(t *testing.T) {
	if config.Defaults("ledger") != nil {
		t.Error("expected nil defaults for unknown service")
	}
}

func TestBind_SwapsPlanOnReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notification.yaml")
	writeConfig(t, path, "version: \"1\"\nservice: notification\n")
	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	var swapped *scheduler.Plan
	config.Bind(l, func(p *scheduler.Plan) { swapped = p })

	writeConfig(t, path, "version: \"2\"\nservice: notification\ncatalog:\n  - {name: push_sent, severity: INFO, weight: 1}\n")
	if _, err := l.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if swapped == nil || swapped.Catalog.Len() != 1 {
		t.Fatalf("plan not swapped: %+v", swapped)
	}
}

func TestBind_ReloadChangesEscalations(t *testing.T) {
	const transfersOnly = "catalog:\n  - {name: transfer, severity: INFO, weight: 1}\n"
	path := filepath.Join(t.TempDir(), "payment.yaml")
	writeConfig(t, path, "version: \"1\"\nservice: payment\n"+transfersOnly)
	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	cfg := l.Config()
	plan, err := cfg.BuildPlan()
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	domain, err := cfg.BuildDomain()
	if err != nil {
		t.Fatalf("BuildDomain: %v", err)
	}

	afternoon := func() time.Time { return time.Date(2024, 5, 6, 14, 0, 0, 0, time.Local) }
	ref := refdata.NewFixed("p", 9)
	mem := &sink.Memory{}
	sched, err := scheduler.New(scheduler.Config{
		Plan:     plan,
		Composer: composer.New(domain, refdata.NewDirectory(ref, 10, 10), composer.WithClock(afternoon)),
		Ref:      ref,
		Sink:     mem,
		Rand:     sampler.Seeded(9),
		Now:      afternoon,
	})
	if err != nil {
		t.Fatalf("scheduler.New: %v", err)
	}
	config.Bind(l, sched.Swap)

	flagged := func() (n, total int) {
		for _, ev := range mem.Events() {
			total++
			if ev.Fields["suspicious_amount"] == true {
				n++
			}
		}
		return n, total
	}

	// Transfers top out at 100000, far below the default threshold.
	if _, err := sched.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if n, total := flagged(); n != 0 || total == 0 {
		t.Fatalf("before reload: %d of %d transfers flagged, want 0 of >0", n, total)
	}

	writeConfig(t, path, "version: \"2\"\nservice: payment\nrules:\n  large_amount_threshold: 10\n"+transfersOnly)
	if _, err := l.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	before := len(mem.Events())
	if _, err := sched.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	for _, ev := range mem.Events()[before:] {
		if ev.Fields["suspicious_amount"] != true {
			t.Errorf("transfer of %v not flagged after threshold reload", ev.Fields["amount"])
		}
		if ev.Effective() < event.SeverityWarn {
			t.Errorf("transfer logged at %v after threshold reload", ev.Effective())
		}
	}
}
