package activity

import (
	"strings"
	"testing"
)

func TestBanking_CoversEveryHour(t *testing.T) {
	p, err := Banking(3.0, 1.5, 0.3)
	if err != nil {
		t.Fatalf("Banking: %v", err)
	}
	for h := 0; h < 24; h++ {
		if m := p.MultiplierFor(h); m <= 0 {
			t.Errorf("hour %d: multiplier %v, want > 0", h, m)
		}
	}
	if p.MultiplierFor(14) <= p.MultiplierFor(3) {
		t.Errorf("business %v should exceed night %v", p.MultiplierFor(14), p.MultiplierFor(3))
	}
}

func TestBanking_Boundaries(t *testing.T) {
	p, err := Banking(2.5, 1.8, 0.2)
	if err != nil {
		t.Fatalf("Banking: %v", err)
	}
	cases := []struct {
		hour   int
		window string
		want   float64
	}{
		{0, "night", 0.2},
		{6, "night", 0.2},
		{7, "morning", 1.0},
		{8, "morning", 1.0},
		{9, "business", 2.5},
		{18, "business", 2.5},
		{19, "evening", 1.8},
		{22, "evening", 1.8},
		{23, "night", 0.2},
	}
	for _, tc := range cases {
		if got := p.MultiplierFor(tc.hour); got != tc.want {
			t.Errorf("MultiplierFor(%d) = %v, want %v", tc.hour, got, tc.want)
		}
		if got := p.WindowName(tc.hour); got != tc.window {
			t.Errorf("WindowName(%d) = %q, want %q", tc.hour, got, tc.window)
		}
	}
}

func TestFlat(t *testing.T) {
	p, err := Flat(1.0)
	if err != nil {
		t.Fatalf("Flat: %v", err)
	}
	for h := 0; h < 24; h++ {
		if p.MultiplierFor(h) != 1.0 {
			t.Fatalf("hour %d: %v", h, p.MultiplierFor(h))
		}
	}
	if p.MultiplierFor(25) != 1.0 || p.MultiplierFor(-1) != 1.0 {
		t.Errorf("out-of-range hours should wrap")
	}
}

func TestNew_RejectsBadPartitions(t *testing.T) {
	cases := []struct {
		name    string
		windows []Window
		wantSub string
	}{
		{
			name: "gap",
			windows: []Window{
				{Name: "day", Start: 8, End: 20, Multiplier: 2},
				{Name: "night", Start: 22, End: 6, Multiplier: 0.5},
			},
			wantSub: "hour 7 is not covered",
		},
		{
			name: "overlap",
			windows: []Window{
				{Name: "day", Start: 6, End: 20, Multiplier: 2},
				{Name: "night", Start: 21, End: 6, Multiplier: 0.5},
			},
			wantSub: `hour 6 covered by both "day" and "night"`,
		},
		{
			name:    "zero multiplier",
			windows: []Window{{Name: "all", Start: 0, End: 23, Multiplier: 0}},
			wantSub: "multiplier must be positive",
		},
		{
			name:    "out of range",
			windows: []Window{{Name: "all", Start: 0, End: 24, Multiplier: 1}},
			wantSub: "within 0..23",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.windows)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestWindow_HoursWrap(t *testing.T) {
	got := Window{Start: 22, End: 1}.Hours()
	want := []int{22, 23, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("Hours() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Hours() = %v, want %v", got, want)
		}
	}
}
