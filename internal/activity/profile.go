package activity

import (
	"fmt"
	"strings"
)

// Window assigns a multiplier to an inclusive hour range. Start > End wraps
// past midnight, so {23, 6} covers 23,0,1,...,6.
type Window struct {
	Name       string
	Start      int
	End        int
	Multiplier float64
}

// Hours returns every hour the window covers.
func (w Window) Hours() []int {
	var out []int
	for h := w.Start; ; h = (h + 1) % 24 {
		out = append(out, h)
		if h == w.End {
			break
		}
	}
	return out
}

// Profile maps an hour of day to an activity multiplier. Every hour in
// [0,23] has exactly one positive value.
type Profile struct {
	byHour  [24]float64
	names   [24]string
	windows []Window
}

// New builds a Profile from windows that partition the day: each hour must be
// covered by exactly one window.
func New(windows []Window) (*Profile, error) {
	p := &Profile{windows: append([]Window(nil), windows...)}
	var owner [24]int
	for i := range owner {
		owner[i] = -1
	}
	var errs []string
	for i, w := range windows {
		if w.Start < 0 || w.Start > 23 || w.End < 0 || w.End > 23 {
			errs = append(errs, fmt.Sprintf("window %d (%s): hours must be within 0..23", i, w.Name))
			continue
		}
		if w.Multiplier <= 0 {
			errs = append(errs, fmt.Sprintf("window %d (%s): multiplier must be positive", i, w.Name))
			continue
		}
		for _, h := range w.Hours() {
			if prev := owner[h]; prev >= 0 {
				errs = append(errs, fmt.Sprintf("hour %d covered by both %q and %q", h, windows[prev].Name, w.Name))
				continue
			}
			owner[h] = i
			p.byHour[h] = w.Multiplier
			p.names[h] = w.Name
		}
	}
	for h, o := range owner {
		if o < 0 && len(errs) == 0 {
			errs = append(errs, fmt.Sprintf("hour %d is not covered by any window", h))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("activity profile: %s", strings.Join(errs, "; "))
	}
	return p, nil
}

// Flat returns a profile with the same multiplier for every hour.
func Flat(m float64) (*Profile, error) {
	return New([]Window{{Name: "flat", Start: 0, End: 23, Multiplier: m}})
}

// Banking is the business/evening/night/morning split used by the
// authentication and payment generators:
//
//	09-18 business, 19-22 evening, 23-06 night, 07-08 morning (x1.0)
func Banking(business, evening, night float64) (*Profile, error) {
	return New([]Window{
		{Name: "business", Start: 9, End: 18, Multiplier: business},
		{Name: "evening", Start: 19, End: 22, Multiplier: evening},
		{Name: "night", Start: 23, End: 6, Multiplier: night},
		{Name: "morning", Start: 7, End: 8, Multiplier: 1.0},
	})
}

// MultiplierFor returns the multiplier for hour. Out-of-range hours are
// reduced modulo 24.
func (p *Profile) MultiplierFor(hour int) float64 {
	return p.byHour[normalize(hour)]
}

// WindowName returns the name of the window that owns hour.
func (p *Profile) WindowName(hour int) string {
	return p.names[normalize(hour)]
}

// Windows returns a copy of the windows the profile was built from.
func (p *Profile) Windows() []Window {
	return append([]Window(nil), p.windows...)
}

func normalize(hour int) int {
	h := hour % 24
	if h < 0 {
		h += 24
	}
	return h
}
