package composer

import "github.com/gyaneshwarpardhi/banksim/internal/event"

// LargeAmount flags events whose amount is strictly above Threshold: the
// event goes to at least WARN, gets compliance flags and a review note.
type LargeAmount struct {
	Threshold float64
	Note      string
}

func (LargeAmount) Name() string { return "large_amount" }

func (r LargeAmount) Apply(d *Draft) {
	if !d.HasAmount || d.Amount <= r.Threshold {
		return
	}
	d.Event.Escalate(event.SeverityWarn)
	d.Set("suspicious_amount", true)
	d.Set("compliance_check", true)
	note := r.Note
	if note == "" {
		note = "Large amount - compliance check required"
	}
	d.Event.AppendNote(note)
}

// UnsocialHours marks events stamped within [Start, End] (inclusive, may
// wrap midnight). Benign outcomes in that window go to at least WARN.
type UnsocialHours struct {
	Start, End int
	Note       string
}

func (UnsocialHours) Name() string { return "unsocial_hours" }

// Contains reports whether hour falls in the window.
func (r UnsocialHours) Contains(hour int) bool {
	if r.Start <= r.End {
		return hour >= r.Start && hour <= r.End
	}
	return hour >= r.Start || hour <= r.End
}

func (r UnsocialHours) Apply(d *Draft) {
	if !r.Contains(d.Event.Timestamp.Hour()) {
		return
	}
	d.Set("night_transaction", true)
	if !d.Benign {
		return
	}
	d.Event.Escalate(event.SeverityWarn)
	note := r.Note
	if note == "" {
		note = "Night transaction - requires review"
	}
	d.Event.AppendNote(note)
}
