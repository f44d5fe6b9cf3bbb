// Package composer turns a drawn event kind into a complete synthetic record.
//
// Field assembly is a dispatch table keyed by kind name: every domain
// registers one Rule per kind it knows, plus a fallback for catalog kinds it
// has no dedicated rule for. Escalations run after the per-kind rule and may
// only raise the event's severity.
package composer

import (
	"fmt"
	"time"

	"github.com/gyaneshwarpardhi/banksim/internal/catalog"
	"github.com/gyaneshwarpardhi/banksim/internal/event"
	"github.com/gyaneshwarpardhi/banksim/internal/refdata"
)

// Draft is the event under construction together with the facts the
// escalations look at.
type Draft struct {
	Event *event.Event
	Ref   refdata.Provider
	Dir   *refdata.Directory

	// Amount is the synthesized monetary amount, valid when HasAmount is set.
	Amount    float64
	HasAmount bool
	// Benign is true for successful or harmless outcomes. It defaults to
	// whether the kind's catalog severity is INFO.
	Benign bool
}

// Set stores a payload field.
func (d *Draft) Set(key string, v interface{}) { d.Event.Fields[key] = v }

// SetAmount records the monetary amount and stores it as the "amount" field.
func (d *Draft) SetAmount(a float64) {
	d.Amount, d.HasAmount = a, true
	d.Set("amount", a)
}

// Rule fills in fields and message for one kind.
type Rule func(d *Draft)

// Escalation is a cross-cutting rule applied after the per-kind rule.
type Escalation interface {
	Name() string
	Apply(d *Draft)
}

// Composer builds events for one domain. It never writes to the catalog it
// is given.
type Composer struct {
	domain *Domain
	dir    *refdata.Directory
	now    func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// New returns a Composer for domain drawing people and accounts from dir.
func New(domain *Domain, dir *refdata.Directory, opts ...Option) *Composer {
	c := &Composer{domain: domain, dir: dir, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Domain returns the dispatch table the composer uses.
func (c *Composer) Domain() *Domain { return c.domain }

// Compose builds the record for kind with the domain's own escalations.
// An unknown kind fails with *catalog.UnknownKindError.
func (c *Composer) Compose(kind string, cat *catalog.Catalog, ref refdata.Provider) (*event.Event, error) {
	return c.ComposeWith(kind, cat, ref, c.domain.escalations)
}

// ComposeWith is Compose with an explicit escalation list in place of the
// domain's. An empty list applies no escalations.
func (c *Composer) ComposeWith(kind string, cat *catalog.Catalog, ref refdata.Provider, escalations []Escalation) (*event.Event, error) {
	sev, err := cat.SeverityOf(kind)
	if err != nil {
		return nil, fmt.Errorf("compose %s: %w", c.domain.Service, err)
	}
	ev := &event.Event{
		Timestamp: c.now(),
		Service:   c.domain.Service,
		Kind:      kind,
		Severity:  sev,
		Fields:    make(map[string]interface{}),
	}
	d := &Draft{Event: ev, Ref: ref, Dir: c.dir, Benign: sev == event.SeverityInfo}

	if c.domain.base != nil {
		c.domain.base(d)
	}
	c.domain.rule(kind)(d)
	if ev.Message == "" {
		ev.Message = fmt.Sprintf("%s event: %s", c.domain.Label, kind)
	}
	for _, esc := range escalations {
		esc.Apply(d)
	}
	return ev, nil
}
