package composer

import (
	"fmt"
	"sort"
)

// Domain is the per-service dispatch table: a base rule run for every kind,
// one rule per known kind, a fallback, and the escalations.
// It is built at startup and read-only afterwards.
type Domain struct {
	Service string
	Label   string

	base        Rule
	rules       map[string]Rule
	fallback    Rule
	escalations []Escalation
}

// NewDomain returns an empty table for service. Label prefixes default messages.
func NewDomain(service, label string) *Domain {
	return &Domain{
		Service:  service,
		Label:    label,
		rules:    make(map[string]Rule),
		fallback: func(*Draft) {},
	}
}

// Base sets the rule that runs before every per-kind rule.
func (d *Domain) Base(r Rule) *Domain {
	d.base = r
	return d
}

// Handle registers the rule for kind. Panics on duplicate kind to surface
// misconfiguration early.
func (d *Domain) Handle(kind string, r Rule) *Domain {
	if _, exists := d.rules[kind]; exists {
		panic(fmt.Sprintf("composer %s: duplicate rule for kind %q", d.Service, kind))
	}
	d.rules[kind] = r
	return d
}

// Fallback sets the rule used for kinds without a dedicated rule.
func (d *Domain) Fallback(r Rule) *Domain {
	d.fallback = r
	return d
}

// Escalate appends cross-cutting rules, applied in order.
func (d *Domain) Escalate(e ...Escalation) *Domain {
	d.escalations = append(d.escalations, e...)
	return d
}

// Escalations returns the configured cross-cutting rules.
func (d *Domain) Escalations() []Escalation {
	return append([]Escalation(nil), d.escalations...)
}

// ReplaceEscalations swaps the cross-cutting rules, e.g. after config overrides.
func (d *Domain) ReplaceEscalations(e ...Escalation) *Domain {
	d.escalations = append([]Escalation(nil), e...)
	return d
}

// Kinds lists kinds with a dedicated rule, sorted.
func (d *Domain) Kinds() []string {
	out := make([]string, 0, len(d.rules))
	for k := range d.rules {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has reports whether kind has a dedicated rule.
func (d *Domain) Has(kind string) bool {
	_, ok := d.rules[kind]
	return ok
}

func (d *Domain) rule(kind string) Rule {
	if r, ok := d.rules[kind]; ok {
		return r
	}
	return d.fallback
}

// ForService returns the built-in table for a service or short domain name.
func ForService(name string) (*Domain, error) {
	switch name {
	case AuthService, "auth":
		return AuthDomain(), nil
	case PaymentService, "payment":
		return PaymentDomain(), nil
	case FraudService, "fraud":
		return FraudDomain(), nil
	case NotificationService, "notification":
		return NotificationDomain(), nil
	}
	return nil, fmt.Errorf("no composer for service %q", name)
}

const (
	AuthService         = "auth-service"
	PaymentService      = "payment-service"
	FraudService        = "fraud-service"
	NotificationService = "notification-service"
)
