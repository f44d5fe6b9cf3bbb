package refdata

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

var ibanRe = regexp.MustCompile(`^RU\d{2}(044525974|044525225|044525593)\d{20}$`)

func TestNewDirectory(t *testing.T) {
	d := NewDirectory(NewFixed("t", 1), 5, 10)
	if len(d.Users) != 5 || len(d.Accounts) != 10 {
		t.Fatalf("got %d users, %d accounts", len(d.Users), len(d.Accounts))
	}
	if d.Users[0].ID != "user_0001" || d.Users[4].ID != "user_0005" {
		t.Errorf("unexpected user ids %q..%q", d.Users[0].ID, d.Users[4].ID)
	}
	if d.Accounts[9].ID != "acc_000010" {
		t.Errorf("unexpected account id %q", d.Accounts[9].ID)
	}
	for _, a := range d.Accounts {
		if !ibanRe.MatchString(a.IBAN) {
			t.Errorf("account %s: bad IBAN %q", a.ID, a.IBAN)
		}
		if a.Balance < 1000 || a.Balance > 1000000 {
			t.Errorf("account %s: balance %v out of range", a.ID, a.Balance)
		}
	}
}

func TestAccountPair_Distinct(t *testing.T) {
	p := NewFixed("t", 9)
	d := NewDirectory(p, 1, 2)
	for i := 0; i < 200; i++ {
		s, r := d.AccountPair(p)
		if s.ID == r.ID {
			t.Fatalf("sender and recipient are both %s", s.ID)
		}
	}
}

func TestFaker_Patterns(t *testing.T) {
	p := NewFaker(11)
	if got := p.Numerify("AUTH-######"); !regexp.MustCompile(`^AUTH-\d{6}$`).MatchString(got) {
		t.Errorf("Numerify = %q", got)
	}
	if got := p.Hex(16); len(got) != 16 {
		t.Errorf("Hex(16) = %q", got)
	}
	if got := p.Sample([]string{"a", "b", "c"}, 5); len(got) != 3 {
		t.Errorf("Sample clamps k, got %v", got)
	}
	if got := p.ID(); len(got) != 36 {
		t.Errorf("ID() = %q, want a UUID", got)
	}
}

func TestFaker_IDFollowsSeed(t *testing.T) {
	a, b := NewFaker(42), NewFaker(42)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		ida, idb := a.ID(), b.ID()
		if ida != idb {
			t.Fatalf("id %d: %s != %s for the same seed", i, ida, idb)
		}
		u, err := uuid.Parse(ida)
		if err != nil || u.Version() != 4 {
			t.Fatalf("id %q is not a version 4 UUID (%v)", ida, err)
		}
		if seen[ida] {
			t.Fatalf("id %s repeated within one run", ida)
		}
		seen[ida] = true
	}
	if NewFaker(7).ID() == NewFaker(8).ID() {
		t.Error("different seeds produced the same first id")
	}
}
