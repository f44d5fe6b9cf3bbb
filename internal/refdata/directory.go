package refdata

import "fmt"

// User is a simulated bank customer.
type User struct {
	ID       string
	Username string
	Email    string
	Phone    string
	FullName string
}

// Account is a simulated bank account.
type Account struct {
	ID      string
	IBAN    string
	Balance float64
	Owner   string
	Type    string
}

// bank codes of VTB, Sberbank and Alfa.
var bankCodes = []string{"044525974", "044525225", "044525593"}

var accountTypes = []string{"current", "savings", "business"}

// Directory is the population of customers and accounts a generator draws
// from. It is built once at startup and only read afterwards.
type Directory struct {
	Users    []User
	Accounts []Account
}

// NewDirectory builds users and accounts from p.
func NewDirectory(p Provider, users, accounts int) *Directory {
	d := &Directory{
		Users:    make([]User, 0, users),
		Accounts: make([]Account, 0, accounts),
	}
	for i := 1; i <= users; i++ {
		d.Users = append(d.Users, User{
			ID:       fmt.Sprintf("user_%04d", i),
			Username: p.Username(),
			Email:    p.Email(),
			Phone:    p.Phone(),
			FullName: p.Name(),
		})
	}
	for i := 1; i <= accounts; i++ {
		d.Accounts = append(d.Accounts, Account{
			ID:      fmt.Sprintf("acc_%06d", i),
			IBAN:    IBAN(p),
			Balance: p.Float64Range(1000, 1000000),
			Owner:   p.Name(),
			Type:    p.Pick(accountTypes),
		})
	}
	return d
}

// IBAN returns a Russian-style IBAN: RU, two check digits, a bank code and a
// 20-digit account number.
func IBAN(p Provider) string {
	return fmt.Sprintf("RU%02d%s%s", p.IntRange(10, 99), p.Pick(bankCodes), p.Numerify("####################"))
}

// User returns a random customer.
func (d *Directory) User(p Provider) User {
	return d.Users[p.IntRange(0, len(d.Users)-1)]
}

// AccountPair returns two distinct random accounts. The directory must hold
// at least two.
func (d *Directory) AccountPair(p Provider) (sender, recipient Account) {
	i := p.IntRange(0, len(d.Accounts)-1)
	j := p.IntRange(0, len(d.Accounts)-2)
	if j >= i {
		j++
	}
	return d.Accounts[i], d.Accounts[j]
}
