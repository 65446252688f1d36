package account

import "strings"

// All is the sentinel meaning "no account filter".
const All = "all"

// Default is assigned to records that arrive without an account.
const Default = "cash"

// Account is one entry of the fixed account list.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var accounts = []Account{
	{ID: "cash", Name: "Cash"},
	{ID: "checking", Name: "Checking"},
	{ID: "savings", Name: "Savings"},
	{ID: "credit", Name: "Credit Card"},
}

// aliases maps legacy and display spellings onto canonical ids.
var aliases = map[string]string{
	"wallet":      "cash",
	"current":     "checking",
	"bank":        "checking",
	"debit":       "checking",
	"credit card": "credit",
	"credit_card": "credit",
	"card":        "credit",
	"saving":      "savings",
}

// List returns a copy of the fixed account list.
func List() []Account {
	return append([]Account(nil), accounts...)
}

// Canonical resolves id to a canonical account id. Known names and aliases are
// matched case-insensitively; the All sentinel is kept; unknown ids are returned
// trimmed so stale data still round-trips.
func Canonical(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return Default
	}

	key := strings.ToLower(trimmed)
	if key == All {
		return All
	}

	for _, a := range accounts {
		if key == a.ID || key == strings.ToLower(a.Name) {
			return a.ID
		}
	}

	if canonical, ok := aliases[key]; ok {
		return canonical
	}

	return trimmed
}

// Name returns the display name for id, falling back to the id itself.
func Name(id string) string {
	for _, a := range accounts {
		if a.ID == id {
			return a.Name
		}
	}

	return id
}

// IsAll reports whether id disables account filtering.
func IsAll(id string) bool {
	id = strings.TrimSpace(id)
	return id == "" || strings.EqualFold(id, All)
}
