package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pocket/internal/account"
)

func TestCanonical(t *testing.T) {
	type testCase struct {
		name string
		in   string
		want string
	}

	tests := []testCase{
		{name: "Empty defaults", in: "", want: account.Default},
		{name: "Canonical id", in: "savings", want: "savings"},
		{name: "Display name", in: "Credit Card", want: "credit"},
		{name: "Alias", in: " Wallet ", want: "cash"},
		{name: "All sentinel", in: "ALL", want: account.All},
		{name: "Unknown kept", in: " Brokerage ", want: "Brokerage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, account.Canonical(tt.in))
		})
	}
}

func TestIsAll(t *testing.T) {
	assert.True(t, account.IsAll(""))
	assert.True(t, account.IsAll("All"))
	assert.False(t, account.IsAll("cash"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "Checking", account.Name("checking"))
	assert.Equal(t, "mystery", account.Name("mystery"))
}
