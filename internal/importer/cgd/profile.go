package cgd

type amountMode int

const (
	// one signed column, e.g. "Montante" holding "-10,00"
	amountSingle amountMode = iota
	// separate "Débito"/"Crédito" columns
	amountSplit
)

// Profile is the column layout of one CGD export format.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string
	DebitCol   string
	CreditCol  string
}

func (p *Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	if p.AmountMode == amountSplit {
		return append(cols, p.DebitCol, p.CreditCol)
	}

	return append(cols, p.AmountCol)
}

func (p *Profile) matches(cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// profiles are tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:       "cartão",
		DateCol:    "Data",
		DescCol:    "Descrição",
		AmountMode: amountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
	},
	{
		Name:       "extrato",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Movimento",
	},
	{
		Name:       "conta",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Montante",
	},
}

// Profiles lists the supported layout names.
func Profiles() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}

	return names
}
