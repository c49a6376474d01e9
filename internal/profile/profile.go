package profile

// Profile describes the contractor that bids are scored against.
type Profile struct {
	Trades             []string `mapstructure:"trades" yaml:"trades" json:"trades"`
	Qualifications     []string `mapstructure:"qualifications" yaml:"qualifications" json:"qualifications"`
	PreferredBudgetMin float64  `mapstructure:"budget_min" yaml:"budget_min" json:"preferred_budget_min"`
	PreferredBudgetMax float64  `mapstructure:"budget_max" yaml:"budget_max" json:"preferred_budget_max"`
}

// Default is the static profile used when the configuration does not override it.
func Default() Profile {
	return Profile{
		Trades: []string{
			"General Construction",
			"Plumbing",
			"Roofing",
			"Field Work",
		},
		Qualifications: []string{
			"Licensed Contractor",
			"Bonded",
		},
		PreferredBudgetMin: 10000,
		PreferredBudgetMax: 300000,
	}
}
