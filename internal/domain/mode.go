package domain

// Mode selects the roles in play and what the deviant is told
type Mode string

const (
	// ModeInfiltrator: citizens share a word, the infiltrator gets nothing.
	ModeInfiltrator Mode = "INFILTRATOR"
	// ModeSpy: agents share a word, the spy gets a different word from the same category.
	ModeSpy Mode = "SPY"
)

type modeRules struct {
	majority    Role
	deviant     Role
	deviantWord func(pick WordPick) string
}

var modes = map[Mode]modeRules{
	ModeInfiltrator: {
		majority:    RoleCitizen,
		deviant:     RoleInfiltrator,
		deviantWord: func(WordPick) string { return "" },
	},
	ModeSpy: {
		majority:    RoleAgent,
		deviant:     RoleSpy,
		deviantWord: func(pick WordPick) string { return pick.Alternate },
	},
}

// String returns the string representation of the mode
func (m Mode) String() string {
	return string(m)
}

// IsValid reports whether m is one of the known modes
func (m Mode) IsValid() bool {
	_, ok := modes[m]
	return ok
}

// MajorityRole returns the role shared by everyone but the deviant
func (m Mode) MajorityRole() Role {
	return modes[m].majority
}

// DeviantRole returns the minority role
func (m Mode) DeviantRole() Role {
	return modes[m].deviant
}

// DeviantWord returns the private word handed to the deviant, empty when they get none
func (m Mode) DeviantWord(pick WordPick) string {
	rules, ok := modes[m]
	if !ok {
		return ""
	}
	return rules.deviantWord(pick)
}
