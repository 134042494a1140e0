package models

// VulnerabilityType enumerates the vulnerability classifications recorded on
// a registration. The numeric values are the ids stored in
// evacuation_registrations.vulnerability_type_ids.
type VulnerabilityType int

const (
	VulnInfant VulnerabilityType = iota + 1
	VulnChild
	VulnSenior
	VulnPWD
	VulnPregnant
	VulnLactating
	VulnYouth
	VulnAdult
)

var vulnerabilityNames = map[VulnerabilityType]string{
	VulnInfant:    "Infant",
	VulnChild:     "Children",
	VulnSenior:    "Senior Citizens",
	VulnPWD:       "PWD",
	VulnPregnant:  "Pregnant",
	VulnLactating: "Lactating Mothers",
	VulnYouth:     "Youth",
	VulnAdult:     "Adult",
}

func (v VulnerabilityType) String() string {
	if name, ok := vulnerabilityNames[v]; ok {
		return name
	}
	return "Unknown"
}

// VulnerabilityFlags is the boolean request/response shape the frontend
// works with. It maps bidirectionally to the stored id array.
type VulnerabilityFlags struct {
	IsInfant    bool `json:"is_infant"`
	IsChildren  bool `json:"is_children"`
	IsSenior    bool `json:"is_senior"`
	IsPWD       bool `json:"is_pwd"`
	IsPregnant  bool `json:"is_pregnant"`
	IsLactating bool `json:"is_lactating"`
	IsYouth     bool `json:"is_youth"`
	IsAdult     bool `json:"is_adult"`
}

// IDs converts the flags to the stored id array, in enum order. The result
// is never nil: the column is NOT NULL and a nil slice would reach the
// database as SQL NULL instead of an empty array.
func (f VulnerabilityFlags) IDs() []int {
	ids := []int{}
	for _, m := range []struct {
		on bool
		id VulnerabilityType
	}{
		{f.IsInfant, VulnInfant},
		{f.IsChildren, VulnChild},
		{f.IsSenior, VulnSenior},
		{f.IsPWD, VulnPWD},
		{f.IsPregnant, VulnPregnant},
		{f.IsLactating, VulnLactating},
		{f.IsYouth, VulnYouth},
		{f.IsAdult, VulnAdult},
	} {
		if m.on {
			ids = append(ids, int(m.id))
		}
	}
	return ids
}

// FlagsFromIDs converts a stored id array back to flags. Unknown ids are
// ignored.
func FlagsFromIDs(ids []int) VulnerabilityFlags {
	var f VulnerabilityFlags
	for _, id := range ids {
		switch VulnerabilityType(id) {
		case VulnInfant:
			f.IsInfant = true
		case VulnChild:
			f.IsChildren = true
		case VulnSenior:
			f.IsSenior = true
		case VulnPWD:
			f.IsPWD = true
		case VulnPregnant:
			f.IsPregnant = true
		case VulnLactating:
			f.IsLactating = true
		case VulnYouth:
			f.IsYouth = true
		case VulnAdult:
			f.IsAdult = true
		}
	}
	return f
}
