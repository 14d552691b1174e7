package blood

// Standard ABO/Rh transfusion compatibility. The map is the single source of
// truth: every lookup derives from it rather than re-deriving the rules, so
// donor-side and recipient-side answers can never disagree.
//
// Key: recipient type. Value: the donor types whose units the recipient accepts.
var compatibleDonorsByRecipient = map[string][]string{
	"O-":  {"O-"},
	"O+":  {"O-", "O+"},
	"A-":  {"O-", "A-"},
	"A+":  {"O-", "O+", "A-", "A+"},
	"B-":  {"O-", "B-"},
	"B+":  {"O-", "O+", "B-", "B+"},
	"AB-": {"O-", "A-", "B-", "AB-"},
	"AB+": {"O-", "O+", "A-", "A+", "B-", "B+", "AB-", "AB+"},
}

// AllTypes lists the eight standard blood types
func AllTypes() []string {
	return []string{"O-", "O+", "A-", "A+", "B-", "B+", "AB-", "AB+"}
}

// IsKnownType reports whether the given (normalized) name is one of the
// eight standard types
func IsKnownType(name string) bool {
	_, ok := compatibleDonorsByRecipient[name]
	return ok
}

// CompatibleDonors returns the donor types whose units may be transfused into
// a recipient of the given type. Unknown types fall back to an exact-match
// singleton so callers degrade to same-type-only matching instead of failing.
func CompatibleDonors(recipientType string) []string {
	normalized := Normalize(recipientType)
	donors, ok := compatibleDonorsByRecipient[normalized]
	if !ok {
		return []string{normalized}
	}
	out := make([]string, len(donors))
	copy(out, donors)
	return out
}

// CanDonateTo reports whether donor blood of donorType is compatible with a
// recipient of recipientType
func CanDonateTo(donorType, recipientType string) bool {
	donor := Normalize(donorType)
	for _, d := range CompatibleDonors(recipientType) {
		if d == donor {
			return true
		}
	}
	return false
}

// CompatibleRecipients returns the recipient types that accept units of the
// given donor type
func CompatibleRecipients(donorType string) []string {
	donor := Normalize(donorType)
	recipients := make([]string, 0, 8)
	for _, r := range AllTypes() {
		if CanDonateTo(donor, r) {
			recipients = append(recipients, r)
		}
	}
	return recipients
}
