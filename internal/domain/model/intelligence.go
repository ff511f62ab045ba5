package model

// Category names one bucket of extracted evidence.
type Category string

const (
	CategoryBankAccounts       Category = "bankAccounts"
	CategoryUPIIDs             Category = "upiIds"
	CategoryPhishingLinks      Category = "phishingLinks"
	CategoryPhoneNumbers       Category = "phoneNumbers"
	CategorySuspiciousKeywords Category = "suspiciousKeywords"
)

// AllCategories lists every category in report order.
var AllCategories = []Category{
	CategoryBankAccounts,
	CategoryUPIIDs,
	CategoryPhishingLinks,
	CategoryPhoneNumbers,
	CategorySuspiciousKeywords,
}

// Intelligence is the evidence gathered from a conversation. Every list is an
// ordered set: first-seen order is kept and values are never removed.
type Intelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

func NewIntelligence() Intelligence {
	return Intelligence{
		BankAccounts:       []string{},
		UPIIDs:             []string{},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{},
	}
}

func (in *Intelligence) list(c Category) *[]string {
	switch c {
	case CategoryBankAccounts:
		return &in.BankAccounts
	case CategoryUPIIDs:
		return &in.UPIIDs
	case CategoryPhishingLinks:
		return &in.PhishingLinks
	case CategoryPhoneNumbers:
		return &in.PhoneNumbers
	case CategorySuspiciousKeywords:
		return &in.SuspiciousKeywords
	default:
		return nil
	}
}

// Values returns the stored values of one category.
func (in Intelligence) Values(c Category) []string {
	if l := in.list(c); l != nil {
		return *l
	}
	return nil
}

// Add appends v to category c unless it is already present.
func (in *Intelligence) Add(c Category, v string) bool {
	l := in.list(c)
	if l == nil || v == "" {
		return false
	}
	for _, existing := range *l {
		if existing == v {
			return false
		}
	}
	*l = append(*l, v)
	return true
}

// Merge folds delta into in and returns the categories that grew.
func (in *Intelligence) Merge(delta Intelligence) []Category {
	var grown []Category
	for _, c := range AllCategories {
		added := false
		for _, v := range delta.Values(c) {
			if in.Add(c, v) {
				added = true
			}
		}
		if added {
			grown = append(grown, c)
		}
	}
	return grown
}

// Clone returns a deep copy, used as a before-turn snapshot.
func (in Intelligence) Clone() Intelligence {
	out := NewIntelligence()
	out.Merge(in)
	return out
}

// Len returns the number of values per category.
func (in Intelligence) Len(c Category) int { return len(in.Values(c)) }

// EvidenceCount counts the items that make a report worth sending:
// payment handles, links, phone numbers and bank accounts.
func (in Intelligence) EvidenceCount() int {
	return len(in.BankAccounts) + len(in.UPIIDs) + len(in.PhishingLinks) + len(in.PhoneNumbers)
}

// Normalize replaces nil lists (old or hand-written JSON) with empty ones.
func (in *Intelligence) Normalize() {
	for _, c := range AllCategories {
		if l := in.list(c); *l == nil {
			*l = []string{}
		}
	}
}
