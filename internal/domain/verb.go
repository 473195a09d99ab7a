package domain

// VerbClass splits the catalog into verbs worth suggesting and verbs that
// trigger a blocking advisory when typed verbatim.
type VerbClass string

const (
	VerbRecommended    VerbClass = "Recomendado"
	VerbNotRecommended VerbClass = "NO Recomendado"
)

// Verb is one catalog entry. Recommended entries carry a description shown
// in suggestions; not-recommended entries carry a clarification shown in the
// advisory.
type Verb struct {
	ID            string           `json:"id"`
	Text          string           `json:"text"`
	Class         VerbClass        `json:"class"`
	Levels        []HierarchyLevel `json:"levels"`
	Description   string           `json:"description,omitempty"`
	Clarification string           `json:"clarification,omitempty"`
}

// AppliesTo reports whether the verb is tagged for the given level.
func (v Verb) AppliesTo(level HierarchyLevel) bool {
	for _, l := range v.Levels {
		if l == level {
			return true
		}
	}
	return false
}
