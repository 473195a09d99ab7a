package store

import "jobline/internal/domain"

// Canonical names for the closed field sets. The HTTP boundary parses these
// and the journal records them; inside the core only the enums travel.

var fieldNames = map[Field]string{
	FieldTitle:                "title",
	FieldReportsTo:            "reports_to",
	FieldArea:                 "area",
	FieldDepartment:           "department",
	FieldLocation:             "location",
	FieldOccupantName:         "occupant_name",
	FieldOccupantDate:         "occupant_date",
	FieldManagerName:          "manager_name",
	FieldManagerDate:          "manager_date",
	FieldHRName:               "hr_name",
	FieldHRDate:               "hr_date",
	FieldMissionGuide:         "mission_guide",
	FieldMissionResult:        "mission_result",
	FieldMissionAction:        "mission_action",
	FieldMissionObject:        "mission_object",
	FieldSubordinatesDirect:   "subordinates_direct",
	FieldSubordinatesIndirect: "subordinates_indirect",
	FieldTotalPersonnel:       "total_personnel",
	FieldBudgetOperating:      "budget_operating",
	FieldBudgetIncome:         "budget_income",
	FieldOtherIndicators:      "other_indicators",
}

func (f Field) String() string { return fieldNames[f] }

// ParseField resolves a canonical field name.
func ParseField(name string) (Field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

var profileFieldNames = map[ProfileField]string{
	ProfileEducation:       "education",
	ProfileEducationArea:   "education_area",
	ProfileKnowledge:       "knowledge",
	ProfileOtherLanguage:   "other_language",
	ProfileTravelFrequency: "travel_frequency",
}

func (f ProfileField) String() string { return profileFieldNames[f] }

// ParseProfileField resolves a canonical profile field name.
func ParseProfileField(name string) (ProfileField, bool) {
	for f, n := range profileFieldNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

var sectionNames = map[Section]string{
	SectionInternalRelations: "internal_relations",
	SectionExternalRelations: "external_relations",
	SectionChallenges:        "challenges",
	SectionDecisions:         "decisions",
}

func (s Section) String() string { return sectionNames[s] }

// ParseSection resolves a canonical section name.
func ParseSection(name string) (Section, bool) {
	for s, n := range sectionNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

var columnNames = map[Column]string{
	ColumnEntity:      "entity",
	ColumnPurpose:     "purpose",
	ColumnSituation:   "situation",
	ColumnDescription: "description",
}

func (c Column) String() string { return columnNames[c] }

// ParseColumn resolves a canonical column name.
func ParseColumn(name string) (Column, bool) {
	for c, n := range columnNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

var experienceColumnNames = map[ExperienceColumn]string{
	ExperienceArea:  "area",
	ExperienceLevel: "level",
	ExperienceYears: "years",
	ExperienceOther: "other",
}

func (c ExperienceColumn) String() string { return experienceColumnNames[c] }

// ParseExperienceColumn resolves a canonical experience column name.
func ParseExperienceColumn(name string) (ExperienceColumn, bool) {
	for c, n := range experienceColumnNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// ValidColumn reports whether the column addresses a cell of the section.
func (s Section) ValidColumn(c Column) bool {
	switch s {
	case SectionInternalRelations, SectionExternalRelations:
		return c == ColumnEntity || c == ColumnPurpose
	case SectionChallenges:
		return c == ColumnSituation
	case SectionDecisions:
		return c == ColumnDescription
	}
	return false
}

// SlotCount returns the fixed slot count of the section.
func (s Section) SlotCount() int {
	switch s {
	case SectionInternalRelations, SectionExternalRelations:
		return domain.RelationSlots
	case SectionChallenges, SectionDecisions:
		return domain.ChallengeSlots
	}
	return 0
}
