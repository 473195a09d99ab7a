package domain

import "github.com/google/uuid"

// HierarchyLevel scopes which verbs are recommended for a position.
type HierarchyLevel string

const (
	LevelStrategic   HierarchyLevel = "Estratégico"
	LevelTactical    HierarchyLevel = "Táctico"
	LevelOperational HierarchyLevel = "Operacional"
)

// Valid reports whether l is one of the three defined levels.
func (l HierarchyLevel) Valid() bool {
	switch l {
	case LevelStrategic, LevelTactical, LevelOperational:
		return true
	}
	return false
}

// WorkflowStatus gates document mutability.
type WorkflowStatus string

const (
	StatusDraft      WorkflowStatus = "Elaboración"
	StatusValidation WorkflowStatus = "Validación (Jefe)"
	StatusApproved   WorkflowStatus = "Aprobado (RH)"
)

func (s WorkflowStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusValidation, StatusApproved:
		return true
	}
	return false
}

// Section capacities. The slot sections are structural: the UI renders fixed
// table shapes, so the sequences are pre-allocated and never resized.
const (
	MaxResponsibilities = 8
	RelationSlots       = 4
	ChallengeSlots      = 2
	DecisionSlots       = 2
	SubordinateSlots    = 8
	ExperienceSlots     = 3
)

// Responsibility is one QUÉ + CÓMO + PARA QUÉ statement. It is only ever
// fully formed: the wizard commits it complete or not at all.
type Responsibility struct {
	ID       string `json:"id"`
	Sequence int    `json:"sequence"`
	Action1  string `json:"action1"`
	Action2  string `json:"action2,omitempty"`
	Object   string `json:"object"`
	Result   string `json:"result"`
}

// Relationship is one internal or external relation row.
type Relationship struct {
	ID      string `json:"id"`
	Entity  string `json:"entity"`
	Purpose string `json:"purpose"`
}

type Challenge struct {
	ID        string `json:"id"`
	Situation string `json:"situation"`
}

type Decision struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type OrgChart struct {
	ManagerOfManager string   `json:"manager_of_manager"`
	Manager          string   `json:"manager"`
	Peers            []string `json:"peers"`
	Subordinates     []string `json:"subordinates"`
}

type ExperienceArea struct {
	ID    string `json:"id"`
	Area  string `json:"area"`
	Level string `json:"level"`
	Years string `json:"years"`
	Other string `json:"other"`
}

type Profile struct {
	Travel                  bool             `json:"travel"`
	TravelFrequency         string           `json:"travel_frequency,omitempty" enum:"Ocasionalmente,Frecuentemente"`
	Education               string           `json:"education"`
	EducationArea           string           `json:"education_area"`
	Knowledge               string           `json:"knowledge"`
	EnglishPercentage       int              `json:"english_percentage"`
	OtherLanguage           string           `json:"other_language"`
	OtherLanguagePercentage int              `json:"other_language_percentage"`
	ExperienceRequired      bool             `json:"experience_required"`
	ExperienceAreas         []ExperienceArea `json:"experience_areas"`
}

// JobDescription is the aggregate root, one instance per editing session.
type JobDescription struct {
	ID      string `json:"id"`
	Version int    `json:"version"`

	Title     string         `json:"title"`
	ReportsTo string         `json:"reports_to"`
	Area      string         `json:"area"`
	Dept      string         `json:"department"`
	Location  string         `json:"location"`
	Level     HierarchyLevel `json:"level"`

	OccupantName string `json:"occupant_name"`
	OccupantDate string `json:"occupant_date"`
	ManagerName  string `json:"manager_name"`
	ManagerDate  string `json:"manager_date"`
	HRName       string `json:"hr_name"`
	HRDate       string `json:"hr_date"`

	MissionGuide  string `json:"mission_guide"`
	MissionResult string `json:"mission_result"`
	MissionAction string `json:"mission_action"`
	MissionObject string `json:"mission_object"`

	Responsibilities  []Responsibility `json:"responsibilities"`
	InternalRelations []Relationship   `json:"internal_relations"`
	ExternalRelations []Relationship   `json:"external_relations"`

	SubordinatesDirect   string `json:"subordinates_direct"`
	SubordinatesIndirect string `json:"subordinates_indirect"`
	TotalPersonnel       string `json:"total_personnel"`
	BudgetOperating      string `json:"budget_operating"`
	BudgetIncome         string `json:"budget_income"`
	ManagementScope      string `json:"management_scope,omitempty" enum:"Nacional,Internacional,"`
	OtherIndicators      string `json:"other_indicators"`

	Challenges []Challenge `json:"challenges"`
	Decisions  []Decision  `json:"decisions"`

	OrgChart OrgChart `json:"org_chart"`
	Profile  Profile  `json:"profile"`

	Status   WorkflowStatus `json:"status"`
	Comments string         `json:"comments"`
}

// Event is one append-only journal row: the audit trail of mutations,
// transitions, wizard commits, and oracle checks.
type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	SessionID  string `json:"session_id,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

// NewJobDescription returns a fresh Draft document with every slot section
// pre-allocated with empty records so renderers always see fixed shapes.
func NewJobDescription() *JobDescription {
	return &JobDescription{
		ID:                uuid.New().String(),
		Version:           1,
		Level:             LevelTactical,
		Responsibilities:  []Responsibility{},
		InternalRelations: emptyRelations(RelationSlots),
		ExternalRelations: emptyRelations(RelationSlots),
		Challenges:        emptyChallenges(ChallengeSlots),
		Decisions:         emptyDecisions(DecisionSlots),
		OrgChart: OrgChart{
			Peers:        []string{},
			Subordinates: make([]string, SubordinateSlots),
		},
		Profile: Profile{
			ExperienceAreas: emptyExperienceAreas(ExperienceSlots),
		},
		Status: StatusDraft,
	}
}

func emptyRelations(n int) []Relationship {
	out := make([]Relationship, n)
	for i := range out {
		out[i] = Relationship{ID: uuid.New().String()}
	}
	return out
}

func emptyChallenges(n int) []Challenge {
	out := make([]Challenge, n)
	for i := range out {
		out[i] = Challenge{ID: uuid.New().String()}
	}
	return out
}

func emptyDecisions(n int) []Decision {
	out := make([]Decision, n)
	for i := range out {
		out[i] = Decision{ID: uuid.New().String()}
	}
	return out
}

func emptyExperienceAreas(n int) []ExperienceArea {
	out := make([]ExperienceArea, n)
	for i := range out {
		out[i] = ExperienceArea{ID: uuid.New().String()}
	}
	return out
}

// Clone returns a deep copy of the document. The store hands out clones so
// callers cannot bypass the write guard by mutating returned state.
func (j *JobDescription) Clone() *JobDescription {
	out := *j
	out.Responsibilities = append([]Responsibility(nil), j.Responsibilities...)
	out.InternalRelations = append([]Relationship(nil), j.InternalRelations...)
	out.ExternalRelations = append([]Relationship(nil), j.ExternalRelations...)
	out.Challenges = append([]Challenge(nil), j.Challenges...)
	out.Decisions = append([]Decision(nil), j.Decisions...)
	out.OrgChart.Peers = append([]string(nil), j.OrgChart.Peers...)
	out.OrgChart.Subordinates = append([]string(nil), j.OrgChart.Subordinates...)
	out.Profile.ExperienceAreas = append([]ExperienceArea(nil), j.Profile.ExperienceAreas...)
	return &out
}
