// Package store owns the job-description aggregate for one editing session.
// Every mutator enforces the write guard (only comments and status may change
// once the document leaves Elaboración) and the per-section capacity rules.
// Field access is a closed, enumerated set of operations; there is no keyed
// or reflective mutation path.
package store

import (
	"errors"
	"fmt"

	"jobline/internal/domain"
	"jobline/internal/mission"
	"jobline/internal/workflow"
)

var (
	// ErrReadOnly is returned when a mutator other than comments/status is
	// invoked while the document is not in Elaboración.
	ErrReadOnly = errors.New("document is read-only outside Elaboración")

	// ErrCapacityExceeded is returned when adding a responsibility beyond
	// the eight the form holds.
	ErrCapacityExceeded = errors.New("máximo 8 funciones permitidas")
)

// Field enumerates the scalar free-text fields of the document.
type Field int

const (
	FieldTitle Field = iota
	FieldReportsTo
	FieldArea
	FieldDepartment
	FieldLocation
	FieldOccupantName
	FieldOccupantDate
	FieldManagerName
	FieldManagerDate
	FieldHRName
	FieldHRDate
	FieldMissionGuide
	FieldMissionResult
	FieldMissionAction
	FieldMissionObject
	FieldSubordinatesDirect
	FieldSubordinatesIndirect
	FieldTotalPersonnel
	FieldBudgetOperating
	FieldBudgetIncome
	FieldOtherIndicators
)

// ProfileField enumerates the free-text profile fields.
type ProfileField int

const (
	ProfileEducation ProfileField = iota
	ProfileEducationArea
	ProfileKnowledge
	ProfileOtherLanguage
	ProfileTravelFrequency
)

// Section enumerates the fixed-slot table sections.
type Section int

const (
	SectionInternalRelations Section = iota
	SectionExternalRelations
	SectionChallenges
	SectionDecisions
)

// Column enumerates the editable columns within slot sections.
type Column int

const (
	ColumnEntity Column = iota
	ColumnPurpose
	ColumnSituation
	ColumnDescription
)

// ExperienceColumn enumerates the experience-row columns.
type ExperienceColumn int

const (
	ExperienceArea ExperienceColumn = iota
	ExperienceLevel
	ExperienceYears
	ExperienceOther
)

// Store guards a single JobDescription.
type Store struct {
	doc     *domain.JobDescription
	warning string

	// OnMissionChange is invoked with the re-derived advisory whenever any
	// of the four mission tokens changes.
	OnMissionChange func(warning string)
}

// New wraps a fresh document.
func New() *Store {
	return &Store{doc: domain.NewJobDescription()}
}

// Document returns a deep copy of the current state.
func (s *Store) Document() *domain.JobDescription { return s.doc.Clone() }

// Status returns the current workflow status.
func (s *Store) Status() domain.WorkflowStatus { return s.doc.Status }

// MissionWarning returns the current mission advisory, empty when none.
func (s *Store) MissionWarning() string { return s.warning }

// MissionPreview derives the concatenated mission statement.
func (s *Store) MissionPreview() string {
	return mission.Preview(s.doc.MissionGuide, s.doc.MissionResult, s.doc.MissionAction, s.doc.MissionObject)
}

func (s *Store) guard() error {
	if s.doc.Status != domain.StatusDraft {
		return ErrReadOnly
	}
	return nil
}

// commit records one successful mutation.
func (s *Store) commit() {
	s.doc.Version++
}

func (s *Store) rederiveMission() {
	s.warning = mission.Warning(s.doc.MissionGuide, s.doc.MissionResult, s.doc.MissionAction, s.doc.MissionObject)
	if s.OnMissionChange != nil {
		s.OnMissionChange(s.warning)
	}
}

// UpdateField sets one scalar field, subject to the write guard.
func (s *Store) UpdateField(f Field, value string) error {
	if err := s.guard(); err != nil {
		return err
	}
	missionToken := false
	switch f {
	case FieldTitle:
		s.doc.Title = value
	case FieldReportsTo:
		s.doc.ReportsTo = value
	case FieldArea:
		s.doc.Area = value
	case FieldDepartment:
		s.doc.Dept = value
	case FieldLocation:
		s.doc.Location = value
	case FieldOccupantName:
		s.doc.OccupantName = value
	case FieldOccupantDate:
		s.doc.OccupantDate = value
	case FieldManagerName:
		s.doc.ManagerName = value
	case FieldManagerDate:
		s.doc.ManagerDate = value
	case FieldHRName:
		s.doc.HRName = value
	case FieldHRDate:
		s.doc.HRDate = value
	case FieldMissionGuide:
		s.doc.MissionGuide = value
		missionToken = true
	case FieldMissionResult:
		s.doc.MissionResult = value
		missionToken = true
	case FieldMissionAction:
		s.doc.MissionAction = value
		missionToken = true
	case FieldMissionObject:
		s.doc.MissionObject = value
		missionToken = true
	case FieldSubordinatesDirect:
		s.doc.SubordinatesDirect = value
	case FieldSubordinatesIndirect:
		s.doc.SubordinatesIndirect = value
	case FieldTotalPersonnel:
		s.doc.TotalPersonnel = value
	case FieldBudgetOperating:
		s.doc.BudgetOperating = value
	case FieldBudgetIncome:
		s.doc.BudgetIncome = value
	case FieldOtherIndicators:
		s.doc.OtherIndicators = value
	default:
		panic(fmt.Sprintf("unknown field %d", f))
	}
	s.commit()
	if missionToken {
		s.rederiveMission()
	}
	return nil
}

// SetLevel changes the hierarchy level.
func (s *Store) SetLevel(level domain.HierarchyLevel) error {
	if err := s.guard(); err != nil {
		return err
	}
	if !level.Valid() {
		return fmt.Errorf("unknown hierarchy level %q", level)
	}
	s.doc.Level = level
	s.commit()
	return nil
}

// SetManagementScope changes the dimensions scope checkbox pair.
func (s *Store) SetManagementScope(scope string) error {
	if err := s.guard(); err != nil {
		return err
	}
	switch scope {
	case "", "Nacional", "Internacional":
	default:
		return fmt.Errorf("unknown management scope %q", scope)
	}
	s.doc.ManagementScope = scope
	s.commit()
	return nil
}

// UpdateProfileField sets one free-text profile field.
func (s *Store) UpdateProfileField(f ProfileField, value string) error {
	if err := s.guard(); err != nil {
		return err
	}
	switch f {
	case ProfileEducation:
		s.doc.Profile.Education = value
	case ProfileEducationArea:
		s.doc.Profile.EducationArea = value
	case ProfileKnowledge:
		s.doc.Profile.Knowledge = value
	case ProfileOtherLanguage:
		s.doc.Profile.OtherLanguage = value
	case ProfileTravelFrequency:
		switch value {
		case "", "Ocasionalmente", "Frecuentemente":
		default:
			return fmt.Errorf("unknown travel frequency %q", value)
		}
		s.doc.Profile.TravelFrequency = value
	default:
		panic(fmt.Sprintf("unknown profile field %d", f))
	}
	s.commit()
	return nil
}

// SetTravel flips the travel flag.
func (s *Store) SetTravel(v bool) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.doc.Profile.Travel = v
	s.commit()
	return nil
}

// SetExperienceRequired flips the experience flag.
func (s *Store) SetExperienceRequired(v bool) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.doc.Profile.ExperienceRequired = v
	s.commit()
	return nil
}

// SetLanguagePercentage sets one of the two proficiency integers. english
// selects which pair member.
func (s *Store) SetLanguagePercentage(english bool, pct int) error {
	if err := s.guard(); err != nil {
		return err
	}
	if pct < 0 || pct > 100 {
		return fmt.Errorf("language percentage %d out of range", pct)
	}
	if english {
		s.doc.Profile.EnglishPercentage = pct
	} else {
		s.doc.Profile.OtherLanguagePercentage = pct
	}
	s.commit()
	return nil
}

// SetExperienceArea sets one column of one of the three experience rows.
func (s *Store) SetExperienceArea(index int, col ExperienceColumn, value string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if index < 0 || index >= domain.ExperienceSlots {
		panic(fmt.Sprintf("experience slot %d out of range", index))
	}
	row := &s.doc.Profile.ExperienceAreas[index]
	switch col {
	case ExperienceArea:
		row.Area = value
	case ExperienceLevel:
		row.Level = value
	case ExperienceYears:
		row.Years = value
	case ExperienceOther:
		row.Other = value
	default:
		panic(fmt.Sprintf("unknown experience column %d", col))
	}
	s.commit()
	return nil
}

// SetOrgManagerOfManager sets the top org-chart box.
func (s *Store) SetOrgManagerOfManager(value string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.doc.OrgChart.ManagerOfManager = value
	s.commit()
	return nil
}

// SetOrgManager sets the immediate-manager box.
func (s *Store) SetOrgManager(value string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.doc.OrgChart.Manager = value
	s.commit()
	return nil
}

// SetPeers replaces the peer position list.
func (s *Store) SetPeers(peers []string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.doc.OrgChart.Peers = append([]string(nil), peers...)
	s.commit()
	return nil
}

// SetSubordinate fills one of the eight subordinate boxes.
func (s *Store) SetSubordinate(index int, value string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if index < 0 || index >= domain.SubordinateSlots {
		panic(fmt.Sprintf("subordinate slot %d out of range", index))
	}
	s.doc.OrgChart.Subordinates[index] = value
	s.commit()
	return nil
}

// UpdateArrayItem sets one column of one slot in a fixed-size section.
// Out-of-range indices and column/section mismatches are programming errors:
// the sections render as fixed tables and can never produce them.
func (s *Store) UpdateArrayItem(section Section, index int, col Column, value string) error {
	if err := s.guard(); err != nil {
		return err
	}
	switch section {
	case SectionInternalRelations, SectionExternalRelations:
		rows := s.doc.InternalRelations
		if section == SectionExternalRelations {
			rows = s.doc.ExternalRelations
		}
		if index < 0 || index >= domain.RelationSlots {
			panic(fmt.Sprintf("relation slot %d out of range", index))
		}
		switch col {
		case ColumnEntity:
			rows[index].Entity = value
		case ColumnPurpose:
			rows[index].Purpose = value
		default:
			panic(fmt.Sprintf("column %d not valid for relations", col))
		}
	case SectionChallenges:
		if index < 0 || index >= domain.ChallengeSlots {
			panic(fmt.Sprintf("challenge slot %d out of range", index))
		}
		if col != ColumnSituation {
			panic(fmt.Sprintf("column %d not valid for challenges", col))
		}
		s.doc.Challenges[index].Situation = value
	case SectionDecisions:
		if index < 0 || index >= domain.DecisionSlots {
			panic(fmt.Sprintf("decision slot %d out of range", index))
		}
		if col != ColumnDescription {
			panic(fmt.Sprintf("column %d not valid for decisions", col))
		}
		s.doc.Decisions[index].Description = value
	default:
		panic(fmt.Sprintf("unknown section %d", section))
	}
	s.commit()
	return nil
}

// AddResponsibility appends a wizard-committed record. The list is capped at
// eight; the ninth add fails and leaves the list unchanged.
func (s *Store) AddResponsibility(r domain.Responsibility) error {
	if err := s.guard(); err != nil {
		return err
	}
	if len(s.doc.Responsibilities) >= domain.MaxResponsibilities {
		return ErrCapacityExceeded
	}
	if err := ensureComplete(r); err != nil {
		return err
	}
	s.doc.Responsibilities = append(s.doc.Responsibilities, r)
	s.commit()
	return nil
}

// ReplaceResponsibility swaps the record with matching identity. Records are
// never partially mutated in place.
func (s *Store) ReplaceResponsibility(r domain.Responsibility) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := ensureComplete(r); err != nil {
		return err
	}
	for i := range s.doc.Responsibilities {
		if s.doc.Responsibilities[i].ID == r.ID {
			s.doc.Responsibilities[i] = r
			s.commit()
			return nil
		}
	}
	return fmt.Errorf("responsibility %s not found", r.ID)
}

func ensureComplete(r domain.Responsibility) error {
	if r.ID == "" || r.Action1 == "" || r.Object == "" || r.Result == "" {
		return fmt.Errorf("responsibility must be fully formed (action, object, result)")
	}
	return nil
}

// SetComments updates the comments field. Comments stay mutable in every
// workflow status.
func (s *Store) SetComments(value string) error {
	s.doc.Comments = value
	s.commit()
	return nil
}

// Transition moves the workflow status along a defined edge.
func (s *Store) Transition(to domain.WorkflowStatus) error {
	if err := workflow.EnsureTransition(s.doc.Status, to); err != nil {
		return err
	}
	s.doc.Status = to
	s.commit()
	return nil
}
