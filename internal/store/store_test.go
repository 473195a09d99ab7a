package store

import (
	"errors"
	"fmt"
	"testing"

	"jobline/internal/domain"
	"jobline/internal/mission"
)

func completeResponsibility(seq int) domain.Responsibility {
	return domain.Responsibility{
		ID:       fmt.Sprintf("resp-%d", seq),
		Sequence: seq,
		Action1:  "Coordinar",
		Object:   "los procesos de compra",
		Result:   "garantizar el abasto oportuno",
	}
}

func TestNewDocumentShape(t *testing.T) {
	s := New()
	doc := s.Document()
	if doc.Status != domain.StatusDraft {
		t.Fatalf("new document status = %s", doc.Status)
	}
	if doc.Level != domain.LevelTactical {
		t.Fatalf("new document level = %s", doc.Level)
	}
	if len(doc.Responsibilities) != 0 {
		t.Fatalf("responsibilities should start empty")
	}
	if len(doc.InternalRelations) != domain.RelationSlots || len(doc.ExternalRelations) != domain.RelationSlots {
		t.Fatalf("relation slots not pre-allocated")
	}
	if len(doc.Challenges) != domain.ChallengeSlots || len(doc.Decisions) != domain.DecisionSlots {
		t.Fatalf("challenge/decision slots not pre-allocated")
	}
	if len(doc.OrgChart.Subordinates) != domain.SubordinateSlots {
		t.Fatalf("subordinate slots not pre-allocated")
	}
	if len(doc.Profile.ExperienceAreas) != domain.ExperienceSlots {
		t.Fatalf("experience slots not pre-allocated")
	}
}

func TestUpdateFieldBumpsVersion(t *testing.T) {
	s := New()
	before := s.Document().Version
	if err := s.UpdateField(FieldTitle, "Gerente de Compras"); err != nil {
		t.Fatalf("update title: %v", err)
	}
	doc := s.Document()
	if doc.Title != "Gerente de Compras" {
		t.Fatalf("title = %q", doc.Title)
	}
	if doc.Version != before+1 {
		t.Fatalf("version = %d, want %d", doc.Version, before+1)
	}
}

func TestDocumentReturnsCopy(t *testing.T) {
	s := New()
	doc := s.Document()
	doc.Title = "mutated"
	doc.Responsibilities = append(doc.Responsibilities, completeResponsibility(1))
	fresh := s.Document()
	if fresh.Title != "" || len(fresh.Responsibilities) != 0 {
		t.Fatalf("mutating a snapshot must not touch the store")
	}
}

func TestResponsibilityCapacity(t *testing.T) {
	s := New()
	for i := 1; i <= domain.MaxResponsibilities; i++ {
		if err := s.AddResponsibility(completeResponsibility(i)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	err := s.AddResponsibility(completeResponsibility(9))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("ninth add: %v", err)
	}
	doc := s.Document()
	if len(doc.Responsibilities) != domain.MaxResponsibilities {
		t.Fatalf("failed add changed the list: %d entries", len(doc.Responsibilities))
	}
	// Rejection is idempotent: retrying changes nothing.
	if err := s.AddResponsibility(completeResponsibility(9)); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("retry: %v", err)
	}
	if len(s.Document().Responsibilities) != domain.MaxResponsibilities {
		t.Fatalf("retry changed the list")
	}
}

func TestAddRejectsIncompleteResponsibility(t *testing.T) {
	s := New()
	r := completeResponsibility(1)
	r.Result = ""
	if err := s.AddResponsibility(r); err == nil {
		t.Fatalf("expected error for incomplete record")
	}
	if len(s.Document().Responsibilities) != 0 {
		t.Fatalf("incomplete record must not be stored")
	}
}

func TestReplaceResponsibilityByIdentity(t *testing.T) {
	s := New()
	if err := s.AddResponsibility(completeResponsibility(1)); err != nil {
		t.Fatal(err)
	}
	updated := completeResponsibility(1)
	updated.Object = "los contratos marco"
	if err := s.ReplaceResponsibility(updated); err != nil {
		t.Fatalf("replace: %v", err)
	}
	doc := s.Document()
	if doc.Responsibilities[0].Object != "los contratos marco" {
		t.Fatalf("replace did not apply")
	}
	missing := completeResponsibility(2)
	if err := s.ReplaceResponsibility(missing); err == nil {
		t.Fatalf("expected error for unknown identity")
	}
}

func TestWriteGuardOutsideDraft(t *testing.T) {
	s := New()
	if err := s.Transition(domain.StatusValidation); err != nil {
		t.Fatalf("submit: %v", err)
	}
	version := s.Document().Version

	checks := []struct {
		name string
		fn   func() error
	}{
		{"field", func() error { return s.UpdateField(FieldTitle, "x") }},
		{"level", func() error { return s.SetLevel(domain.LevelStrategic) }},
		{"scope", func() error { return s.SetManagementScope("Nacional") }},
		{"profile", func() error { return s.UpdateProfileField(ProfileEducation, "x") }},
		{"travel", func() error { return s.SetTravel(true) }},
		{"language", func() error { return s.SetLanguagePercentage(true, 50) }},
		{"experience", func() error { return s.SetExperienceArea(0, ExperienceArea, "x") }},
		{"org", func() error { return s.SetOrgManager("x") }},
		{"subordinate", func() error { return s.SetSubordinate(0, "x") }},
		{"section", func() error { return s.UpdateArrayItem(SectionChallenges, 0, ColumnSituation, "x") }},
		{"add", func() error { return s.AddResponsibility(completeResponsibility(1)) }},
	}
	for _, c := range checks {
		if err := c.fn(); !errors.Is(err, ErrReadOnly) {
			t.Fatalf("%s: expected ErrReadOnly, got %v", c.name, err)
		}
	}
	if s.Document().Version != version {
		t.Fatalf("rejected writes must not bump the version")
	}
}

func TestCommentsAndStatusStayMutable(t *testing.T) {
	s := New()
	if err := s.Transition(domain.StatusValidation); err != nil {
		t.Fatal(err)
	}
	if err := s.SetComments("Falta detallar el presupuesto."); err != nil {
		t.Fatalf("comments while read-only: %v", err)
	}
	if err := s.Transition(domain.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := s.SetComments("Aprobado sin observaciones."); err != nil {
		t.Fatalf("comments after approval: %v", err)
	}
	if got := s.Document().Comments; got != "Aprobado sin observaciones." {
		t.Fatalf("comments = %q", got)
	}
}

func TestMissionWarningRederivedOnTokenChange(t *testing.T) {
	s := New()
	var notified []string
	s.OnMissionChange = func(w string) { notified = append(notified, w) }

	if err := s.UpdateField(FieldMissionAction, "Dirigir"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateField(FieldMissionObject, "la planta"); err != nil {
		t.Fatal(err)
	}
	if s.MissionWarning() != mission.ResultMissing {
		t.Fatalf("warning = %q", s.MissionWarning())
	}
	if err := s.UpdateField(FieldMissionResult, "asegurar la producción"); err != nil {
		t.Fatal(err)
	}
	if s.MissionWarning() != "" {
		t.Fatalf("result set should clear the warning, got %q", s.MissionWarning())
	}
	if len(notified) != 3 {
		t.Fatalf("subscriber called %d times, want 3", len(notified))
	}
	if notified[1] != mission.ResultMissing || notified[2] != "" {
		t.Fatalf("subscriber sequence = %v", notified)
	}
	// Non-mission fields never trigger the subscriber.
	if err := s.UpdateField(FieldTitle, "x"); err != nil {
		t.Fatal(err)
	}
	if len(notified) != 3 {
		t.Fatalf("non-mission field notified the subscriber")
	}
}

func TestMissionPreview(t *testing.T) {
	s := New()
	for f, v := range map[Field]string{
		FieldMissionGuide:  "Garantizar",
		FieldMissionResult: "el abasto oportuno",
		FieldMissionAction: "coordinando",
		FieldMissionObject: "las compras",
	} {
		if err := s.UpdateField(f, v); err != nil {
			t.Fatal(err)
		}
	}
	want := "Garantizar el abasto oportuno coordinando las compras"
	if got := s.MissionPreview(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}
}

func TestSlotWritesLand(t *testing.T) {
	s := New()
	if err := s.UpdateArrayItem(SectionInternalRelations, 2, ColumnEntity, "Finanzas"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateArrayItem(SectionDecisions, 1, ColumnDescription, "Selección de proveedores"); err != nil {
		t.Fatal(err)
	}
	doc := s.Document()
	if doc.InternalRelations[2].Entity != "Finanzas" {
		t.Fatalf("relation write missed")
	}
	if doc.Decisions[1].Description != "Selección de proveedores" {
		t.Fatalf("decision write missed")
	}
}

func TestOutOfRangeSlotPanics(t *testing.T) {
	cases := []struct {
		name string
		fn   func(*Store) error
	}{
		{"relation index", func(s *Store) error { return s.UpdateArrayItem(SectionInternalRelations, 4, ColumnEntity, "x") }},
		{"challenge index", func(s *Store) error { return s.UpdateArrayItem(SectionChallenges, -1, ColumnSituation, "x") }},
		{"column mismatch", func(s *Store) error { return s.UpdateArrayItem(SectionDecisions, 0, ColumnEntity, "x") }},
		{"subordinate index", func(s *Store) error { return s.SetSubordinate(8, "x") }},
		{"experience index", func(s *Store) error { return s.SetExperienceArea(3, ExperienceArea, "x") }},
	}
	for _, c := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s: expected panic", c.name)
				}
			}()
			_ = c.fn(New())
		}()
	}
}

func TestValidatedEnums(t *testing.T) {
	s := New()
	if err := s.SetLevel("Gerencial"); err == nil {
		t.Fatalf("unknown level accepted")
	}
	if err := s.SetManagementScope("Regional"); err == nil {
		t.Fatalf("unknown scope accepted")
	}
	if err := s.UpdateProfileField(ProfileTravelFrequency, "Siempre"); err == nil {
		t.Fatalf("unknown travel frequency accepted")
	}
	if err := s.SetLanguagePercentage(true, 120); err == nil {
		t.Fatalf("percentage over 100 accepted")
	}
	if err := s.SetManagementScope(""); err != nil {
		t.Fatalf("clearing scope: %v", err)
	}
}
