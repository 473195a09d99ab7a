package wizard

import (
	"errors"
	"testing"

	"jobline/internal/catalog"
	"jobline/internal/domain"
)

func TestHappyPath(t *testing.T) {
	w := New(catalog.Default(), domain.LevelTactical, 1)
	if w.Step() != StepAction {
		t.Fatalf("start step = %d", w.Step())
	}
	w.SetAction("Coordinar")
	if w.Advisory() != "" {
		t.Fatalf("recommended verb raised advisory %q", w.Advisory())
	}
	if err := w.Next(); err != nil {
		t.Fatalf("advance to object: %v", err)
	}
	w.SetObject("los procesos de compra")
	if err := w.Next(); err != nil {
		t.Fatalf("advance to result: %v", err)
	}
	w.SetResult("garantizar el abasto oportuno")
	r, err := w.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if r.ID == "" || r.Sequence != 1 {
		t.Fatalf("identity not assigned: %+v", r)
	}
	if r.Action1 != "Coordinar" || r.Object != "los procesos de compra" || r.Result != "garantizar el abasto oportuno" {
		t.Fatalf("fields not preserved verbatim: %+v", r)
	}
}

func TestEmptyActionBlocksStepOne(t *testing.T) {
	w := New(catalog.Default(), domain.LevelTactical, 1)
	if err := w.Next(); !errors.Is(err, ErrIncompleteStep) {
		t.Fatalf("empty action: %v", err)
	}
	if w.Step() != StepAction {
		t.Fatalf("failed advance moved the step")
	}
}

func TestNotRecommendedVerbBlocksStepOne(t *testing.T) {
	w := New(catalog.Default(), domain.LevelTactical, 1)
	w.SetAction("Colaborar")
	if w.Advisory() == "" {
		t.Fatalf("not-recommended verb raised no advisory")
	}
	if err := w.Next(); !errors.Is(err, ErrIncompleteStep) {
		t.Fatalf("advisory should block advance: %v", err)
	}
	// Correcting the verb clears the advisory and unblocks.
	w.SetAction("Supervisar")
	if w.Advisory() != "" {
		t.Fatalf("advisory not cleared: %q", w.Advisory())
	}
	if err := w.Next(); err != nil {
		t.Fatalf("corrected verb: %v", err)
	}
}

func TestAdvisoryRecomputedPerKeystroke(t *testing.T) {
	w := New(catalog.Default(), domain.LevelOperational, 1)
	w.SetAction("Gestiona")
	if w.Advisory() != "" {
		t.Fatalf("partial text matched: %q", w.Advisory())
	}
	w.SetAction("gestionar")
	if w.Advisory() == "" {
		t.Fatalf("case-insensitive match missed")
	}
	w.SetAction("gestionarlo")
	if w.Advisory() != "" {
		t.Fatalf("stale advisory kept: %q", w.Advisory())
	}
}

func TestSuggestionsFollowTypedAction(t *testing.T) {
	w := New(catalog.Default(), domain.LevelStrategic, 1)
	browse := w.Suggestions()
	if len(browse) == 0 {
		t.Fatalf("empty action should browse the level set")
	}
	for _, v := range browse {
		if !v.AppliesTo(domain.LevelStrategic) {
			t.Fatalf("suggestion %q not scoped to level", v.Text)
		}
	}
	w.SetAction("diri")
	got := w.Suggestions()
	if len(got) != 1 || got[0].Text != "Dirigir" {
		t.Fatalf("suggestions = %v", got)
	}
	w.Choose(got[0])
	if w.Action() != "Dirigir" || w.Advisory() != "" {
		t.Fatalf("choose did not apply cleanly")
	}
}

func TestBackKeepsEnteredData(t *testing.T) {
	w := New(catalog.Default(), domain.LevelTactical, 2)
	w.SetAction("Analizar")
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	w.SetObject("los indicadores")
	w.Back()
	if w.Step() != StepAction {
		t.Fatalf("back from object landed on %d", w.Step())
	}
	w.Back() // already at the first step
	if w.Step() != StepAction {
		t.Fatalf("back below the first step")
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("object survived the round trip: %v", err)
	}
}

func TestFinishRequiresResultStep(t *testing.T) {
	w := New(catalog.Default(), domain.LevelTactical, 1)
	w.SetAction("Ejecutar")
	if _, err := w.Finish(); !errors.Is(err, ErrIncompleteStep) {
		t.Fatalf("finish on action step: %v", err)
	}
	_ = w.Next()
	w.SetObject("el plan de producción")
	_ = w.Next()
	if _, err := w.Finish(); !errors.Is(err, ErrIncompleteStep) {
		t.Fatalf("finish with empty result: %v", err)
	}
	w.SetResult("cumplir el programa mensual")
	if _, err := w.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
}

func TestEditPreservesIdentityAndSequence(t *testing.T) {
	existing := domain.Responsibility{
		ID:       "resp-7",
		Sequence: 7,
		Action1:  "Supervisar",
		Object:   "al equipo de almacén",
		Result:   "asegurar los niveles de inventario",
	}
	w := Edit(catalog.Default(), domain.LevelTactical, existing)
	if !w.Editing() {
		t.Fatalf("edit session not flagged")
	}
	w.SetObject("al equipo de logística")
	_ = w.Next()
	_ = w.Next()
	r, err := w.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if r.ID != "resp-7" || r.Sequence != 7 {
		t.Fatalf("identity not preserved: %+v", r)
	}
	if r.Object != "al equipo de logística" {
		t.Fatalf("edit not applied")
	}
}

func TestEditSeedsAdvisoryFromExistingVerb(t *testing.T) {
	existing := domain.Responsibility{
		ID:       "resp-1",
		Sequence: 1,
		Action1:  "Participar",
		Object:   "en los comités",
		Result:   "aportar la visión del área",
	}
	w := Edit(catalog.Default(), domain.LevelTactical, existing)
	if w.Advisory() == "" {
		t.Fatalf("existing not-recommended verb should seed the advisory")
	}
	if err := w.Next(); !errors.Is(err, ErrIncompleteStep) {
		t.Fatalf("seeded advisory should block advance: %v", err)
	}
}
