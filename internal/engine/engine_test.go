package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobline/internal/catalog"
	"jobline/internal/db"
	"jobline/internal/domain"
	"jobline/internal/engine"
	"jobline/internal/migrate"
	"jobline/internal/oracle"
	"jobline/internal/store"
	"jobline/internal/wizard"
)

type testEnv struct {
	Engine *engine.Engine
	Ctx    context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	eng := engine.New(conn, catalog.Default(), oracle.NewChecker(nil))
	eng.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return testEnv{Engine: eng, Ctx: context.Background()}
}

func addResponsibility(t *testing.T, env testEnv, sessionID, action, object, result string) domain.Responsibility {
	t.Helper()
	if err := env.Engine.StartWizard(env.Ctx, sessionID, "tester"); err != nil {
		t.Fatalf("start wizard: %v", err)
	}
	w, err := env.Engine.Wizard(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	w.SetAction(action)
	if err := w.Next(); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	w.SetObject(object)
	if err := w.Next(); err != nil {
		t.Fatalf("step 2: %v", err)
	}
	w.SetResult(result)
	r, err := env.Engine.FinishWizard(env.Ctx, sessionID, "tester")
	if err != nil {
		t.Fatalf("finish wizard: %v", err)
	}
	return r
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	doc, err := env.Engine.CreateSession(env.Ctx, "tester")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if doc.Status != domain.StatusDraft {
		t.Fatalf("new session status = %s", doc.Status)
	}
	got, err := env.Engine.Document(doc.ID)
	if err != nil || got.ID != doc.ID {
		t.Fatalf("document lookup: %v", err)
	}
	if err := env.Engine.CloseSession(env.Ctx, doc.ID, "tester"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := env.Engine.Document(doc.ID); !errors.Is(err, engine.ErrSessionNotFound) {
		t.Fatalf("closed session still resolves: %v", err)
	}
	if err := env.Engine.CloseSession(env.Ctx, doc.ID, "tester"); !errors.Is(err, engine.ErrSessionNotFound) {
		t.Fatalf("double close: %v", err)
	}
}

func TestUnknownSessionRejected(t *testing.T) {
	env := newTestEnv(t)
	err := env.Engine.UpdateField(env.Ctx, "no-such", store.FieldTitle, "x", "tester")
	if !errors.Is(err, engine.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMutationsAreJournaled(t *testing.T) {
	env := newTestEnv(t)
	doc, err := env.Engine.CreateSession(env.Ctx, "tester")
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.UpdateField(env.Ctx, doc.ID, store.FieldTitle, "Gerente de Compras", "tester"); err != nil {
		t.Fatalf("update field: %v", err)
	}
	if err := env.Engine.SetLevel(env.Ctx, doc.ID, domain.LevelStrategic, "tester"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	if err := env.Engine.Transition(env.Ctx, doc.ID, domain.StatusValidation, "boss"); err != nil {
		t.Fatalf("transition: %v", err)
	}
	counts, err := env.Engine.Repo.CountEventsByType(env.Ctx, doc.ID)
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	for evt, want := range map[string]int{
		"session.created": 1,
		"field.updated":   1,
		"level.updated":   1,
		"status.changed":  1,
	} {
		if counts[evt] != want {
			t.Fatalf("%s count = %d, want %d (all: %v)", evt, counts[evt], want, counts)
		}
	}
	events, err := env.Engine.Repo.ListEvents(env.Ctx, doc.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	last := events[len(events)-1]
	if last.Type != "status.changed" || last.ActorID != "boss" {
		t.Fatalf("last event = %+v", last)
	}
	if last.TS != "2026-01-01T00:00:00Z" {
		t.Fatalf("journal should use the injected clock, ts = %s", last.TS)
	}
}

func TestRejectedMutationIsNotJournaled(t *testing.T) {
	env := newTestEnv(t)
	doc, _ := env.Engine.CreateSession(env.Ctx, "tester")
	if err := env.Engine.Transition(env.Ctx, doc.ID, domain.StatusValidation, "tester"); err != nil {
		t.Fatal(err)
	}
	err := env.Engine.UpdateField(env.Ctx, doc.ID, store.FieldTitle, "x", "tester")
	if !errors.Is(err, store.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	counts, err := env.Engine.Repo.CountEventsByType(env.Ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if counts["field.updated"] != 0 {
		t.Fatalf("rejected write was journaled: %v", counts)
	}
}

func TestWizardCommitThroughEngine(t *testing.T) {
	env := newTestEnv(t)
	doc, _ := env.Engine.CreateSession(env.Ctx, "tester")
	r := addResponsibility(t, env, doc.ID, "Coordinar", "los procesos de compra", "garantizar el abasto oportuno")
	if r.Sequence != 1 {
		t.Fatalf("sequence = %d", r.Sequence)
	}
	got, _ := env.Engine.Document(doc.ID)
	if len(got.Responsibilities) != 1 {
		t.Fatalf("responsibility not committed")
	}
	// The wizard session is gone after commit.
	if _, err := env.Engine.Wizard(doc.ID); !errors.Is(err, engine.ErrNoWizard) {
		t.Fatalf("wizard should be closed: %v", err)
	}
	counts, _ := env.Engine.Repo.CountEventsByType(env.Ctx, doc.ID)
	if counts["wizard.started"] != 1 || counts["responsibility.added"] != 1 {
		t.Fatalf("wizard events: %v", counts)
	}
}

func TestWizardEditReplacesRecord(t *testing.T) {
	env := newTestEnv(t)
	doc, _ := env.Engine.CreateSession(env.Ctx, "tester")
	r := addResponsibility(t, env, doc.ID, "Supervisar", "al equipo", "asegurar el servicio")

	if err := env.Engine.EditResponsibility(env.Ctx, doc.ID, r.ID, "tester"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	w, _ := env.Engine.Wizard(doc.ID)
	w.SetObject("al equipo de almacén")
	_ = w.Next()
	_ = w.Next()
	updated, err := env.Engine.FinishWizard(env.Ctx, doc.ID, "tester")
	if err != nil {
		t.Fatalf("finish edit: %v", err)
	}
	if updated.ID != r.ID || updated.Sequence != r.Sequence {
		t.Fatalf("identity changed: %+v", updated)
	}
	got, _ := env.Engine.Document(doc.ID)
	if len(got.Responsibilities) != 1 || got.Responsibilities[0].Object != "al equipo de almacén" {
		t.Fatalf("edit did not replace in place: %+v", got.Responsibilities)
	}
	counts, _ := env.Engine.Repo.CountEventsByType(env.Ctx, doc.ID)
	if counts["responsibility.updated"] != 1 {
		t.Fatalf("edit event missing: %v", counts)
	}
}

func TestStartWizardGuards(t *testing.T) {
	env := newTestEnv(t)
	doc, _ := env.Engine.CreateSession(env.Ctx, "tester")
	for i := 0; i < domain.MaxResponsibilities; i++ {
		addResponsibility(t, env, doc.ID, "Ejecutar", "la tarea", "cumplir el plan")
	}
	if err := env.Engine.StartWizard(env.Ctx, doc.ID, "tester"); !errors.Is(err, store.ErrCapacityExceeded) {
		t.Fatalf("at capacity: %v", err)
	}

	doc2, _ := env.Engine.CreateSession(env.Ctx, "tester")
	if err := env.Engine.Transition(env.Ctx, doc2.ID, domain.StatusValidation, "tester"); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.StartWizard(env.Ctx, doc2.ID, "tester"); !errors.Is(err, store.ErrReadOnly) {
		t.Fatalf("read-only document: %v", err)
	}
}

func TestOnlyOneWizardAtATime(t *testing.T) {
	env := newTestEnv(t)
	doc, _ := env.Engine.CreateSession(env.Ctx, "tester")
	if err := env.Engine.StartWizard(env.Ctx, doc.ID, "tester"); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.StartWizard(env.Ctx, doc.ID, "tester"); !errors.Is(err, engine.ErrWizardOpen) {
		t.Fatalf("second open: %v", err)
	}
	if err := env.Engine.CancelWizard(env.Ctx, doc.ID, "tester"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, _ := env.Engine.Document(doc.ID)
	if len(got.Responsibilities) != 0 {
		t.Fatalf("canceled wizard touched the document")
	}
	if err := env.Engine.StartWizard(env.Ctx, doc.ID, "tester"); err != nil {
		t.Fatalf("reopen after cancel: %v", err)
	}
}

func TestIncompleteWizardCannotFinish(t *testing.T) {
	env := newTestEnv(t)
	doc, _ := env.Engine.CreateSession(env.Ctx, "tester")
	if err := env.Engine.StartWizard(env.Ctx, doc.ID, "tester"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Engine.FinishWizard(env.Ctx, doc.ID, "tester"); !errors.Is(err, wizard.ErrIncompleteStep) {
		t.Fatalf("finish on step 1: %v", err)
	}
	// Failed finish keeps the wizard open.
	if _, err := env.Engine.Wizard(doc.ID); err != nil {
		t.Fatalf("wizard gone after failed finish: %v", err)
	}
}

func TestCommentsAttributedInJournal(t *testing.T) {
	env := newTestEnv(t)
	doc, _ := env.Engine.CreateSession(env.Ctx, "tester")
	if err := env.Engine.Transition(env.Ctx, doc.ID, domain.StatusValidation, "tester"); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.SetComments(env.Ctx, doc.ID, "Falta detalle en dimensiones.", "jefe-1"); err != nil {
		t.Fatalf("comments: %v", err)
	}
	events, err := env.Engine.Repo.ListEvents(env.Ctx, doc.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	last := events[len(events)-1]
	if last.Type != "comments.updated" || last.ActorID != "jefe-1" {
		t.Fatalf("comment event = %+v", last)
	}
}

func TestConsistencyCheckRecordsEventAndFallback(t *testing.T) {
	env := newTestEnv(t)
	doc, _ := env.Engine.CreateSession(env.Ctx, "tester")
	done, err := env.Engine.CheckConsistency(env.Ctx, doc.ID, "tester")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	<-done
	checking, result, err := env.Engine.ConsistencyState(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if checking {
		t.Fatalf("checking flag stuck")
	}
	if result != oracle.FallbackNoCredential {
		t.Fatalf("result = %q", result)
	}
	counts, _ := env.Engine.Repo.CountEventsByType(env.Ctx, doc.ID)
	if counts["consistency.checked"] != 1 {
		t.Fatalf("check event missing: %v", counts)
	}
}
