// Package engine orchestrates editing sessions: it owns the session map,
// routes mutations through each session's store, drives the wizard
// lifecycle, and appends every committed change to the event journal.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"jobline/internal/catalog"
	"jobline/internal/domain"
	"jobline/internal/events"
	"jobline/internal/oracle"
	"jobline/internal/repo"
	"jobline/internal/store"
	"jobline/internal/wizard"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoWizard is returned for wizard operations without an open session.
var ErrNoWizard = errors.New("no wizard session open")

// ErrWizardOpen is returned when starting a wizard while one is open.
var ErrWizardOpen = errors.New("a wizard session is already open")

type session struct {
	store  *store.Store
	wizard *wizard.Session
}

// Engine ties the stores, wizard sessions, catalog, oracle checker, and
// journal together. One session has one actor; the mutex only protects the
// session map against concurrent HTTP requests for different sessions.
type Engine struct {
	DB      *sql.DB
	Repo    repo.Repo
	Events  events.Writer
	Catalog *catalog.Catalog
	Checker *oracle.Checker
	Now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// New builds an engine over an opened, migrated journal database.
func New(db *sql.DB, cat *catalog.Catalog, checker *oracle.Checker) *Engine {
	return &Engine{
		DB:       db,
		Repo:     repo.Repo{DB: db},
		Events:   events.Writer{DB: db},
		Catalog:  cat,
		Checker:  checker,
		Now:      time.Now,
		sessions: map[string]*session{},
	}
}

func (e *Engine) session(id string) (*session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (e *Engine) append(ctx context.Context, evtType, sessionID, entityKind, entityID, actorID string, payload events.EventPayload) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	w := e.Events
	w.Now = e.Now
	if err := w.Append(ctx, tx, evtType, sessionID, entityKind, entityID, actorID, payload); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateSession starts a new editing session with a fresh Draft document.
// The session id is the document id.
func (e *Engine) CreateSession(ctx context.Context, actorID string) (*domain.JobDescription, error) {
	st := store.New()
	doc := st.Document()
	e.mu.Lock()
	e.sessions[doc.ID] = &session{store: st}
	e.mu.Unlock()
	if err := e.append(ctx, "session.created", doc.ID, "document", doc.ID, actorID, events.EventPayload{"status": doc.Status}); err != nil {
		return nil, err
	}
	return doc, nil
}

// CloseSession discards a session; nothing is persisted.
func (e *Engine) CloseSession(ctx context.Context, sessionID, actorID string) error {
	e.mu.Lock()
	_, ok := e.sessions[sessionID]
	delete(e.sessions, sessionID)
	e.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	return e.append(ctx, "session.closed", sessionID, "document", sessionID, actorID, events.EventPayload{})
}

// Document returns a snapshot of the session's document.
func (e *Engine) Document(sessionID string) (*domain.JobDescription, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.store.Document(), nil
}

// MissionState returns the derived mission preview and advisory.
func (e *Engine) MissionState(sessionID string) (preview, warning string, err error) {
	s, err := e.session(sessionID)
	if err != nil {
		return "", "", err
	}
	return s.store.MissionPreview(), s.store.MissionWarning(), nil
}

// mutate runs one store mutation and journals it on success.
func (e *Engine) mutate(ctx context.Context, sessionID, actorID, evtType string, payload events.EventPayload, fn func(*store.Store) error) error {
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}
	if err := fn(s.store); err != nil {
		return err
	}
	return e.append(ctx, evtType, sessionID, "document", sessionID, actorID, payload)
}

// UpdateField sets one scalar document field.
func (e *Engine) UpdateField(ctx context.Context, sessionID string, f store.Field, value, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "field.updated", events.EventPayload{"field": f.String()},
		func(s *store.Store) error { return s.UpdateField(f, value) })
}

// SetLevel changes the hierarchy level.
func (e *Engine) SetLevel(ctx context.Context, sessionID string, level domain.HierarchyLevel, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "level.updated", events.EventPayload{"level": level},
		func(s *store.Store) error { return s.SetLevel(level) })
}

// SetManagementScope changes the dimensions scope.
func (e *Engine) SetManagementScope(ctx context.Context, sessionID, scope, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "field.updated", events.EventPayload{"field": "management_scope"},
		func(s *store.Store) error { return s.SetManagementScope(scope) })
}

// UpdateProfileField sets one free-text profile field.
func (e *Engine) UpdateProfileField(ctx context.Context, sessionID string, f store.ProfileField, value, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "profile.updated", events.EventPayload{"field": f.String()},
		func(s *store.Store) error { return s.UpdateProfileField(f, value) })
}

// SetProfileFlag flips one of the two profile booleans ("travel" or
// "experience_required").
func (e *Engine) SetProfileFlag(ctx context.Context, sessionID, flag string, value bool, actorID string) error {
	var fn func(*store.Store) error
	switch flag {
	case "travel":
		fn = func(s *store.Store) error { return s.SetTravel(value) }
	case "experience_required":
		fn = func(s *store.Store) error { return s.SetExperienceRequired(value) }
	default:
		return fmt.Errorf("unknown profile flag %q", flag)
	}
	return e.mutate(ctx, sessionID, actorID, "profile.updated", events.EventPayload{"field": flag}, fn)
}

// SetLanguagePercentage sets one language proficiency value.
func (e *Engine) SetLanguagePercentage(ctx context.Context, sessionID string, english bool, pct int, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "profile.updated", events.EventPayload{"field": "language_percentage"},
		func(s *store.Store) error { return s.SetLanguagePercentage(english, pct) })
}

// SetExperienceArea sets one cell of the experience table.
func (e *Engine) SetExperienceArea(ctx context.Context, sessionID string, index int, col store.ExperienceColumn, value, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "profile.updated", events.EventPayload{"field": "experience_areas", "index": index, "column": col.String()},
		func(s *store.Store) error { return s.SetExperienceArea(index, col, value) })
}

// UpdateOrgChart sets the manager boxes or the peer list.
func (e *Engine) SetOrgManagerOfManager(ctx context.Context, sessionID, value, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "orgchart.updated", events.EventPayload{"field": "manager_of_manager"},
		func(s *store.Store) error { return s.SetOrgManagerOfManager(value) })
}

func (e *Engine) SetOrgManager(ctx context.Context, sessionID, value, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "orgchart.updated", events.EventPayload{"field": "manager"},
		func(s *store.Store) error { return s.SetOrgManager(value) })
}

func (e *Engine) SetPeers(ctx context.Context, sessionID string, peers []string, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "orgchart.updated", events.EventPayload{"field": "peers"},
		func(s *store.Store) error { return s.SetPeers(peers) })
}

func (e *Engine) SetSubordinate(ctx context.Context, sessionID string, index int, value, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "orgchart.updated", events.EventPayload{"field": "subordinates", "index": index},
		func(s *store.Store) error { return s.SetSubordinate(index, value) })
}

// UpdateArrayItem sets one cell of a fixed-slot section.
func (e *Engine) UpdateArrayItem(ctx context.Context, sessionID string, section store.Section, index int, col store.Column, value, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "section.updated", events.EventPayload{"section": section.String(), "index": index, "column": col.String()},
		func(s *store.Store) error { return s.UpdateArrayItem(section, index, col, value) })
}

// SetComments updates the comments field; allowed in every status. The
// journal row is the only attribution of who commented and when.
func (e *Engine) SetComments(ctx context.Context, sessionID, value, actorID string) error {
	return e.mutate(ctx, sessionID, actorID, "comments.updated", events.EventPayload{},
		func(s *store.Store) error { return s.SetComments(value) })
}

// Transition moves the workflow status along a defined edge.
func (e *Engine) Transition(ctx context.Context, sessionID string, to domain.WorkflowStatus, actorID string) error {
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}
	from := s.store.Status()
	if err := s.store.Transition(to); err != nil {
		return err
	}
	return e.append(ctx, "status.changed", sessionID, "document", sessionID, actorID, events.EventPayload{"from": from, "to": to})
}

// StartWizard opens a wizard session for a new responsibility. Rejected
// while read-only or at capacity, before any step runs.
func (e *Engine) StartWizard(ctx context.Context, sessionID, actorID string) error {
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}
	if s.wizard != nil {
		return ErrWizardOpen
	}
	if s.store.Status() != domain.StatusDraft {
		return store.ErrReadOnly
	}
	doc := s.store.Document()
	if len(doc.Responsibilities) >= domain.MaxResponsibilities {
		return store.ErrCapacityExceeded
	}
	s.wizard = wizard.New(e.Catalog, doc.Level, len(doc.Responsibilities)+1)
	return e.append(ctx, "wizard.started", sessionID, "wizard", "", actorID, events.EventPayload{"sequence": len(doc.Responsibilities) + 1})
}

// EditResponsibility opens a wizard session pre-seeded from an existing
// record.
func (e *Engine) EditResponsibility(ctx context.Context, sessionID, respID, actorID string) error {
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}
	if s.wizard != nil {
		return ErrWizardOpen
	}
	if s.store.Status() != domain.StatusDraft {
		return store.ErrReadOnly
	}
	doc := s.store.Document()
	for _, r := range doc.Responsibilities {
		if r.ID == respID {
			s.wizard = wizard.Edit(e.Catalog, doc.Level, r)
			return e.append(ctx, "wizard.started", sessionID, "wizard", respID, actorID, events.EventPayload{"editing": true})
		}
	}
	return fmt.Errorf("responsibility %s not found", respID)
}

// Wizard returns the open wizard session.
func (e *Engine) Wizard(sessionID string) (*wizard.Session, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	if s.wizard == nil {
		return nil, ErrNoWizard
	}
	return s.wizard, nil
}

// CancelWizard discards the open wizard session without touching the
// document.
func (e *Engine) CancelWizard(ctx context.Context, sessionID, actorID string) error {
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}
	if s.wizard == nil {
		return ErrNoWizard
	}
	s.wizard = nil
	return e.append(ctx, "wizard.canceled", sessionID, "wizard", "", actorID, events.EventPayload{})
}

// FinishWizard commits the wizard's responsibility into the document and
// closes the wizard session.
func (e *Engine) FinishWizard(ctx context.Context, sessionID, actorID string) (domain.Responsibility, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return domain.Responsibility{}, err
	}
	if s.wizard == nil {
		return domain.Responsibility{}, ErrNoWizard
	}
	r, err := s.wizard.Finish()
	if err != nil {
		return domain.Responsibility{}, err
	}
	evtType := "responsibility.added"
	if s.wizard.Editing() {
		evtType = "responsibility.updated"
		err = s.store.ReplaceResponsibility(r)
	} else {
		err = s.store.AddResponsibility(r)
	}
	if err != nil {
		return domain.Responsibility{}, err
	}
	s.wizard = nil
	if err := e.append(ctx, evtType, sessionID, "responsibility", r.ID, actorID, events.EventPayload{"sequence": r.Sequence}); err != nil {
		return domain.Responsibility{}, err
	}
	return r, nil
}

// CheckConsistency snapshots the document and fires an oracle check. The
// call is not awaited; ConsistencyState reads the latest slot.
func (e *Engine) CheckConsistency(ctx context.Context, sessionID, actorID string) (<-chan struct{}, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := e.append(ctx, "consistency.checked", sessionID, "document", sessionID, actorID, events.EventPayload{}); err != nil {
		return nil, err
	}
	// Detach from the request context: the check outlives the HTTP call.
	return e.Checker.Start(context.WithoutCancel(ctx), s.store.Document()), nil
}

// ConsistencyState reports the checking flag and the latest advisory.
func (e *Engine) ConsistencyState(sessionID string) (checking bool, result string, err error) {
	if _, err := e.session(sessionID); err != nil {
		return false, "", err
	}
	return e.Checker.Checking(), e.Checker.Result(), nil
}
