// Package wizard implements the three-step responsibility redactor as an
// explicit state machine: current step plus accumulated draft fields, with
// step gating on the required field and on the not-recommended-verb
// advisory. A session either commits one complete responsibility or is
// canceled without touching the document.
package wizard

import (
	"errors"

	"github.com/google/uuid"

	"jobline/internal/catalog"
	"jobline/internal/domain"
)

// Step identifies the wizard position.
type Step int

const (
	StepAction Step = 1 // QUÉ
	StepObject Step = 2 // CÓMO
	StepResult Step = 3 // PARA QUÉ
)

// ErrIncompleteStep is returned by Next and Finish when the current step's
// required field is empty or blocked by an advisory. It signals "not
// permitted", not a failure; the session state is unchanged.
var ErrIncompleteStep = errors.New("current step is incomplete")

// Session is one wizard run.
type Session struct {
	catalog *catalog.Catalog
	level   domain.HierarchyLevel
	editing bool

	step     Step
	id       string
	sequence int
	action1  string
	action2  string
	object   string
	result   string
	advisory string
}

// New starts an empty session. sequence is the 1-based position the new
// record will take in the document.
func New(c *catalog.Catalog, level domain.HierarchyLevel, sequence int) *Session {
	return &Session{
		catalog:  c,
		level:    level,
		step:     StepAction,
		id:       uuid.New().String(),
		sequence: sequence,
	}
}

// Edit starts a session pre-seeded from an existing record; identity and
// sequence are preserved on commit.
func Edit(c *catalog.Catalog, level domain.HierarchyLevel, existing domain.Responsibility) *Session {
	s := &Session{
		catalog:  c,
		level:    level,
		editing:  true,
		step:     StepAction,
		id:       existing.ID,
		sequence: existing.Sequence,
		action1:  existing.Action1,
		action2:  existing.Action2,
		object:   existing.Object,
		result:   existing.Result,
	}
	s.classify()
	return s
}

// Step returns the current position.
func (s *Session) Step() Step { return s.step }

// Editing reports whether the session was seeded from an existing record.
func (s *Session) Editing() bool { return s.editing }

// Advisory returns the active not-recommended-verb warning, empty when none.
func (s *Session) Advisory() string { return s.advisory }

// Action returns the current primary verb text.
func (s *Session) Action() string { return s.action1 }

// SetAction records the typed primary verb and re-classifies it against the
// not-recommended set on every change.
func (s *Session) SetAction(text string) {
	s.action1 = text
	s.classify()
}

// SetSecondary records the optional secondary verb.
func (s *Session) SetSecondary(text string) { s.action2 = text }

// SetObject records the CÓMO text.
func (s *Session) SetObject(text string) { s.object = text }

// SetResult records the PARA QUÉ text.
func (s *Session) SetResult(text string) { s.result = text }

func (s *Session) classify() {
	if bad, ok := s.catalog.ClassifyTyped(s.action1); ok {
		s.advisory = "Verbo NO recomendado: " + bad.Clarification
		return
	}
	s.advisory = ""
}

// Suggestions filters the level-scoped recommended verbs by the typed
// action; an empty action browses the full set.
func (s *Session) Suggestions() []domain.Verb {
	return s.catalog.Suggest(s.level, s.action1)
}

// Choose sets the action to a suggestion's exact text, clearing any
// advisory (suggestions are drawn from the recommended set only).
func (s *Session) Choose(v domain.Verb) {
	s.action1 = v.Text
	s.classify()
}

// Next advances one step. The transition out of the action step requires a
// non-empty verb with no active advisory; out of the object step, a
// non-empty object.
func (s *Session) Next() error {
	switch s.step {
	case StepAction:
		if s.action1 == "" || s.advisory != "" {
			return ErrIncompleteStep
		}
		s.step = StepObject
	case StepObject:
		if s.object == "" {
			return ErrIncompleteStep
		}
		s.step = StepResult
	default:
		return ErrIncompleteStep
	}
	return nil
}

// Back moves one step backwards. Entered data is never cleared.
func (s *Session) Back() {
	if s.step > StepAction {
		s.step--
	}
}

// Finish commits the session into a complete Responsibility. Permitted only
// on the result step with a non-empty result.
func (s *Session) Finish() (domain.Responsibility, error) {
	if s.step != StepResult || s.result == "" {
		return domain.Responsibility{}, ErrIncompleteStep
	}
	return domain.Responsibility{
		ID:       s.id,
		Sequence: s.sequence,
		Action1:  s.action1,
		Action2:  s.action2,
		Object:   s.object,
		Result:   s.result,
	}, nil
}
